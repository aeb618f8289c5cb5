package market

import (
	"domainhub/sources/realtime"

	"go.uber.org/fx"
)

var Module = fx.Module("market",
	fx.Provide(
		func(hub *realtime.Hub) Notifier { return hub },
		NewMarket,
	),
)
