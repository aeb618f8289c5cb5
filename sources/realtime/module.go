package realtime

import (
	"context"

	"domainhub/sources/auth"

	"go.uber.org/fx"
)

var Module = fx.Module("realtime",
	fx.Provide(
		func(service *auth.AuthService) TokenVerifier { return service },
		NewHub,
		NewRelay,
	),
	fx.Invoke(func(lc fx.Lifecycle, relay *Relay) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				relay.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				relay.Stop()
				return nil
			},
		})
	}),
)
