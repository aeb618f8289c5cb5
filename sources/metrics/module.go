package metrics

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(
		NewMetricsService,
		NewMetricsServer,
	),

	fx.Invoke(func(server *MetricsServer, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				server.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Stop(ctx)
			},
		})
	}),
)
