package collector

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("metrics_collector",
	fx.Provide(NewStatsCollector),
	fx.Invoke(func(lc fx.Lifecycle, collector *StatsCollector) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				collector.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				collector.Stop()
				return nil
			},
		})
	}),
)
