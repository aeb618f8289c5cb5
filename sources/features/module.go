package features

import (
	"context"

	"domainhub/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("features",
	fx.Provide(NewFeatureManager),
	fx.Invoke(func(lc fx.Lifecycle, fm *FeatureManager, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				for name, enabled := range fm.Snapshot() {
					log.I("Feature toggle state", tracing.FeatureName, name, "enabled", enabled)
				}
				return nil
			},
			OnStop: fm.OnStop,
		})
	}),
)
