package main

import (
	"context"
	"time"

	"domainhub/sources/api"
	"domainhub/sources/auth"
	"domainhub/sources/configuration"
	"domainhub/sources/features"
	"domainhub/sources/localization"
	"domainhub/sources/market"
	"domainhub/sources/metrics"
	"domainhub/sources/metrics/collector"
	"domainhub/sources/network"
	"domainhub/sources/persistence"
	"domainhub/sources/platform"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/telegram"
	"domainhub/sources/throttler"
	"domainhub/sources/tracing"

	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	platform.SetAppManifest(version, buildTime, time.Now())

	fx.New(
		tracing.Module,
		configuration.Module,
		persistence.Module,
		repository.Module,
		metrics.Module,
		collector.Module,
		features.Module,
		throttler.Module,
		localization.Module,
		auth.Module,
		realtime.Module,
		market.Module,
		api.Module,
		network.Module,
		telegram.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Domain Hub started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Domain Hub stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
