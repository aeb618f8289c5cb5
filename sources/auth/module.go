package auth

import (
	"context"

	"domainhub/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		NewAuthService,
	),
	fx.Invoke(func(lc fx.Lifecycle, service *AuthService, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return service.SeedDefaultAdmin(ctx, log)
			},
		})
	}),
)
