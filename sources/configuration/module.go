package configuration

import (
	"domainhub/sources/tracing"

	"go.uber.org/fx"
)

const insecureJwtSecret = "your-secret-key"

var Module = fx.Module("configuration",
	fx.Provide(NewConfig),
	fx.Invoke(func(config *Config, log *tracing.Logger) {
		if config.Auth.JwtSecret == insecureJwtSecret {
			log.W("JWT_SECRET is not set, admin tokens are signed with the built-in key")
		}
	}),
)
