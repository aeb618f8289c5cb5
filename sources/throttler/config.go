package throttler

import (
	"time"

	"domainhub/sources/platform"
)

type ThrottlerConfig struct {
	JoinClaimTTL time.Duration
}

func NewThrottlerConfig() *ThrottlerConfig {
	return &ThrottlerConfig{JoinClaimTTL: platform.GetAsDuration("JOIN_CLAIM_TTL", "24h")}
}
