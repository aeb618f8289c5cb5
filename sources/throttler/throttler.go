package throttler

import (
	"context"
	"fmt"
	"time"

	"domainhub/sources/persistence"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"
)

// Throttler hands out one-shot claims. A key can be claimed once per ttl,
// across every instance sharing the same redis.
type Throttler struct {
	kv     persistence.KeyValue
	config *ThrottlerConfig
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(kv persistence.KeyValue, config *ThrottlerConfig, log *tracing.Logger) *Throttler {
	ctx := context.Background()
	return &Throttler{kv: kv, config: config, log: log, ctx: ctx}
}

// Claim reports whether the caller is the first to claim key within ttl.
// Store failures fail open.
func (x *Throttler) Claim(key string, ttl time.Duration) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	success, err := x.kv.SetNX(ctx, key, fmt.Sprint(time.Now().Unix()), ttl)
	if err != nil {
		x.log.E("Error setting claim key", tracing.InnerError, err, "key", key)
		return true
	}

	return success
}

// Release drops a claim so a failed attempt can be retried.
func (x *Throttler) Release(key string) {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	if err := x.kv.Del(ctx, key); err != nil {
		x.log.E("Error releasing claim key", tracing.InnerError, err, "key", key)
	}
}

// ClaimJoinRequest claims the approval of one user's join request to a chat.
func (x *Throttler) ClaimJoinRequest(chatID int64, userID int64) bool {
	return x.Claim(JoinRequestKey(chatID, userID), x.config.JoinClaimTTL)
}

// ClaimLead claims a lead fingerprint for the dedupe window.
func (x *Throttler) ClaimLead(customerID string, fingerprint string, window time.Duration) bool {
	if window <= 0 {
		return true
	}
	return x.Claim(LeadKey(customerID, fingerprint), window)
}

func JoinRequestKey(chatID int64, userID int64) string {
	return fmt.Sprintf("claim:join:%d:%d", chatID, userID)
}

func LeadKey(customerID string, fingerprint string) string {
	return fmt.Sprintf("claim:lead:%s:%s", customerID, fingerprint)
}
