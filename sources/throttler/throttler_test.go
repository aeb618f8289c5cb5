package throttler

import (
	"testing"
	"time"

	"domainhub/sources/persistence"
	"domainhub/sources/tracing"

	"github.com/stretchr/testify/assert"
)

func newThrottler() *Throttler {
	return NewThrottler(persistence.NewMemoryKeyValue(), &ThrottlerConfig{JoinClaimTTL: time.Hour}, tracing.NewNopLogger())
}

func TestClaimIsOneShot(t *testing.T) {
	x := newThrottler()

	assert.True(t, x.ClaimJoinRequest(-100, 42))
	assert.False(t, x.ClaimJoinRequest(-100, 42))
	assert.True(t, x.ClaimJoinRequest(-100, 43))
}

func TestReleaseAllowsReclaim(t *testing.T) {
	x := newThrottler()

	assert.True(t, x.ClaimLead("42", "a.com", time.Minute))
	assert.False(t, x.ClaimLead("42", "a.com", time.Minute))

	x.Release(LeadKey("42", "a.com"))
	assert.True(t, x.ClaimLead("42", "a.com", time.Minute))
}

func TestClaimLeadWithoutWindow(t *testing.T) {
	x := newThrottler()

	assert.True(t, x.ClaimLead("42", "a.com", 0))
	assert.True(t, x.ClaimLead("42", "a.com", 0))
}
