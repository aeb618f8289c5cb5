package features

import (
	"testing"

	"domainhub/sources/configuration"
	"domainhub/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureManagerWithoutUnleash(t *testing.T) {
	fm, err := NewFeatureManager(configuration.Defaults(), tracing.NewNopLogger())
	require.NoError(t, err)

	assert.True(t, fm.IsEnabledDefault(FeatureMembershipGate, true))
	assert.False(t, fm.IsEnabledDefault(FeatureJoinAutoApprove, false))
	assert.False(t, fm.IsEnabled(FeatureLeadRelay))
	assert.NoError(t, fm.Close())
}

func TestStaticFeatureManager(t *testing.T) {
	fm := NewStaticFeatureManager(tracing.NewNopLogger(), map[string]bool{FeatureMembershipGate: false})

	assert.False(t, fm.IsEnabledDefault(FeatureMembershipGate, true))
	assert.True(t, fm.IsEnabledDefault(FeatureLeadRelay, true))
}

func TestSnapshotUsesDefaultsAndOverrides(t *testing.T) {
	fm := NewStaticFeatureManager(tracing.NewNopLogger(), map[string]bool{FeatureLeadRelay: false})

	snapshot := fm.Snapshot()
	assert.Len(t, snapshot, len(Defaults))
	assert.False(t, snapshot[FeatureLeadRelay])
	assert.True(t, snapshot[FeatureMembershipGate])
	assert.True(t, snapshot[FeatureImportSpreadsheet])
}

func TestEnabledUsesKnownDefaults(t *testing.T) {
	fm := NewStaticFeatureManager(tracing.NewNopLogger(), nil)

	assert.True(t, fm.Enabled(FeatureJoinAutoApprove))
	assert.False(t, fm.Enabled("unknown/flag"))
}
