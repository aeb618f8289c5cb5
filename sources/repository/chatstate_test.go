package repository

import (
	"testing"
	"time"

	"domainhub/sources/persistence"
	"domainhub/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStateRepository_LeadRequestLifecycle(t *testing.T) {
	log := tracing.NewNopLogger()
	repo := NewChatStateRepository(persistence.NewMemoryKeyValue(), &ChatStateConfig{TTL: time.Minute})

	assert.False(t, repo.HasActiveState(log, 1, 2))

	require.NoError(t, repo.InitLeadRequest(log, 1, 2))
	state, err := repo.GetState(log, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, ChatStateAwaitingDomains, state.Status)
	assert.True(t, repo.HasActiveState(log, 1, 2))
	assert.False(t, repo.HasActiveState(log, 1, 3), "state is per user")

	require.NoError(t, repo.ClearState(log, 1, 2))
	assert.False(t, repo.HasActiveState(log, 1, 2))
}
