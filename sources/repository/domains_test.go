package repository

import (
	"context"
	"testing"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/persistence/testdb"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDomain(name string) *entities.Domain {
	return &entities.Domain{
		DomainName: name,
		Country:    "US",
		Category:   "Tech",
		Price:      decimal.NewFromInt(100),
		Available:  true,
	}
}

func TestDomainsRepository_CreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	first := newDomain("example.com")
	require.NoError(t, repo.CreateDomain(ctx, log, first))
	assert.NotEmpty(t, first.ID)

	err := repo.CreateDomain(ctx, log, newDomain("example.com"))
	assert.ErrorIs(t, err, ErrDomainExists)
}

func TestDomainsRepository_FalseFlagsArePersisted(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	domain := newDomain("sold.com")
	domain.Available = false
	require.NoError(t, repo.CreateDomain(ctx, log, domain))

	stored, err := repo.GetDomain(ctx, log, domain.ID)
	require.NoError(t, err)
	assert.False(t, stored.Available)
	assert.False(t, stored.Posted)
	assert.Nil(t, stored.PostDateTime)
}

func TestDomainsRepository_SetPostedStampsAndClearsPostTime(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	domain := newDomain("posted.com")
	require.NoError(t, repo.CreateDomain(ctx, log, domain))

	require.NoError(t, repo.SetPosted(ctx, log, domain.ID, true))
	stored, err := repo.GetDomain(ctx, log, domain.ID)
	require.NoError(t, err)
	assert.True(t, stored.Posted)
	require.NotNil(t, stored.PostDateTime)

	require.NoError(t, repo.SetPosted(ctx, log, domain.ID, false))
	stored, err = repo.GetDomain(ctx, log, domain.ID)
	require.NoError(t, err)
	assert.False(t, stored.Posted)
	assert.Nil(t, stored.PostDateTime)
}

func TestDomainsRepository_MissingDocument(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	assert.ErrorIs(t, repo.SetAvailability(ctx, log, "missing", false), ErrDomainNotFound)
	assert.ErrorIs(t, repo.DeleteDomain(ctx, log, "missing"), ErrDomainNotFound)

	_, err := repo.GetDomain(ctx, log, "missing")
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestDomainsRepository_UpdateRejectsRenameOntoOtherListing(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	a := newDomain("a.com")
	b := newDomain("b.com")
	require.NoError(t, repo.CreateDomain(ctx, log, a))
	require.NoError(t, repo.CreateDomain(ctx, log, b))

	name := "a.com"
	_, err := repo.UpdateDomain(ctx, log, b.ID, &DomainPatch{DomainName: &name})
	assert.ErrorIs(t, err, ErrDomainExists)

	price := decimal.RequireFromString("250.50")
	updated, err := repo.UpdateDomain(ctx, log, a.ID, &DomainPatch{DomainName: &name, Price: &price})
	require.NoError(t, err, "renaming onto its own name is allowed")
	assert.True(t, price.Equal(updated.Price))
}

func TestDomainsRepository_ListFiltersAndPublicOrder(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	for _, name := range []string{"alpha.com", "beta.net", "gamma.org"} {
		require.NoError(t, repo.CreateDomain(ctx, log, newDomain(name)))
	}

	found, err := repo.FindDomainsByNames(ctx, log, []string{"beta.net"})
	require.NoError(t, err)
	beta := found["beta.net"]
	require.NotNil(t, beta)
	require.NoError(t, repo.SetAvailability(ctx, log, beta.ID, false))
	require.NoError(t, repo.SetPosted(ctx, log, beta.ID, true))

	sold, err := repo.ListDomains(ctx, log, DomainFilter{Available: platform.Ptr(false)})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, "beta.net", sold[0].DomainName)

	matched, err := repo.ListDomains(ctx, log, DomainFilter{Query: "ALP"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "alpha.com", matched[0].DomainName)

	public, err := repo.ListPublicDomains(ctx, log)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, beta.ID, public[0].ID)

	count, err := repo.CountDomains(ctx, log, DomainFilter{Available: platform.Ptr(true)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestDomainsRepository_FindDomainsByNames(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewDomainsRepository(testdb.New(t))

	require.NoError(t, repo.CreateDomain(ctx, log, newDomain("one.com")))
	require.NoError(t, repo.CreateDomain(ctx, log, newDomain("two.com")))

	found, err := repo.FindDomainsByNames(ctx, log, []string{"one.com", "three.com"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, "one.com")
	assert.NotContains(t, found, "three.com")
}
