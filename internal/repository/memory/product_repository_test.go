package memory

import (
	"context"
	"testing"

	"aquatech-web/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *ProductRepository {
	t.Helper()
	repo := NewProductRepository()
	ctx := context.Background()
	for _, p := range []*entity.Product{
		{ModelId: "reef-pump-x2", Name: "Reef Pump X2", Category: "Pumps", Summary: "Quiet circulation pump", Published: true},
		{ModelId: "canister-400", Name: "Canister Filter 400", Category: "Filters", Summary: "Three stage filtration", Published: true},
		{ModelId: "uv-9w", Name: "UV Sterilizer 9W", Category: "Filters", Summary: "Clears green water", Published: true},
		{ModelId: "prototype", Name: "Prototype Doser", Category: "Dosing", Published: false},
	} {
		require.NoError(t, repo.Upsert(ctx, p))
	}
	return repo
}

func TestProductSearch(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	all, total, err := repo.Search(ctx, entity.ProductQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "Canister Filter 400", all[0].Name)

	filters, total, err := repo.Search(ctx, entity.ProductQuery{Category: "filters", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, filters, 2)

	hits, _, err := repo.Search(ctx, entity.ProductQuery{Search: "GREEN", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "uv-9w", hits[0].ModelId)

	page2, total, err := repo.Search(ctx, entity.ProductQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page2, 1)

	beyond, _, err := repo.Search(ctx, entity.ProductQuery{Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestProductFindByModelIdHidesUnpublished(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	p, err := repo.FindByModelId(ctx, "reef-pump-x2")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Reef Pump X2", p.Name)

	p, err = repo.FindByModelId(ctx, "prototype")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.FindByModelId(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductUpsertKeepsIdentity(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	before, _ := repo.FindByModelId(ctx, "reef-pump-x2")
	require.NoError(t, repo.Upsert(ctx, &entity.Product{ModelId: "reef-pump-x2", Name: "Reef Pump X3", Category: "Pumps", Published: true}))
	after, _ := repo.FindByModelId(ctx, "reef-pump-x2")

	assert.Equal(t, before.Id, after.Id)
	assert.Equal(t, "Reef Pump X3", after.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}

func TestProductCategories(t *testing.T) {
	repo := seeded(t)
	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Filters", "Pumps"}, categories)
}

func TestProductReturnsCopies(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	p, _ := repo.FindByModelId(ctx, "reef-pump-x2")
	p.Name = "mutated"

	again, _ := repo.FindByModelId(ctx, "reef-pump-x2")
	assert.Equal(t, "Reef Pump X2", again.Name)
}
