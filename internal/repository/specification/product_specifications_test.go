package specification

import (
	"testing"

	"aquatech-web/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB never connects; it only renders SQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=aquatech dbname=aquatech sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func render(db *gorm.DB, specs ...Specification) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&model.Product{})
		for _, s := range specs {
			tx = s.Apply(tx)
		}
		var out []model.Product
		return tx.Find(&out)
	})
}

func TestProductSpecificationsRenderSQL(t *testing.T) {
	db := dryRunDB(t)

	sql := render(db,
		PublishedOnly{},
		ProductSearchQuery{Query: " pump "},
		ByCategory{Category: "Pumps"},
		OrderBy{Field: "name"},
		Page(3, 10),
	)

	assert.Contains(t, sql, "published = true")
	assert.Contains(t, sql, "name ILIKE '%pump%' OR summary ILIKE '%pump%'")
	assert.Contains(t, sql, "LOWER(category) = LOWER('Pumps')")
	assert.Contains(t, sql, "ORDER BY name ASC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.Contains(t, sql, `"products"."deleted_at" IS NULL`)
}

func TestByModelIdAndDescendingOrder(t *testing.T) {
	sql := render(dryRunDB(t), ByModelId{ModelId: "reef-pump-x2"}, OrderBy{Field: "created_at", Desc: true})

	assert.Contains(t, sql, "model_id = 'reef-pump-x2'")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
}

func TestPageClampsToFirstPage(t *testing.T) {
	assert.Equal(t, Pagination{Limit: 20, Offset: 0}, Page(0, 20))
	assert.Equal(t, Pagination{Limit: 20, Offset: 20}, Page(2, 20))
}
