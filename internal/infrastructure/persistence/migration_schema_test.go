package persistence

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
)

// newMigratedDB provisions the schema from the shipped migration SQL
// instead of AutoMigrate, so column drift between the models and the
// migration files surfaces here.
func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.QueryEscape(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sql, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(sql), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		require.NoError(t, db.Exec(stmt).Error, stmt)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMigrationSchemaMatchesModels(t *testing.T) {
	db := newMigratedDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "buyer@example.com", account.RoleBuyer)
	vendor := seedUser(t, db, "vendor@example.com", account.RoleVendor)
	store := seedStore(t, db, vendor.ID, "Celuvia Prints")
	product := seedProduct(t, db, store.ID, "Sunset Print", "12.50")

	t.Run("user round trips with roles", func(t *testing.T) {
		found, err := NewGormUserRepository(db).FindByEmail(ctx, "buyer@example.com")
		require.NoError(t, err)
		assert.Equal(t, buyer.ID, found.ID)
		assert.True(t, found.IsBuyer())
	})

	t.Run("category create", func(t *testing.T) {
		category, err := NewGormCategoryRepository(db).GetOrCreateByName(ctx, "Landscapes")
		require.NoError(t, err)
		assert.Equal(t, "landscapes", category.Slug)
	})

	t.Run("product loads with sizes", func(t *testing.T) {
		found, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Sizes)
		require.NotNil(t, found.Sizes.SmallPrice)
		assert.True(t, found.Sizes.SmallPrice.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("address and reset token create", func(t *testing.T) {
		address, err := account.NewAddress(buyer.ID, "Ada Lovelace", "1 High St", "", "", "London", "N1 1AA", "")
		require.NoError(t, err)
		require.NoError(t, NewGormAddressRepository(db).Save(ctx, address))

		token, _, err := account.NewResetToken(buyer.ID, time.Hour)
		require.NoError(t, err)
		require.NoError(t, NewGormResetTokenRepository(db).Save(ctx, token))
	})

	t.Run("review create", func(t *testing.T) {
		review, err := catalog.NewReview(product.ID, buyer.ID, 5, "Lovely", true)
		require.NoError(t, err)
		require.NoError(t, NewGormReviewRepository(db).Save(ctx, review))
	})

	t.Run("order round trips with items", func(t *testing.T) {
		repo := NewGormOrderRepository(db)
		order, err := ordering.NewOrder(buyer.ID, "cs_migration_1")
		require.NoError(t, err)
		require.NoError(t, order.AddItem(ordering.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			StoreID:     store.ID,
			Size:        catalog.SizeSmall,
			Frame:       catalog.FrameBlack,
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("12.50"),
		}))
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByCheckoutSessionID(ctx, "cs_migration_1")
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Total.Equal(decimal.RequireFromString("25.00")))

		_, err = repo.FindByCheckoutSessionID(ctx, "cs_missing")
		assert.Error(t, err)
	})

	t.Run("unique indexes came through", func(t *testing.T) {
		dup, err := account.NewUser("buyer@example.com", "Dup", "User", "sup3rsecret")
		require.NoError(t, err)
		assert.Error(t, NewGormUserRepository(db).Save(ctx, dup))
	})
}
