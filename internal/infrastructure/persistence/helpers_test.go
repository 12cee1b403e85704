package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopapi/backend/internal/domain/audit"
	"github.com/shopapi/backend/internal/domain/cart"
	"github.com/shopapi/backend/internal/domain/catalog"
	"github.com/shopapi/backend/internal/domain/trade"
	"github.com/shopapi/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.DB.AutoMigrate(
		&models.UserModel{},
		&catalog.Category{},
		&catalog.Brand{},
		&catalog.Product{},
		&catalog.SizeVariant{},
		&catalog.ColorVariant{},
		&catalog.Review{},
		&cart.Cart{},
		&cart.CartItem{},
		&cart.Wishlist{},
		&cart.WishlistItem{},
		&trade.Order{},
		&trade.OrderItem{},
		&audit.Entry{},
	))
	return db.DB
}
