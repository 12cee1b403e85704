package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/shopapi/backend/internal/application/audit"
	cartapp "github.com/shopapi/backend/internal/application/cart"
	catalogapp "github.com/shopapi/backend/internal/application/catalog"
	identityapp "github.com/shopapi/backend/internal/application/identity"
	tradeapp "github.com/shopapi/backend/internal/application/trade"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/infrastructure/auth"
	"github.com/shopapi/backend/internal/infrastructure/config"
	"github.com/shopapi/backend/internal/infrastructure/persistence"
	"github.com/shopapi/backend/internal/infrastructure/persistence/models"
	"github.com/shopapi/backend/internal/infrastructure/storage"
	"github.com/shopapi/backend/internal/interfaces/http/handler"
	"github.com/shopapi/backend/internal/interfaces/http/middleware"
	"github.com/shopapi/backend/internal/interfaces/http/router"
	"github.com/shopapi/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testMaxUploadSize = 1 << 20

// shopApp is the full API over an in-memory database
type shopApp struct {
	t         *testing.T
	db        *gorm.DB
	engine    *gin.Engine
	blacklist *auth.InMemoryTokenBlacklist
	imageDir  string
}

func newShopApp(t *testing.T) *shopApp {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	log := zaptest.NewLogger(t)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		RefreshSecret:          "handler-test-refresh-secret-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	imageDir := t.TempDir()
	images, err := storage.NewLocalImageStorage(imageDir, "/uploads")
	require.NoError(t, err)

	userRepo := persistence.NewGormUserRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	brandRepo := persistence.NewGormBrandRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	wishlistRepo := persistence.NewGormWishlistRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	auditRepo := persistence.NewGormAuditRepository(db)
	identityTx := persistence.NewGormIdentityTransactionScope(db)

	authService := identityapp.NewAuthService(identityTx, userRepo, jwtService, blacklist, identity.DefaultLockoutPolicy(), log)
	userService := identityapp.NewUserService(identityTx, userRepo, blacklist, time.Hour, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, reviewRepo, images, log)
	orderService := tradeapp.NewOrderService(persistence.NewGormTradeTransactionScope(db), orderRepo, cartRepo, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.RegisterShopRoutes(router.NewRouter(engine), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService, testMaxUploadSize),
		Category: handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo, productRepo)),
		Brand:    handler.NewBrandHandler(catalogapp.NewBrandService(brandRepo, productRepo)),
		Cart:     handler.NewCartHandler(cartapp.NewCartService(cartRepo, productRepo, log)),
		Wishlist: handler.NewWishlistHandler(cartapp.NewWishlistService(wishlistRepo, productRepo)),
		Order:    handler.NewOrderHandler(orderService),
		Audit:    handler.NewAuditHandler(auditapp.NewService(auditRepo, log)),
		System:   handler.NewSystemHandler("shop", "test", nil),
	}, router.Guards{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		}),
		RequireAdmin: middleware.RequireAdmin(),
	})

	return &shopApp{t: t, db: db, engine: engine, blacklist: blacklist, imageDir: imageDir}
}

// do sends a JSON request, authenticated when token is set
func (a *shopApp) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return testutil.DoJSON(a.t, a.engine, method, path, body, headers)
}

// register creates a customer account and returns its tokens
func (a *shopApp) register(username string) identityapp.AuthResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", identityapp.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Name:     username,
	}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	resp, _ := testutil.DecodeResponse[identityapp.AuthResponse](a.t, w)
	return resp
}

func (a *shopApp) login(username, password string) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(http.MethodPost, "/api/v1/auth/login", identityapp.LoginRequest{
		Login:    username,
		Password: password,
	}, "")
}

// registerAdmin registers a user, promotes it in the database and logs in again
func (a *shopApp) registerAdmin(username string) identityapp.AuthResponse {
	a.t.Helper()
	a.register(username)
	require.NoError(a.t, a.db.Model(&models.UserModel{}).
		Where("username = ?", username).
		Update("role", identity.RoleAdmin).Error)

	w := a.login(username, "password123")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	resp, _ := testutil.DecodeResponse[identityapp.AuthResponse](a.t, w)
	require.Equal(a.t, "admin", resp.User.Role)
	return resp
}

// createProduct creates a product as admin
func (a *shopApp) createProduct(adminToken string, req map[string]interface{}) catalogapp.ProductResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/products", req, adminToken)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	resp, _ := testutil.DecodeResponse[catalogapp.ProductResponse](a.t, w)
	return resp
}

func productPath(id uuid.UUID, suffix string) string {
	return "/api/v1/products/" + id.String() + suffix
}
