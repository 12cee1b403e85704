package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/infrastructure/auth"
	"github.com/shopapi/backend/internal/infrastructure/config"
	"github.com/shopapi/backend/internal/interfaces/http/handler"
	"github.com/shopapi/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouter_SetupMountsGroups(t *testing.T) {
	engine := gin.New()
	products := NewDomainGroup("products", "/products").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	orders := NewDomainGroup("orders", "/orders").
		POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	NewRouter(engine).Register(products).Register(orders).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, "list", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/products/abc", "")
	assert.Equal(t, "abc", w.Body.String())

	w = serve(engine, http.MethodPost, "/api/v1/orders", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(engine, http.MethodDelete, "/api/v1/orders", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	admin := NewDomainGroup("admin", "/admin").Use(func(c *gin.Context) {
		c.Header("X-Admin", "1")
		c.Next()
	}, nil)
	admin.Group("admin-orders", "/orders").
		PATCH("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	admin.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodPatch, "/api/v1/admin/orders/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Admin"))
}

func TestDomainGroup_NilRouteHandlersSkipped(t *testing.T) {
	engine := gin.New()
	var optional gin.HandlerFunc
	NewDomainGroup("auth", "/auth").
		POST("/login", optional, func(c *gin.Context) { c.Status(http.StatusOK) }).
		RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("admin", "/admin")
	g.GET("/audit-logs", func(c *gin.Context) {})
	g.Group("admin-users", "/users").DELETE("/:id", func(c *gin.Context) {})

	assert.Equal(t, "admin", g.Name())
	assert.Equal(t, "/admin", g.Prefix())
	assert.Equal(t, []RouteInfo{
		{Group: "admin", Method: http.MethodGet, Path: "/api/v1/admin/audit-logs"},
		{Group: "admin-users", Method: http.MethodDelete, Path: "/api/v1/admin/users/:id"},
	}, g.Routes("/api/v1"))
}

// shopEngine wires ShopGroups with real guards. Only the system handler has
// dependencies; the remaining handlers are zero values so any request that
// gets past the guards to them would panic and fail the test.
func shopEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-test",
	})

	engine := gin.New()
	RegisterShopRoutes(NewRouter(engine), Handlers{
		Auth:     &handler.AuthHandler{},
		User:     &handler.UserHandler{},
		Product:  &handler.ProductHandler{},
		Category: &handler.CategoryHandler{},
		Brand:    &handler.BrandHandler{},
		Cart:     &handler.CartHandler{},
		Wishlist: &handler.WishlistHandler{},
		Order:    &handler.OrderHandler{},
		Audit:    &handler.AuditHandler{},
		System:   handler.NewSystemHandler("shop", "test", nil),
	}, Guards{
		Authenticate: middleware.JWTAuthMiddleware(jwtService),
		RequireAdmin: middleware.RequireAdmin(),
	})
	return engine, jwtService
}

func TestShopRoutes_Guards(t *testing.T) {
	engine, jwtService := shopEngine(t)

	customer, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(), Username: "alice", Role: "customer",
	})
	require.NoError(t, err)

	id := uuid.NewString()
	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"cart requires login", http.MethodGet, "/api/v1/cart", "", http.StatusUnauthorized},
		{"orders require login", http.MethodPost, "/api/v1/orders", "", http.StatusUnauthorized},
		{"logout requires login", http.MethodPost, "/api/v1/auth/logout", "", http.StatusUnauthorized},
		{"review requires login", http.MethodPost, "/api/v1/products/" + id + "/reviews", "", http.StatusUnauthorized},
		{"product create needs admin", http.MethodPost, "/api/v1/products", customer.AccessToken, http.StatusForbidden},
		{"image upload needs admin", http.MethodPost, "/api/v1/products/" + id + "/images", customer.AccessToken, http.StatusForbidden},
		{"category delete needs admin", http.MethodDelete, "/api/v1/categories/" + id, customer.AccessToken, http.StatusForbidden},
		{"brand update needs admin", http.MethodPut, "/api/v1/brands/" + id, customer.AccessToken, http.StatusForbidden},
		{"admin users", http.MethodGet, "/api/v1/admin/users", customer.AccessToken, http.StatusForbidden},
		{"admin order status", http.MethodPut, "/api/v1/admin/orders/" + id + "/status", customer.AccessToken, http.StatusForbidden},
		{"audit log", http.MethodGet, "/api/v1/admin/audit-logs", customer.AccessToken, http.StatusForbidden},
		{"admin without token", http.MethodGet, "/api/v1/admin/audit-logs", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestShopRoutes_PublicSystemEndpoints(t *testing.T) {
	engine, _ := shopEngine(t)

	w := serve(engine, http.MethodGet, "/api/v1/system/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/system/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShopGroups_DeclaresCatalogAndAdminRoutes(t *testing.T) {
	h := Handlers{
		Auth: &handler.AuthHandler{}, User: &handler.UserHandler{}, Product: &handler.ProductHandler{},
		Category: &handler.CategoryHandler{}, Brand: &handler.BrandHandler{}, Cart: &handler.CartHandler{},
		Wishlist: &handler.WishlistHandler{}, Order: &handler.OrderHandler{}, Audit: &handler.AuditHandler{},
		System: handler.NewSystemHandler("shop", "test", nil),
	}
	noop := func(c *gin.Context) { c.Next() }

	declared := make(map[string]bool)
	for _, g := range ShopGroups(h, Guards{Authenticate: noop, RequireAdmin: noop}) {
		for _, route := range g.Routes("/api/v1") {
			declared[route.Method+" "+route.Path] = true
		}
	}

	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/refresh",
		"GET /api/v1/products",
		"PUT /api/v1/products/:id/variants",
		"GET /api/v1/categories/tree",
		"DELETE /api/v1/cart/items/:product_id",
		"DELETE /api/v1/wishlist/:product_id",
		"PUT /api/v1/admin/orders/:id/payment-status",
		"POST /api/v1/admin/users/:id/unlock",
		"GET /api/v1/admin/audit-logs",
	} {
		assert.True(t, declared[want], "missing route %s", want)
	}
}
