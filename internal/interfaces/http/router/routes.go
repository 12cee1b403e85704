package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopapi/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of the shop API
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Brand    *handler.BrandHandler
	Cart     *handler.CartHandler
	Wishlist *handler.WishlistHandler
	Order    *handler.OrderHandler
	Audit    *handler.AuditHandler
	System   *handler.SystemHandler
}

// Guards are the access-control middleware applied per route.
// AuthRateLimit may be nil.
type Guards struct {
	Authenticate  gin.HandlerFunc
	RequireAdmin  gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
}

// ShopGroups declares every route of the shop API. Catalog reads are
// public; catalog writes and everything under /admin need the admin role.
func ShopGroups(h Handlers, g Guards) []*DomainGroup {
	authn := g.Authenticate
	admin := []gin.HandlerFunc{g.Authenticate, g.RequireAdmin}

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", g.AuthRateLimit, h.Auth.Register)
	auth.POST("/login", g.AuthRateLimit, h.Auth.Login)
	auth.POST("/refresh", g.AuthRateLimit, h.Auth.Refresh)
	auth.POST("/logout", authn, h.Auth.Logout)
	auth.GET("/me", authn, h.Auth.Me)

	users := NewDomainGroup("users", "/users").Use(authn)
	users.GET("/me", h.User.GetProfile)
	users.PUT("/me", h.User.UpdateProfile)
	users.PUT("/me/password", h.User.ChangePassword)

	products := NewDomainGroup("products", "/products")
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.Get)
	products.GET("/:id/reviews", h.Product.ListReviews)
	products.POST("/:id/reviews", authn, h.Product.AddReview)
	products.POST("", with(admin, h.Product.Create)...)
	products.PUT("/:id", with(admin, h.Product.Update)...)
	products.PUT("/:id/variants", with(admin, h.Product.SetVariants)...)
	products.POST("/:id/images", with(admin, h.Product.UploadImage)...)
	products.DELETE("/:id", with(admin, h.Product.Delete)...)

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.GET("/tree", h.Category.Tree)
	categories.GET("/:id", h.Category.Get)
	categories.POST("", with(admin, h.Category.Create)...)
	categories.PUT("/:id", with(admin, h.Category.Update)...)
	categories.DELETE("/:id", with(admin, h.Category.Delete)...)

	brands := NewDomainGroup("brands", "/brands")
	brands.GET("", h.Brand.List)
	brands.GET("/:id", h.Brand.Get)
	brands.POST("", with(admin, h.Brand.Create)...)
	brands.PUT("/:id", with(admin, h.Brand.Update)...)
	brands.DELETE("/:id", with(admin, h.Brand.Delete)...)

	cart := NewDomainGroup("cart", "/cart").Use(authn)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:product_id", h.Cart.RemoveItem)

	wishlist := NewDomainGroup("wishlist", "/wishlist").Use(authn)
	wishlist.GET("", h.Wishlist.Get)
	wishlist.POST("", h.Wishlist.Add)
	wishlist.DELETE("", h.Wishlist.Clear)
	wishlist.DELETE("/:product_id", h.Wishlist.Remove)

	orders := NewDomainGroup("orders", "/orders").Use(authn)
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.ListMine)
	orders.GET("/:id", h.Order.Get)

	adminGroup := NewDomainGroup("admin", "/admin").Use(admin...)
	adminUsers := adminGroup.Group("admin-users", "/users")
	adminUsers.GET("", h.User.List)
	adminUsers.GET("/:id", h.User.Get)
	adminUsers.PUT("/:id/role", h.User.ChangeRole)
	adminUsers.POST("/:id/unlock", h.User.Unlock)
	adminUsers.DELETE("/:id", h.User.Delete)
	adminOrders := adminGroup.Group("admin-orders", "/orders")
	adminOrders.GET("", h.Order.ListAll)
	adminOrders.PUT("/:id/status", h.Order.UpdateStatus)
	adminOrders.PUT("/:id/payment-status", h.Order.UpdatePaymentStatus)
	adminOrders.DELETE("/:id", h.Order.Delete)
	adminGroup.GET("/audit-logs", h.Audit.List)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	return []*DomainGroup{auth, users, products, categories, brands, cart, wishlist, orders, adminGroup, system}
}

// RegisterShopRoutes mounts the shop API on r
func RegisterShopRoutes(r *Router, h Handlers, g Guards) {
	for _, group := range ShopGroups(h, g) {
		r.Register(group)
	}
}

func with(chain []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, final)
}
