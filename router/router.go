package router

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/controllers"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/middlewares"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/storage"
	"github.com/yeremiapane/bakery-app/utils"
)

// Dependencies is everything the HTTP layer needs. UploadDir is served under
// /uploads when set.
type Dependencies struct {
	Catalog    *services.CatalogService
	Orders     *services.OrderService
	Admin      *services.AdminService
	Carts      cart.Store
	Uploader   storage.Uploader
	Hub        *hub.Hub
	StoreName  string
	UploadDir  string
	CORSOrigin string
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))

	if deps.UploadDir != "" {
		// only image files are served from the upload directory
		r.Use(func(c *gin.Context) {
			path := c.Request.URL.Path
			if strings.HasPrefix(path, "/uploads/") && !imageExtensions[strings.ToLower(filepath.Ext(path))] {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		})
		r.Static("/uploads", deps.UploadDir)
	}

	catalogCtrl := controllers.NewCategoryController(deps.Catalog)
	productCtrl := controllers.NewProductController(deps.Catalog)
	menuCtrl := controllers.NewMenuController(deps.Catalog, deps.StoreName)
	cartCtrl := controllers.NewCartController(deps.Carts, deps.Catalog)
	orderCtrl := controllers.NewOrderController(deps.Orders, deps.Carts)
	userCtrl := controllers.NewUserController(deps.Admin)
	uploadCtrl := controllers.NewUploadController(deps.Uploader)
	notificationCtrl := controllers.NewNotificationController(deps.Orders)
	adminCtrl := controllers.NewAdminController(deps.Orders)
	wsCtrl := controllers.NewWSController(deps.Hub, deps.CORSOrigin)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/cardapio")
	})
	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	// Public menu
	r.GET("/cardapio", menuCtrl.GetMenu)
	r.GET("/categories", catalogCtrl.GetActiveCategories)
	r.GET("/products", productCtrl.GetAvailableProducts)

	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartCtrl.GetCart)
		cartGroup.POST("/items", cartCtrl.AddItem)
		cartGroup.DELETE("/items/:product_id", cartCtrl.RemoveItem)
		cartGroup.DELETE("", cartCtrl.ClearCart)
	}

	r.POST("/orders", orderCtrl.Checkout)

	// Admin panel
	r.POST("/admin/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/logout", userCtrl.Logout)

		admin.GET("/categories", catalogCtrl.GetAllCategories)
		admin.POST("/categories", catalogCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", catalogCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", catalogCtrl.DeleteCategory)

		admin.GET("/products", productCtrl.GetAllProducts)
		admin.POST("/products", productCtrl.CreateProduct)
		admin.GET("/products/:product_id", productCtrl.GetProductByID)
		admin.PATCH("/products/:product_id", productCtrl.UpdateProduct)
		admin.DELETE("/products/:product_id", productCtrl.DeleteProduct)

		admin.POST("/uploads", uploadCtrl.UploadImage)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/ws", wsCtrl.OrderBoard)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, errors.New("not found"))
	})

	return r
}
