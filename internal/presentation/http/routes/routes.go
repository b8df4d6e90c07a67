package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rkstores/wholesale-api/internal/config"
	"github.com/rkstores/wholesale-api/internal/presentation/http/handler"
	"github.com/rkstores/wholesale-api/internal/presentation/http/middleware"
	"github.com/rkstores/wholesale-api/pkg/apperror"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Supplier *handler.SupplierHandler
	Contact  *handler.ContactHandler
	Bill     *handler.BillHandler
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	// Health check endpoint; reports the store unavailable when the
	// database no longer answers a ping.
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(apperror.ErrStorageUnavailable.Code, gin.H{
				"status":  "degraded",
				"service": cfg.App.Name,
				"error":   apperror.ErrStorageUnavailable.Message,
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
			BurstSize:         cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerProductRoutes(v1, h)
		registerContactRoutes(v1, h)
		registerBillRoutes(v1, h)
	}

	return router
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.PATCH("/:id/stock", h.Product.AdjustStock)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerContactRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/search", h.Customer.Search)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/:id/last-purchase", h.Customer.LastPurchase)
		customers.POST("", h.Customer.Create)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	suppliers := v1.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.POST("", h.Supplier.Create)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}

	v1.GET("/contacts", h.Contact.List)
}

func registerBillRoutes(v1 *gin.RouterGroup, h *Handlers) {
	bills := v1.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("", h.Bill.Commit)
		bills.PUT("/:id", h.Bill.Update)
		bills.DELETE("/:id", h.Bill.Delete)
	}
}
