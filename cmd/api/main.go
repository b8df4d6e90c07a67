package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/rkstores/wholesale-api/internal/application/service"
	"github.com/rkstores/wholesale-api/internal/config"
	"github.com/rkstores/wholesale-api/internal/infrastructure/database"
	"github.com/rkstores/wholesale-api/internal/infrastructure/repository"
	"github.com/rkstores/wholesale-api/internal/presentation/http/handler"
	"github.com/rkstores/wholesale-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the embedded database
	db, err := database.NewSQLiteDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	billRepo := repository.NewBillRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo, billRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	contactService := service.NewContactService(customerRepo, supplierRepo)
	billingService := service.NewBillingService(billRepo, productRepo, customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Supplier: handler.NewSupplierHandler(supplierService),
		Contact:  handler.NewContactHandler(contactService),
		Bill:     handler.NewBillHandler(billingService),
	}

	// Setup routes
	router := routes.Setup(handlers, cfg, db)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
