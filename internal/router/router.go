package router

import (
	"time"

	"martpos/internal/config"
	"martpos/internal/handler"
	"martpos/internal/infra"
	"martpos/internal/middleware"
	"martpos/internal/repository"
	"martpos/internal/service"
	"martpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, barcodeCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	barcodeClient := infra.NewBarcodeClient(cfg.BarcodeServiceURL, barcodeCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	ledgerRepo := repository.NewStockLedgerRepository(db)
	sequenceRepo := repository.NewBatchSequenceRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	clock := service.SystemClock()

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	batchSvc := service.NewBatchService(batchRepo, productRepo, ledgerRepo, sequenceRepo, clock, dispatcher)
	consumptionSvc := service.NewConsumptionService(batchRepo, productRepo, ledgerRepo, clock, dispatcher)
	sweeper := service.NewExpirySweeper(batchRepo, batchSvc, dispatcher)
	productSvc := service.NewProductService(productRepo, barcodeClient, rdb)
	ledgerSvc := service.NewLedgerService(ledgerRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	batchesH := handler.NewBatchesHandler(batchSvc)
	inventoryH := handler.NewInventoryHandler(consumptionSvc, sweeper, productSvc, clock)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)
	priceH := handler.NewPriceCheckHandler(productSvc, rdb)
	suppliersH := handler.NewSuppliersHandler(supplierRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, barcodeCB))

	// Price check — scanner lookup at the till
	r.GET("/v1/price/:barcode", priceH.Check)

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
			products.GET("/:id/batches", batchesH.ListByProduct)
			products.GET("/:id/ledger", ledgerH.ListByProduct)
		}
		v1.GET("/products/barcode/:barcode", productsH.GetByBarcode)

		batches := v1.Group("/batches")
		{
			batches.POST("", batchesH.Create)
			batches.GET("", batchesH.List)
			batches.GET("/:id", batchesH.GetByID)
			batches.PATCH("/:id/quantity", batchesH.AdjustQuantity)
			batches.PATCH("/:id/status", batchesH.SetStatus)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("/consume", inventoryH.Consume)
			inv.POST("/expiry-sweep", inventoryH.ExpirySweep)
			inv.GET("/alerts", inventoryH.Alerts)
		}

		v1.GET("/ledger", ledgerH.List)

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.GetByID)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
