package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/config"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/router"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/storage"
	"github.com/yeremiapane/bakery-app/telemetry"
	"github.com/yeremiapane/bakery-app/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load(utils.InfoLogger)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)
	utils.SetJWTSecret(cfg.JWTSecret)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(cfg.ServiceName, cfg.TracingEnabled, nil)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to init tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	adminService := services.NewAdminService(db, utils.InfoLogger)
	if cfg.AdminPassword != "" {
		if err := adminService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	carts, err := newCartStore(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to init cart store: %v", err)
	}

	uploader, uploadDir, err := newUploader(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to init uploader: %v", err)
	}

	board := hub.New(utils.InfoLogger)
	messenger := &services.Messenger{
		Host:           cfg.WhatsAppHost,
		BusinessNumber: cfg.WhatsAppNumber,
		CountryCode:    cfg.WhatsAppCountryCode,
		StoreName:      cfg.StoreName,
		Instagram:      cfg.Instagram,
		PickupAddress:  cfg.PickupInfo,
		Location:       cfg.Location(),
	}

	r := router.SetupRouter(router.Dependencies{
		Catalog:    services.NewCatalogService(db, utils.InfoLogger, board),
		Orders:     services.NewOrderService(db, utils.InfoLogger, board, messenger),
		Admin:      adminService,
		Carts:      carts,
		Uploader:   uploader,
		Hub:        board,
		StoreName:  cfg.StoreName,
		UploadDir:  uploadDir,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
}

func newCartStore(ctx context.Context, cfg *config.Config) (cart.Store, error) {
	if strings.ToLower(cfg.CartStore) != "redis" {
		return cart.NewMemoryStore(), nil
	}
	client, err := cart.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Infof("Cart sessions stored in Redis with TTL %s", cfg.CartTTL)
	return cart.NewRedisStore(client, cfg.CartTTL), nil
}

// newUploader also returns the directory to serve under /uploads, empty when
// photos live in a bucket.
func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, string, error) {
	if strings.ToLower(cfg.StorageDriver) == "gcs" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, "", err
		}
		utils.InfoLogger.Infof("Product photos stored in bucket %s", cfg.GCSBucket)
		return storage.NewGCSUploader(client, cfg.GCSBucket), "", nil
	}
	return storage.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL), cfg.UploadDir, nil
}
