package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"hopefoundation_backend/internals/configs"
	database "hopefoundation_backend/internals/databases"
	allocService "hopefoundation_backend/internals/features/finance/allocations/service"
	auditService "hopefoundation_backend/internals/features/finance/audit/service"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	paymentService "hopefoundation_backend/internals/features/finance/payments/service"
	reconService "hopefoundation_backend/internals/features/finance/reconciliation/service"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
	helper "hopefoundation_backend/internals/helpers"
	middlewares "hopefoundation_backend/internals/middlewares"
	routes "hopefoundation_backend/internals/route"
	routeDetails "hopefoundation_backend/internals/route/details"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FromDomainError,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR proxy jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing
	// HTTP timeout guard (selaras dengan statement_timeout di DB)
	app.Use(middlewares.RequestContext(5 * time.Second))

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrate
	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}

	// ✅ Services
	staff := staffService.NewStaffService(database.DB, configs.JWTSecret)

	ledger := ledgerService.NewLedgerService(database.DB)
	ledger.Staff = staff
	if err := ledger.EnsureBalance(context.Background()); err != nil {
		log.Fatalf("❌ Gagal menyiapkan saldo ledger: %v", err)
	}
	alloc := allocService.NewAllocationService(database.DB)

	var cache reconService.SummaryCache
	if rdb := configs.ConnectRedis(); rdb != nil {
		cache = reconService.NewRedisSummaryCache(rdb, configs.SummaryCacheTTL)
	}
	recon := reconService.NewReconciliationService(ledger, alloc, cache)
	ledger.OnChange = recon
	alloc.OnChange = recon

	var archive auditService.Archiver
	if configs.ReportBucket != "" {
		a, err := auditService.NewS3Archiver(context.Background(), configs.ReportBucket, configs.GetEnv("AWS_REGION", "ap-south-1"))
		if err != nil {
			log.Printf("[WARN] arsip S3 nonaktif: %v", err)
		} else {
			archive = a
		}
	}
	audit := auditService.NewAuditService(ledger, archive)

	// ✅ MIDTRANS
	var gateway paymentService.Gateway
	if configs.MidtransKey != "" {
		gateway = paymentService.NewMidtransGateway(configs.MidtransKey, configs.MidtransProd)
	}
	payments := paymentService.NewPaymentService(database.DB, ledger, gateway)

	// ✅ Routes
	routes.SetupRoutes(app, staff, &routeDetails.FinanceServices{
		Ledger:   ledger,
		Alloc:    alloc,
		Recon:    recon,
		Audit:    audit,
		Payments: payments,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if configs.RDB != nil {
		_ = configs.RDB.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
