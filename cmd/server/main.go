package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"indentflow/internal/config"
	"indentflow/internal/email/noop"
	"indentflow/internal/email/ses"
	"indentflow/internal/handler"
	"indentflow/internal/logger"
	"indentflow/internal/pdf"
	"indentflow/internal/port"
	"indentflow/internal/realtime"
	"indentflow/internal/reconcile"
	"indentflow/internal/repository/postgres"
	"indentflow/internal/router"
	"indentflow/internal/service"
	s3storage "indentflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	handler.SetErrorLogger(zapLogger)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	indentRepo := postgres.NewIndentRepo(db)
	liftRepo := postgres.NewLiftRepo(db)
	poRepo := postgres.NewPurchaseOrderRepo(db)
	seqRepo := postgres.NewSequenceRepo(db)
	auditRepo := postgres.NewAuditRepo(db)
	vendorRepo := postgres.NewVendorRepo(db)
	masterRepo := postgres.NewMasterOptionRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	overdueRepo := postgres.NewOverdueRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	emailSender, err := newEmailSender(cfg.Email, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	hub := realtime.NewHub(cfg.CORS.AllowedOrigins, zapLogger.Named("realtime"))
	renderer := pdf.NewRenderer(&cfg.PO)
	engine := reconcile.NewEngine(reconcile.DefaultRegistry())

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3, zapLogger)
	tenantSvc := service.NewTenantService(tenantRepo, masterRepo, zapLogger)
	userSvc := service.NewUserService(userRepo)
	seqSvc := service.NewSequenceService(seqRepo, indentRepo, poRepo, liftRepo, zapLogger)
	indentSvc := service.NewIndentService(indentRepo, vendorRepo, auditRepo, seqSvc, hub, zapLogger)
	poSvc := service.NewPurchaseOrderService(poRepo, indentRepo, vendorRepo, auditRepo, seqSvc,
		fileSvc, renderer, emailSender, hub, &cfg.PO, zapLogger)
	liftSvc := service.NewLiftService(liftRepo, indentRepo, poRepo, auditRepo, seqSvc, engine, hub, zapLogger)
	vendorSvc := service.NewVendorService(vendorRepo)
	masterSvc := service.NewMasterService(masterRepo)
	statsSvc := service.NewStatsService(statsRepo)
	exportSvc := service.NewExportService(indentRepo, liftRepo, zapLogger)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		File:          handler.NewFileHandler(fileSvc),
		Tenant:        handler.NewTenantHandler(tenantSvc),
		User:          handler.NewUserHandler(userSvc),
		Health:        handler.NewHealthHandler(db, hub.ClientCount),
		Indent:        handler.NewIndentHandler(indentSvc, exportSvc),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poSvc),
		Lift:          handler.NewLiftHandler(liftSvc, exportSvc),
		Vendor:        handler.NewVendorHandler(vendorSvc),
		Master:        handler.NewMasterHandler(masterSvc),
		Stats:         handler.NewStatsHandler(statsSvc),
		WS:            handler.NewWSHandler(hub),
	}

	r := router.Setup(authSvc, handlers, cfg.CORS.AllowedOrigins, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	if cfg.Overdue.Enabled {
		worker := service.NewOverdueWorker(overdueRepo, emailSender, hub, service.OverdueConfig{
			PollInterval:      time.Duration(cfg.Overdue.PollIntervalSecs) * time.Second,
			Threshold:         cfg.Overdue.Threshold,
			BatchSize:         cfg.Overdue.BatchSize,
			EscalationAddress: cfg.Email.EscalationAddress,
		}, zapLogger.Named("overdue"))
		go func() {
			defer close(workerDone)
			worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}
	<-workerDone
	zapLogger.Info("server exited")
	return nil
}

func newEmailSender(cfg config.EmailConfig, logger *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	default:
		return noop.NewNoopSender(logger.Named("email")), nil
	}
}
