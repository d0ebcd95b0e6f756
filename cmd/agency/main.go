package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/admin"
	"github.com/yessbangal/agency-web/internal/app"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/bookings"
	"github.com/yessbangal/agency-web/internal/careers"
	"github.com/yessbangal/agency-web/internal/catalog"
	"github.com/yessbangal/agency-web/internal/dashboard"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/observability"
	"github.com/yessbangal/agency-web/internal/orders"
	"github.com/yessbangal/agency-web/internal/platform/cache"
	"github.com/yessbangal/agency-web/internal/platform/db"
	"github.com/yessbangal/agency-web/internal/platform/storage"
	"github.com/yessbangal/agency-web/internal/roles"
	"github.com/yessbangal/agency-web/internal/settings"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/users"
	"github.com/yessbangal/agency-web/internal/verify"
	"github.com/yessbangal/agency-web/internal/view"
	"github.com/yessbangal/agency-web/jobs"
	"github.com/yessbangal/agency-web/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.MigrationsAuto {
		if err := db.Migrate(ctx, dbpool, migrations.FS, logger); err != nil {
			logger.Error("apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	objects, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		UseSSL:    cfg.MinIOUseSSL,
		Bucket:    cfg.ResumeBucket,
	}, logger)
	if err != nil {
		logger.Error("init object storage", slog.Any("error", err))
		os.Exit(1)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		logger.Warn("ensure resume bucket", slog.Any("error", err))
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	siteSettings := settings.NewService(settings.NewPGStore(dbpool), redisClient, cfg.SettingsCacheTTL, logger)
	renderer := &view.Renderer{Engine: templates, CSRF: csrfManager, Logger: logger, Site: siteSettings}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, renderer, sessionManager)

	rolesRepo := roles.NewRepository(dbpool)
	verifyService := verify.NewService(tokens, authService, rolesRepo)
	var verifier access.Verifier = verifyService
	if cfg.RemoteVerification() {
		verifier = verify.NewClient(cfg.VerifyAdminURL, cfg.VerifyAdminTimeout)
	}
	guard := access.Guard{
		Resolver: access.NewResolver(access.ResolverConfig{
			Verifier: verifier,
			Roles:    rolesRepo,
			Logger:   logger,
			Recorder: metrics,
		}),
		Sessions: auth.IdentityFromRequest,
		Logger:   logger,
		Expire:   auth.ExpireIdentity,
	}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, renderer)
	rolesHandler := roles.NewHandler(logger, roles.NewService(rolesRepo, auditLogger, logger), renderer, usersService, "/admin/users")

	lifecycleStore := lifecycle.NewPGStore(dbpool)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.New(catalogRepo)
	catalogManagers := catalog.NewManagers(catalogRepo, catalog.MutationDeps{
		Store:   lifecycleStore,
		Auditor: auditLogger,
		Metrics: metrics,
		Logger:  logger,
	})

	bookingRepo := bookings.NewRepository(dbpool)
	bookingHandler := bookings.NewHandler(logger, bookings.NewService(bookingRepo, idempotencyStore), renderer, catalogService)
	bookingManager := bookings.NewManager(bookingRepo, lifecycle.Config[bookings.Booking]{
		Store: lifecycleStore, Auditor: auditLogger, Metrics: metrics, Logger: logger,
	})

	orderRepo := orders.NewRepository(dbpool)
	orderManager := orders.NewManager(orderRepo, lifecycle.Config[orders.Order]{
		Store: lifecycleStore, Auditor: auditLogger, Metrics: metrics, Logger: logger,
	})

	careersRepo := careers.NewRepository(dbpool)
	careersService := careers.NewService(careersRepo, objects, jobClient, auditLogger, logger)
	careersAdmin := careers.NewAdminHandler(logger, careersService, renderer,
		careers.NewPostingManager(careersRepo, lifecycle.Config[careers.Posting]{
			Store: lifecycleStore, Auditor: auditLogger, Metrics: metrics, Logger: logger,
		}),
		careers.NewApplicationManager(careersRepo, lifecycle.Config[careers.Application]{
			Store: lifecycleStore, Auditor: auditLogger, Metrics: metrics, Logger: logger,
		}),
	)

	dashboardService := dashboard.NewService(dashboard.Sources{
		Users:    usersRepo,
		Careers:  careersRepo,
		Bookings: bookingRepo,
		Orders:   orderRepo,
		Profiles: usersService,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Renderer:         renderer,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Guard:            guard,
		Metrics:          metrics,
		CatalogHandler:   catalog.NewHandler(logger, catalogService, renderer),
		AuthHandler:      authHandler,
		BookingHandler:   bookingHandler,
		CareersHandler:   careers.NewHandler(logger, careersService, renderer),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService, renderer),
		AccessHandler:    access.NewHandler(guard),
		VerifyHandler:    verify.NewHandler(verifyService, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
		AdminSections: []app.AdminSection{
			{Path: "/users", Mount: func(r chi.Router) {
				usersHandler.MountRoutes(r)
				rolesHandler.MountRoutes(r)
			}},
			{Path: "/bookings", Mount: func(r chi.Router) {
				admin.Mount(r, bookings.AdminPage(bookingManager, renderer, logger))
			}},
			{Path: "/orders", Mount: func(r chi.Router) {
				admin.Mount(r, orders.AdminPage(orderManager, renderer, logger))
			}},
			{Path: "/jobs", Mount: careersAdmin.MountJobs},
			{Path: "/applications", Mount: careersAdmin.MountApplications},
			{Path: "/services", Mount: func(r chi.Router) {
				catalog.MountServices(r, catalogManagers.Services, renderer, logger)
			}},
			{Path: "/portfolio", Mount: func(r chi.Router) {
				catalog.MountPortfolio(r, catalogManagers.Portfolio, renderer, logger)
			}},
			{Path: "/team", Mount: func(r chi.Router) {
				catalog.MountTeam(r, catalogManagers.Team, renderer, logger)
			}},
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
