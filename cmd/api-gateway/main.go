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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skyharbor/fleetops-api/api/swagger"
	"github.com/skyharbor/fleetops-api/internal/handler"
	"github.com/skyharbor/fleetops-api/internal/middleware"
	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/internal/repository"
	"github.com/skyharbor/fleetops-api/internal/service"
	"github.com/skyharbor/fleetops-api/pkg/cache"
	"github.com/skyharbor/fleetops-api/pkg/config"
	"github.com/skyharbor/fleetops-api/pkg/database"
	"github.com/skyharbor/fleetops-api/pkg/logger"
	corsmiddleware "github.com/skyharbor/fleetops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skyharbor/fleetops-api/pkg/middleware/requestid"
	"github.com/skyharbor/fleetops-api/pkg/storage"
)

// @title SkyHarbor FleetOps API
// @version 1.0.0
// @description Flight timetable, crew roster, and aircraft maintenance operations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()

	flightRepo := repository.NewFlightRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	aircraftRepo := repository.NewAircraftRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	timetableService := service.NewTimetableService(flightRepo, rosterRepo, validate, logr)
	rosterService := service.NewRosterService(rosterRepo, aircraftRepo, validate, logr)
	fleetService := service.NewFleetService(aircraftRepo, validate, logr)
	catalogService := service.NewCatalogService(catalogRepo, validate, logr)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, aircraftRepo, validate, logr)
	accountService := service.NewAccountService(userRepo, rosterRepo, validate, logr)
	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Flights: flightRepo,
		Fleet:   aircraftRepo,
		Catalog: catalogRepo,
		Cache:   cacheService,
		Logger:  logr,
		Config: service.DashboardServiceConfig{
			CacheTTL: cfg.Dashboard.CacheTTL,
		},
	})
	var archive service.ExportArchive
	if cfg.Exports.ArchiveDir != "" {
		localArchive, archiveErr := storage.NewExportArchive(cfg.Exports.ArchiveDir)
		if archiveErr != nil {
			logr.Sugar().Fatalw("failed to init export archive", "error", archiveErr)
		}
		archive = localArchive
	}
	exportService := service.NewExportService(timetableService, rosterService, maintenanceService, service.ExportConfig{
		Enabled:     cfg.Exports.Enabled,
		MaxRows:     cfg.Exports.MaxRows,
		PDFPageSize: cfg.Exports.PDFPageSize,
	}, logr, nil, nil, archive)

	auditService := service.NewAuditService(userRepo, logr)
	auditService.Start(context.Background())
	defer auditService.Stop()

	authHandler := handler.NewAuthHandler(authService)
	schedulerHandler := handler.NewSchedulerHandler(timetableService, rosterService, fleetService, catalogService, accountService, dashboardService, exportService)
	crewHandler := handler.NewCrewHandler(rosterService)
	engineerHandler := handler.NewEngineerHandler(maintenanceService, fleetService, dashboardService, exportService)
	adminHandler := handler.NewAdminHandler(fleetService, catalogService, accountService, dashboardService)
	metricsHandler := handler.NewMetricsHandler(metricsService, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	scheduler := api.Group("/scheduler", middleware.JWT(authService), middleware.RBAC(models.RoleScheduler))
	{
		scheduler.GET("/flights", schedulerHandler.ListFlights)
		scheduler.POST("/flights", schedulerHandler.CreateFlight)
		scheduler.GET("/flights/export", schedulerHandler.ExportTimetable)
		scheduler.GET("/flights/:number", schedulerHandler.GetFlight)
		scheduler.PUT("/flights/:number", schedulerHandler.UpdateFlight)
		scheduler.DELETE("/flights/:number", schedulerHandler.DeleteFlight)
		scheduler.GET("/flights/:number/crew", schedulerHandler.FlightCrew)
		scheduler.POST("/flights/:number/crew", schedulerHandler.AssignCrew)
		scheduler.GET("/flights/:number/manifest", schedulerHandler.ExportManifest)
		scheduler.GET("/routes", schedulerHandler.ListRoutes)
		scheduler.GET("/aircraft", schedulerHandler.ListAircraft)
		scheduler.GET("/aircraft/:registration/flights", schedulerHandler.AircraftFlights)
		scheduler.GET("/crew", schedulerHandler.ListCrew)
		scheduler.GET("/dashboard", schedulerHandler.Dashboard)
	}

	crew := api.Group("/crew", middleware.JWT(authService), middleware.RBAC(models.RoleCrew))
	{
		crew.GET("/dashboard", crewHandler.Dashboard)
		crew.GET("/my-flights", crewHandler.MyFlights)
		crew.GET("/my-flights/:number", crewHandler.MyFlightDetail)
		crew.GET("/my-aircraft", crewHandler.MyAircrafts)
	}

	engineer := api.Group("/engineer", middleware.JWT(authService), middleware.RBAC(models.RoleEngineer))
	{
		engineer.GET("/dashboard", engineerHandler.Dashboard)
		engineer.GET("/jobs", engineerHandler.MyJobs)
		engineer.POST("/jobs", engineerHandler.OpenJob)
		engineer.GET("/jobs/:id", engineerHandler.JobDetail)
		engineer.POST("/jobs/:id/engineers", engineerHandler.AddEngineers)
		engineer.POST("/jobs/:id/close", engineerHandler.CloseJob)
		engineer.POST("/jobs/:id/cancel", engineerHandler.CancelJob)
		engineer.GET("/aircraft", engineerHandler.ListAircraft)
		engineer.GET("/aircraft/:registration", engineerHandler.AircraftDetail)
		engineer.POST("/aircraft/:registration/parts", engineerHandler.AddPart)
		engineer.GET("/aircraft/:registration/maintenance-log", engineerHandler.MaintenanceLog)
		engineer.GET("/engineers", engineerHandler.ListEngineers)
	}

	admin := api.Group("/admin", middleware.JWT(authService), middleware.RBAC(models.RoleAdmin))
	{
		admin.GET("/aircraft", adminHandler.ListAircraft)
		admin.POST("/aircraft", middleware.Audit(auditService, "CREATE", "aircraft"), adminHandler.CreateAircraft)
		admin.GET("/aircraft/:registration", adminHandler.GetAircraft)
		admin.PUT("/aircraft/:registration", middleware.Audit(auditService, "UPDATE", "aircraft"), adminHandler.UpdateAircraft)
		admin.POST("/aircraft/:registration/retire", middleware.Audit(auditService, "RETIRE", "aircraft"), adminHandler.RetireAircraft)
		admin.DELETE("/aircraft/:registration", middleware.Audit(auditService, "DELETE", "aircraft"), adminHandler.DeleteAircraft)
		admin.GET("/airports", adminHandler.ListAirports)
		admin.GET("/airports/:code", adminHandler.GetAirport)
		admin.GET("/routes", adminHandler.ListRoutes)
		admin.POST("/routes", middleware.Audit(auditService, "CREATE", "route"), adminHandler.CreateRoute)
		admin.GET("/routes/:id", adminHandler.GetRoute)
		admin.PUT("/routes/:id", middleware.Audit(auditService, "UPDATE", "route"), adminHandler.UpdateRoute)
		admin.DELETE("/routes/:id", middleware.Audit(auditService, "DELETE", "route"), adminHandler.DeleteRoute)
		admin.POST("/users", middleware.Audit(auditService, "CREATE", "account"), adminHandler.CreateUser)
		admin.PATCH("/crew/:email/role", middleware.Audit(auditService, "UPDATE", "crew_role"), adminHandler.SetCrewRole)
		admin.GET("/dashboard", adminHandler.Dashboard)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
