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

	_ "github.com/aastu-sis/registration-api/api/swagger"
	"github.com/aastu-sis/registration-api/internal/handler"
	"github.com/aastu-sis/registration-api/internal/middleware"
	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/internal/repository"
	"github.com/aastu-sis/registration-api/internal/service"
	"github.com/aastu-sis/registration-api/pkg/cache"
	"github.com/aastu-sis/registration-api/pkg/config"
	"github.com/aastu-sis/registration-api/pkg/database"
	"github.com/aastu-sis/registration-api/pkg/logger"
	"github.com/aastu-sis/registration-api/pkg/mailer"
	corsmiddleware "github.com/aastu-sis/registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aastu-sis/registration-api/pkg/middleware/requestid"
	"github.com/aastu-sis/registration-api/pkg/qr"
)

// @title AASTU Registration API
// @version 1.0.0
// @description Course registration approval pipeline for the Office of the Registrar
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

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Courses.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metrics, cfg.Courses.CacheTTL, logr, true)
		}
	}

	slipRepo := repository.NewSlipRepository(db)
	costFormRepo := repository.NewCostSharingRepository(db)
	gradeReportRepo := repository.NewGradeReportRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	auditService := service.NewAuditService(auditRepo, logr)
	documents := service.NewDocumentService()
	notifications := service.NewNotificationService(mailer.NewSMTP(cfg.Mail), cfg.Mail, logr, metrics)
	issuer := service.NewCostSharingIssuer(costFormRepo, cfg.CostSharing)

	registrations := service.NewRegistrationService(
		slipRepo, studentRepo, costFormRepo, issuer, notifications,
		auditService, qr.NewBase64Encoder(), validate, logr, metrics)
	costSharing := service.NewCostSharingService(costFormRepo, slipRepo, issuer, registrations, auditService, validate, logr)
	gradeReports := service.NewGradeReportService(gradeReportRepo, studentRepo, auditService, validate, logr)
	courses := service.NewCourseService(courseRepo, studentRepo, cacheService, cfg.Courses.CacheTTL, logr)
	auth := service.NewAuthService(userRepo, auditService, validate, logr, cfg.JWT)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifications.Start(rootCtx)
	defer notifications.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	authHandler := handler.NewAuthHandler(auth)
	registrationHandler := handler.NewRegistrationHandler(registrations, documents)
	costSharingHandler := handler.NewCostSharingHandler(costSharing)
	gradeReportHandler := handler.NewGradeReportHandler(gradeReports, documents)
	courseHandler := handler.NewCourseHandler(courses)
	auditHandler := handler.NewAuditHandler(auditService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("")
		authed.Use(middleware.JWT(auth))

		authed.GET("/auth/me", authHandler.Me)

		authed.POST("/registrations",
			middleware.RequireRoles(models.RoleAdvisor, models.RoleDepartmentHead), registrationHandler.Create)
		authed.GET("/registrations/pending",
			middleware.RequireRoles(models.RoleAdvisor, models.RoleCostSharingOfficer, models.RoleRegistrar), registrationHandler.Pending)
		authed.GET("/registrations/:id", registrationHandler.Get)
		authed.PUT("/registrations/:id/approve",
			middleware.RequireRoles(models.RoleAdvisor), registrationHandler.Approve)
		authed.PUT("/registrations/:id/reject",
			middleware.RequireRoles(models.RoleAdvisor), registrationHandler.Reject)
		authed.PUT("/registrations/:id/verify",
			middleware.RequireRoles(models.RoleCostSharingOfficer), registrationHandler.Verify)
		authed.PUT("/registrations/:id/finalize",
			middleware.RequireRoles(models.RoleRegistrar), registrationHandler.Finalize)
		authed.GET("/registrations/:id/cost-sharing", costSharingHandler.FormForSlip)
		authed.GET("/registrations/:id/pdf", registrationHandler.PDF)
		authed.GET("/students/:studentId/registrations",
			middleware.RBAC(middleware.SelfParam,
				string(models.RoleAdvisor), string(models.RoleCostSharingOfficer), string(models.RoleRegistrar)),
			registrationHandler.StudentHistory)

		authed.POST("/cost-sharing",
			middleware.RequireRoles(models.RoleStudent), costSharingHandler.Submit)
		authed.PUT("/cost-sharing/:id/verify",
			middleware.RequireRoles(models.RoleCostSharingOfficer), costSharingHandler.Verify)

		authed.POST("/grade-reports",
			middleware.RequireRoles(models.RoleRegistrar), gradeReportHandler.Create)
		authed.GET("/grade-reports/pending",
			middleware.RequireRoles(models.RoleDepartmentHead), gradeReportHandler.Pending)
		authed.GET("/grade-reports/:id",
			middleware.RequireRoles(models.RoleDepartmentHead, models.RoleRegistrar), gradeReportHandler.Get)
		authed.PUT("/grade-reports/:id/approve",
			middleware.RequireRoles(models.RoleDepartmentHead), gradeReportHandler.Approve)
		authed.GET("/grade-reports/:id/pdf",
			middleware.RequireRoles(models.RoleStudent, models.RoleDepartmentHead, models.RoleRegistrar), gradeReportHandler.PDF)

		authed.GET("/courses",
			middleware.RequireRoles(models.RoleAdvisor, models.RoleRegistrar), courseHandler.List)
		authed.GET("/courses/mine",
			middleware.RequireRoles(models.RoleStudent), courseHandler.Mine)

		authed.GET("/audit",
			middleware.RequireRoles(models.RoleRegistrar), auditHandler.List)
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
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
