package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"bizledger/docs"

	"bizledger/internal/auth"
	"bizledger/internal/cache"
	"bizledger/internal/config"
	"bizledger/internal/db"
	"bizledger/internal/handler"
	"bizledger/internal/model"
	"bizledger/internal/repository"
	"bizledger/internal/router"
	"bizledger/internal/service"
	"bizledger/internal/storage"
)

// @title Business Ledger API
// @version 1.0
// @description Client, service, project and payment management with financial reporting and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.WithError(err).Fatal("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Service{},
		&model.Project{},
		&model.Task{},
		&model.Payment{},
		&model.Attachment{},
	); err != nil {
		logrus.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	clientRepo := repository.NewClientRepository(gormDB)
	serviceRepo := repository.NewServiceRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	attachmentRepo := repository.NewAttachmentRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	clientService := service.NewClientService(clientRepo, serviceRepo, cacheClient)
	projectService := service.NewProjectService(projectRepo, taskRepo)
	paymentService := service.NewPaymentService(paymentRepo)
	reportService := service.NewReportService(paymentService)
	userService := service.NewUserService(userRepo)
	fileStore := storage.NewLocalStore(cfg.UploadsDir, cfg.StaticBase)
	attachmentService := service.NewAttachmentService(attachmentRepo, fileStore)

	// Promote stale pending payments before serving traffic so that every
	// stored status is already consistent with its due date.
	sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	promoted, err := paymentService.PromoteOverduePayments(sweepCtx)
	cancel()
	if err != nil {
		logrus.WithError(err).Warn("overdue reconciliation sweep failed")
	} else {
		logrus.WithField("promoted", promoted).Info("overdue reconciliation sweep")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientService)
	serviceHandler := handler.NewServiceHandler(clientService)
	projectHandler := handler.NewProjectHandler(projectService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reportHandler := handler.NewReportHandler(paymentService, reportService)
	userHandler := handler.NewUserHandler(userService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)

	router.Register(
		e,
		cfg,
		authHandler,
		clientHandler,
		serviceHandler,
		projectHandler,
		paymentHandler,
		reportHandler,
		userHandler,
		attachmentHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server start")
	}
}
