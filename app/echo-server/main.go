package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "github.com/lorenzotett/alma-skin-guru-sub000/app/echo-server/metrics"
	"github.com/lorenzotett/alma-skin-guru-sub000/app/echo-server/router"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/advisor"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/analysis"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/cart"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/lead"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/product"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/quiz"
	"github.com/lorenzotett/alma-skin-guru-sub000/business/recommendation"
	userService "github.com/lorenzotett/alma-skin-guru-sub000/business/user"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/middleware"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/repository/gemini"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/repository/notification"
	psqlRepo "github.com/lorenzotett/alma-skin-guru-sub000/internal/repository/postgres"
	redisRepo "github.com/lorenzotett/alma-skin-guru-sub000/internal/repository/redis"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/rest"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/worker"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/config"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/database"
	redisdb "github.com/lorenzotett/alma-skin-guru-sub000/pkg/database/redis"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
	funnelmetrics "github.com/lorenzotett/alma-skin-guru-sub000/pkg/metrics"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Alma Skin Guru", "version", cfg.App.Version)

	utils.SetTokenTTL(cfg.JWT.TTL)
	httpmetrics.Init()
	funnelmetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis backs sessions, carts and the task queue. Without it the funnel
	// still serves recommendations and leads.
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without sessions, carts and worker", err)
		redisClient = nil
	}
	defer redisdb.CloseRedisClient(redisClient)

	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)
	if !mailjetEmail.Configured() {
		logger.Warn("Mailjet is not configured, lead summaries will fail")
	}

	var generator analysis.Generator
	if cfg.Gemini.APIKey != "" {
		generator = gemini.NewGeminiRepository(gemini.GeminiConfig{
			APIKey:     cfg.Gemini.APIKey,
			BaseURL:    cfg.Gemini.BaseURL,
			Model:      cfg.Gemini.Model,
			Timeout:    cfg.Gemini.Timeout,
			MaxRetries: cfg.Gemini.MaxRetries,
		})
	} else {
		logger.Warn("Gemini API key missing, analysis and chat will use fallbacks")
	}

	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	leadRepo := psqlRepo.NewLeadRepository(db)

	var sessionRepo userService.SessionRepository
	var summaryQueue lead.SummaryEnqueuer
	var cartStore cart.CartStore
	var redisOpt asynq.RedisClientOpt
	if redisClient != nil {
		sessionRepo = redisRepo.NewSessionRepository(redisClient)
		cartStore = redisRepo.NewCartRepository(redisClient, cfg.Checkout.CartTTL)

		if cfg.Worker.Enabled {
			redisOpt = asynq.RedisClientOpt{
				Addr:     fmt.Sprintf("%s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort),
				Password: cfg.Redis.RedisPassword,
				DB:       cfg.Redis.RedisDB,
			}
			taskClient := worker.NewClient(redisOpt)
			defer taskClient.Close()
			summaryQueue = taskClient
		}
	}

	// Init service
	engine := recommendation.NewEngine(recommendation.Policy{
		AntiAgingAge: cfg.Recommendation.AntiAgingAge,
		WidenSteps:   cfg.Recommendation.WidenSteps,
	})
	logger.Info("Recommendation engine ready",
		"anti_aging_age", engine.Policy().AntiAgingAge,
		"widen_steps", engine.Policy().WidenSteps,
	)
	productService := product.NewProductService(productRepo, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL, cfg.Catalog.LoadTimeout)
	leadService := lead.NewLeadService(leadRepo, productRepo, mailjetEmail, summaryQueue, validate)
	quizService := quiz.NewQuizService(productService, leadService, engine)
	userSvc := userService.NewUserService(userRepo, sessionRepo, validate, cfg.JWT.TTL)

	analysisService := analysis.NewAnalysisService(generator)
	advisorService := advisor.NewAdvisorService(generator)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userSvc.SeedAdmin(seedCtx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Error("Failed to seed admin account", err)
	}
	seedCancel()

	var stopWorker func()
	if summaryQueue != nil {
		stopWorker, err = worker.Start(redisOpt, cfg.Worker.Concurrency, worker.NewMux(leadService))
		if err != nil {
			logger.Fatal("Failed to start worker", "error", err)
		}
		logger.Info("Worker started", "concurrency", cfg.Worker.Concurrency)
	}

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	productHandler := rest.NewProductHandler(productService)
	quizHandler := rest.NewQuizHandler(quizService)
	leadHandler := rest.NewLeadHandler(leadService)
	analysisHandler := rest.NewAnalysisHandler(analysisService)
	chatHandler := rest.NewChatHandler(advisorService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit("12M"))
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.App.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	if sessionRepo != nil {
		authRequired = middleware.AuthMiddlewareWithRedis(userSvc)
	}

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired)
	router.SetupQuizRoutes(api, quizHandler, analysisHandler, chatHandler)
	router.SetupLeadRoutes(api, leadHandler, authRequired)
	if cartStore != nil {
		cartService := cart.NewCartService(cartStore, productRepo, cfg.Checkout.ShopBaseURL)
		router.SetupCartRoutes(api, rest.NewCartHandler(cartService))
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if stopWorker != nil {
		stopWorker()
	}

	logger.Info("Server stopped")
}
