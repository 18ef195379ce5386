package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"uptrack/career-coach/internal/config"
	"uptrack/career-coach/internal/handlers"
	"uptrack/career-coach/internal/repositories"
	"uptrack/career-coach/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	insightRepo := repositories.NewInsightRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize core services
	synchronizer := services.NewContentSynchronizer()
	editorService := services.NewEditorService(synchronizer)
	exportService := services.NewExportService(services.NewChromeRenderer(cfg.Chrome.ExecPath))
	improveService := services.NewImproveService(userRepo, geminiService, 3)
	insightGenerator := services.NewGeminiInsightGenerator(geminiService, 3)
	insightsService := services.NewInsightsService(userRepo, insightRepo, insightGenerator, cfg.Insights.RefreshWindow)
	importService := services.NewImportService()
	log.Println("✅ Services initialized successfully")

	// Start background insight refresher
	ctx := context.Background()
	refresher := services.NewRefresher(insightRepo, insightsService, cfg.Insights.PollInterval, cfg.Insights.Concurrency)
	refresher.Start(ctx)

	// Initialize handlers
	resumeHandler := handlers.NewResumeHandler(resumeRepo, editorService, exportService, improveService, storageService, importService)
	editorHandler := handlers.NewEditorHandler(resumeRepo, editorService)
	dashboardHandler := handlers.NewDashboardHandler(userRepo, insightsService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Coach API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Auth-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	authed := api.Group("/", handlers.NewAuthMiddleware(userRepo))

	authed.Get("/resume", resumeHandler.HandleGetResume)
	authed.Put("/resume", resumeHandler.HandleSaveResume)
	authed.Post("/resume/improve", resumeHandler.HandleImprove)
	authed.Post("/resume/export", resumeHandler.HandleExport)
	authed.Post("/resume/import", resumeHandler.HandleImport)

	authed.Get("/resume/session", editorHandler.HandleGetSession)
	authed.Post("/resume/session/form", editorHandler.HandleUpdateForm)
	authed.Post("/resume/session/content", editorHandler.HandleUpdateContent)
	authed.Post("/resume/session/mode", editorHandler.HandleSetMode)

	authed.Get("/insights", dashboardHandler.HandleGetInsights)
	authed.Get("/onboarding", dashboardHandler.HandleGetOnboarding)
	authed.Post("/onboarding", dashboardHandler.HandleUpdateProfile)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		refresher.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
