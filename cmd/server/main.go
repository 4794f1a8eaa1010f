package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"agent-ranker/internal/auth"
	"agent-ranker/internal/database"
	"agent-ranker/internal/handlers"
	"agent-ranker/internal/moltbook"
	"agent-ranker/internal/services"
	"agent-ranker/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load database configuration
	dbConfig := database.LoadConfig()

	// Connect to database
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations and seed the category vocabulary
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := services.EnsureCategories(database.DB); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	// A Moltbook client is optional; without an API key the crawl loop
	// stays disabled and only stored data is served.
	var fetcher services.PostsFetcher
	if apiKey := os.Getenv("MOLTBOOK_API_KEY"); apiKey != "" {
		fetcher = moltbook.NewClient(os.Getenv("MOLTBOOK_BASE_URL"), apiKey)
	}

	// Initialize and start background workers
	workerService := worker.NewWorkerService(database.DB, fetcher)
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	// Setup graceful shutdown
	setupGracefulShutdown(workerService)

	// Setup HTTP server
	setupServer(fetcher)
}

func setupGracefulShutdown(workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(fetcher services.PostsFetcher) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	claimIssuer := auth.NewClaimIssuerFromEnv()

	var indexerService *services.IndexerService
	if fetcher != nil {
		indexerService = services.NewIndexerService(database.DB, fetcher)
	}

	// Initialize handlers
	agentsHandler := handlers.NewAgentsHandler(database.DB, claimIssuer)
	adminHandler := handlers.NewAdminHandler(database.DB, indexerService, claimIssuer)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", agentsHandler.HealthCheck)

	// Public API
	r.GET("/agents/top", agentsHandler.GetTopAgents)
	r.GET("/agents/:id", agentsHandler.GetAgent)
	r.PUT("/agents/:id/profile", agentsHandler.UpdateProfile)
	r.GET("/search", agentsHandler.SearchAgents)
	r.GET("/categories", agentsHandler.GetCategories)
	r.GET("/stats", agentsHandler.GetStats)
	r.GET("/export/agents.json", agentsHandler.ExportAgents)

	// Documentation
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// Admin routes (password protected)
	admin := r.Group("/admin", adminHandler.AdminAuth())
	{
		admin.POST("/crawl", adminHandler.TriggerCrawl)
		admin.POST("/recalculate", adminHandler.TriggerRecalculate)
		admin.POST("/agents/:id/claim-token", adminHandler.IssueClaimToken)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
