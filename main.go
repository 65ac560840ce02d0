package main

import (
	"log"
	"net/http"
	"strings"

	"fuel-tracker/internal/api"
	"fuel-tracker/internal/config"
	"fuel-tracker/internal/database"
	"fuel-tracker/internal/services"
	"fuel-tracker/internal/services/fuelfeed"
	"fuel-tracker/internal/services/pricestore"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	if cfg.FuelAPIKey == "" {
		log.Println("WARN: FUEL_API_KEY not set; refresh requests must carry a payload")
	}
	if cfg.RefreshKey == "" {
		log.Println("WARN: REFRESH_KEY not set; refresh endpoint is unprotected")
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Wire the pipeline
	store := pricestore.NewStore(db)
	svc := services.NewPriceService(store, nil)
	feed := fuelfeed.NewClient(cfg.FuelAPIURL, cfg.FuelAPIKey)

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Refresh-Key")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Serve the comparison front end from the build directory
	r.Static("/static", "./web/build/static")
	r.StaticFile("/favicon.ico", "./web/build/favicon.ico")
	r.GET("/", func(c *gin.Context) {
		c.File("./web/build/index.html")
	})
	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	handler := api.SetupRoutes(apiGroup, svc, feed, cfg.RefreshKey)

	// Live price push
	r.GET("/ws", handler.ServeWS)

	// SPA fallback for client-side routing
	r.NoRoute(func(c *gin.Context) {
		// Preserve API and WS 404s
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/ws" || strings.HasPrefix(c.Request.URL.Path, "/static/") {
			c.Status(http.StatusNotFound)
			return
		}
		c.File("./web/build/index.html")
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
