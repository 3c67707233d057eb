package main

import (
	"log"
	"os"
	"strings"

	_ "campushub/api/swagger" // swagger docs
	"campushub/internal/database"
	"campushub/internal/handler"
	"campushub/internal/middleware"
	"campushub/internal/notify"
	"campushub/internal/repository"
	"campushub/internal/service"
	"campushub/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           University Administration API
// @version         1.0
// @description     Backend for the university administration mini-app: request approval workflow, org directory, audit trail.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := buildDSN()
	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	staticRoot := envOr("STATIC_ROOT", "./static")
	staticURL := strings.TrimRight(envOr("STATIC_URL", "/static"), "/")
	fileURL := func(path string) string {
		return staticURL + "/" + strings.TrimLeft(path, "/")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Messenger bot gateway (fire-and-forget notifications)
	botGateway := notify.NewBotGateway(os.Getenv("BOT_NOTIFY_BASE_URL"), os.Getenv("BOT_NOTIFY_TOKEN"))

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	orgRepo := repository.NewOrgRepository(db)

	resolver := service.NewApproverResolver(directoryRepo)
	userService := service.NewUserService(userRepo)
	requestService := service.NewRequestService(
		requestRepo, userRepo, auditRepo,
		resolver, txManager, botGateway, wsHub, fileURL,
	)
	documentService := service.NewDocumentService(requestRepo, documentRepo, auditRepo, staticRoot, fileURL)
	orgService := service.NewOrgService(orgRepo, auditRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService, documentService)
	orgHandler := handler.NewOrgHandler(orgService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Request documents are served from the static root
	router.Static(staticURL, staticRoot)

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	orgHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildDSN() string {
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
