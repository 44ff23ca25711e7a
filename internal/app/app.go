package app

import (
	"database/sql"
	"fmt"
	"log"

	"gstbooks/internal/config"
	"gstbooks/internal/handlers"
	"gstbooks/internal/middleware"
	"gstbooks/internal/ratelimit"
	"gstbooks/internal/repositories"
	"gstbooks/internal/routes"
	"gstbooks/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gstbooks/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	middleware.SetSigningKey(cfg.Auth.JWTSecret)

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)

	// === Rate limiter ===
	var limiter ratelimit.Limiter
	switch cfg.RateLimit.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window())
		log.Printf("[app] rate limiter: redis (%s)", cfg.Redis.Addr)
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window())
		log.Printf("[app] rate limiter: in-memory (single instance only)")
	}

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	resetService := services.NewPasswordResetService(
		accountRepo,
		limiter,
		emailService,
		authService,
		cfg.Reset.BaseURL,
	)

	// === Handlers ===
	resetHandler := handlers.NewPasswordResetHandler(resetService)
	adminHandler := handlers.NewAdminHandler(resetService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, resetHandler, adminHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
