package main

import (
	"time"

	"github.com/Kariqs/amexan-catalog/admin"
	"github.com/Kariqs/amexan-catalog/catalogapi"
	"github.com/Kariqs/amexan-catalog/initializers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	initializers.LoadEnv()
	initializers.InitLogger()
	logger := initializers.Logger
	defer logger.Sync()

	ttl, err := time.ParseDuration(initializers.Getenv("ADMIN_SESSION_TTL", admin.DefaultSessionTTL.String()))
	if err != nil {
		logger.Fatal("Invalid ADMIN_SESSION_TTL", zap.Error(err))
	}

	client := catalogapi.New(initializers.Getenv("CATALOG_API_URL", "http://localhost:8080"), logger.Named("catalogapi"))
	registry, err := admin.NewRegistry(admin.RegistryDeps{
		Remote: client,
		Logger: logger.Named("admin"),
		TTL:    ttl,
	})
	if err != nil {
		logger.Fatal("Failed to build session registry", zap.Error(err))
	}

	sweeper := admin.NewSweeper(registry, logger.Named("sweeper"))
	if err := sweeper.Start(initializers.Getenv("ADMIN_SWEEP_SPEC", admin.DefaultSweepSpec)); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	server := gin.Default()
	server.MaxMultipartMemory = 16 << 20
	server.Use(cors.New(cors.Config{
		AllowOrigins:     initializers.GetenvList("CORS_ORIGINS", "http://localhost:4200"),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	admin.Routes(server, admin.NewHandler(registry, logger.Named("handlers")))

	addr := ":" + initializers.Getenv("ADMIN_PORT", "8081")
	logger.Info("Admin service listening", zap.String("addr", addr))
	if err := server.Run(addr); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
