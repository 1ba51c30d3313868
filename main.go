package main

import (
	"time"

	"github.com/Kariqs/amexan-catalog/initializers"
	"github.com/Kariqs/amexan-catalog/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
	initializers.ConnectToStorage()
}

func main() {
	defer initializers.Logger.Sync()

	server := gin.Default()
	server.MaxMultipartMemory = 16 << 20
	server.Use(cors.New(cors.Config{
		AllowOrigins:     initializers.GetenvList("CORS_ORIGINS", "http://localhost:4200", "https://www.amexan.store"),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	cfg := initializers.StorageConfig()
	if cfg.Driver == "local" {
		server.Static("/uploads", cfg.LocalDir)
	}
	routes.Register(server)

	addr := ":" + initializers.Getenv("PORT", "8080")
	initializers.Logger.Info("Catalog API listening", zap.String("addr", addr))
	if err := server.Run(addr); err != nil {
		initializers.Logger.Fatal("Server stopped", zap.Error(err))
	}
}
