package routes

import "github.com/gin-gonic/gin"

// Register mounts every catalog route on server.
func Register(server *gin.Engine) {
	DefaultRoutes(server)
	AuthRoutes(server)
	ProductRoutes(server)
}
