package routes

import (
	"github.com/Kariqs/amexan-catalog/controllers"
	"github.com/Kariqs/amexan-catalog/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", controllers.CreateProduct)
		admin.PUT("/product/:id", controllers.UpdateProduct)

		admin.POST("/product/:id/images", controllers.UploadProductImage)
		admin.DELETE("/product/:id/images/:imageId", controllers.DeleteProductImage)
		admin.PUT("/product/:id/images/order", controllers.ReorderProductImages)

		admin.POST("/variant/:id/images", controllers.UploadVariantImage)
		admin.DELETE("/variant/:id/images/:imageId", controllers.DeleteVariantImage)
		admin.PUT("/variant/:id/images/order", controllers.ReorderVariantImages)
	}
}
