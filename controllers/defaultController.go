package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Amexan Catalog API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create operator account
- POST "/auth/login" - Access operator account

PRODUCT
- GET "/product" - Get all products (page, limit, search)
- GET "/product/:id" - Get product with variants and images
- POST "/product" - Create new product (admin)
- PUT "/product/:id" - Update product and upsert variants (admin)

IMAGES (admin)
- POST "/product/:id/images" - Upload product image
- DELETE "/product/:id/images/:imageId" - Delete product image
- PUT "/product/:id/images/order" - Reorder product images
- POST "/variant/:id/images" - Upload variant image
- DELETE "/variant/:id/images/:imageId" - Delete variant image
- PUT "/variant/:id/images/order" - Reorder variant images`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
