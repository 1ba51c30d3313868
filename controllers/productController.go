package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Kariqs/amexan-catalog/initializers"
	"github.com/Kariqs/amexan-catalog/models"
	"github.com/Kariqs/amexan-catalog/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errUnknownVariant = errors.New("variant does not belong to product")

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// paramID reads a numeric path parameter and answers 400 when it is not one.
func paramID(ctx *gin.Context, name, message string) (uint, bool) {
	id, ok := utils.ParseID(ctx.Param(name))
	if !ok {
		respondWithError(ctx, http.StatusBadRequest, message, fmt.Errorf("%s %q is not a valid id", name, ctx.Param(name)))
	}
	return id, ok
}

// withProductRelations preloads variants and both image lists in display order.
func withProductRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Where("variant_id IS NULL").Order("position, id")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		})
}

func loadProduct(db *gorm.DB, id uint) (models.Product, error) {
	var product models.Product
	err := withProductRelations(db).First(&product, id).Error
	return product, err
}

func encodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return datatypes.JSON(b)
}

func decodeTags(productID uint, raw datatypes.JSON) []string {
	tags := []string{}
	if len(raw) == 0 {
		return tags
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		initializers.Logger.Warn("Error decoding product tags", zap.Uint("productId", productID), zap.Error(err))
		return []string{}
	}
	return tags
}

func applyProductInput(product *models.Product, input models.ProductInput) {
	product.Title = input.Title
	product.Description = input.Description
	product.ProductType = input.ProductType
	product.Vendor = input.Vendor
	product.Status = input.Status
	if product.Status == "" {
		product.Status = "draft"
	}
	product.Tags = encodeTags(input.Tags)
}

func applyVariantInput(variant *models.ProductVariant, input models.VariantInput) {
	variant.Title = input.Title
	variant.Price = input.Price
	variant.SKU = input.SKU
	variant.InventoryPolicy = input.InventoryPolicy
	if variant.InventoryPolicy == "" {
		variant.InventoryPolicy = "deny"
	}
	variant.Option1 = input.Option1
	variant.Available = input.Available
	variant.Cost = input.Cost
}

func toImageResponses(images []models.ProductImage) []models.ImageResponse {
	out := make([]models.ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, toImageResponse(img))
	}
	return out
}

func toImageResponse(img models.ProductImage) models.ImageResponse {
	return models.ImageResponse{
		ID:       utils.FormatID(img.ID),
		URL:      img.Url,
		AltText:  img.AltText,
		Position: img.Position,
	}
}

func toProductResponse(product models.Product) models.ProductResponse {
	resp := models.ProductResponse{
		ID:          utils.FormatID(product.ID),
		Title:       product.Title,
		Description: product.Description,
		ProductType: product.ProductType,
		Vendor:      product.Vendor,
		Status:      product.Status,
		Tags:        decodeTags(product.ID, product.Tags),
		Images:      toImageResponses(product.Images),
		Variants:    make([]models.VariantResponse, 0, len(product.Variants)),
	}
	for _, v := range product.Variants {
		resp.Variants = append(resp.Variants, models.VariantResponse{
			ID:              utils.FormatID(v.ID),
			Title:           v.Title,
			Price:           v.Price,
			SKU:             v.SKU,
			InventoryPolicy: v.InventoryPolicy,
			Option1:         v.Option1,
			Available:       v.Available,
			Cost:            v.Cost,
			Images:          toImageResponses(v.Images),
		})
	}
	return resp
}

// CreateProduct stores a product and its variants. Images are never
// accepted inline; they are uploaded one by one afterwards.
func CreateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var product models.Product
	applyProductInput(&product, input)
	for _, in := range input.Variants {
		var variant models.ProductVariant
		applyVariantInput(&variant, in)
		product.Variants = append(product.Variants, variant)
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	created, err := loadProduct(initializers.DB, product.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}
	initializers.Logger.Info("Product created", zap.Uint("productId", product.ID), zap.Int("variants", len(product.Variants)))
	ctx.JSON(http.StatusCreated, toProductResponse(created))
}

// UpdateProduct replaces the scalar fields and upserts variants: entries
// with an id update that variant, entries without one create a new variant.
// Variants missing from the body are left alone.
func UpdateProduct(ctx *gin.Context) {
	productID, ok := paramID(ctx, "id", "Invalid product ID")
	if !ok {
		return
	}

	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var product models.Product
	if err := initializers.DB.Preload("Variants").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		applyProductInput(&product, input)
		if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
			return err
		}

		existing := make(map[uint]*models.ProductVariant, len(product.Variants))
		for i := range product.Variants {
			existing[product.Variants[i].ID] = &product.Variants[i]
		}
		for _, in := range input.Variants {
			if in.ID == "" {
				variant := models.ProductVariant{ProductID: product.ID}
				applyVariantInput(&variant, in)
				if err := tx.Create(&variant).Error; err != nil {
					return err
				}
				continue
			}
			id, ok := utils.ParseID(in.ID)
			variant, found := existing[id]
			if !ok || !found {
				return fmt.Errorf("%w: %s", errUnknownVariant, in.ID)
			}
			applyVariantInput(variant, in)
			if err := tx.Omit(clause.Associations).Save(variant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errUnknownVariant) {
			respondWithError(ctx, http.StatusBadRequest, "Unknown variant", err)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		}
		return
	}

	updated, err := loadProduct(initializers.DB, product.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}
	initializers.Logger.Info("Product updated", zap.Uint("productId", product.ID))
	ctx.JSON(http.StatusOK, toProductResponse(updated))
}

func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, limit, offset := utils.Pagination(ctx.DefaultQuery("page", "1"), ctx.DefaultQuery("limit", "4"))

	filter := initializers.DB.Model(&models.Product{})
	if search := ctx.Query("search"); search != "" {
		filter = filter.Where("title LIKE ?", "%"+search+"%")
	}

	var count int64
	if err := filter.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	result := withProductRelations(filter.Session(&gorm.Session{})).
		Order("id").Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	out := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	ctx.JSON(http.StatusOK, gin.H{
		"products": out,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	productID, ok := paramID(ctx, "id", "Invalid product ID")
	if !ok {
		return
	}

	product, err := loadProduct(initializers.DB, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, toProductResponse(product))
}
