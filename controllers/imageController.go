package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Kariqs/amexan-catalog/initializers"
	"github.com/Kariqs/amexan-catalog/models"
	"github.com/Kariqs/amexan-catalog/storage"
	"github.com/Kariqs/amexan-catalog/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxImageSize = 10 << 20

var errUnknownImage = errors.New("image does not belong to this owner")

// imageOwner is the product or variant an image list belongs to.
type imageOwner struct {
	productID uint
	variantID *uint
}

func (o imageOwner) scope(db *gorm.DB) *gorm.DB {
	if o.variantID == nil {
		return db.Where("product_id = ? AND variant_id IS NULL", o.productID)
	}
	return db.Where("variant_id = ?", *o.variantID)
}

func (o imageOwner) fields() []zap.Field {
	fields := []zap.Field{zap.Uint("productId", o.productID)}
	if o.variantID != nil {
		fields = append(fields, zap.Uint("variantId", *o.variantID))
	}
	return fields
}

func productOwner(ctx *gin.Context) (imageOwner, bool) {
	productID, ok := paramID(ctx, "id", "Invalid product ID")
	if !ok {
		return imageOwner{}, false
	}
	var product models.Product
	if err := initializers.DB.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return imageOwner{}, false
	}
	return imageOwner{productID: product.ID}, true
}

func variantOwner(ctx *gin.Context) (imageOwner, bool) {
	variantID, ok := paramID(ctx, "id", "Invalid variant ID")
	if !ok {
		return imageOwner{}, false
	}
	var variant models.ProductVariant
	if err := initializers.DB.Select("id", "product_id").First(&variant, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Variant not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate variant", err)
		}
		return imageOwner{}, false
	}
	id := variant.ID
	return imageOwner{productID: variant.ProductID, variantID: &id}, true
}

func UploadProductImage(ctx *gin.Context) {
	if owner, ok := productOwner(ctx); ok {
		uploadImage(ctx, owner)
	}
}

func UploadVariantImage(ctx *gin.Context) {
	if owner, ok := variantOwner(ctx); ok {
		uploadImage(ctx, owner)
	}
}

func DeleteProductImage(ctx *gin.Context) {
	if owner, ok := productOwner(ctx); ok {
		deleteImage(ctx, owner)
	}
}

func DeleteVariantImage(ctx *gin.Context) {
	if owner, ok := variantOwner(ctx); ok {
		deleteImage(ctx, owner)
	}
}

func ReorderProductImages(ctx *gin.Context) {
	if owner, ok := productOwner(ctx); ok {
		reorderImages(ctx, owner)
	}
}

func ReorderVariantImages(ctx *gin.Context) {
	if owner, ok := variantOwner(ctx); ok {
		reorderImages(ctx, owner)
	}
}

// uploadImage stores one multipart "image" file. Without a "position" field
// the image goes after the current last image of the owner.
func uploadImage(ctx *gin.Context, owner imageOwner) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	if fileHeader.Size > maxImageSize {
		respondWithError(ctx, http.StatusBadRequest, "File too large", fmt.Errorf("%s is %d bytes", fileHeader.Filename, fileHeader.Size))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	if !storage.IsImage(data) {
		respondWithError(ctx, http.StatusBadRequest, "File is not an image", fmt.Errorf("%s has type %s", fileHeader.Filename, storage.DetectContentType(data)))
		return
	}

	position, err := nextPosition(owner)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to read image positions", err)
		return
	}
	if raw := ctx.PostForm("position"); raw != "" {
		position, err = strconv.Atoi(raw)
		if err != nil || position < 0 {
			respondWithError(ctx, http.StatusBadRequest, "Invalid position", err)
			return
		}
	}

	obj, err := initializers.Store.Put(ctx.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		initializers.Logger.Error("Error uploading image", append(owner.fields(), zap.String("file", fileHeader.Filename), zap.Error(err))...)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to store image", err)
		return
	}

	image := models.ProductImage{
		ProductID:  owner.productID,
		VariantID:  owner.variantID,
		Url:        obj.URL,
		AltText:    ctx.PostForm("altText"),
		Position:   position,
		StorageKey: obj.Key,
	}
	if err := initializers.DB.Create(&image).Error; err != nil {
		if delErr := initializers.Store.Delete(ctx.Request.Context(), obj.Key); delErr != nil {
			initializers.Logger.Warn("Error removing orphaned blob", zap.String("key", obj.Key), zap.Error(delErr))
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image", err)
		return
	}

	initializers.Logger.Info("Image uploaded", append(owner.fields(), zap.Uint("imageId", image.ID), zap.Int("position", position))...)
	ctx.JSON(http.StatusCreated, toImageResponse(image))
}

func nextPosition(owner imageOwner) (int, error) {
	var last int
	row := owner.scope(initializers.DB.Model(&models.ProductImage{})).
		Select("COALESCE(MAX(position), -1)").Row()
	if err := row.Scan(&last); err != nil {
		return 0, err
	}
	return last + 1, nil
}

// deleteImage removes the row, then the blob. A blob that cannot be removed
// is logged and left behind.
func deleteImage(ctx *gin.Context, owner imageOwner) {
	imageID, ok := paramID(ctx, "imageId", "Invalid image ID")
	if !ok {
		return
	}

	var image models.ProductImage
	if err := owner.scope(initializers.DB).First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Image not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve image", err)
		}
		return
	}

	if err := initializers.DB.Unscoped().Delete(&image).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete image", err)
		return
	}
	if image.StorageKey != "" {
		if err := initializers.Store.Delete(ctx.Request.Context(), image.StorageKey); err != nil {
			initializers.Logger.Warn("Error deleting blob", append(owner.fields(), zap.String("key", image.StorageKey), zap.Error(err))...)
		}
	}

	initializers.Logger.Info("Image deleted", append(owner.fields(), zap.Uint("imageId", image.ID))...)
	ctx.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

// reorderImages writes the given positions. Every listed image must belong
// to the owner or nothing is changed.
func reorderImages(ctx *gin.Context, owner imageOwner) {
	var input models.ReorderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	positions := make(map[uint]int, len(input.Items))
	for _, item := range input.Items {
		id, ok := utils.ParseID(item.ImageID)
		if !ok {
			respondWithError(ctx, http.StatusBadRequest, "Invalid image ID", fmt.Errorf("%q is not a valid id", item.ImageID))
			return
		}
		positions[id] = item.Position
	}
	ids := make([]uint, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var found int64
		if len(ids) > 0 {
			if err := owner.scope(tx.Model(&models.ProductImage{})).Where("id IN ?", ids).Count(&found).Error; err != nil {
				return err
			}
		}
		if int(found) != len(ids) {
			return errUnknownImage
		}
		for id, position := range positions {
			if err := tx.Model(&models.ProductImage{}).Where("id = ?", id).Update("position", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errUnknownImage) {
			respondWithError(ctx, http.StatusBadRequest, "Unknown image", err)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to reorder images", err)
		}
		return
	}

	initializers.Logger.Info("Images reordered", append(owner.fields(), zap.Int("count", len(ids)))...)
	ctx.JSON(http.StatusOK, gin.H{"message": "Images reordered"})
}
