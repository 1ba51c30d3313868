package initializers

import (
	"github.com/Kariqs/amexan-catalog/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductVariant{}, &models.ProductImage{})
}

func SyncDatabase() {
	if err := MigrateModels(DB); err != nil {
		Logger.Fatal("Database sync failed", zap.Error(err))
	}
	Logger.Info("Database synced successfully.")
}
