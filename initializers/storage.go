package initializers

import (
	"context"

	"github.com/Kariqs/amexan-catalog/storage"
	"go.uber.org/zap"
)

var Store storage.Store

// StorageConfig reads the image store settings from the environment.
func StorageConfig() storage.Config {
	return storage.Config{
		Driver:    Getenv("STORAGE_DRIVER", "local"),
		Bucket:    Getenv("AWS_BUCKET", ""),
		Region:    Getenv("AWS_REGION", ""),
		AccessKey: Getenv("STORAGE_ACCESS_KEY", ""),
		SecretKey: Getenv("STORAGE_SECRET_KEY", ""),
		Endpoint:  Getenv("STORAGE_ENDPOINT", ""),
		CDNDomain: Getenv("STORAGE_CDN_DOMAIN", ""),
		BasePath:  Getenv("STORAGE_BASE_PATH", "products"),
		LocalDir:  Getenv("LOCAL_STORAGE_DIR", "./uploads"),
		LocalURL:  Getenv("LOCAL_STORAGE_URL", "http://localhost:8080/uploads"),
	}
}

func ConnectToStorage() {
	cfg := StorageConfig()
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		Logger.Fatal("Failed to configure image storage", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	Store = store
	Logger.Info("Image storage ready", zap.String("driver", cfg.Driver))
}
