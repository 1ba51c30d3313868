package initializers

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// OpenDB opens a gorm connection for driver "mysql" or "sqlite".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func ConnectToDB() {
	driver := Getenv("DB_DRIVER", "mysql")
	db, err := OpenDB(driver, Getenv("DB_DSN", ""))
	if err != nil {
		Logger.Fatal("Failed to connect to database", zap.String("driver", driver), zap.Error(err))
	}
	if driver == "sqlite" {
		db.Exec("PRAGMA foreign_keys = ON")
	}
	DB = db
	Logger.Info("Connected to database", zap.String("driver", driver))
}
