// db/db.go
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/config"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

var DB *gorm.DB

func InitDB() error {
	dsn := config.GetString("database.dsn")

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Successfully connected to database")
	return nil
}

// Migrate creates or updates the schema for every model the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Todo{},
		&audit.LoginRecord{},
	)
}

func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("Error getting database handle on close")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection")
	}
}
