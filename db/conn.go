// Package db opens the metadata database
package db

import (
	"droplink/share-api/internal/model"
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the tables. SQLite is
// the default for single-node deployments, postgres for anything that
// needs to scale past one box.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	driver := viper.GetString("database.driver")
	dsn := viper.GetString("database.dsn")

	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", driver, err)
	}

	err = db.AutoMigrate(model.File{}, model.UploadQuota{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
