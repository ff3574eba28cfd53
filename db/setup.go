package db

import (
	"fmt"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(driver, dsn string) error {
	var err error

	switch driver {
	case "mysql":
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "postgres", "":
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Family{},
		&models.FamilyMember{},
		&models.Trip{},
		&models.TripMember{},
		&models.Document{},
		&models.Task{},
		&models.Budget{},
		&models.Purchase{},
		&models.Housing{},
		&models.Event{},
		&models.ShoppingItem{},
		&models.ChecklistTask{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
