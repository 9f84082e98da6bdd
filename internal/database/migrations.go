package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/pkg/crypto"
)

// AutoMigrate creates or updates the schema for all persistent models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Sensor{},
		&models.ClothingItem{},
		&models.Reading{},
	)
}

// AutoMigrateAndSeed convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB, seedDemo bool) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if seedDemo {
		if err := SeedDemoData(db); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	return nil
}

type demoUser struct {
	Username string
	Password string
	Email    string
	Location string
	Sensors  []models.Sensor
	Clothing []models.ClothingItem
}

var demoUsers = []demoUser{
	{
		Username: "nathan",
		Password: "password",
		Email:    "nathan@example.com",
		Location: "San Diego",
		Sensors: []models.Sensor{
			{Type: "Temperature", Units: "Celsius", Address: "8C:4F:00:37:55:00"},
			{Type: "Pressure", Units: "Pascals", Address: "asdf.com"},
		},
		Clothing: []models.ClothingItem{
			{Name: "Black Shirt 1", Type: "shirt", ImageAddress: "/static/shirt.png"},
			{Name: "Black Shirt 2", Type: "shirt", ImageAddress: "/static/shirt.png"},
		},
	},
	{
		Username: "demo",
		Password: "pwd",
		Email:    "demo@example.com",
		Location: "New York",
	},
}

// SeedDemoData inserts demonstration accounts with sensors and clothing.
// Idempotent: users that already exist are left untouched.
func SeedDemoData(db *gorm.DB) error {
	for _, demo := range demoUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", demo.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := crypto.HashPassword(demo.Password)
		if err != nil {
			return err
		}

		user := models.User{
			Username: demo.Username,
			Password: hashed,
			Email:    demo.Email,
			Location: demo.Location,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			for _, sensor := range demo.Sensors {
				sensor.UserID = user.ID
				if err := tx.Create(&sensor).Error; err != nil {
					return err
				}
			}
			for _, item := range demo.Clothing {
				item.UserID = user.ID
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
