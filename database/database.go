package database

import (
	"fmt"
	"log"

	config "github.com/okuracookware/referral-api/configs"
	"github.com/okuracookware/referral-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Customer{},
		&models.Referral{},
		&models.Reward{},
		&models.Click{},
		&models.FraudFlag{},
		&models.Settings{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedSettings creates the singleton settings row with program defaults if it
// does not exist yet. Defaults come from the model's column defaults.
func SeedSettings() {
	var count int64
	if err := DB.Model(&models.Settings{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for settings row: %v", err)
		return
	}

	if count > 0 {
		log.Println("Settings row already exists.")
		return
	}

	if err := DB.Create(&models.Settings{ID: 1}).Error; err != nil {
		log.Fatalf("🔥 Failed to seed settings: %v", err)
		return
	}

	log.Println("✅ Default referral settings seeded successfully")
}
