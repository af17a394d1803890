package services

import (
	"github.com/okuracookware/referral-api/database"
	"github.com/okuracookware/referral-api/models"
)

// GetSettings loads the singleton program configuration row. Every operation
// loads it once at entry and passes it down; nothing caches it.
func GetSettings() (*models.Settings, error) {
	var settings models.Settings
	if err := database.DB.Where("id = ?", 1).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
