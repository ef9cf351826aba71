package database

import (
	"errors"

	"expensems/internal/model"
	"expensems/pkg/api"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var predefinedCategories = []model.Category{
	{Name: "Travel", Description: "Transportation, accommodation, and travel-related expenses"},
	{Name: "Meals", Description: "Food and beverage expenses including client meals"},
	{Name: "Office Supplies", Description: "Stationery, office equipment, and supplies"},
	{Name: "Equipment", Description: "Computer hardware, software, and technical equipment"},
	{Name: "Other", Description: "Miscellaneous expenses not covered by other categories"},
}

// Seed creates the predefined categories and, when ADMIN_EMAIL/ADMIN_PASSWORD
// are provided, a bootstrap admin account. Idempotent.
func Seed(db *gorm.DB, logger *zap.Logger, adminEmail, adminPassword string) error {
	for _, c := range predefinedCategories {
		var existing model.Category
		err := db.First(&existing, "name = ?", c.Name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		cat := c
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
		logger.Info("Created category", zap.String("name", cat.Name))
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing model.User
	err := db.First(&existing, "email = ?", adminEmail).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := model.User{
		Email:     adminEmail,
		Password:  string(hash),
		FirstName: "System",
		LastName:  "Admin",
		Role:      api.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("Created bootstrap admin", zap.String("email", adminEmail))
	return nil
}
