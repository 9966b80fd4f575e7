package db

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
)

// seed creates the initial admin account when the users table is empty.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD with dev defaults.
func seed(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("seed admin: hash password", zap.Error(err))
		return
	}
	admin := models.User{Name: "Admin", Email: email, Password: string(hash), Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		zap.L().Error("seed admin: create user", zap.Error(err))
		return
	}
	zap.L().Info("seeded admin user", zap.String("email", email))
}
