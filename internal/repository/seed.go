package repository

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager/internal/model"
)

// Seed inserts demo users with a couple of example tasks each. Users are
// keyed by email, so running it twice does not duplicate data.
func Seed(ctx context.Context, db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	seedUsers := []model.User{
		{Name: "Admin User", Email: "admin@example.com", Username: "admin"},
		{Name: "Test User", Email: "test@example.com", Username: "testuser"},
	}

	for _, u := range seedUsers {
		var existing model.User
		err := db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
		switch {
		case err == nil:
			continue
		case err == gorm.ErrRecordNotFound:
		default:
			return fmt.Errorf("find seed user: %w", err)
		}

		u.PasswordHash = string(hash)
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return fmt.Errorf("create seed user: %w", err)
		}

		tasks := []model.Task{
			{UserID: u.ID, Title: "Mi primera tarea", Description: "Esta es una tarea de ejemplo", Status: model.StatusActive},
			{UserID: u.ID, Title: "Mi segunda tarea", Description: "Esta es otra tarea de ejemplo", Status: model.StatusInactive},
		}
		if err := db.WithContext(ctx).Create(&tasks).Error; err != nil {
			return fmt.Errorf("create seed tasks: %w", err)
		}
	}

	return nil
}
