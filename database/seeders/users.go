package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/rbac"
)

func init() {
	Register("users", SeedUsers)
}

var sampleUsers = []struct {
	username, password string
	roles              []string
}{
	{"admin", "admin123", []string{rbac.RoleAdmin, rbac.RoleUser}},
	{"user", "user123", []string{rbac.RoleUser}},
}

// SeedUsers creates the sample admin and user accounts that do not exist yet.
func SeedUsers(ctx context.Context, tx *gorm.DB) error {
	for _, s := range sampleUsers {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", s.username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		hash, err := auth.HashPassword(s.password)
		if err != nil {
			return err
		}
		if err := tx.Create(&models.User{Username: s.username, Password: hash, Roles: s.roles}).Error; err != nil {
			return err
		}
	}
	return nil
}
