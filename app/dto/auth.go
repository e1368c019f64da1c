package dto

import (
	"time"

	"github.com/shashiranjanraj/catalogapi/app/models"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func UserFromModel(m models.User) User {
	return User{ID: m.ID, Username: m.Username, Roles: m.Roles}
}

type Token struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
