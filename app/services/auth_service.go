package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/app/repositories"
	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
	"github.com/shashiranjanraj/catalogapi/pkg/rbac"
	"github.com/shashiranjanraj/catalogapi/pkg/validate"
)

const minPasswordLen = 6

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(username string, roles []string) (string, time.Time, error)
}

type AuthService struct {
	users  *repositories.UserRepository
	tokens TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  repositories.NewUserRepository(db),
		tokens: tokens,
	}
}

// Register creates a ROLE_USER account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in dto.Credentials) (dto.User, error) {
	username := strings.TrimSpace(in.Username)

	v := validate.New()
	v.Required("username", username)
	v.MaxLen("username", username, 100)
	v.Required("password", in.Password)
	v.MinLen("password", in.Password, minPasswordLen)
	if err := v.Err(); err != nil {
		return dto.User{}, err
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return dto.User{}, err
	}
	if taken {
		return dto.User{}, apperr.Conflict("Username is already taken: %s", username)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return dto.User{}, err
	}

	u := models.User{Username: username, Password: hash, Roles: []string{rbac.RoleUser}}
	if err := s.users.Create(ctx, &u); err != nil {
		if orm.IsDuplicate(err) {
			return dto.User{}, apperr.Wrap(apperr.ErrConflict, err, "Username is already taken: %s", username)
		}
		return dto.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "username", u.Username)
	return dto.UserFromModel(u), nil
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in dto.Credentials) (dto.Token, error) {
	username := strings.TrimSpace(in.Username)

	v := validate.New()
	v.Required("username", username)
	v.Required("password", in.Password)
	if err := v.Err(); err != nil {
		return dto.Token{}, err
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if orm.IsNotFound(err) {
			return dto.Token{}, apperr.Authentication("Invalid username or password")
		}
		return dto.Token{}, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		logger.WithCtx(ctx).Info("login failed", "username", username)
		return dto.Token{}, apperr.Authentication("Invalid username or password")
	}

	token, expiresAt, err := s.tokens.Issue(u.Username, u.Roles)
	if err != nil {
		return dto.Token{}, err
	}
	return dto.Token{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt.UTC()}, nil
}
