package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

// User type vocabulary. The principal carries exactly one of these.
const (
	UserTypeSuperAdmin = "superadmin"
	UserTypeAdmin      = "admin"
	UserTypeCommon     = "common"
)

func ValidUserTypes() []string {
	return []string{UserTypeSuperAdmin, UserTypeAdmin, UserTypeCommon}
}

// User is the authenticated principal attached to a request context.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// IsSuperadmin is derived from the user type, never stored.
func (u *User) IsSuperadmin() bool {
	return u.UserType == UserTypeSuperAdmin
}

// Claims represents JWT token claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh"`
}

// LoginResult pairs the issued tokens with a public-safe view of the user.
type LoginResult struct {
	AuthTokens
	User PublicUser `json:"user"`
}

// PublicUser is the external identity shape; the password hash never appears.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	UserType  string    `json:"user_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func PublicUserFromDataModel(u *userDatamodel.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LastName:  u.LastName,
		UserType:  u.UserType,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	Logout(refreshToken string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetPrincipal(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetActiveUserByEmail(email string) (*userDatamodel.User, error)
	GetActiveUserByID(id int64) (*userDatamodel.User, error)
	BlacklistToken(jti string, userID int64, expiresAt time.Time) error
	IsTokenBlacklisted(jti string) (bool, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(user *userDatamodel.User) (string, error)
	GenerateRefreshToken(user *userDatamodel.User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}
