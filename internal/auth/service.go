package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers unknown email, wrong password and inactive
// account alike: login failures are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is the main auth service with dependencies.
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens plus the public user.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetActiveUserByEmail(dto.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &LoginResult{
		AuthTokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: PublicUserFromDataModel(u),
	}, nil
}

// RefreshTokens rotates a refresh token: the presented token is blacklisted
// and a fresh pair is issued.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.validRefreshClaims(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	u, err := s.repo.GetActiveUserByID(userID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	if err := s.repo.BlacklistToken(claims.ID, userID, claims.ExpiresAt.Time); err != nil {
		return AuthTokens{}, fmt.Errorf("blacklist rotated token: %w", err)
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(u)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("generate refresh token: %w", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout blacklists the presented refresh token by its JTI.
func (s *Service) Logout(refreshToken string) error {
	claims, err := s.validRefreshClaims(refreshToken)
	if err != nil {
		return err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.repo.BlacklistToken(claims.ID, userID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	s.logger.Info("refresh token revoked", "user_id", userID, "jti", claims.ID)
	return nil
}

func (s *Service) validRefreshClaims(refreshToken string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsTokenBlacklisted(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// GetPrincipal loads the active user behind a validated token. A soft-deleted
// user yields no principal even when the token itself is still valid.
func (s *Service) GetPrincipal(userID int64) (*User, error) {
	u, err := s.repo.GetActiveUserByID(userID)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:       u.ID,
		Email:    u.Email,
		UserType: u.UserType,
	}, nil
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
