package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/user-management/internal"
	authDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetActiveUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetActiveUserByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) BlacklistToken(jti string, userID int64, expiresAt time.Time) error {
	entry := &authDatamodel.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now(),
	}
	return r.db.Create(entry).Error
}

func (r *Repository) IsTokenBlacklisted(jti string) (bool, error) {
	var count int64
	err := r.db.Model(&authDatamodel.BlacklistedToken{}).Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
