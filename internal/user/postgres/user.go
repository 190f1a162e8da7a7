package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/user-management/internal"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/user"
)

// UserRepository implements user.RepositoryAPI with GORM. Reads only ever
// observe active rows; soft-deleted users surface as not found.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) active() *gorm.DB {
	return r.db.Where("is_active = ?", true)
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.active().Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.active().Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns active users in creation order, bounded by offset/limit.
func (r *UserRepository) List(offset, limit int) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.active().
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

// Create inserts a new user. The unique index on email is the authority on
// duplicates; a pre-insert lookup cannot see a concurrent insert.
func (r *UserRepository) Create(u *userDatamodel.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

// SoftDelete deactivates an active row and stamps deleted_at. Repeating it on
// an inactive row is a no-op that keeps the original deletion time; only an id
// that never existed is not found.
func (r *UserRepository) SoftDelete(id int64, at time.Time) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return internal.ErrUserNotFound
		}
	}
	return nil
}
