package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

// User is the internal domain model; the JSON shape is the external identity
// record, password hash excluded.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	LastName     string     `json:"last_name"`
	UserType     string     `json:"user_type"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

func (u *User) FullName() string {
	return u.Name + " " + u.LastName
}

// IsSuperuser is derived from the user type, never a stored column.
func (u *User) IsSuperuser() bool {
	return u.UserType == "superadmin"
}

func ToDataModel(u *User) *userDatamodel.User {
	dm := &userDatamodel.User{
		Email:        u.Email,
		Name:         u.Name,
		LastName:     u.LastName,
		UserType:     u.UserType,
		PasswordHash: u.PasswordHash,
	}
	dm.ID = u.ID
	dm.IsActive = u.IsActive
	dm.CreatedAt = u.CreatedAt
	dm.UpdatedAt = u.UpdatedAt
	dm.DeletedAt = u.DeletedAt
	return dm
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		LastName:     u.LastName,
		UserType:     u.UserType,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		DeletedAt:    u.DeletedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
