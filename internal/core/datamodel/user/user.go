package user

import (
	"github.com/frahmantamala/user-management/internal/core/datamodel/base"
)

type User struct {
	base.Model
	Email        string `gorm:"column:email;uniqueIndex;not null"`
	Name         string `gorm:"column:name;not null"`
	LastName     string `gorm:"column:last_name;not null"`
	UserType     string `gorm:"column:user_type;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
}

func (User) TableName() string {
	return "users"
}
