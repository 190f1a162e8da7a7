package user

import (
	errors "github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/core/common/validation"
)

const (
	minPasswordLength = 6
	maxFieldLength    = 100
	maxPasswordLength = 120
)

// CreateUserDTO carries the payload for registering a new user.
type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	UserType string `json:"user_type"`
	Password string `json:"password"`
}

func (dto CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email().MaxLength(maxFieldLength)
	v.Field("name", dto.Name).Required().MaxLength(maxFieldLength)
	v.Field("last_name", dto.LastName).Required().MaxLength(maxFieldLength)
	v.Field("user_type", dto.UserType).Required().OneOf(auth.ValidUserTypes(), errors.ErrCodeInvalidUserType)
	v.Field("password", dto.Password).Required().MinLength(minPasswordLength, errors.ErrCodePasswordTooShort).MaxLength(maxPasswordLength)
	return v.Validate()
}

// UpdateUserDTO is a partial update: nil fields are left untouched and only
// supplied fields are re-validated.
type UpdateUserDTO struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"last_name,omitempty"`
	UserType *string `json:"user_type,omitempty"`
}

func (dto UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email().MaxLength(maxFieldLength)
	}
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(maxFieldLength)
	}
	if dto.LastName != nil {
		v.Field("last_name", *dto.LastName).Required().MaxLength(maxFieldLength)
	}
	if dto.UserType != nil {
		v.Field("user_type", *dto.UserType).Required().OneOf(auth.ValidUserTypes(), errors.ErrCodeInvalidUserType)
	}
	return v.Validate()
}

// SetPasswordDTO carries a new password and its confirmation. The misspelled
// confirmation field name is kept for wire compatibility.
type SetPasswordDTO struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confimation"`
}

func (dto SetPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("password", dto.Password).Required().MinLength(minPasswordLength, errors.ErrCodePasswordTooShort).MaxLength(maxPasswordLength)
	v.Field("password_confimation", dto.PasswordConfirmation).Required().MinLength(minPasswordLength, errors.ErrCodePasswordTooShort).MaxLength(maxPasswordLength)
	if err := v.Validate(); err != nil {
		return err
	}
	if dto.Password != dto.PasswordConfirmation {
		return errors.NewValidationFieldError("password", "password and confirmation do not match", errors.ErrCodePasswordMismatch)
	}
	return nil
}
