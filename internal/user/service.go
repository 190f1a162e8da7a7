package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internal "github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/core/events"
)

// ListDefaultLimit bounds listings when the caller supplies no limit;
// ListMaxLimit is the layer's own ceiling.
const (
	ListDefaultLimit = 10
	ListMaxLimit     = 100
)

// RepositoryAPI is the data access contract. All reads observe active
// records only.
type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	List(offset, limit int) ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	UpdatePassword(id int64, passwordHash string) error
	SoftDelete(id int64, at time.Time) error
}

// PasswordHasher abstracts bcrypt hashing; satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		bus:    bus,
		logger: logger,
	}
}

// List returns active users in stable creation order.
func (s *Service) List(offset, limit int) ([]*User, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = ListDefaultLimit
	}
	if limit > ListMaxLimit {
		limit = ListMaxLimit
	}

	records, err := s.repo.List(offset, limit)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return FromDataModelSlice(records), nil
}

// GetByID returns the active user with the given id. A soft-deleted user is
// indistinguishable from a missing one.
func (s *Service) GetByID(id int64) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

// Create validates input, hashes the password and persists a new active user.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(dto.Email); err == nil {
		return nil, internal.ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	record := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		LastName:     dto.LastName,
		UserType:     dto.UserType,
		PasswordHash: hash,
	}
	record.IsActive = true
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.repo.Create(record); err != nil {
		// a concurrent create can slip past the lookup above; the unique
		// index reports it as a duplicate on insert
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "email", record.Email, "user_type", record.UserType)
	s.bus.Publish(ctx, events.NewUserCreatedEvent(record.ID, record.Email, record.Name))

	return FromDataModel(record), nil
}

// Update applies a partial update to an active user; only supplied fields are
// re-validated and written.
func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != record.Email {
		if _, err := s.repo.GetByEmail(*dto.Email); err == nil {
			return nil, internal.ErrEmailTaken
		}
		record.Email = *dto.Email
	}
	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.LastName != nil {
		record.LastName = *dto.LastName
	}
	if dto.UserType != nil {
		record.UserType = *dto.UserType
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	return FromDataModel(record), nil
}

// SetPassword re-hashes and persists a new password. The self-or-superadmin
// rule is checked before any record is read so a denial never reveals whether
// the target exists.
func (s *Service) SetPassword(caller *auth.User, targetID int64, dto SetPasswordDTO) error {
	if !auth.CanManagePassword(caller, targetID) {
		s.logger.Warn("set password denied", "target_id", targetID)
		return internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	record, err := s.repo.GetByID(targetID)
	if err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(record.ID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", record.ID)
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password updated", "user_id", record.ID)
	return nil
}

// Destroy soft-deletes a user: the active flag flips, the row stays.
// Destroying an already-inactive user is an idempotent success.
func (s *Service) Destroy(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			// already soft-deleted rows are a silent no-op, but an id that
			// never existed is still NotFound
			if deleteErr := s.repo.SoftDelete(id, time.Now()); deleteErr == nil {
				return nil
			}
		}
		return err
	}

	if err := s.repo.SoftDelete(record.ID, time.Now()); err != nil {
		s.logger.Error("failed to soft delete user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deactivated", "user_id", record.ID, "email", record.Email)
	s.bus.Publish(ctx, events.NewUserDeactivatedEvent(record.ID, record.Email))
	return nil
}
