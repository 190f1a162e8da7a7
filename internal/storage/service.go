package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/user-management/internal"
	storagemodel "github.com/frahmantamala/user-management/internal/core/datamodel/storage"
)

const defaultPresignTTL = time.Hour

type Service struct {
	store      ObjectStore
	repo       RepositoryAPI
	presignTTL time.Duration
	logger     *slog.Logger
}

func NewService(store ObjectStore, repo RepositoryAPI, presignTTL time.Duration, logger *slog.Logger) *Service {
	if presignTTL <= 0 {
		presignTTL = defaultPresignTTL
	}
	return &Service{
		store:      store,
		repo:       repo,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// Upload streams the file body to the bucket under a uuid-prefixed object
// name and records the upload.
func (s *Service) Upload(ctx context.Context, uploaderID int64, fileName, contentType string, size int64, body io.Reader) (*File, error) {
	if fileName == "" {
		return nil, internal.NewValidationFieldError("file", "file name is required", internal.ErrCodeValidationFailed)
	}

	objectName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fileName))

	if err := s.store.Put(ctx, objectName, contentType, body); err != nil {
		s.logger.Error("upload: object store put failed", "object_name", objectName, "error", err)
		return nil, internal.NewInternalError("failed to store file", err)
	}

	dm := &storagemodel.StoredFile{
		ObjectName:  objectName,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  uploaderID,
	}
	dm.IsActive = true

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("upload: failed to record file", "object_name", objectName, "error", err)
		return nil, internal.NewInternalError("failed to record file", err)
	}

	s.logger.Info("file uploaded", "object_name", objectName, "uploaded_by", uploaderID, "size_bytes", size)

	return FromDataModel(dm), nil
}

// PresignedURL returns a time-limited download URL for a recorded object.
func (s *Service) PresignedURL(ctx context.Context, dto GetURLDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	if _, err := s.repo.GetByObjectName(dto.ObjectName); err != nil {
		if errors.Is(err, internal.ErrFileNotFound) {
			return "", internal.ErrFileNotFound
		}
		return "", internal.NewInternalError("failed to look up file", err)
	}

	url, err := s.store.PresignGet(ctx, dto.ObjectName, s.presignTTL)
	if err != nil {
		s.logger.Error("presign: failed to sign URL", "object_name", dto.ObjectName, "error", err)
		return "", internal.NewInternalError("failed to generate download URL", err)
	}

	return url, nil
}
