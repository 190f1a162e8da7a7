package storage

import (
	"context"
	"io"
	"time"

	storagemodel "github.com/frahmantamala/user-management/internal/core/datamodel/storage"
)

// File is the domain representation of an uploaded object.
type File struct {
	ID          int64     `json:"id"`
	ObjectName  string    `json:"object_name"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromDataModel(dm *storagemodel.StoredFile) *File {
	if dm == nil {
		return nil
	}
	return &File{
		ID:          dm.ID,
		ObjectName:  dm.ObjectName,
		FileName:    dm.FileName,
		ContentType: dm.ContentType,
		SizeBytes:   dm.SizeBytes,
		UploadedBy:  dm.UploadedBy,
		CreatedAt:   dm.CreatedAt,
	}
}

// ObjectStore abstracts the bucket operations used by the service.
type ObjectStore interface {
	Put(ctx context.Context, objectName, contentType string, body io.Reader) error
	PresignGet(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

type RepositoryAPI interface {
	Create(file *storagemodel.StoredFile) error
	GetByObjectName(objectName string) (*storagemodel.StoredFile, error)
}

type ServiceAPI interface {
	Upload(ctx context.Context, uploaderID int64, fileName, contentType string, size int64, body io.Reader) (*File, error)
	PresignedURL(ctx context.Context, dto GetURLDTO) (string, error)
}
