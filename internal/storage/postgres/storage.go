package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/user-management/internal"
	storagemodel "github.com/frahmantamala/user-management/internal/core/datamodel/storage"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *storagemodel.StoredFile) error {
	return r.db.Create(file).Error
}

func (r *FileRepository) GetByObjectName(objectName string) (*storagemodel.StoredFile, error) {
	var file storagemodel.StoredFile
	err := r.db.Where("object_name = ?", objectName).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}
