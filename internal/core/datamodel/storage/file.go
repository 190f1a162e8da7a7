package storage

import (
	"github.com/frahmantamala/user-management/internal/core/datamodel/base"
)

type StoredFile struct {
	base.Model
	ObjectName  string `gorm:"column:object_name;uniqueIndex;not null"`
	FileName    string `gorm:"column:file_name;not null"`
	ContentType string `gorm:"column:content_type"`
	SizeBytes   int64  `gorm:"column:size_bytes"`
	UploadedBy  int64  `gorm:"column:uploaded_by"`
}

func (StoredFile) TableName() string {
	return "stored_files"
}
