package base

import "time"

// Model is the audit envelope shared by every persisted entity. Deletion is
// always logical: DeletedAt is stamped and IsActive flips to false, the row
// stays in place.
type Model struct {
	ID        int64      `gorm:"primaryKey"`
	IsActive  bool       `gorm:"column:is_active"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

// SoftDelete marks the record inactive and stamps the deletion time.
func (m *Model) SoftDelete(at time.Time) {
	m.IsActive = false
	m.DeletedAt = &at
	m.UpdatedAt = at
}
