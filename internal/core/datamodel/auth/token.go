package auth

import "time"

// BlacklistedToken records a revoked refresh token by its JWT ID. Rows can be
// purged once ExpiresAt has passed since the token would no longer verify
// anyway.
type BlacklistedToken struct {
	ID        int64     `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;uniqueIndex;not null"`
	UserID    int64     `gorm:"column:user_id;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	RevokedAt time.Time `gorm:"column:revoked_at;not null"`
}

func (BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}
