package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserCreatedEvent     = "user.created"
	UserDeactivatedEvent = "user.deactivated"
)

func NewUserCreatedEvent(userID int64, email, name string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      UserCreatedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"name":    name,
		},
	}
}

func NewUserDeactivatedEvent(userID int64, email string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      UserDeactivatedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
		},
	}
}
