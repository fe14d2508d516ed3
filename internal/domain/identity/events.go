package identity

import (
	"github.com/gestock/backend/internal/domain/shared"
)

// Identity event types
const (
	EventTypeUserCreated = "identity.user.created"
)

// UserAggregateType is the aggregate type for user events
const UserAggregateType = "User"

// UserCreatedEvent is published when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, UserAggregateType, user.ID),
		Username:        user.Username,
	}
}
