// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for user lifecycle events. Downstream services bind to these
// to react to identity changes without querying the primary database.
const (
	QueueUserRegistered  = "user.registered"
	QueueUserEmailChange = "user.email_changed"
	QueueUserDeactivated = "user.deactivated"
)

// UserRegisteredEvent is published after a user record is persisted during
// registration. It is never published for a registration that failed to
// persist.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}

// UserEmailChangedEvent is published when a user's email is updated.
type UserEmailChangedEvent struct {
	UserID    string `json:"user_id"`
	OldEmail  string `json:"old_email"`
	NewEmail  string `json:"new_email"`
	ChangedAt string `json:"changed_at"`
}

// UserDeactivatedEvent is published when an account is deactivated.
type UserDeactivatedEvent struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Reason        string `json:"reason,omitempty"`
	DeactivatedAt string `json:"deactivated_at"`
}
