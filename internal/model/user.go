package model

import "time"

// Role is the access level assigned to a user account. The set is
// closed: every persisted user carries exactly one of the values
// below, and any other string arriving from the outside is rejected
// before it reaches the repository.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a raw role value against the closed set.
// The second return value reports whether the input was valid.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used internally by the
// repository and service layers; the response package builds the
// wire representation (which never includes PasswordHash).
//
// Fields:
//  ID           – UUID primary key of the user.
//  Email        – unique email address, stored lowercase.
//  Username     – unique username (3–50 chars, alphanumeric/hyphen/underscore).
//  PasswordHash – bcrypt hashed password.
//  Role         – access level (USER or ADMIN).
//  IsActive     – whether the account may authenticate.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
}
