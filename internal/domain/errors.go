// Package domain defines the business-rule failure taxonomy shared by the
// service and repository layers. Handlers never inspect these values; the
// central error handler in the response package owns the mapping from each
// Kind to an HTTP status, error code and title. Keeping the set closed as an
// enum means the mapping switch covers every kind explicitly instead of
// growing an open-ended isinstance-style chain.
package domain

import "fmt"

// Kind identifies one business-rule violation.
type Kind int

const (
	KindUserNotFound Kind = iota
	KindUserAlreadyExists
	KindUserAlreadyInactive
	KindInvalidEmail
	KindInvalidUsername
	KindInvalidUserData
	KindInvalidCredentials
	KindInvalidRole
)

// Error is a domain failure with a human-readable detail. It satisfies the
// error interface so it can travel through echo handlers unchanged.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// UserNotFound reports that no user exists under the given id.
func UserNotFound(id string) *Error {
	return &Error{Kind: KindUserNotFound, Detail: fmt.Sprintf("User %s not found.", id)}
}

// UserAlreadyExists reports a uniqueness conflict on email or username.
func UserAlreadyExists(field, value string) *Error {
	return &Error{
		Kind:   KindUserAlreadyExists,
		Detail: fmt.Sprintf("A user with %s '%s' already exists.", field, value),
	}
}

// UserAlreadyInactive guards deactivation idempotency: deactivating twice is
// a conflict, not a no-op.
func UserAlreadyInactive(id string) *Error {
	return &Error{Kind: KindUserAlreadyInactive, Detail: fmt.Sprintf("User %s is already inactive.", id)}
}

// InvalidEmail reports a semantically invalid email address.
func InvalidEmail(detail string) *Error {
	return &Error{Kind: KindInvalidEmail, Detail: detail}
}

// InvalidUsername reports a semantically invalid username.
func InvalidUsername(detail string) *Error {
	return &Error{Kind: KindInvalidUsername, Detail: detail}
}

// InvalidUserData reports user input that is structurally valid but
// unacceptable for reasons not covered by the more specific kinds.
func InvalidUserData(detail string) *Error {
	return &Error{Kind: KindInvalidUserData, Detail: detail}
}

// InvalidCredentials is returned for ANY login failure: unknown email, wrong
// password or inactive account. The detail is deliberately identical across
// the three cases so responses carry no account-enumeration signal.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Detail: "Invalid credentials."}
}

// InvalidRole reports a role value outside the closed USER/ADMIN set.
func InvalidRole(raw string) *Error {
	return &Error{
		Kind:   KindInvalidRole,
		Detail: fmt.Sprintf("Role '%s' is not valid. Allowed roles: USER, ADMIN.", raw),
	}
}
