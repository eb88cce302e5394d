// Package service implements the authentication and user lifecycle state
// machine: register/login/refresh/logout plus the administrative user
// operations. It orchestrates the repository, the credential codec and the
// event publisher; handlers stay thin and never reach around it.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/users-service/internal/domain"
	"github.com/iliyamo/users-service/internal/model"
	"github.com/iliyamo/users-service/internal/queue"
	"github.com/iliyamo/users-service/internal/token"
	"github.com/iliyamo/users-service/internal/utils"
)

// UserRepository is the persistence contract the state machine depends on.
// Implementations must enforce email/username uniqueness atomically with the
// write (a storage-level constraint, not check-then-write).
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// AuthService drives the session state machine:
// Anonymous -> (register|login) -> Authenticated -> (refresh)* -> logout.
type AuthService struct {
	repo       UserRepository
	codec      *token.Codec
	events     EventPublisher
	bcryptCost int
}

func NewAuthService(repo UserRepository, codec *token.Codec, events EventPublisher, bcryptCost int) *AuthService {
	return &AuthService{repo: repo, codec: codec, events: events, bcryptCost: bcryptCost}
}

// AuthResult is a freshly authenticated user plus their new token pair.
type AuthResult struct {
	User   model.User
	Tokens token.Pair
}

// Register creates a user and signs them in. The role is always USER: public
// registration cannot set a role, no matter what the caller sent upstream.
// The user.registered event is published only after the record persisted,
// and a publish failure never fails the registration.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (AuthResult, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, err
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return AuthResult{}, err
	}

	pair, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.events.Publish(ctx, queue.QueueUserRegistered, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         string(u.Role),
		RegisteredAt: u.CreatedAt.Format(time.RFC3339),
	}); err != nil {
		log.Printf("auth: user.registered publish failed for %s: %v", u.ID, err)
	}

	return AuthResult{User: u, Tokens: pair}, nil
}

// Login authenticates by email and password and issues a fresh pair. Unknown
// email, wrong password and inactive account all collapse into the same
// InvalidCredentials failure so the response leaks no enumeration signal.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Only a missing user is a credential failure. Infrastructure
		// errors (dead connection, timeout) must propagate so they are
		// logged and surface as a 500, not a 401.
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindUserNotFound {
			return AuthResult{}, domain.InvalidCredentials()
		}
		return AuthResult{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return AuthResult{}, domain.InvalidCredentials()
	}

	pair, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Tokens: pair}, nil
}

// Refresh rotates the token pair from a verified refresh token. The old
// refresh token is not tracked afterwards: there is no server-side denylist,
// revocation relies on cookie clearing and the short access TTL.
func (s *AuthService) Refresh(raw string) (token.Pair, error) {
	cl, err := s.codec.Verify(raw, token.KindRefresh)
	if err != nil {
		return token.Pair{}, err
	}
	return s.codec.Issue(cl.UserID, cl.Role)
}

// Get fetches a single user by id.
func (s *AuthService) Get(ctx context.Context, id string) (model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users.
func (s *AuthService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// GetByRole returns users holding the given role. An unknown role value is
// an InvalidRole failure; zero matches is an empty collection, not an error.
func (s *AuthService) GetByRole(ctx context.Context, raw string) ([]model.User, error) {
	role, ok := model.ParseRole(raw)
	if !ok {
		return nil, domain.InvalidRole(raw)
	}
	return s.repo.ListByRole(ctx, role)
}

// ChangeEmail updates a user's email and publishes user.email_changed.
func (s *AuthService) ChangeEmail(ctx context.Context, id, newEmail string) (model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if err := s.repo.UpdateEmail(ctx, id, newEmail); err != nil {
		return model.User{}, err
	}

	if err := s.events.Publish(ctx, queue.QueueUserEmailChange, queue.UserEmailChangedEvent{
		UserID:    u.ID,
		OldEmail:  u.Email,
		NewEmail:  newEmail,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("auth: user.email_changed publish failed for %s: %v", u.ID, err)
	}

	u.Email = newEmail
	return u, nil
}

// Deactivate disables an account. Deactivating an already-inactive user is
// a conflict, not a no-op.
func (s *AuthService) Deactivate(ctx context.Context, id, reason string) (model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, domain.UserAlreadyInactive(id)
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return model.User{}, err
	}

	if err := s.events.Publish(ctx, queue.QueueUserDeactivated, queue.UserDeactivatedEvent{
		UserID:        u.ID,
		Email:         u.Email,
		Reason:        reason,
		DeactivatedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("auth: user.deactivated publish failed for %s: %v", u.ID, err)
	}

	u.IsActive = false
	return u, nil
}

// Delete permanently removes a user record.
func (s *AuthService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
