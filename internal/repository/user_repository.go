// Package repository persists users in MySQL. Uniqueness of email and
// username is enforced by unique keys on the table, not by application-level
// check-then-write: two racing inserts for the same email resolve to exactly
// one success and one duplicate-key error, which is translated into the
// UserAlreadyExists domain failure.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/users-service/internal/domain"
	"github.com/iliyamo/users-service/internal/model"
)

const userColumns = "id,email,username,password_hash,role,is_active,created_at"

// UserRepo is the MySQL-backed user repository.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user. A duplicate-key violation (MySQL error 1062) on
// either unique column becomes a UserAlreadyExists domain error.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.Username, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return duplicateError(err, u.Email, u.Username)
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email), email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id), id)
}

// List returns every user ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.queryMany(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
}

// ListByRole returns the (possibly empty) set of users holding role.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.queryMany(ctx,
		"SELECT "+userColumns+" FROM users WHERE role=? ORDER BY created_at", string(role))
}

// UpdateEmail changes a user's email. A collision with another user's email
// becomes UserAlreadyExists; a missing row becomes UserNotFound.
func (r *UserRepo) UpdateEmail(ctx context.Context, id, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=? WHERE id=?", email, id)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.UserAlreadyExists("email", email)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the row is gone or the email is unchanged; disambiguate.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

// SetActive flips the is_active flag.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=? WHERE id=?", active, id)
	return err
}

// Delete permanently removes the user; missing rows map to UserNotFound.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.UserNotFound(id)
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row, ref string) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, domain.UserNotFound(ref)
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func (r *UserRepo) queryMany(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = model.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// duplicateError inspects the driver message to name the conflicting column.
// MySQL includes the key name in the 1062 message.
func duplicateError(err error, email, username string) *domain.Error {
	if strings.Contains(strings.ToLower(err.Error()), "username") {
		return domain.UserAlreadyExists("username", username)
	}
	return domain.UserAlreadyExists("email", email)
}
