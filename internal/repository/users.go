package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/emre-yildiz-dev/ohs-backend/internal/auth"
	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) error
}

const userColumns = `id, email, password_hash, first_name, last_name, role::text, status::text,
	company_id, department, job_title, profile_image_url, phone_number,
	created_at, updated_at, last_login_at`

// Users stores model.User rows.
type Users struct {
	db     DB
	hasher PasswordHasher
}

// NewUsers creates a Users repository. A nil hasher uses auth.DefaultHasher.
func NewUsers(db DB, hasher PasswordHasher) *Users {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}
	return &Users{db: db, hasher: hasher}
}

// Create validates n, hashes its password and inserts a pending user.
func (r *Users) Create(ctx context.Context, n model.NewUser) (*model.User, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	hash, err := r.hasher.Hash(n.Password)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, status,
			company_id, department, job_title, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6::user_role, $7::user_status, $8, $9, $10, $11)
		RETURNING `+userColumns,
		uuid.New(),
		n.Email,
		hash,
		n.FirstName,
		n.LastName,
		string(n.Role),
		string(model.StatusPending),
		n.CompanyID,
		n.Department,
		n.JobTitle,
		n.PhoneNumber,
	)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID returns the user with id, or ErrNotFound.
func (r *Users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// GetByEmail returns the user with email, compared case-insensitively.
func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateStatus sets a user's status and returns the updated row.
func (r *Users) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) (*model.User, error) {
	if !status.Valid() {
		return nil, &model.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	row := r.db.QueryRow(ctx, `
		UPDATE users SET status = $1::user_status, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		string(status), id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("update user %s status: %w", id, err)
	}
	return u, nil
}

// Authenticate returns the active user matching email and password.
// Unknown emails, wrong passwords and inactive accounts all yield
// ErrInvalidCredentials.
func (r *Users) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := r.hasher.Check(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Status != model.StatusActive {
		return nil, ErrInvalidCredentials
	}

	if _, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, u.ID); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u            model.User
		role, status string
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&role,
		&status,
		&u.CompanyID,
		&u.Department,
		&u.JobTitle,
		&u.ProfileImageURL,
		&u.PhoneNumber,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	u.Role = model.UserRole(role)
	u.Status = model.UserStatus(status)
	return &u, nil
}
