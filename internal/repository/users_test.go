package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/emre-yildiz-dev/ohs-backend/internal/auth"
	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
)

// fakeRow scans a fixed list of values into the destinations.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	rows    []fakeRow // returned by successive QueryRow calls
	execErr error
	queries []call
	execs   []call
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, call{sql, args})
	if len(db.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	row := db.rows[0]
	db.rows = db.rows[1:]
	return row
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, call{sql, args})
	return pgconn.CommandTag{}, db.execErr
}

var testHasher = auth.Hasher{Cost: 4}

func userRow(id uuid.UUID, email, hash string, status model.UserStatus) fakeRow {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	dept := "Production"
	return fakeRow{values: []any{
		id,
		email,
		hash,
		"Ayşe",
		"Yılmaz",
		"ohs_specialist",
		string(status),
		nil, // company_id
		&dept,
		nil, // job_title
		nil, // profile_image_url
		nil, // phone_number
		now,
		now,
		nil, // last_login_at
	}}
}

func TestUsers_GetByID(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{rows: []fakeRow{userRow(id, "ayse@example.com", "hash", model.StatusActive)}}
	repo := NewUsers(db, testHasher)

	u, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if u.ID != id {
		t.Errorf("ID = %s, want %s", u.ID, id)
	}
	if u.Role != model.RoleOHSSpecialist {
		t.Errorf("Role = %q, want %q", u.Role, model.RoleOHSSpecialist)
	}
	if u.Status != model.StatusActive {
		t.Errorf("Status = %q, want active", u.Status)
	}
	if u.Department == nil || *u.Department != "Production" {
		t.Errorf("Department = %v, want Production", u.Department)
	}
	if u.CompanyID != nil {
		t.Errorf("CompanyID = %v, want nil", u.CompanyID)
	}
	if got := db.queries[0].args[0]; got != id {
		t.Errorf("query arg = %v, want %s", got, id)
	}
}

func TestUsers_GetByIDNotFound(t *testing.T) {
	repo := NewUsers(&fakeDB{}, testHasher)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestUsers_GetByEmailLowercases(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{userRow(uuid.New(), "ayse@example.com", "hash", model.StatusActive)}}
	repo := NewUsers(db, testHasher)

	if _, err := repo.GetByEmail(context.Background(), "  AYSE@Example.com "); err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got := db.queries[0].args[0]; got != "ayse@example.com" {
		t.Errorf("query arg = %q, want lower-cased email", got)
	}
}

func TestUsers_Create(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{rows: []fakeRow{userRow(id, "ayse@example.com", "stored", model.StatusPending)}}
	repo := NewUsers(db, testHasher)

	u, err := repo.Create(context.Background(), model.NewUser{
		Email:     "Ayse@Example.com",
		Password:  "s3cure-pass",
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Role:      model.RoleOHSSpecialist,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Status != model.StatusPending {
		t.Errorf("Status = %q, want pending", u.Status)
	}

	q := db.queries[0]
	if !strings.Contains(q.sql, "INSERT INTO users") {
		t.Errorf("unexpected SQL: %s", q.sql)
	}
	if q.args[1] != "ayse@example.com" {
		t.Errorf("email arg = %v, want lower-cased", q.args[1])
	}

	hash, _ := q.args[2].(string)
	if hash == "s3cure-pass" {
		t.Fatal("password stored in plaintext")
	}
	if err := testHasher.Check(hash, "s3cure-pass"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if q.args[6] != string(model.StatusPending) {
		t.Errorf("status arg = %v, want pending", q.args[6])
	}
}

func TestUsers_CreateInvalid(t *testing.T) {
	db := &fakeDB{}
	repo := NewUsers(db, testHasher)

	_, err := repo.Create(context.Background(), model.NewUser{Email: "bad"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create error = %v, want *model.ValidationError", err)
	}
	if len(db.queries) != 0 {
		t.Error("invalid input reached the database")
	}
}

func TestUsers_CreateDuplicate(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}}}
	repo := NewUsers(db, testHasher)

	_, err := repo.Create(context.Background(), model.NewUser{
		Email:     "dup@example.com",
		Password:  "long-enough",
		FirstName: "A",
		LastName:  "B",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Create error = %v, want ErrDuplicate", err)
	}
}

func TestUsers_UpdateStatus(t *testing.T) {
	id := uuid.New()
	db := &fakeDB{rows: []fakeRow{userRow(id, "ayse@example.com", "hash", model.StatusSuspended)}}
	repo := NewUsers(db, testHasher)

	u, err := repo.UpdateStatus(context.Background(), id, model.StatusSuspended)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if u.Status != model.StatusSuspended {
		t.Errorf("Status = %q, want suspended", u.Status)
	}

	if _, err := repo.UpdateStatus(context.Background(), id, "deleted"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUsers_Authenticate(t *testing.T) {
	hash, err := testHasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name     string
		rows     []fakeRow
		password string
		wantErr  error
	}{
		{
			name:     "success",
			rows:     []fakeRow{userRow(uuid.New(), "ayse@example.com", hash, model.StatusActive)},
			password: "correct-password",
		},
		{
			name:     "wrong password",
			rows:     []fakeRow{userRow(uuid.New(), "ayse@example.com", hash, model.StatusActive)},
			password: "wrong-password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			rows:     nil,
			password: "correct-password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "pending account",
			rows:     []fakeRow{userRow(uuid.New(), "ayse@example.com", hash, model.StatusPending)},
			password: "correct-password",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{rows: tt.rows}
			repo := NewUsers(db, testHasher)

			u, err := repo.Authenticate(context.Background(), "ayse@example.com", tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Authenticate error = %v, want %v", err, tt.wantErr)
				}
				if len(db.execs) != 0 {
					t.Error("login recorded for failed authentication")
				}
				return
			}

			if err != nil {
				t.Fatalf("Authenticate failed: %v", err)
			}
			if u.Email != "ayse@example.com" {
				t.Errorf("Email = %q", u.Email)
			}
			if len(db.execs) != 1 || !strings.Contains(db.execs[0].sql, "last_login_at") {
				t.Errorf("login not recorded: %+v", db.execs)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	other := errors.New("connection refused")

	tests := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{pgx.ErrNoRows, ErrNotFound},
		{fmt.Errorf("wrapped: %w", pgx.ErrNoRows), ErrNotFound},
		{&pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{&pgconn.PgError{Code: "23503"}, nil},
		{other, other},
	}

	for _, tt := range tests {
		got := translate(tt.in)
		if tt.want == nil {
			if tt.in == nil && got != nil {
				t.Errorf("translate(nil) = %v", got)
			}
			if tt.in != nil && (errors.Is(got, ErrNotFound) || errors.Is(got, ErrDuplicate)) {
				t.Errorf("translate(%v) = %v, want passthrough", tt.in, got)
			}
			continue
		}
		if !errors.Is(got, tt.want) {
			t.Errorf("translate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
