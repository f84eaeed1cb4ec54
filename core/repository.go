package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUserNotFound is returned by Find* when no row matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is the storage-level uniqueness rejection. It is the
	// authoritative guard when two registrations race past the service
	// pre-checks: exactly one insert wins, the other gets this error.
	ErrDuplicateUser = errors.New("username or email already exists")
)

// UserRecord is the full persisted projection including the password hash.
// It stays inside the store/service boundary; handlers see User instead.
type UserRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Create(ctx context.Context, username, email, passwordHash string) (*UserRecord, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	const q = `SELECT id, username, email, password_hash, created_at FROM users WHERE username=$1`
	return r.findOne(ctx, q, username)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	const q = `SELECT id, username, email, password_hash, created_at FROM users WHERE email=$1`
	return r.findOne(ctx, q, email)
}

func (r *PgUserRepository) findOne(ctx context.Context, query, arg string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns the stored record. Unique index
// violations on username or email surface as ErrDuplicateUser.
func (r *PgUserRepository) Create(ctx context.Context, username, email, passwordHash string) (*UserRecord, error) {
	const q = `INSERT INTO users (username, email, password_hash) VALUES ($1,$2,$3) RETURNING id, created_at`
	u := UserRecord{Username: username, Email: email, PasswordHash: passwordHash}
	if err := r.db.QueryRow(ctx, q, username, email, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return &u, nil
}
