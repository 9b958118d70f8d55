package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/peer-support/internal/domain"
)

// CounselorRepository handles persistence for counselor accounts.
type CounselorRepository interface {
	Create(ctx context.Context, counselor *domain.Counselor) error
	GetByID(ctx context.Context, id string) (*domain.Counselor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Counselor, error)
}

type counselorRepository struct {
	pool *pgxpool.Pool
}

// NewCounselorRepository instantiates the repository.
func NewCounselorRepository(pool *pgxpool.Pool) CounselorRepository {
	return &counselorRepository{pool: pool}
}

func (r *counselorRepository) Create(ctx context.Context, counselor *domain.Counselor) error {
	const query = `
        INSERT INTO counselors (name, email, password_hash, role, active_flag)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		counselor.Name,
		strings.ToLower(counselor.Email),
		counselor.PasswordHash,
		counselor.Role,
		counselor.Active,
	).Scan(&counselor.ID, &counselor.CreatedAt, &counselor.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *counselorRepository) GetByID(ctx context.Context, id string) (*domain.Counselor, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM counselors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *counselorRepository) GetByEmail(ctx context.Context, email string) (*domain.Counselor, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM counselors WHERE email=$1`
	return r.fetchSingle(ctx, query, strings.ToLower(email))
}

func (r *counselorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Counselor, error) {
	var c domain.Counselor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.PasswordHash,
		&c.Role,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// memoryCounselorRepository mirrors the Postgres repository for the memory
// and Redis backends. Misses return pgx.ErrNoRows like the SQL version.
type memoryCounselorRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Counselor
}

// NewMemoryCounselorRepository returns an empty in-process repository.
func NewMemoryCounselorRepository() CounselorRepository {
	return &memoryCounselorRepository{byID: make(map[string]domain.Counselor)}
}

func (r *memoryCounselorRepository) Create(ctx context.Context, counselor *domain.Counselor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(counselor.Email)
	for _, existing := range r.byID {
		if existing.Email == email {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	counselor.ID = uuid.NewString()
	counselor.Email = email
	counselor.CreatedAt = now
	counselor.UpdatedAt = now
	r.byID[counselor.ID] = *counselor
	return nil
}

func (r *memoryCounselorRepository) GetByID(ctx context.Context, id string) (*domain.Counselor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *memoryCounselorRepository) GetByEmail(ctx context.Context, email string) (*domain.Counselor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, c := range r.byID {
		if c.Email == email {
			found := c
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}
