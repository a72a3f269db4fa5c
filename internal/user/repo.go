package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
	ErrNoSession    = errors.New("session not found")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User, updatePassword bool) error

	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	DeleteSessions(ctx context.Context, userID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, first_name, last_name, role,
		                   business_name, phone, address, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Role,
		u.BusinessName, u.Phone, u.Address, u.PasswordHash)
	if err != nil {
		// email carries a UNIQUE constraint
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, role,
		       business_name, phone, address, password_hash, created_at, updated_at
		FROM users WHERE id=$1
	`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, role,
		       business_name, phone, address, password_hash, created_at, updated_at
		FROM users WHERE email=$1
	`, email))
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *PGRepo) scanOne(row rowScanner) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.BusinessName, &u.Phone, &u.Address, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) Update(ctx context.Context, u *User, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePassword {
		_, err := r.db.Exec(ctx, `
			UPDATE users
			SET first_name    = COALESCE(NULLIF($2,''), first_name),
			    last_name     = COALESCE(NULLIF($3,''), last_name),
			    business_name = COALESCE(NULLIF($4,''), business_name),
			    phone         = COALESCE(NULLIF($5,''), phone),
			    address       = COALESCE(NULLIF($6,''), address),
			    password_hash = $7,
			    updated_at    = NOW()
			WHERE id = $1
		`, u.ID, u.FirstName, u.LastName, u.BusinessName, u.Phone, u.Address, u.PasswordHash)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name    = COALESCE(NULLIF($2,''), first_name),
		    last_name     = COALESCE(NULLIF($3,''), last_name),
		    business_name = COALESCE(NULLIF($4,''), business_name),
		    phone         = COALESCE(NULLIF($5,''), phone),
		    address       = COALESCE(NULLIF($6,''), address),
		    updated_at    = NOW()
		WHERE id = $1
	`, u.ID, u.FirstName, u.LastName, u.BusinessName, u.Phone, u.Address)
	return err
}

func (r *PGRepo) CreateSession(ctx context.Context, s *Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (access_token, refresh_token, user_id, expires_at)
		VALUES ($1,$2,$3,$4)
	`, s.AccessToken, s.RefreshToken, s.UserID, s.ExpiresAt)
	return err
}

func (r *PGRepo) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Session
	err := r.db.QueryRow(ctx, `
		SELECT access_token, refresh_token, user_id, expires_at
		FROM sessions WHERE access_token=$1
	`, accessToken).Scan(&s.AccessToken, &s.RefreshToken, &s.UserID, &s.ExpiresAt)
	if err != nil {
		return nil, ErrNoSession
	}
	return &s, nil
}

func (r *PGRepo) DeleteSessions(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id=$1`, userID)
	return err
}
