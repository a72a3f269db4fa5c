package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrBadRole            = errors.New("unknown role")
	ErrMissingFields      = errors.New("required fields missing")
)

// RegisterRequest is a tagged union on Role: restaurants and providers share
// the account fields but differ in which business fields are required.
type RegisterRequest struct {
	Role         string `json:"role"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type Service struct {
	repo     Repository
	tokenTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, tokenTTL time.Duration, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, tokenTTL: tokenTTL, logger: logger}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if !ValidRole(req.Role) {
		return nil, ErrBadRole
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, ErrMissingFields
	}
	// Both roles operate a business; the name is part of the storefront.
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, ErrMissingFields
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login checks email, password and role together: a restaurant account
// cannot sign in through the provider door.
func (s *Service) Login(ctx context.Context, email, password, role string) (*User, *Session, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if u.Role != role || !CheckPassword(u.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	sess := &Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		UserID:       u.ID,
		ExpiresAt:    time.Now().Add(s.tokenTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return u, sess, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	sess, err := s.repo.GetSession(ctx, accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return s.repo.GetByID(ctx, sess.UserID)
}

func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ProfileUpdate carries the editable profile fields; empty strings leave the
// stored value unchanged.
type ProfileUpdate struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, up ProfileUpdate) (*User, error) {
	u := &User{
		ID:           userID,
		FirstName:    up.FirstName,
		LastName:     up.LastName,
		BusinessName: up.BusinessName,
		Phone:        up.Phone,
		Address:      up.Address,
	}
	if err := s.repo.Update(ctx, u, false); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.repo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every open session for the user.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if next == "" {
		return ErrMissingFields
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := s.repo.Update(ctx, u, true); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.repo.DeleteSessions(ctx, userID); err != nil {
		s.logger.Errorw("failed to revoke sessions", "user_id", userID, "error", err)
	}
	return nil
}
