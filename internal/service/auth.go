package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthService struct {
	Users  store.Users
	Secret []byte
	TTL    time.Duration
}

type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) SetupNeeded(ctx context.Context) (bool, error) {
	_, err := s.Users.Admin(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// Setup creates the one admin account, or promotes an existing user to it.
// It fails with ErrAdminExists once an admin is set up.
func (s *AuthService) Setup(ctx context.Context, req transport.SetupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.setup")
	req.Username = strings.TrimSpace(req.Username)
	if err := Check(req); err != nil {
		return nil, err
	}
	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("setup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	u, err := s.Users.ClaimAdmin(ctx, req.Username, pwHash)
	if err != nil {
		return nil, err
	}
	l.Info("admin_setup_done", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *AuthService) Register(ctx context.Context, req transport.CredentialsRequest) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	req.Username = strings.TrimSpace(req.Username)
	if err := Check(req); err != nil {
		return nil, err
	}
	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	u := &models.User{Username: req.Username, PasswordHash: pwHash, Role: models.RoleUser}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login is refused with ErrAdminMissing until the admin account exists.
func (s *AuthService) Login(ctx context.Context, req transport.CredentialsRequest) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", req.Username)
	if err := Check(req); err != nil {
		return nil, err
	}

	needed, err := s.SetupNeeded(ctx)
	if err != nil {
		return nil, err
	}
	if needed {
		return nil, ErrAdminMissing
	}

	u, err := s.Users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		l.Warn("login_failed", "status", 401, "reason", "unknown user")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if hash.Outdated(u.PasswordHash) {
		if pwHash, err := hash.HashPassword(req.Password); err == nil {
			if err := s.Users.UpdatePassword(ctx, u.ID, pwHash); err != nil {
				l.Warn("rehash_failed", "user_id", u.ID, "error", err)
			}
		}
	}
	return s.issue(u)
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthorized, id)
	}
	return u, err
}

// EnsureAdmin installs the bootstrap admin from configuration. It is a
// no-op without credentials and never replaces an admin with a different
// username.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := s.Users.Admin(ctx)
	switch {
	case err == nil && admin.Username == username:
		return s.Users.UpdatePassword(ctx, admin.ID, pwHash)
	case err == nil:
		l.Warn("bootstrap_admin_skipped", "reason", "another admin is already set up", "admin", admin.Username)
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	u, err := s.Users.ClaimAdmin(ctx, username, pwHash)
	if errors.Is(err, store.ErrAdminExists) {
		return nil
	}
	if err != nil {
		return err
	}
	l.Info("bootstrap_admin_ready", "user_id", u.ID, "username", u.Username)
	return nil
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	exp := time.Now().Add(ttl)
	tok, err := tokens.IssueSession(u.ID, u.Username, u.Role, exp, s.Secret)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok, ExpiresAt: exp}, nil
}
