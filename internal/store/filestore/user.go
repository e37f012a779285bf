package filestore

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func (u fileUser) model() *models.User {
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func (s *Store) userIndex(match func(fileUser) bool) int {
	for i := range s.state.Users {
		if match(s.state.Users[i]) {
			return i
		}
	}
	return -1
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.userIndex(func(u fileUser) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	return s.state.Users[i].model(), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.userIndex(func(u fileUser) bool { return u.Username == username })
	if i < 0 {
		return nil, fmt.Errorf("%w: user %q", store.ErrNotFound, username)
	}
	return s.state.Users[i].model(), nil
}

func (s *Store) insertUser(u *models.User) {
	u.ID = s.state.NextUserID
	s.state.NextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	s.state.Users = append(s.state.Users, fileUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	})
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	if s.userIndex(func(x fileUser) bool { return x.Username == u.Username }) >= 0 {
		return fmt.Errorf("%w: username %q taken", store.ErrConflict, u.Username)
	}
	s.insertUser(u)
	return s.commit(prev)
}

func (s *Store) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.userIndex(func(u fileUser) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	s.state.Users[i].PasswordHash = passwordHash
	return s.commit(prev)
}

func (s *Store) Admin(_ context.Context) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.AdminUserID == 0 {
		return nil, fmt.Errorf("%w: admin", store.ErrNotFound)
	}
	i := s.userIndex(func(u fileUser) bool { return u.ID == s.state.AdminUserID })
	if i < 0 {
		return nil, fmt.Errorf("%w: admin", store.ErrNotFound)
	}
	return s.state.Users[i].model(), nil
}

func (s *Store) ClaimAdmin(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	if s.state.AdminUserID != 0 {
		return nil, store.ErrAdminExists
	}

	i := s.userIndex(func(u fileUser) bool { return u.Username == username })
	var user *models.User
	if i >= 0 {
		s.state.Users[i].PasswordHash = passwordHash
		s.state.Users[i].Role = models.RoleAdmin
		user = s.state.Users[i].model()
	} else {
		user = &models.User{Username: username, PasswordHash: passwordHash, Role: models.RoleAdmin}
		s.insertUser(user)
	}
	s.state.AdminUserID = user.ID

	if err := s.commit(prev); err != nil {
		return nil, err
	}
	return user, nil
}
