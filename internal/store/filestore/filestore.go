// Package filestore keeps all storefront data in memory and writes the
// whole state to a single JSON file after every mutation.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

type fileUser struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type snapshot struct {
	Users    []fileUser       `json:"users"`
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
	Slides   []models.Slide   `json:"slides"`

	NextUserID    uint `json:"nextUserId"`
	NextProductID uint `json:"nextProductId"`
	NextOrderID   uint `json:"nextOrderId"`
	NextSlideID   uint `json:"nextSlideId"`

	AdminUserID uint `json:"adminUserId,omitempty"`

	SiteConfig     *models.SiteConfig     `json:"siteConfig,omitempty"`
	ShippingConfig *models.ShippingConfig `json:"shippingConfig,omitempty"`
}

type Store struct {
	path string

	mu    sync.RWMutex
	state snapshot
	now   func() time.Time
}

var _ store.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
		state: snapshot{
			NextUserID:    1,
			NextProductID: 1,
			NextOrderID:   1,
			NextSlideID:   1,
		},
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.fixCounters()
	return s, nil
}

// fixCounters keeps next ids ahead of stored rows in case the file was
// edited by hand.
func (s *Store) fixCounters() {
	st := &s.state
	for _, u := range st.Users {
		if u.ID >= st.NextUserID {
			st.NextUserID = u.ID + 1
		}
	}
	for _, p := range st.Products {
		if p.ID >= st.NextProductID {
			st.NextProductID = p.ID + 1
		}
	}
	for _, o := range st.Orders {
		if o.ID >= st.NextOrderID {
			st.NextOrderID = o.ID + 1
		}
	}
	for _, sl := range st.Slides {
		if sl.ID >= st.NextSlideID {
			st.NextSlideID = sl.ID + 1
		}
	}
	if st.NextUserID == 0 {
		st.NextUserID = 1
	}
	if st.NextProductID == 0 {
		st.NextProductID = 1
	}
	if st.NextOrderID == 0 {
		st.NextOrderID = 1
	}
	if st.NextSlideID == 0 {
		st.NextSlideID = 1
	}
}

func (st snapshot) clone() snapshot {
	out := st
	out.Users = slices.Clone(st.Users)
	out.Slides = slices.Clone(st.Slides)
	out.Products = make([]models.Product, len(st.Products))
	for i, p := range st.Products {
		out.Products[i] = cloneProduct(p)
	}
	out.Orders = make([]models.Order, len(st.Orders))
	for i, o := range st.Orders {
		out.Orders[i] = cloneOrder(o)
	}
	if st.SiteConfig != nil {
		c := *st.SiteConfig
		out.SiteConfig = &c
	}
	if st.ShippingConfig != nil {
		c := *st.ShippingConfig
		out.ShippingConfig = &c
	}
	return out
}

// commit writes the current state and puts prev back when the write
// fails, so memory never runs ahead of the file. mu must be held for
// writing.
func (s *Store) commit(prev snapshot) error {
	if err := s.persist(); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// persist must be called with mu held for writing.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }
