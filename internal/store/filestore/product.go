package filestore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	p.Specifications = maps.Clone(p.Specifications)
	return p
}

func (s *Store) productIndex(id uint) int {
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ListProducts(_ context.Context, f store.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Product, 0, len(s.state.Products))
	for _, p := range s.state.Products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	p := cloneProduct(s.state.Products[i])
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	p.ID = s.state.NextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.state.NextProductID++
	s.state.Products = append(s.state.Products, cloneProduct(*p))
	return s.commit(prev)
}

func (s *Store) UpdateProduct(_ context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.productIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	p := cloneProduct(s.state.Products[i])
	p.Apply(patch)
	s.state.Products[i] = cloneProduct(p)
	if err := s.commit(prev); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.productIndex(id)
	if i < 0 {
		return nil
	}
	s.state.Products = slices.Delete(s.state.Products, i, i+1)
	return s.commit(prev)
}

func (s *Store) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.state.Products)), nil
}
