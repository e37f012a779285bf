package filestore

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	if o.Commune != nil {
		c := *o.Commune
		o.Commune = &c
	}
	return o
}

func (s *Store) orderIndex(id uint) int {
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// PlaceOrder checks every line against current stock and only then applies
// the decrements. Both steps run under the write lock, so concurrent
// checkouts cannot oversell.
func (s *Store) PlaceOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	need := make(map[uint]int, len(o.Items))
	for _, it := range o.Items {
		need[it.ProductID] += it.Quantity
	}
	for _, it := range o.Items {
		i := s.productIndex(it.ProductID)
		if i < 0 {
			return fmt.Errorf("%w: product %d", store.ErrNotFound, it.ProductID)
		}
		if s.state.Products[i].Stock < need[it.ProductID] {
			return fmt.Errorf("%w: product %d", store.ErrInsufficientStock, it.ProductID)
		}
	}

	for _, it := range o.Items {
		s.state.Products[s.productIndex(it.ProductID)].Stock -= it.Quantity
	}

	o.ID = s.state.NextOrderID
	s.state.NextOrderID++
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	s.state.Orders = append(s.state.Orders, cloneOrder(*o))
	return s.commit(prev)
}

func (s *Store) ListOrders(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.state.Orders))
	for _, o := range s.state.Orders {
		out = append(out, cloneOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) ListOrdersByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0)
	for _, o := range s.state.Orders {
		if o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.orderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: order %d", store.ErrNotFound, id)
	}
	o := cloneOrder(s.state.Orders[i])
	return &o, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()

	i := s.orderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: order %d", store.ErrNotFound, id)
	}
	s.state.Orders[i].Status = status
	if err := s.commit(prev); err != nil {
		return nil, err
	}
	o := cloneOrder(s.state.Orders[i])
	return &o, nil
}
