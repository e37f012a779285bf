package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store/filestore"
)

func newStore(t *testing.T) *filestore.Store {
	t.Helper()
	st, err := filestore.Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	return st
}

func addProduct(t *testing.T, st *filestore.Store, name string, price int64, stock int) models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Category:    "Accessories",
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		Images:      []string{"/x.jpg"},
	}
	require.NoError(t, st.CreateProduct(context.Background(), p))
	return *p
}

type recordingHook struct {
	mu      sync.Mutex
	created []models.Order
	updated []models.Order
}

func (h *recordingHook) OrderCreated(_ context.Context, o models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, o)
}

func (h *recordingHook) OrderUpdated(_ context.Context, o models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, o)
}
