package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "storefront.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func addProduct(t *testing.T, s *Store, name string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: "about " + name,
		Category:    "Smartphones",
		Price:       decimal.NewFromInt(1000),
		Stock:       stock,
		Images:      []string{"/uploads/x.jpg"},
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestReopenKeepsState(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	p := addProduct(t, s, "Phone", 3)
	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "hash"}))
	_, err := s.ClaimAdmin(ctx, "alice", "hash2")
	require.NoError(t, err)

	commune := "Kouba"
	require.NoError(t, s.Settings().Save(ctx, models.Settings{Site: &models.SiteConfig{LogoURL: &commune}}))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", got.Name)

	bob, err := reopened.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "hash", bob.PasswordHash)
	assert.Equal(t, models.RoleUser, bob.Role)

	admin, err := reopened.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", admin.Username)

	doc, err := reopened.Settings().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, doc.Site)
	assert.Equal(t, "Kouba", *doc.Site.LogoURL)

	next := addProduct(t, reopened, "Tablet", 1)
	assert.Equal(t, p.ID+1, next.ID)
}

func TestPlaceOrder_AllOrNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a := addProduct(t, s, "A", 5)
	b := addProduct(t, s, "B", 1)

	o := &models.Order{Items: []models.OrderItem{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 2},
	}}
	require.ErrorIs(t, s.PlaceOrder(ctx, o), store.ErrInsufficientStock)

	got, err := s.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	o = &models.Order{Items: []models.OrderItem{{ProductID: 42, Quantity: 1}}}
	require.ErrorIs(t, s.PlaceOrder(ctx, o), store.ErrNotFound)

	o = &models.Order{Items: []models.OrderItem{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	}}
	require.NoError(t, s.PlaceOrder(ctx, o))
	assert.Equal(t, models.OrderStatusPending, o.Status)

	got, err = s.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
	got, err = s.GetProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestPlaceOrder_ConcurrentCheckoutsDoNotOversell(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := addProduct(t, s, "Limited", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := &models.Order{Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1}}}
			if err := s.PlaceOrder(ctx, o); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestListProducts_FilterAndIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	addProduct(t, s, "Galaxy", 1)
	addProduct(t, s, "Pixel", 1)

	list, err := s.ListProducts(ctx, store.ProductFilter{Search: "PIX"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list[0].Images[0] = "mutated"
	again, err := s.GetProduct(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/x.jpg", again.Images[0])

	none, err := s.ListProducts(ctx, store.ProductFilter{Category: "Gaming"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClaimAdminOnce(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u, err := s.ClaimAdmin(ctx, "owner", "h")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = s.ClaimAdmin(ctx, "other", "h")
	require.ErrorIs(t, err, store.ErrAdminExists)
}

func TestSlidesAndStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSlide(ctx, &models.Slide{Title: "second", SortOrder: 5}))
	require.NoError(t, s.CreateSlide(ctx, &models.Slide{Title: "first", SortOrder: 0}))
	slides, err := s.ListSlides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "first", slides[0].Title)

	require.NoError(t, s.DeleteSlide(ctx, slides[0].ID))
	n, err := s.CountSlides(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.UpdateOrderStatus(ctx, 7, models.OrderStatusShipped)
	require.ErrorIs(t, err, store.ErrNotFound)
}

// blockWrites turns the data file into a non-empty directory so the
// final rename of every write fails.
func blockWrites(t *testing.T, path string) func() {
	t.Helper()
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))
	return func() { require.NoError(t, os.RemoveAll(path)) }
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	p := addProduct(t, s, "Phone", 5)
	placed := &models.Order{Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1}}}
	require.NoError(t, s.PlaceOrder(ctx, placed))

	unblock := blockWrites(t, path)

	err := s.PlaceOrder(ctx, &models.Order{Items: []models.OrderItem{{ProductID: p.ID, Quantity: 2}}})
	require.Error(t, err)
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = s.UpdateOrderStatus(ctx, placed.ID, models.OrderStatusShipped)
	require.Error(t, err)
	o, err := s.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, o.Status)

	stock := 9
	_, err = s.UpdateProduct(ctx, p.ID, models.ProductPatch{Stock: &stock})
	require.Error(t, err)
	require.Error(t, s.CreateUser(ctx, &models.User{Username: "eve", PasswordHash: "h"}))
	_, err = s.GetUserByUsername(ctx, "eve")
	require.ErrorIs(t, err, store.ErrNotFound)

	unblock()
	next := addProduct(t, s, "Tablet", 1)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err = reopened.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
	orders, err = reopened.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.Equal(t, p.ID+1, next.ID)
}
