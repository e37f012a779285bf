package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/settings"
	"github.com/Skotchmaster/storefront/internal/store/filestore"
)

type carrierCall struct {
	Path    string
	Headers http.Header
	Body    []byte
}

type fakeCarrier struct {
	mu    sync.Mutex
	calls []carrierCall
	reply func(orderID string) (int, string, string)
}

func (f *fakeCarrier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, carrierCall{Path: r.URL.Path, Headers: r.Header.Clone(), Body: body})
	f.mu.Unlock()

	var parcels []map[string]any
	_ = json.Unmarshal(body, &parcels)
	id := ""
	if len(parcels) == 1 {
		id, _ = parcels[0]["order_id"].(string)
	}
	status, ctype, resp := f.reply(id)
	if ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

func (f *fakeCarrier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func acceptAll(id string) (int, string, string) {
	return http.StatusOK, "application/json", fmt.Sprintf(`[{"order_id":%q,"success":true}]`, id)
}

type fixture struct {
	store   *filestore.Store
	carrier *fakeCarrier
	server  *httptest.Server
}

func newFixture(t *testing.T, reply func(string) (int, string, string)) *fixture {
	t.Helper()
	st, err := filestore.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	fc := &fakeCarrier{reply: reply}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)

	p := &models.Product{Name: "Phone", Category: "Smartphones", Price: decimal.NewFromInt(1000), Stock: 50}
	require.NoError(t, st.CreateProduct(context.Background(), p))
	return &fixture{store: st, carrier: fc, server: srv}
}

func (f *fixture) order(t *testing.T, wilaya, address string, commune *string) models.Order {
	t.Helper()
	o := &models.Order{
		CustomerName: "Amine Benali",
		Phone:        "0550123456",
		Wilaya:       wilaya,
		Address:      address,
		Commune:      commune,
		TotalPrice:   decimal.NewFromInt(1500),
		Items:        []models.OrderItem{{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(1000)}},
	}
	require.NoError(t, f.store.PlaceOrder(context.Background(), o))
	return *o
}

func (f *fixture) reconciler(cfg models.ShippingConfig) *Reconciler {
	return &Reconciler{
		Orders: f.store,
		Config: settings.New(settings.NewMemory(), cfg),
		Client: f.server.Client(),
	}
}

func (f *fixture) yalidineConfig() models.ShippingConfig {
	return models.ShippingConfig{APIURL: f.server.URL + "/yalidine/v1", APIID: "id-1", APIToken: "tok-1"}
}

func (f *fixture) status(t *testing.T, id uint) models.OrderStatus {
	t.Helper()
	o, err := f.store.GetOrder(context.Background(), id)
	require.NoError(t, err)
	return o.Status
}

func TestDispatch_NotConfigured(t *testing.T) {
	f := newFixture(t, acceptAll)
	o := f.order(t, "16 - Alger", "Kouba, Rue 5", nil)

	r := f.reconciler(models.ShippingConfig{})
	_, err := r.Dispatch(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	r = f.reconciler(models.ShippingConfig{APIURL: f.server.URL, APIID: "id"})
	_, err = r.Dispatch(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, 0, f.carrier.count())
	assert.Equal(t, models.OrderStatusPending, f.status(t, o.ID))
}

func TestDispatch_YalidineMixedBatch(t *testing.T) {
	f := newFixture(t, acceptAll)
	good := f.order(t, "16 - Alger", "Kouba, Rue 5, Alger", nil)
	unknown := f.order(t, "Unknownland", "Kouba, Rue 5", nil)
	noCommune := f.order(t, "31 - Oran", "K", nil)

	var shipped []uint
	r := f.reconciler(f.yalidineConfig())
	r.OnShipped = func(_ context.Context, o models.Order) { shipped = append(shipped, o.ID) }

	res, err := r.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 2, res.Failed)
	assert.Len(t, res.Results, res.Attempted)
	assert.Equal(t, []uint{good.ID}, shipped)

	byID := map[uint]OrderResult{}
	for _, rr := range res.Results {
		byID[rr.OrderID] = rr
	}
	assert.True(t, byID[good.ID].OK)
	assert.Contains(t, byID[unknown.ID].Message, "unsupported wilaya for Yalidine: Unknownland")
	assert.Contains(t, byID[noCommune.ID].Message, "commune missing")

	// only the valid order reached the carrier
	require.Equal(t, 1, f.carrier.count())
	call := f.carrier.calls[0]
	assert.Equal(t, "/yalidine/v1/parcels", call.Path)
	assert.Equal(t, "Bearer tok-1", call.Headers.Get("Authorization"))
	assert.Equal(t, "id-1", call.Headers.Get("X-API-ID"))
	assert.Equal(t, "tok-1", call.Headers.Get("X-API-TOKEN"))

	var sent []map[string]any
	require.NoError(t, json.Unmarshal(call.Body, &sent))
	require.Len(t, sent, 1)
	assert.Equal(t, "Kouba", sent[0]["to_commune_name"])
	assert.Equal(t, "Alger", sent[0]["to_wilaya_name"])
	assert.Equal(t, "Phone", sent[0]["product_list"])

	assert.Equal(t, models.OrderStatusShipped, f.status(t, good.ID))
	assert.Equal(t, models.OrderStatusPending, f.status(t, unknown.ID))
	assert.Equal(t, models.OrderStatusPending, f.status(t, noCommune.ID))

	// a second run never resends what already shipped
	res, err = r.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 1, f.carrier.count())
}

func TestDispatch_DefaultCommuneFillsGap(t *testing.T) {
	f := newFixture(t, acceptAll)
	o := f.order(t, "Oran", "K", nil)

	cfg := f.yalidineConfig()
	cfg.DefaultCommune = "Es Senia"
	res, err := f.reconciler(cfg).Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)

	var sent []map[string]any
	require.NoError(t, json.Unmarshal(f.carrier.calls[0].Body, &sent))
	assert.Equal(t, "Es Senia", sent[0]["to_commune_name"])
	assert.Equal(t, models.OrderStatusShipped, f.status(t, o.ID))
}

func TestDispatch_CarrierRejectsOrder(t *testing.T) {
	f := newFixture(t, func(id string) (int, string, string) {
		if id == "1" {
			return http.StatusOK, "application/json", `[{"order_id":"1","success":false,"message":"bad address"}]`
		}
		return acceptAll(id)
	})
	first := f.order(t, "Alger", "Kouba, Rue 5", nil)
	second := f.order(t, "Alger", "Hydra, Rue 9", nil)

	res, err := f.reconciler(f.yalidineConfig()).Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, OrderResult{OrderID: first.ID, OK: false, Message: "bad address"}, res.Results[0])
	assert.Equal(t, models.OrderStatusPending, f.status(t, first.ID))
	assert.Equal(t, models.OrderStatusShipped, f.status(t, second.ID))
}

func TestDispatch_CallerCancelMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture(t, func(id string) (int, string, string) {
		if id == "1" {
			cancel()
		}
		return acceptAll(id)
	})
	first := f.order(t, "Alger", "Kouba, Rue 5", nil)
	second := f.order(t, "Alger", "Hydra, Rue 9", nil)

	var shipped []uint
	r := f.reconciler(f.yalidineConfig())
	r.OnShipped = func(_ context.Context, o models.Order) { shipped = append(shipped, o.ID) }

	res, err := r.Dispatch(ctx, nil)
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, []uint{first.ID, second.ID}, shipped)
	assert.Equal(t, models.OrderStatusShipped, f.status(t, first.ID))
	assert.Equal(t, models.OrderStatusShipped, f.status(t, second.ID))

	// accepted parcels are not sent twice
	res, err = r.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Attempted)
	assert.Equal(t, 2, f.carrier.count())
}

func TestDispatch_HTTPErrorMessage(t *testing.T) {
	f := newFixture(t, func(string) (int, string, string) {
		return http.StatusUnprocessableEntity, "application/json", `{"message":"bad phone"}`
	})
	o := f.order(t, "Alger", "Kouba, Rue 5", nil)

	res, err := f.reconciler(f.yalidineConfig()).Dispatch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "422: bad phone", res.Results[0].Message)
	assert.Equal(t, models.OrderStatusPending, f.status(t, o.ID))
}

func TestDispatch_SubsetAndNonPending(t *testing.T) {
	f := newFixture(t, acceptAll)
	a := f.order(t, "Alger", "Kouba, Rue 5", nil)
	b := f.order(t, "Alger", "Hydra, Rue 9", nil)
	c := f.order(t, "Alger", "Bab Ezzouar", nil)
	_, err := f.store.UpdateOrderStatus(context.Background(), c.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)

	res, err := f.reconciler(f.yalidineConfig()).Dispatch(context.Background(), []uint{b.ID, c.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, b.ID, res.Results[0].OrderID)
	assert.Equal(t, models.OrderStatusPending, f.status(t, a.ID))
	assert.Equal(t, models.OrderStatusShipped, f.status(t, b.ID))
	assert.Equal(t, models.OrderStatusConfirmed, f.status(t, c.ID))

	res, err = f.reconciler(f.yalidineConfig()).Dispatch(context.Background(), []uint{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Attempted)
	assert.Empty(t, res.Results)
}

func TestDispatch_GenericCarrier(t *testing.T) {
	f := newFixture(t, func(string) (int, string, string) {
		return http.StatusCreated, "text/plain", "created"
	})
	o := f.order(t, "Unknownland", "K", nil)

	cfg := models.ShippingConfig{APIURL: f.server.URL + "/parcels", APIID: "id", APIToken: "tok"}
	res, err := f.reconciler(cfg).Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, models.OrderStatusShipped, f.status(t, o.ID))

	require.Equal(t, 1, f.carrier.count())
	assert.Equal(t, "/parcels", f.carrier.calls[0].Path)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(f.carrier.calls[0].Body, &sent))
	assert.EqualValues(t, o.ID, sent["orderId"])
	assert.Equal(t, "Unknownland", sent["wilaya"])
	assert.NotContains(t, sent, "commune")
}

func TestDispatch_GenericCarrierFailure(t *testing.T) {
	f := newFixture(t, func(string) (int, string, string) {
		return http.StatusBadGateway, "", ""
	})
	o := f.order(t, "Alger", "Kouba", nil)

	cfg := models.ShippingConfig{APIURL: f.server.URL, APIID: "id", APIToken: "tok"}
	res, err := f.reconciler(cfg).Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Failed (502)", res.Results[0].Message)
	assert.Equal(t, models.OrderStatusPending, f.status(t, o.ID))
}
