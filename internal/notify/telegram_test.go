package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

type productsByID map[uint]string

func (p productsByID) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	name, ok := p[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.Product{ID: id, Name: name}, nil
}

func testOrder() models.Order {
	return models.Order{
		ID:           42,
		CustomerName: "Amine",
		Phone:        "0550123456",
		Wilaya:       "16 - Alger",
		Address:      "Kouba, Rue 5",
		TotalPrice:   decimal.NewFromInt(2500),
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 9, Quantity: 1},
		},
	}
}

func TestFormatOrder(t *testing.T) {
	msg := FormatOrder(testOrder(), map[uint]string{1: "Phone"})
	assert.Contains(t, msg, "#42")
	assert.Contains(t, msg, "- Phone ×2")
	assert.Contains(t, msg, "- #9 ×1")
	assert.Contains(t, msg, "2500 دج")
	assert.NotContains(t, msg, "البلدية")
}

func TestTelegramOrderCreated(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		got  map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram(" token ", "chat-1", productsByID{1: "Phone"})
	tg.BaseURL = srv.URL
	tg.OrderCreated(context.Background(), testOrder())
	tg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/bottoken/sendMessage", path)
	assert.Equal(t, "chat-1", got["chat_id"])
	assert.Contains(t, got["text"], "- Phone ×2")
}

func TestTelegramSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tg := NewTelegram("token", "chat", nil)
	tg.BaseURL = srv.URL
	err := tg.SendText(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(403)")

	// failures in the background path are swallowed
	tg.OrderCreated(context.Background(), testOrder())
	tg.Wait()
}

func TestTelegramTransportErrorHidesToken(t *testing.T) {
	const token = "123456:secret-bot-token"
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	tg := NewTelegram(token, "chat", nil)
	tg.BaseURL = base
	err := tg.SendText(context.Background(), "hi")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), token)
	assert.Contains(t, err.Error(), "[redacted]")
	var ue *url.Error
	assert.True(t, errors.As(err, &ue))

	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "debug"))
	tg.OrderCreated(ctx, testOrder())
	tg.Wait()
	assert.Contains(t, buf.String(), "telegram_notification_failed")
	assert.NotContains(t, buf.String(), token)
}

func TestTelegramDisabled(t *testing.T) {
	tg := NewTelegram("", "chat", nil)
	assert.False(t, tg.Enabled())
	tg.OrderCreated(context.Background(), testOrder())
	tg.Wait()

	var none *Telegram
	assert.False(t, none.Enabled())
}
