package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type memWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func TestOrderEvents(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w)
	ev := &OrderEvents{Publisher: p}

	o := models.Order{ID: 7, Status: models.OrderStatusPending, Wilaya: "Alger", TotalPrice: decimal.NewFromInt(1500),
		Items: []models.OrderItem{{ProductID: 1, Quantity: 1}}}
	ev.OrderCreated(context.Background(), o)
	o.Status = models.OrderStatusConfirmed
	ev.OrderUpdated(context.Background(), o)
	o.Status = models.OrderStatusShipped
	ev.OrderUpdated(context.Background(), o)
	ev.Wait()

	require.Len(t, w.msgs, 3)
	types := map[string]OrderEvent{}
	for _, m := range w.msgs {
		assert.Equal(t, "7", string(m.Key))
		var got OrderEvent
		require.NoError(t, json.Unmarshal(m.Value, &got))
		types[got.Type] = got
	}
	assert.Contains(t, types, TypeOrderCreated)
	assert.Contains(t, types, TypeOrderStatusChanged)
	assert.Equal(t, models.OrderStatusShipped, types[TypeOrderShipped].Status)
	assert.Equal(t, "1500", types[TypeOrderCreated].TotalPrice.String())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestOrderEvents_FailuresStayInside(t *testing.T) {
	w := &memWriter{err: errors.New("broker down")}
	ev := &OrderEvents{Publisher: NewProducerWithWriter(w)}

	ev.OrderCreated(context.Background(), models.Order{ID: 1})
	ev.Wait()
	assert.Empty(t, w.msgs)

	var nilPublisher OrderEvents
	nilPublisher.OrderCreated(context.Background(), models.Order{ID: 2})
	nilPublisher.Wait()
}
