package events

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeOrderShipped       = "order_shipped"
)

type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    uint               `json:"orderId"`
	Status     models.OrderStatus `json:"status"`
	Wilaya     string             `json:"wilaya"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	Items      int                `json:"items"`
	At         time.Time          `json:"at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

// OrderEvents turns order changes into Kafka events. Publishing happens in
// the background; failures are only logged.
type OrderEvents struct {
	Publisher Publisher

	wg sync.WaitGroup
}

func (e *OrderEvents) OrderCreated(ctx context.Context, o models.Order) {
	e.publish(ctx, TypeOrderCreated, o)
}

func (e *OrderEvents) OrderUpdated(ctx context.Context, o models.Order) {
	typ := TypeOrderStatusChanged
	if o.Status == models.OrderStatusShipped {
		typ = TypeOrderShipped
	}
	e.publish(ctx, typ, o)
}

func (e *OrderEvents) publish(ctx context.Context, typ string, o models.Order) {
	if e.Publisher == nil {
		return
	}
	ev := OrderEvent{
		Type:       typ,
		OrderID:    o.ID,
		Status:     o.Status,
		Wilaya:     o.Wilaya,
		TotalPrice: o.TotalPrice,
		Items:      len(o.Items),
		At:         time.Now().UTC(),
	}
	l := logging.FromContext(ctx).With("svc", "events.publish", "type", typ, "order_id", o.ID)
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.Publisher.PublishEvent(ctx, strconv.FormatUint(uint64(ev.OrderID), 10), ev); err != nil {
			l.Warn("publish_event_failed", "error", err)
		}
	}()
}

// Wait blocks until every in-flight publish has finished.
func (e *OrderEvents) Wait() {
	e.wg.Wait()
}
