package shipping

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrNotConfigured = errors.New("shipping API is not configured")

type OrderStore interface {
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type ConfigSource interface {
	Shipping(ctx context.Context) (*models.ShippingConfig, error)
}

type OrderResult struct {
	OrderID uint   `json:"orderId"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type Result struct {
	Attempted int           `json:"attempted"`
	Sent      int           `json:"sent"`
	Failed    int           `json:"failed"`
	Results   []OrderResult `json:"results"`
}

func (r *Result) fail(id uint, msg string) {
	r.Failed++
	r.Results = append(r.Results, OrderResult{OrderID: id, OK: false, Message: msg})
}

// Reconciler pushes pending orders to the configured carrier one at a time
// and moves the accepted ones to Shipped. Per-order problems end up in the
// result; they never abort the batch.
type Reconciler struct {
	Orders OrderStore
	Config ConfigSource
	Client *http.Client
	// OnShipped runs after an order was moved to Shipped.
	OnShipped func(ctx context.Context, o models.Order)
}

func (r *Reconciler) Dispatch(ctx context.Context, orderIDs []uint) (*Result, error) {
	l := logging.FromContext(ctx).With("svc", "shipping.dispatch")
	// A parcel the carrier accepted must be marked Shipped even if the caller
	// goes away mid-batch. Each carrier call is bounded by Client.Timeout.
	ctx = context.WithoutCancel(ctx)

	cfg, err := r.Config.Shipping(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shipping config: %w", err)
	}
	if cfg == nil || !cfg.Complete() {
		return nil, ErrNotConfigured
	}

	pending, err := r.Orders.ListOrdersByStatus(ctx, models.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	targets := pending
	if orderIDs != nil {
		want := make(map[uint]struct{}, len(orderIDs))
		for _, id := range orderIDs {
			want[id] = struct{}{}
		}
		targets = make([]models.Order, 0, len(orderIDs))
		for _, o := range pending {
			if _, ok := want[o.ID]; ok {
				targets = append(targets, o)
			}
		}
	}

	carrier := ForURL(cfg.APIURL)
	endpoint := carrier.Endpoint(cfg.APIURL)
	names := r.productNames(ctx, targets)

	res := &Result{Attempted: len(targets), Results: make([]OrderResult, 0, len(targets))}
	for _, o := range targets {
		ok, msg := r.dispatchOne(ctx, carrier, endpoint, *cfg, o, names)
		if !ok {
			l.Warn("dispatch_order_failed", "order_id", o.ID, "carrier", carrier.Name(), "reason", msg)
			res.fail(o.ID, msg)
			continue
		}

		shipped, err := r.Orders.UpdateOrderStatus(ctx, o.ID, models.OrderStatusShipped)
		if err != nil {
			l.Error("dispatch_status_update_failed", "order_id", o.ID, "error", err)
			res.fail(o.ID, "carrier accepted the parcel but the order status could not be updated: "+err.Error())
			continue
		}
		res.Sent++
		res.Results = append(res.Results, OrderResult{OrderID: o.ID, OK: true})
		if r.OnShipped != nil && shipped != nil {
			r.OnShipped(ctx, *shipped)
		}
	}

	l.Info("dispatch_finished", "carrier", carrier.Name(), "attempted", res.Attempted, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

func (r *Reconciler) dispatchOne(ctx context.Context, c Carrier, endpoint string, cfg models.ShippingConfig, o models.Order, names map[uint]string) (bool, string) {
	commune := ResolveCommune(o, cfg.DefaultCommune)
	if commune == "" && c.RequiresCommune() {
		return false, "commune missing: add it to the order or configure a default commune, then retry"
	}

	payload, err := c.Payload(Target{Order: o, Commune: commune, Config: cfg, ProductNames: names})
	if err != nil {
		return false, err.Error()
	}

	client := r.Client
	if client == nil {
		client = NewHTTPClient(0)
	}
	resp, err := post(ctx, client, endpoint, cfg, payload)
	if err != nil {
		return false, err.Error()
	}
	if !resp.ok() {
		return false, httpFailure(c, resp.Status, resp.ContentType, resp.Body)
	}

	out := c.Decode(o.ID, resp.Body)
	return out.OK, out.Message
}

// productNames resolves names for the product list; unknown products are
// left out and rendered as "Product N" by the carrier.
func (r *Reconciler) productNames(ctx context.Context, orders []models.Order) map[uint]string {
	names := make(map[uint]string)
	for _, o := range orders {
		for _, it := range o.Items {
			if _, seen := names[it.ProductID]; seen {
				continue
			}
			p, err := r.Orders.GetProduct(ctx, it.ProductID)
			if err != nil {
				names[it.ProductID] = ""
				continue
			}
			names[it.ProductID] = p.Name
		}
	}
	return names
}
