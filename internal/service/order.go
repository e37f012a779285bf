package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// DeliveryFee is added once to every order total.
var DeliveryFee = decimal.NewFromInt(500)

// OrderHook observes committed order changes. Implementations must not
// block the caller and never report errors back.
type OrderHook interface {
	OrderCreated(ctx context.Context, o models.Order)
	OrderUpdated(ctx context.Context, o models.Order)
}

type OrderService struct {
	Repo     store.Orders
	Products store.Products
	Hooks    []OrderHook
}

// CreateFromCart turns a checkout into a Pending order. Stock for every
// line is taken atomically; on any shortage nothing is decremented.
func (s *OrderService) CreateFromCart(ctx context.Context, req transport.CheckoutRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if err := Check(req); err != nil {
		return nil, err
	}

	prices := make(map[uint]decimal.Decimal, len(req.Items))
	for _, it := range req.Items {
		if _, ok := prices[it.ProductID]; ok {
			continue
		}
		p, err := s.Products.GetProduct(ctx, it.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: product not found: %d", ErrNotFound, it.ProductID)
		}
		if err != nil {
			return nil, err
		}
		prices[it.ProductID] = p.Price
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		price := prices[it.ProductID]
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
	}

	o := &models.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Wilaya:       req.Wilaya,
		Commune:      trimmedOrNil(req.Commune),
		Address:      req.Address,
		TotalPrice:   total.Add(DeliveryFee),
		Status:       models.OrderStatusPending,
		Items:        items,
	}
	if err := s.Repo.PlaceOrder(ctx, o); err != nil {
		return nil, err
	}

	l.Info("order_created", "order_id", o.ID, "items", len(o.Items), "total", o.TotalPrice.String())
	for _, h := range s.Hooks {
		h.OrderCreated(ctx, *o)
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	return s.Repo.GetOrder(ctx, id)
}

// UpdateStatus sets any known status; transitions are not restricted.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be one of Pending, Confirmed, Shipped, Delivered")
	}
	o, err := s.Repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Updated(ctx, *o)
	return o, nil
}

// Updated fans an order change out to the hooks; the shipping reconciler
// reports shipped orders through it.
func (s *OrderService) Updated(ctx context.Context, o models.Order) {
	for _, h := range s.Hooks {
		h.OrderUpdated(ctx, o)
	}
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
