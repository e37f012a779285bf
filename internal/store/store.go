// Package store defines the persistence contract shared by the relational
// and the JSON-file backends.
package store

import (
	"context"
	"errors"

	"github.com/Skotchmaster/storefront/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrAdminExists       = errors.New("admin already set up")
)

type ProductFilter struct {
	Category string
	Search   string
}

type Products interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	CountProducts(ctx context.Context) (int64, error)
}

type Orders interface {
	// PlaceOrder decrements stock for every item and inserts the order.
	// It fails with ErrInsufficientStock or ErrNotFound and then leaves
	// every product untouched.
	PlaceOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
}

type Slides interface {
	ListSlides(ctx context.Context) ([]models.Slide, error)
	CreateSlide(ctx context.Context, s *models.Slide) error
	UpdateSlide(ctx context.Context, id uint, patch models.SlidePatch) (*models.Slide, error)
	DeleteSlide(ctx context.Context, id uint) error
	CountSlides(ctx context.Context) (int64, error)
}

type Users interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	// Admin returns the single admin account or ErrNotFound.
	Admin(ctx context.Context) (*models.User, error)
	// ClaimAdmin creates or promotes username to the single admin account.
	// It fails with ErrAdminExists when an admin is already set up.
	ClaimAdmin(ctx context.Context, username, passwordHash string) (*models.User, error)
}

type Store interface {
	Products
	Orders
	Slides
	Users
	Ping(ctx context.Context) error
	Close() error
}
