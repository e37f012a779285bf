package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/store"
)

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func demoProducts() []models.Product {
	return []models.Product{
		{
			Name:           "iPhone 15 Pro Max",
			Description:    "The ultimate iPhone with titanium design, A17 Pro chip, and our most powerful camera system yet.",
			Category:       "Smartphones",
			Price:          price(250000),
			OldPrice:       pricePtr(270000),
			Stock:          10,
			Images:         []string{"/logo.jpg"},
			Specifications: map[string]string{"Screen": "6.7 inch", "Storage": "256GB", "Color": "Natural Titanium"},
			IsFeatured:     true,
		},
		{
			Name:           "MacBook Pro 14 M3",
			Description:    "Mind-blowing. Head-turning. With the M3 chip, MacBook Pro leaps forward.",
			Category:       "Laptops",
			Price:          price(320000),
			OldPrice:       pricePtr(340000),
			Stock:          5,
			Images:         []string{"/logo.jpg"},
			Specifications: map[string]string{"Processor": "M3 Pro", "RAM": "18GB", "SSD": "512GB"},
			IsFeatured:     true,
		},
		{
			Name:           "Sony WH-1000XM5",
			Description:    "Industry-leading noise cancellation, exceptional sound quality.",
			Category:       "Headphones",
			Price:          price(55000),
			OldPrice:       pricePtr(60000),
			Stock:          20,
			Images:         []string{"/logo.jpg"},
			Specifications: map[string]string{"Battery": "30 hours", "Type": "Wireless Noise Cancelling"},
		},
		{
			Name:           "PlayStation 5 Slim",
			Description:    "Play Like Never Before. The PS5 console unleashes new gaming possibilities.",
			Category:       "Gaming",
			Price:          price(95000),
			OldPrice:       pricePtr(105000),
			Stock:          8,
			Images:         []string{"/logo.jpg"},
			Specifications: map[string]string{"Storage": "1TB", "Edition": "Digital"},
			IsFeatured:     true,
		},
	}
}

// SeedDemoData fills an empty catalog with a few sample products. It does
// nothing once any product exists.
func SeedDemoData(ctx context.Context, products store.Products) (int, error) {
	n, err := products.CountProducts(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	seeded := 0
	for _, p := range demoProducts() {
		p := p
		if err := products.CreateProduct(ctx, &p); err != nil {
			return seeded, err
		}
		seeded++
	}
	logging.FromContext(ctx).Info("demo_data_seeded", "products", seeded)
	return seeded, nil
}
