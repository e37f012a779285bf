package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var Categories = []string{"Smartphones", "Laptops", "Headphones", "Gaming", "Accessories"}

func IsCategory(v string) bool {
	for _, c := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Product struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	NameFr         *string           `json:"nameFr"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	DescriptionFr  *string           `gorm:"type:text" json:"descriptionFr"`
	Category       string            `gorm:"index;not null" json:"category"`
	Price          decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"price"`
	OldPrice       *decimal.Decimal  `gorm:"type:numeric(12,2)" json:"oldPrice"`
	Stock          int               `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	Images         []string          `gorm:"serializer:json;type:jsonb;not null" json:"images"`
	Specifications map[string]string `gorm:"serializer:json;type:jsonb" json:"specifications"`
	IsFeatured     bool              `gorm:"not null;default:false" json:"isFeatured"`
	CreatedAt      time.Time         `gorm:"index" json:"createdAt"`
}

// ProductPatch carries a partial product update; nil fields are left alone.
type ProductPatch struct {
	Name           *string
	NameFr         *string
	Description    *string
	DescriptionFr  *string
	Category       *string
	Price          *decimal.Decimal
	OldPrice       *decimal.Decimal
	Stock          *int
	Images         []string
	Specifications map[string]string
	IsFeatured     *bool
}

func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.NameFr != nil {
		p.NameFr = patch.NameFr
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.DescriptionFr != nil {
		p.DescriptionFr = patch.DescriptionFr
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OldPrice != nil {
		p.OldPrice = patch.OldPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	if patch.Specifications != nil {
		p.Specifications = patch.Specifications
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
}
