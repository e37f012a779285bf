package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CustomerName string          `gorm:"not null" json:"customerName"`
	Phone        string          `gorm:"not null" json:"phone"`
	Wilaya       string          `gorm:"not null" json:"wilaya"`
	Commune      *string         `json:"commune,omitempty"`
	Address      string          `gorm:"type:text;not null" json:"address"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	Status       OrderStatus     `gorm:"type:varchar(16);not null;default:Pending;index" json:"status"`
	Items        []OrderItem     `gorm:"serializer:json;type:jsonb;not null" json:"items"`
	CreatedAt    time.Time       `gorm:"index" json:"createdAt"`
}
