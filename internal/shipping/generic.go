package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Generic posts the order as-is to the configured URL and trusts any 2xx.
type Generic struct{}

type genericPayload struct {
	OrderID      uint               `json:"orderId"`
	CustomerName string             `json:"customerName"`
	Phone        string             `json:"phone"`
	Wilaya       string             `json:"wilaya"`
	Commune      string             `json:"commune,omitempty"`
	Address      string             `json:"address"`
	TotalPrice   decimal.Decimal    `json:"totalPrice"`
	Items        []models.OrderItem `json:"items"`
}

func (Generic) Name() string { return "generic" }

func (Generic) RequiresCommune() bool { return false }

func (Generic) Endpoint(baseURL string) string { return baseURL }

func (Generic) Payload(t Target) (any, error) {
	o := t.Order
	return genericPayload{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Wilaya:       o.Wilaya,
		Commune:      t.Commune,
		Address:      o.Address,
		TotalPrice:   o.TotalPrice,
		Items:        o.Items,
	}, nil
}

func (Generic) Decode(uint, []byte) Outcome { return Outcome{OK: true} }

func (Generic) Annotate(details string) string { return details }
