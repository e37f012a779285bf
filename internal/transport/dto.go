package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

type CheckoutItem struct {
	ProductID uint `json:"productId" validate:"gt=0"`
	Quantity  int  `json:"quantity" validate:"min=1"`
}

type CheckoutRequest struct {
	CustomerName string         `json:"customerName" validate:"min=2"`
	Phone        string         `json:"phone" validate:"min=5"`
	Wilaya       string         `json:"wilaya" validate:"min=1"`
	Commune      *string        `json:"commune"`
	Address      string         `json:"address" validate:"min=5"`
	Items        []CheckoutItem `json:"items" validate:"min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type CreateProductRequest struct {
	Name           string            `json:"name" validate:"required"`
	NameFr         *string           `json:"nameFr"`
	Description    string            `json:"description" validate:"required"`
	DescriptionFr  *string           `json:"descriptionFr"`
	Category       string            `json:"category" validate:"required,category"`
	Price          decimal.Decimal   `json:"price"`
	OldPrice       *decimal.Decimal  `json:"oldPrice"`
	Stock          int               `json:"stock" validate:"min=0"`
	Images         []string          `json:"images" validate:"min=1,dive,required"`
	Specifications map[string]string `json:"specifications"`
	IsFeatured     bool              `json:"isFeatured"`
}

type UpdateProductRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=1"`
	NameFr         *string           `json:"nameFr"`
	Description    *string           `json:"description" validate:"omitempty,min=1"`
	DescriptionFr  *string           `json:"descriptionFr"`
	Category       *string           `json:"category" validate:"omitempty,category"`
	Price          *decimal.Decimal  `json:"price"`
	OldPrice       *decimal.Decimal  `json:"oldPrice"`
	Stock          *int              `json:"stock" validate:"omitempty,min=0"`
	Images         []string          `json:"images" validate:"omitempty,min=1,dive,required"`
	Specifications map[string]string `json:"specifications"`
	IsFeatured     *bool             `json:"isFeatured"`
}

type SlideRequest struct {
	Title         string  `json:"title" validate:"required"`
	TitleFr       *string `json:"titleFr"`
	Subtitle      *string `json:"subtitle"`
	SubtitleFr    *string `json:"subtitleFr"`
	Description   *string `json:"description"`
	DescriptionFr *string `json:"descriptionFr"`
	ButtonText    *string `json:"buttonText"`
	ButtonTextFr  *string `json:"buttonTextFr"`
	ImageURL      string  `json:"imageUrl" validate:"required"`
	LinkURL       *string `json:"linkUrl"`
	SortOrder     int     `json:"sortOrder"`
}

type UpdateSlideRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1"`
	TitleFr       *string `json:"titleFr"`
	Subtitle      *string `json:"subtitle"`
	SubtitleFr    *string `json:"subtitleFr"`
	Description   *string `json:"description"`
	DescriptionFr *string `json:"descriptionFr"`
	ButtonText    *string `json:"buttonText"`
	ButtonTextFr  *string `json:"buttonTextFr"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,min=1"`
	LinkURL       *string `json:"linkUrl"`
	SortOrder     *int    `json:"sortOrder"`
}

type ShippingConfigRequest struct {
	APIURL         string `json:"apiUrl" validate:"required"`
	APIID          string `json:"apiId" validate:"required"`
	APIToken       string `json:"apiToken"`
	FromWilayaName string `json:"fromWilayaName"`
	DefaultCommune string `json:"defaultCommune"`
}

type DispatchRequest struct {
	OrderIDs []uint `json:"orderIds" validate:"omitempty,dive,gt=0"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type SetupRequest struct {
	Username string `json:"username" validate:"min=2"`
	Password string `json:"password" validate:"min=6,max=72"`
}

type UploadFile struct {
	DataURL string `json:"dataUrl" validate:"min=1"`
}

type UploadRequest struct {
	Files []UploadFile `json:"files" validate:"min=1,dive"`
}

type UploadResult struct {
	URLs []string `json:"urls"`
}

type OkResponse struct {
	OK bool `json:"ok"`
}
