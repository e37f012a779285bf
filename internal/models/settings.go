package models

type ShippingConfig struct {
	APIURL         string `json:"apiUrl"`
	APIID          string `json:"apiId"`
	APIToken       string `json:"apiToken"`
	FromWilayaName string `json:"fromWilayaName,omitempty"`
	DefaultCommune string `json:"defaultCommune,omitempty"`
}

func (c ShippingConfig) Complete() bool {
	return c.APIURL != "" && c.APIID != "" && c.APIToken != ""
}

type AnnouncementItem struct {
	ID        int     `json:"id" validate:"gt=0"`
	Text      string  `json:"text" validate:"min=1"`
	TextFr    *string `json:"textFr,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

type HomeLink struct {
	ID        int     `json:"id" validate:"gt=0"`
	Title     string  `json:"title" validate:"min=1"`
	TitleFr   *string `json:"titleFr,omitempty"`
	ImageURL  string  `json:"imageUrl" validate:"min=1"`
	LinkURL   string  `json:"linkUrl" validate:"min=1"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

type CheckoutWilaya struct {
	Code     string   `json:"code" validate:"min=1"`
	Name     string   `json:"name" validate:"min=1"`
	Communes []string `json:"communes,omitempty" validate:"omitempty,dive,min=1"`
}

type DeliveryCompany struct {
	ID          int      `json:"id" validate:"gt=0"`
	Name        string   `json:"name" validate:"min=1"`
	PriceHome   int      `json:"priceHome" validate:"min=0"`
	PriceOffice int      `json:"priceOffice" validate:"min=0"`
	Wilayas     []string `json:"wilayas" validate:"required,dive,min=1"`
}

// SiteConfig is the storefront's free-form home page and checkout document.
// Every field is optional; a nil pointer or slice means "not set".
type SiteConfig struct {
	LogoURL                  *string            `json:"logoUrl,omitempty"`
	HomeCategoriesTitle      *string            `json:"homeCategoriesTitle,omitempty"`
	HomeCategoriesTitleFr    *string            `json:"homeCategoriesTitleFr,omitempty"`
	HomeCategoriesSubtitle   *string            `json:"homeCategoriesSubtitle,omitempty"`
	HomeCategoriesSubtitleFr *string            `json:"homeCategoriesSubtitleFr,omitempty"`
	AnnouncementEnabled      *bool              `json:"announcementEnabled,omitempty"`
	AnnouncementSpeedSeconds *int               `json:"announcementSpeedSeconds,omitempty" validate:"omitempty,min=8,max=60"`
	AnnouncementItems        []AnnouncementItem `json:"announcementItems,omitempty" validate:"omitempty,dive"`
	HomeQuickLinks           []HomeLink         `json:"homeQuickLinks,omitempty" validate:"omitempty,dive"`
	LingerieHeroEnabled      *bool              `json:"lingerieHeroEnabled,omitempty"`
	LingerieHeroImageURL     *string            `json:"lingerieHeroImageUrl,omitempty"`
	LingerieHeroTitle        *string            `json:"lingerieHeroTitle,omitempty"`
	LingerieHeroButtonText   *string            `json:"lingerieHeroButtonText,omitempty"`
	LingerieHeroButtonLink   *string            `json:"lingerieHeroButtonLink,omitempty"`
	HomeCategoryHighlights   []HomeLink         `json:"homeCategoryHighlights,omitempty" validate:"omitempty,dive"`
	CheckoutWilayas          []CheckoutWilaya   `json:"checkoutWilayas,omitempty" validate:"omitempty,dive"`
	DeliveryCompanies        []DeliveryCompany  `json:"deliveryCompanies,omitempty" validate:"omitempty,dive"`
}

// Settings is everything the settings store persists as one document.
type Settings struct {
	Site     *SiteConfig     `json:"siteConfig,omitempty"`
	Shipping *ShippingConfig `json:"shippingConfig,omitempty"`
}
