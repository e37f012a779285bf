// Package settings owns the site configuration document and the carrier
// credentials. Callers get it at construction time; where the data lives
// is decided by the Persistence passed in.
package settings

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Store struct {
	mu  sync.Mutex
	p   Persistence
	env models.ShippingConfig
}

// New builds a store. env carries carrier settings from the environment;
// when any of its URL, ID or token is set it replaces the stored carrier
// configuration as a whole.
func New(p Persistence, env models.ShippingConfig) *Store {
	return &Store{p: p, env: env}
}

func (s *Store) load(ctx context.Context) (models.Settings, error) {
	v, err := s.p.Load(ctx)
	if err != nil {
		return v, err
	}
	// detach from whatever the persistence layer holds on to
	raw, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	var out models.Settings
	err = json.Unmarshal(raw, &out)
	return out, err
}

func (s *Store) Site(ctx context.Context) (*models.SiteConfig, error) {
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if v.Site == nil || siteEmpty(v.Site) {
		return nil, nil
	}
	return v.Site, nil
}

// UpdateSite merges patch into the stored document. Fields set in patch
// replace stored ones, trimmed strings that end up empty are cleared, and
// a document left without any meaningful field collapses to nil.
func (s *Store) UpdateSite(ctx context.Context, patch models.SiteConfig) (*models.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	next := models.SiteConfig{}
	if v.Site != nil {
		next = *v.Site
	}
	mergeSite(&next, patch)

	if siteEmpty(&next) {
		v.Site = nil
	} else {
		v.Site = &next
	}
	if err := s.p.Save(ctx, v); err != nil {
		return nil, err
	}
	return v.Site, nil
}

func mergeString(dst **string, src *string) {
	if src == nil {
		return
	}
	t := strings.TrimSpace(*src)
	if t == "" {
		*dst = nil
		return
	}
	*dst = &t
}

func mergeBool(dst **bool, src *bool) {
	if src != nil {
		b := *src
		*dst = &b
	}
}

func mergeSite(dst *models.SiteConfig, p models.SiteConfig) {
	mergeString(&dst.LogoURL, p.LogoURL)
	mergeString(&dst.HomeCategoriesTitle, p.HomeCategoriesTitle)
	mergeString(&dst.HomeCategoriesTitleFr, p.HomeCategoriesTitleFr)
	mergeString(&dst.HomeCategoriesSubtitle, p.HomeCategoriesSubtitle)
	mergeString(&dst.HomeCategoriesSubtitleFr, p.HomeCategoriesSubtitleFr)
	mergeBool(&dst.AnnouncementEnabled, p.AnnouncementEnabled)
	if p.AnnouncementSpeedSeconds != nil {
		n := *p.AnnouncementSpeedSeconds
		dst.AnnouncementSpeedSeconds = &n
	}
	if p.AnnouncementItems != nil {
		dst.AnnouncementItems = p.AnnouncementItems
	}
	if p.HomeQuickLinks != nil {
		dst.HomeQuickLinks = p.HomeQuickLinks
	}
	mergeBool(&dst.LingerieHeroEnabled, p.LingerieHeroEnabled)
	mergeString(&dst.LingerieHeroImageURL, p.LingerieHeroImageURL)
	mergeString(&dst.LingerieHeroTitle, p.LingerieHeroTitle)
	mergeString(&dst.LingerieHeroButtonText, p.LingerieHeroButtonText)
	mergeString(&dst.LingerieHeroButtonLink, p.LingerieHeroButtonLink)
	if p.HomeCategoryHighlights != nil {
		dst.HomeCategoryHighlights = p.HomeCategoryHighlights
	}
	if p.CheckoutWilayas != nil {
		dst.CheckoutWilayas = p.CheckoutWilayas
	}
	if p.DeliveryCompanies != nil {
		dst.DeliveryCompanies = p.DeliveryCompanies
	}
}

func strSet(p *string) bool { return p != nil && *p != "" }
func boolOn(p *bool) bool   { return p != nil && *p }

func siteEmpty(c *models.SiteConfig) bool {
	return !strSet(c.LogoURL) &&
		!strSet(c.HomeCategoriesTitle) &&
		!strSet(c.HomeCategoriesTitleFr) &&
		!strSet(c.HomeCategoriesSubtitle) &&
		!strSet(c.HomeCategoriesSubtitleFr) &&
		!boolOn(c.AnnouncementEnabled) &&
		(c.AnnouncementSpeedSeconds == nil || *c.AnnouncementSpeedSeconds == 0) &&
		len(c.AnnouncementItems) == 0 &&
		len(c.HomeQuickLinks) == 0 &&
		!boolOn(c.LingerieHeroEnabled) &&
		!strSet(c.LingerieHeroImageURL) &&
		!strSet(c.LingerieHeroTitle) &&
		!strSet(c.LingerieHeroButtonText) &&
		!strSet(c.LingerieHeroButtonLink) &&
		len(c.HomeCategoryHighlights) == 0 &&
		len(c.CheckoutWilayas) == 0 &&
		len(c.DeliveryCompanies) == 0
}
