package filestore

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
)

// SettingsDoc exposes the site and shipping configuration kept inside the
// data file, so the settings store can share one file with the catalog.
type SettingsDoc struct {
	s *Store
}

func (s *Store) Settings() SettingsDoc {
	return SettingsDoc{s: s}
}

func (d SettingsDoc) Load(_ context.Context) (models.Settings, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	return models.Settings{
		Site:     d.s.state.SiteConfig,
		Shipping: d.s.state.ShippingConfig,
	}, nil
}

func (d SettingsDoc) Save(_ context.Context, v models.Settings) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	prev := d.s.state.clone()
	d.s.state.SiteConfig = v.Site
	d.s.state.ShippingConfig = v.Shipping
	return d.s.commit(prev)
}
