package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/settings"
)

type SiteService struct {
	Settings *settings.Store
}

// Get returns nil when nothing has been configured.
func (s *SiteService) Get(ctx context.Context) (*models.SiteConfig, error) {
	return s.Settings.Site(ctx)
}

func (s *SiteService) Update(ctx context.Context, patch models.SiteConfig) (*models.SiteConfig, error) {
	if err := Check(patch); err != nil {
		return nil, err
	}
	return s.Settings.UpdateSite(ctx, patch)
}
