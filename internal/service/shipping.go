package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/settings"
	"github.com/Skotchmaster/storefront/internal/shipping"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ShippingService struct {
	Settings   *settings.Store
	Reconciler *shipping.Reconciler
}

func (s *ShippingService) Configured(ctx context.Context) (bool, error) {
	return s.Settings.ShippingConfigured(ctx)
}

// Config never exposes the token, only whether one is stored.
func (s *ShippingService) Config(ctx context.Context) (settings.ShippingView, error) {
	return s.Settings.ShippingView(ctx)
}

func (s *ShippingService) UpdateConfig(ctx context.Context, req transport.ShippingConfigRequest) error {
	req.APIURL = strings.TrimSpace(req.APIURL)
	req.APIID = strings.TrimSpace(req.APIID)
	if err := Check(req); err != nil {
		return err
	}
	return s.Settings.UpdateShipping(ctx, settings.ShippingUpdate{
		APIURL:         req.APIURL,
		APIID:          req.APIID,
		APIToken:       req.APIToken,
		FromWilayaName: req.FromWilayaName,
		DefaultCommune: req.DefaultCommune,
	})
}

// Dispatch sends pending orders to the carrier. A nil orderIDs means every
// pending order.
func (s *ShippingService) Dispatch(ctx context.Context, req transport.DispatchRequest) (*shipping.Result, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	return s.Reconciler.Dispatch(ctx, req.OrderIDs)
}
