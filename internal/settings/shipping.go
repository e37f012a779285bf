package settings

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

// ShippingView is what admins may see of the carrier configuration.
type ShippingView struct {
	APIURL         string `json:"apiUrl,omitempty"`
	APIID          string `json:"apiId,omitempty"`
	TokenPresent   bool   `json:"tokenPresent"`
	FromWilayaName string `json:"fromWilayaName,omitempty"`
	DefaultCommune string `json:"defaultCommune,omitempty"`
	FromEnv        bool   `json:"fromEnv"`
}

type ShippingUpdate struct {
	APIURL         string
	APIID          string
	APIToken       string
	FromWilayaName string
	DefaultCommune string
}

func (s *Store) envActive() bool {
	return s.env.APIURL != "" || s.env.APIID != "" || s.env.APIToken != ""
}

// Shipping returns the effective carrier configuration, or nil when
// nothing has been configured anywhere.
func (s *Store) Shipping(ctx context.Context) (*models.ShippingConfig, error) {
	if s.envActive() {
		cfg := s.env
		return &cfg, nil
	}
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return v.Shipping, nil
}

func (s *Store) ShippingConfigured(ctx context.Context) (bool, error) {
	cfg, err := s.Shipping(ctx)
	if err != nil {
		return false, err
	}
	return cfg != nil && cfg.Complete(), nil
}

func (s *Store) ShippingView(ctx context.Context) (ShippingView, error) {
	cfg, err := s.Shipping(ctx)
	if err != nil || cfg == nil {
		return ShippingView{FromEnv: s.envActive()}, err
	}
	return ShippingView{
		APIURL:         cfg.APIURL,
		APIID:          cfg.APIID,
		TokenPresent:   cfg.APIToken != "",
		FromWilayaName: cfg.FromWilayaName,
		DefaultCommune: cfg.DefaultCommune,
		FromEnv:        s.envActive(),
	}, nil
}

// UpdateShipping stores new carrier settings. An empty token, origin
// wilaya or default commune keeps the previously stored value.
func (s *Store) UpdateShipping(ctx context.Context, in ShippingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.load(ctx)
	if err != nil {
		return err
	}
	prev := models.ShippingConfig{}
	if v.Shipping != nil {
		prev = *v.Shipping
	}

	next := models.ShippingConfig{
		APIURL:         strings.TrimSpace(in.APIURL),
		APIID:          strings.TrimSpace(in.APIID),
		APIToken:       keep(in.APIToken, prev.APIToken),
		FromWilayaName: keep(in.FromWilayaName, prev.FromWilayaName),
		DefaultCommune: keep(in.DefaultCommune, prev.DefaultCommune),
	}
	v.Shipping = &next
	return s.p.Save(ctx, v)
}

func keep(next, prev string) string {
	if t := strings.TrimSpace(next); t != "" {
		return t
	}
	return prev
}
