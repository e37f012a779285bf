package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
)

const maxResponseBytes = 1 << 20

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

type carrierResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

func (r carrierResponse) ok() bool { return r.Status >= 200 && r.Status < 300 }

// post sends one payload and returns the raw response; the body is always
// read fully before anyone tries to parse it.
func post(ctx context.Context, client *http.Client, endpoint string, cfg models.ShippingConfig, payload any) (carrierResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return carrierResponse{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return carrierResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	req.Header.Set("X-API-ID", cfg.APIID)
	req.Header.Set("X-API-TOKEN", cfg.APIToken)

	resp, err := client.Do(req)
	if err != nil {
		return carrierResponse{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return carrierResponse{}, fmt.Errorf("read response: %w", err)
	}
	return carrierResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
	}, nil
}
