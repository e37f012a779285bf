package shipping

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/Skotchmaster/storefront/internal/models"
)

// maxMessageUnits caps carrier messages in UTF-16 code units.
const maxMessageUnits = 400

// Target is everything a carrier needs to build the request for one order.
type Target struct {
	Order        models.Order
	Commune      string
	Config       models.ShippingConfig
	ProductNames map[uint]string
}

// Outcome of a 2xx carrier response for one order.
type Outcome struct {
	OK      bool
	Message string
}

type Carrier interface {
	Name() string
	// RequiresCommune reports whether an order without any commune must
	// be rejected before calling the carrier.
	RequiresCommune() bool
	Endpoint(baseURL string) string
	// Payload returns the JSON body, or an error that fails only this order.
	Payload(t Target) (any, error)
	// Decode interprets a successful HTTP response body.
	Decode(orderID uint, body []byte) Outcome
	// Annotate may add carrier-specific hints to an HTTP error message.
	Annotate(details string) string
}

// ForURL picks the carrier implementation from the configured API URL.
func ForURL(apiURL string) Carrier {
	if strings.Contains(strings.ToLower(apiURL), "yalidine") {
		return Yalidine{}
	}
	return Generic{}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > maxMessageUnits {
			return s[:i] + "…"
		}
		units += n
	}
	return s
}

// errorDetails pulls a readable message out of a failed response. JSON
// bodies are checked for message, detail, and error (string or object);
// anything else falls back to the raw text.
func errorDetails(contentType string, body []byte) string {
	details := string(body)
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return details
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return details
	}
	if s := jsonString(parsed["message"]); s != "" {
		return s
	}
	if s := jsonString(parsed["detail"]); s != "" {
		return s
	}
	if raw, ok := parsed["error"]; ok {
		if s := jsonString(raw); s != "" {
			return s
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			if s := jsonString(nested["message"]); s != "" {
				return s
			}
			if s := jsonString(nested["description"]); s != "" {
				return s
			}
		}
	}
	return details
}

func httpFailure(c Carrier, status int, contentType string, body []byte) string {
	details := c.Annotate(errorDetails(contentType, body))
	if limited := truncate(details); limited != "" {
		return fmt.Sprintf("%d: %s", status, limited)
	}
	return fmt.Sprintf("Failed (%d)", status)
}

// jsonString returns the value when raw is a JSON string, "" otherwise.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
