package shipping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultOriginWilaya = "Alger"
	defaultProductList  = "Storefront order"
)

// Yalidine speaks the Yalidine parcels API: one-element array payloads and
// per-order results keyed by order_id.
type Yalidine struct{}

type yalidineParcel struct {
	OrderID        string `json:"order_id"`
	FromWilayaName string `json:"from_wilaya_name"`
	Firstname      string `json:"firstname"`
	Familyname     string `json:"familyname"`
	ContactPhone   string `json:"contact_phone"`
	Address        string `json:"address"`
	ToCommuneName  string `json:"to_commune_name"`
	ToWilayaName   string `json:"to_wilaya_name"`
	ProductList    string `json:"product_list"`
	Price          int64  `json:"price"`
	FreeShipping   bool   `json:"freeshipping"`
	IsStopDesk     bool   `json:"is_stopdesk"`
	HasExchange    bool   `json:"has_exchange"`
}

func (Yalidine) Name() string { return "yalidine" }

func (Yalidine) RequiresCommune() bool { return true }

// Endpoint points any reasonable base URL at /v1/parcels.
func (Yalidine) Endpoint(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}
	p := strings.TrimSuffix(u.Path, "/")
	switch {
	case strings.HasSuffix(p, "/parcels") || strings.Contains(p, "/parcels/"):
		return u.String()
	case p == "" || p == "/v1":
		u.Path = "/v1/parcels"
	case strings.Contains(p, "/v1"):
		u.Path = p + "/parcels"
	default:
		u.Path = "/v1/parcels"
	}
	u.RawPath = ""
	return u.String()
}

func splitName(full string) (first, family string) {
	full = strings.TrimSpace(full)
	parts := strings.Fields(full)
	switch {
	case len(parts) > 0:
		first = parts[0]
	case full != "":
		first = full
	default:
		first = "Client"
	}
	family = strings.Join(parts[min(1, len(parts)):], " ")
	if family == "" {
		family = first
	}
	return first, family
}

func productList(t Target) string {
	names := make([]string, 0, len(t.Order.Items))
	for _, it := range t.Order.Items {
		name := t.ProductNames[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("Product %d", it.ProductID)
		}
		if it.Quantity > 1 {
			name = fmt.Sprintf("%s x%d", name, it.Quantity)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return defaultProductList
	}
	return strings.Join(names, ", ")
}

func (Yalidine) Payload(t Target) (any, error) {
	o := t.Order

	toWilaya, ok := ResolveWilaya(o.Wilaya)
	if !ok {
		msg := "unsupported wilaya for Yalidine: " + o.Wilaya
		if n := NormalizeWilaya(o.Wilaya); n != "" {
			msg += " (after normalization: " + n + ")"
		}
		return nil, errors.New(msg + ". Valid example: Alger")
	}

	origin := t.Config.FromWilayaName
	if origin == "" {
		origin = defaultOriginWilaya
	}
	from, ok := ResolveWilaya(origin)
	if !ok {
		from = defaultOriginWilaya
	}

	first, family := splitName(o.CustomerName)

	return []yalidineParcel{{
		OrderID:        strconv.FormatUint(uint64(o.ID), 10),
		FromWilayaName: from,
		Firstname:      first,
		Familyname:     family,
		ContactPhone:   o.Phone,
		Address:        o.Address,
		ToCommuneName:  t.Commune,
		ToWilayaName:   toWilaya,
		ProductList:    productList(t),
		Price:          o.TotalPrice.Round(0).IntPart(),
	}}, nil
}

func (Yalidine) Annotate(details string) string {
	if strings.Contains(details, "to_commune_name") {
		return details + " (check that the default commune in shipping settings uses Yalidine's spelling)"
	}
	return details
}

func (Yalidine) Decode(orderID uint, body []byte) Outcome {
	resp, err := DecodeParcelResponse(body)
	if err != nil {
		if limited := truncate(string(body)); limited != "" {
			return Outcome{Message: "unexpected response from Yalidine: " + limited}
		}
		return Outcome{Message: "unexpected response from Yalidine"}
	}

	res, found := resp.Find(strconv.FormatUint(uint64(orderID), 10))
	if found && res.Success {
		return Outcome{OK: true}
	}
	if found && res.Message != "" {
		return Outcome{Message: res.Message}
	}
	return Outcome{Message: "parcel was not created in Yalidine"}
}

// ParcelResponseKind tags which shape a parcels response body had.
type ParcelResponseKind int

const (
	ParcelResponseOther ParcelResponseKind = iota
	ParcelResponseList
	ParcelResponseMap
)

// ParcelResponse is the decoded body of a 2xx parcels call. Exactly one of
// List or Map is populated, according to Kind.
type ParcelResponse struct {
	Kind ParcelResponseKind
	List []ParcelResult
	Map  map[string]ParcelResult
}

// ParcelResult is the carrier's verdict for one order.
type ParcelResult struct {
	OrderID string
	Success bool
	Message string
}

func (r *ParcelResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		*r = ParcelResult{}
		return nil
	}
	*r = ParcelResult{
		OrderID: rawText(fields["order_id"]),
		Success: bytes.Equal(bytes.TrimSpace(fields["success"]), []byte("true")),
	}
	for _, k := range []string{"message", "error", "description"} {
		if s := jsonString(fields[k]); s != "" {
			r.Message = s
			break
		}
	}
	return nil
}

// rawText renders a JSON scalar the way it should compare against an id:
// strings unquoted, numbers verbatim.
func rawText(raw json.RawMessage) string {
	if s := jsonString(raw); s != "" {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// DecodeParcelResponse fails only on bodies that are not JSON at all.
func DecodeParcelResponse(body []byte) (ParcelResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return ParcelResponse{}, errors.New("response is not JSON")
	}

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []ParcelResult
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return ParcelResponse{}, err
		}
		return ParcelResponse{Kind: ParcelResponseList, List: list}, nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		var m map[string]ParcelResult
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return ParcelResponse{}, err
		}
		return ParcelResponse{Kind: ParcelResponseMap, Map: m}, nil
	}
	return ParcelResponse{Kind: ParcelResponseOther}, nil
}

func (p ParcelResponse) Find(orderID string) (ParcelResult, bool) {
	switch p.Kind {
	case ParcelResponseList:
		for _, r := range p.List {
			if r.OrderID == orderID {
				return r, true
			}
		}
	case ParcelResponseMap:
		r, ok := p.Map[orderID]
		return r, ok
	}
	return ParcelResult{}, false
}
