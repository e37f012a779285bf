// Package notify sends order notifications to a Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	sendTimeout    = 10 * time.Second
)

// ProductNames resolves product ids to display names.
type ProductNames interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type Telegram struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Client   *http.Client
	Products ProductNames

	wg sync.WaitGroup
}

func NewTelegram(botToken, chatID string, products ProductNames) *Telegram {
	return &Telegram{
		BotToken: strings.TrimSpace(botToken),
		ChatID:   strings.TrimSpace(chatID),
		BaseURL:  defaultBaseURL,
		Client:   &http.Client{Timeout: sendTimeout},
		Products: products,
	}
}

func (t *Telegram) Enabled() bool {
	return t != nil && t.BotToken != "" && t.ChatID != ""
}

func (t *Telegram) SendText(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"chat_id": t.ChatID, "text": text})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	base := strings.TrimRight(t.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/bot"+t.BotToken+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return t.scrub(err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", t.scrub(err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send failed (%d)", resp.StatusCode)
	}
	return nil
}

// scrub drops the bot token from err. The token is part of the request path,
// so *url.Error would otherwise carry it into logs.
func (t *Telegram) scrub(err error) error {
	if t.BotToken == "" {
		return err
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: strings.ReplaceAll(ue.URL, t.BotToken, "[redacted]"), Err: ue.Err}
	}
	if msg := err.Error(); strings.Contains(msg, t.BotToken) {
		return errors.New(strings.ReplaceAll(msg, t.BotToken, "[redacted]"))
	}
	return err
}

// OrderCreated sends the new-order message in the background.
func (t *Telegram) OrderCreated(ctx context.Context, o models.Order) {
	if !t.Enabled() {
		return
	}
	l := logging.FromContext(ctx).With("svc", "notify.telegram", "order_id", o.ID)
	ctx = context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		text := FormatOrder(o, t.names(ctx, o))
		if err := t.SendText(ctx, text); err != nil {
			l.Warn("telegram_notification_failed", "error", err)
		}
	}()
}

func (t *Telegram) OrderUpdated(context.Context, models.Order) {}

// Wait blocks until pending notifications are sent or have failed.
func (t *Telegram) Wait() {
	if t != nil {
		t.wg.Wait()
	}
}

func (t *Telegram) names(ctx context.Context, o models.Order) map[uint]string {
	names := make(map[uint]string, len(o.Items))
	if t.Products == nil {
		return names
	}
	for _, it := range o.Items {
		if _, ok := names[it.ProductID]; ok {
			continue
		}
		if p, err := t.Products.GetProduct(ctx, it.ProductID); err == nil {
			names[it.ProductID] = p.Name
		}
	}
	return names
}

// FormatOrder renders the Arabic order summary sent to the shop owner.
func FormatOrder(o models.Order, names map[uint]string) string {
	lines := []string{
		"🛒 طلب جديد!",
		fmt.Sprintf("#%d", o.ID),
		"👤 الاسم: " + o.CustomerName,
		"📞 الهاتف: " + o.Phone,
		"📍 الولاية: " + o.Wilaya,
	}
	if o.Commune != nil && *o.Commune != "" {
		lines = append(lines, "🏘 البلدية: "+*o.Commune)
	}
	lines = append(lines, "🏠 العنوان: "+o.Address, "📦 المنتجات:")
	for _, it := range o.Items {
		name := names[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("#%d", it.ProductID)
		}
		lines = append(lines, fmt.Sprintf("- %s ×%d", name, it.Quantity))
	}
	lines = append(lines, "💰 المبلغ: "+o.TotalPrice.StringFixed(0)+" دج")
	return strings.Join(lines, "\n")
}
