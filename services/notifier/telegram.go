package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gearhunter/internal/gear"
	"gearhunter/logger"
	"gearhunter/pkg/errors"
)

// TelegramNotifier sends one Markdown alert per flagged deal via the
// Telegram bot API.
type TelegramNotifier struct {
	token    string
	chatID   string
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

// NewTelegramNotifier creates a Telegram notifier
func NewTelegramNotifier(endpoint, token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:    token,
		chatID:   chatID,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.ForNotifier("telegram"),
	}
}

// Notify sends an alert for each deal. A failed send is logged and does not
// stop the remaining alerts; the last failure is reported to the caller.
func (t *TelegramNotifier) Notify(ctx context.Context, deals []gear.DealResult) error {
	var lastErr error
	for _, deal := range deals {
		if err := t.sendMessage(ctx, renderDeal(deal)); err != nil {
			t.log.Error().Err(err).Str("listing_id", deal.Listing.ID).Msg("Failed to send alert")
			lastErr = err
			continue
		}
		t.log.Info().
			Str("listing_id", deal.Listing.ID).
			Str("tier", string(deal.Tier)).
			Msg("Alert sent")
	}
	if lastErr != nil {
		return errors.NewNotify("one or more telegram alerts failed", lastErr)
	}
	return nil
}

// Close is a no-op; the notifier holds no persistent connection
func (t *TelegramNotifier) Close() error {
	return nil
}

// sendMessage posts one message to the bot sendMessage endpoint
func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.endpoint, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// renderDeal formats one deal as a Markdown alert
func renderDeal(deal gear.DealResult) string {
	header := "🔥 *DEAL FOUND* 🔥"
	if deal.Tier == gear.TierDiamond {
		header = "💎 *DIAMOND DEAL* 💎"
	}

	return fmt.Sprintf("%s\n\nItem: %s\nPrice: %.0f€ (%s)\nDiscount ratio: %.2f\n\n🔗 [Open Ad](%s)",
		header,
		deal.Listing.Title,
		deal.Listing.Price,
		deal.Listing.Condition,
		deal.DiscountRatio,
		deal.Listing.URL,
	)
}
