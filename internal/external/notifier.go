package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "matchtix/internal/errors"
	"matchtix/internal/logger"
	"matchtix/internal/models"
)

// NotifierClient delivers the booking confirmation back over the messaging
// channel. Delivery failure never unwinds a reservation; callers log it and
// move on.
type NotifierClient struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

type NotifierConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
}

func NewNotifierClient(cfg NotifierConfig) *NotifierClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &NotifierClient{
		baseURL:    cfg.BaseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendBookingConfirmation pushes the ticket details to the recipient.
func (nc *NotifierClient) SendBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error {
	if nc.baseURL == "" {
		logger.WithContext(ctx).Info("No messaging service configured, skipping confirmation delivery",
			"ticket_ref", record.TicketRef,
			"recipient", recipient)
		return nil
	}

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", nc.fromNumber)
	form.Set("Body", confirmationBody(record))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", nc.baseURL, nc.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(nc.accountSID, nc.authToken)

	resp, err := nc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status code %d", apperrors.ErrDeliveryFailed, resp.StatusCode)
	}

	return nil
}

func confirmationBody(record *models.BookingRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your booking is confirmed!\n")
	fmt.Fprintf(&b, "Ticket reference: %s\n", record.TicketRef)
	fmt.Fprintf(&b, "%s at %s\n", record.EventName, record.Venue)
	fmt.Fprintf(&b, "%s, kickoff %s\n", record.Date.Format("Monday 2 January 2006"), record.Kickoff)
	fmt.Fprintf(&b, "Seats: %s\n", strings.Join(record.Seats, ", "))
	fmt.Fprintf(&b, "Total: %s", models.FormatPence(record.TotalPence))
	return b.String()
}
