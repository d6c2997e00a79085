package external

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	apperrors "matchtix/internal/errors"
)

// PaymentClient confirms charges against the payment gateway. With no
// gateway configured it runs in stub mode and confirms everything, which
// is the intended behaviour for demo deployments.
type PaymentClient struct {
	baseURL    string
	teamSlug   string
	password   string
	httpClient *http.Client
}

type PaymentConfig struct {
	BaseURL  string
	TeamSlug string
	Password string
	Timeout  time.Duration
}

type paymentConfirmRequest struct {
	TeamSlug string `json:"teamSlug"`
	Token    string `json:"token"`
	Amount   int64  `json:"amount"`
	OrderID  string `json:"orderId"`
	Currency string `json:"currency"`
}

type paymentConfirmResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

func NewPaymentClient(cfg PaymentConfig) *PaymentClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PaymentClient{
		baseURL:  cfg.BaseURL,
		teamSlug: cfg.TeamSlug,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (pc *PaymentClient) generateToken(params map[string]string) string {
	// Add required parameters
	params["TeamSlug"] = pc.teamSlug
	params["Password"] = pc.password

	// Sort parameters alphabetically
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Concatenate values
	var tokenString string
	for _, key := range keys {
		tokenString += params[key]
	}

	// Generate SHA-256 hash
	hash := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(hash[:])
}

// Confirm checks the charge for an order with the gateway. Stub mode
// (empty base URL) always succeeds.
func (pc *PaymentClient) Confirm(amount int64, orderID string) error {
	if pc.baseURL == "" {
		return nil
	}

	params := map[string]string{
		"Amount":   strconv.FormatInt(amount, 10),
		"Currency": "GBP",
		"OrderId":  orderID,
	}
	token := pc.generateToken(params)

	req := paymentConfirmRequest{
		TeamSlug: pc.teamSlug,
		Token:    token,
		Amount:   amount,
		OrderID:  orderID,
		Currency: "GBP",
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := pc.httpClient.Post(pc.baseURL+"/api/v1/PaymentConfirm/confirm", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentNotConfirmed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", apperrors.ErrPaymentNotConfirmed, resp.StatusCode)
	}

	var result paymentConfirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("%w: gateway status %s", apperrors.ErrPaymentNotConfirmed, result.Status)
	}

	return nil
}
