package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"matchtix/internal/logger"
	"matchtix/internal/models"
)

// Extractor pulls a structured booking intent out of free text. It never
// fails: fields the text does not contain simply stay empty, and "no event
// found" is an empty EventName. When an NLP service is configured it is
// tried first; the rule-based pass is the fallback and the default.
type Extractor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	eventNames []string
}

type ExtractorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type extractRequest struct {
	Text   string   `json:"text"`
	Events []string `json:"events"`
}

type extractResponse struct {
	EventName    string `json:"event_name"`
	Date         string `json:"date"`
	FanName      string `json:"fan_name"`
	Email        string `json:"email"`
	Quantity     int    `json:"quantity"`
	Requirements string `json:"requirements"`
	TicketType   string `json:"ticket_type"`
}

func NewExtractor(cfg ExtractorConfig, eventNames []string) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Extractor{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		eventNames: eventNames,
	}
}

var (
	quantityRx = regexp.MustCompile(`(?i)\b(\d+)\s*(?:x\s*)?(?:tickets?|seats?|people|persons?)\b`)
	emailRx    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameRx     = regexp.MustCompile(`(?i)\bmy name is\s+([A-Za-z][A-Za-z .'-]*[A-Za-z])`)
	dateRx     = regexp.MustCompile(`(?i)\bon\s+(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}|[A-Za-z]+\s+\d{1,2})\b`)
)

// Extract builds a booking intent from the message text.
func (e *Extractor) Extract(ctx context.Context, text string) *models.BookingIntent {
	if e.baseURL != "" {
		if intent, err := e.extractRemote(ctx, text); err == nil {
			return intent
		} else {
			logger.WithContext(ctx).Warn("NLP extraction failed, falling back to rules", "error", err)
		}
	}
	return e.extractRules(text)
}

func (e *Extractor) extractRemote(ctx context.Context, text string) (*models.BookingIntent, error) {
	jsonBody, err := json.Marshal(extractRequest{Text: text, Events: e.eventNames})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/extract", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	intent := &models.BookingIntent{
		EventName:    result.EventName,
		DateText:     result.Date,
		Date:         ParseDate(result.Date),
		FanName:      result.FanName,
		Email:        result.Email,
		Quantity:     result.Quantity,
		Requirements: result.Requirements,
		TicketType:   result.TicketType,
	}
	if intent.TicketType == "" {
		intent.TicketType = models.StandardTicketType
	}
	return intent, nil
}

func (e *Extractor) extractRules(text string) *models.BookingIntent {
	intent := &models.BookingIntent{
		TicketType: models.StandardTicketType,
	}
	lower := strings.ToLower(text)

	intent.EventName = e.matchEvent(lower)

	if m := quantityRx.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			intent.Quantity = n
		}
	}

	if m := emailRx.FindString(text); m != "" {
		intent.Email = m
	}

	if m := nameRx.FindStringSubmatch(text); m != nil {
		intent.FanName = strings.TrimSpace(m[1])
	}

	if m := dateRx.FindStringSubmatch(text); m != nil {
		intent.DateText = m[1]
	}
	intent.Date = ParseDate(intent.DateText)

	switch {
	case strings.Contains(lower, "vip"):
		intent.TicketType = "VIP"
	case strings.Contains(lower, "student"):
		intent.TicketType = "Student"
	}

	if strings.Contains(lower, "wheelchair") {
		intent.Requirements = "Wheelchair access"
	} else if strings.Contains(lower, "accessible") {
		intent.Requirements = "Accessible seating"
	}

	return intent
}

// matchEvent looks for a known listing name in the text, first as a whole
// and then by both team names appearing in any order.
func (e *Extractor) matchEvent(lowerText string) string {
	for _, name := range e.eventNames {
		if strings.Contains(lowerText, strings.ToLower(name)) {
			return name
		}
	}

	for _, name := range e.eventNames {
		teams := strings.Split(strings.ToLower(name), " vs ")
		if len(teams) != 2 {
			continue
		}
		if strings.Contains(lowerText, teams[0]) && strings.Contains(lowerText, teams[1]) {
			return name
		}
	}

	return ""
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"January 2",
	"Jan 2",
}

// ParseDate makes a best effort at the requested date. Unparseable input
// defaults to 24 hours from now, per the booking intent contract.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	now := time.Now()

	switch strings.ToLower(raw) {
	case "today":
		return now
	case "tomorrow":
		return now.AddDate(0, 0, 1)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			// Layouts without a year parse into year 0
			if t.Year() == 0 {
				t = t.AddDate(now.Year(), 0, 0)
				if t.Before(now) {
					t = t.AddDate(1, 0, 0)
				}
			}
			return t
		}
	}

	return now.AddDate(0, 0, 1)
}
