package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"matchtix/internal/external"
	"matchtix/internal/messaging"
	"matchtix/internal/models"
	"matchtix/internal/repository"
	"matchtix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTranscriber struct{}

func (s *stubTranscriber) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	return "", nil
}

type stubNotifier struct{}

func (s *stubNotifier) SendBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error {
	return nil
}

type stubPayment struct{}

func (p *stubPayment) Confirm(amount int64, orderID string) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, err := repository.NewRepositories([]models.EventListing{{
		Name:     "Chelsea vs Arsenal",
		Date:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Venue:    "Stamford Bridge",
		Kickoff:  "15:00",
		Category: "Premier League",
		Prices:   map[string]int64{models.StandardTicketType: 8500},
		Seats:    []string{"A1", "A2", "A3", "A4", "A5"},
	}})
	assert.NoError(t, err)

	natsClient, err := messaging.NewNATSClient(messaging.Config{})
	assert.NoError(t, err)

	extractor := external.NewExtractor(external.ExtractorConfig{}, repos.Events.Names())
	services := service.NewServices(repos, natsClient, &stubTranscriber{}, extractor, &stubNotifier{}, &stubPayment{})

	h := NewHandlers(services, repos.Events, nil)

	router := gin.New()
	router.POST("/webhook/inbound", h.InboundMessage)
	router.GET("/api/events", h.ListEvents)
	return router
}

func postInbound(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/inbound", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInboundMessageRepliesWithTwiML(t *testing.T) {
	router := newTestRouter(t)

	w := postInbound(router, url.Values{
		"From": {"whatsapp:+447700900001"},
		"Body": {"hello"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "xml")
	assert.Contains(t, w.Body.String(), "<Response>")
	assert.Contains(t, w.Body.String(), "<Message>")
	assert.Contains(t, w.Body.String(), "Welcome to MatchTix")
}

func TestInboundMessageRequiresFrom(t *testing.T) {
	router := newTestRouter(t)

	w := postInbound(router, url.Values{"Body": {"hello"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "From is required")
}

func TestInboundMessageBookingFlow(t *testing.T) {
	router := newTestRouter(t)
	sender := "whatsapp:+447700900001"

	w := postInbound(router, url.Values{
		"From": {sender},
		"Body": {"2 tickets for Chelsea vs Arsenal, email a@b.com"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "confirm")

	w = postInbound(router, url.Values{
		"From": {sender},
		"Body": {"confirm"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booked!")
	assert.Contains(t, w.Body.String(), "MTX-")
}

func TestListEvents(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ListEventsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "Chelsea vs Arsenal", response[0].Name)
	assert.Equal(t, "2026-09-05", response[0].Date)
	assert.Equal(t, 5, response[0].Available)
}
