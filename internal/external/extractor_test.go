package external

import (
	"context"
	"testing"
	"time"

	"matchtix/internal/models"

	"github.com/stretchr/testify/assert"
)

func newRuleExtractor() *Extractor {
	return NewExtractor(ExtractorConfig{}, []string{"Chelsea vs Arsenal", "Man Utd vs Liverpool"})
}

func TestExtractFullyFormedMessage(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "I want 3 tickets for Chelsea vs Arsenal, my email is fan@example.com")

	assert.Equal(t, "Chelsea vs Arsenal", intent.EventName)
	assert.Equal(t, 3, intent.Quantity)
	assert.Equal(t, "fan@example.com", intent.Email)
	assert.Equal(t, models.StandardTicketType, intent.TicketType)
}

func TestExtractQuantityVariants(t *testing.T) {
	e := newRuleExtractor()

	assert.Equal(t, 2, e.Extract(context.Background(), "2 tickets please").Quantity)
	assert.Equal(t, 4, e.Extract(context.Background(), "4 x tickets").Quantity)
	assert.Equal(t, 6, e.Extract(context.Background(), "seats for 6 people").Quantity)

	// No number before the keyword leaves quantity unset
	assert.Equal(t, 0, e.Extract(context.Background(), "tickets for the match").Quantity)
}

func TestExtractMatchesTeamsInAnyOrder(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "got anything for arsenal against chelsea?")
	assert.Equal(t, "Chelsea vs Arsenal", intent.EventName)
}

func TestExtractUnknownEvent(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "two tickets for Everton vs Fulham please")
	assert.Empty(t, intent.EventName)
}

func TestExtractTicketTypeAndRequirements(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "2 VIP tickets for Chelsea vs Arsenal, wheelchair access needed")
	assert.Equal(t, "VIP", intent.TicketType)
	assert.Equal(t, "Wheelchair access", intent.Requirements)

	intent = e.Extract(context.Background(), "student tickets with accessible seating")
	assert.Equal(t, "Student", intent.TicketType)
	assert.Equal(t, "Accessible seating", intent.Requirements)
}

func TestExtractFanName(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "I'd like tickets, my name is Jo O'Brien")
	assert.Equal(t, "Jo O'Brien", intent.FanName)
}

func TestExtractDate(t *testing.T) {
	e := newRuleExtractor()

	intent := e.Extract(context.Background(), "2 tickets for Chelsea vs Arsenal on 2026-09-05")
	assert.Equal(t, "2026-09-05", intent.DateText)
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), intent.Date)

	// Without an "on <date>" clause the date text stays empty
	intent = e.Extract(context.Background(), "2 tickets for Chelsea vs Arsenal")
	assert.Empty(t, intent.DateText)
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), ParseDate("2026-09-05"))
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), ParseDate("05/09/2026"))

	assert.WithinDuration(t, time.Now(), ParseDate("today"), time.Minute)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), ParseDate("tomorrow"), time.Minute)

	// Unparseable input falls back to 24 hours out
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), ParseDate("whenever suits"), time.Minute)
}
