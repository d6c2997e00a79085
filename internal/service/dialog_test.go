package service

import (
	"testing"
	"time"

	"matchtix/internal/models"
	"matchtix/internal/repository"

	"github.com/stretchr/testify/assert"
)

func newTestDialog(t *testing.T) *DialogEngine {
	t.Helper()
	catalog, err := repository.NewEventCatalog([]models.EventListing{{
		Name:    "Chelsea vs Arsenal",
		Date:    time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Venue:   "Stamford Bridge",
		Kickoff: "15:00",
		Prices:  map[string]int64{models.StandardTicketType: 8500},
		Seats:   []string{"A1", "A2"},
	}})
	assert.NoError(t, err)
	return NewDialogEngine(catalog)
}

func TestStateOf(t *testing.T) {
	state := models.NewConversationState("sender")
	assert.Equal(t, StateIdle, StateOf(state))

	state.SetAwaiting(models.AwaitQuantity)
	assert.Equal(t, StateAwaitingQuantity, StateOf(state))

	state.SetAwaiting(models.AwaitEmail)
	assert.Equal(t, StateAwaitingEmail, StateOf(state))

	state.SetAwaiting(models.AwaitConfirmation)
	assert.Equal(t, StateAwaitingConfirmation, StateOf(state))

	state.Reset()
	assert.Equal(t, StateIdle, StateOf(state))
}

func TestDecideConfirmation(t *testing.T) {
	d := newTestDialog(t)

	assert.Equal(t, ConfirmProceed, d.DecideConfirmation("confirm"))
	assert.Equal(t, ConfirmProceed, d.DecideConfirmation("  CONFIRM  "))
	assert.Equal(t, ConfirmCancel, d.DecideConfirmation("cancel"))
	assert.Equal(t, ConfirmCancel, d.DecideConfirmation("Cancel"))
	assert.Equal(t, ConfirmAskAgain, d.DecideConfirmation("yes please"))
	assert.Equal(t, ConfirmAskAgain, d.DecideConfirmation(""))
}

func TestExtractEmail(t *testing.T) {
	d := newTestDialog(t)

	email, ok := d.ExtractEmail("a.b+c@sub.domain.co")
	assert.True(t, ok)
	assert.Equal(t, "a.b+c@sub.domain.co", email)

	email, ok = d.ExtractEmail("it's fan@example.com thanks")
	assert.True(t, ok)
	assert.Equal(t, "fan@example.com", email)

	_, ok = d.ExtractEmail("not-an-email")
	assert.False(t, ok)

	_, ok = d.ExtractEmail("")
	assert.False(t, ok)
}

func TestParseQuantity(t *testing.T) {
	d := newTestDialog(t)

	for _, input := range []string{"1", "5", "10", " 3 "} {
		n, ok := d.ParseQuantity(input)
		assert.True(t, ok, "input %q", input)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 10)
	}

	for _, input := range []string{"0", "11", "-2", "two", "", "3.5"} {
		_, ok := d.ParseQuantity(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestWelcomeReplyListsEvents(t *testing.T) {
	d := newTestDialog(t)

	reply := d.WelcomeReply()
	assert.Contains(t, reply, "Chelsea vs Arsenal")
	assert.Contains(t, reply, "Stamford Bridge")
	assert.Contains(t, reply, "£85.00")
}

func TestConfirmationSummary(t *testing.T) {
	d := newTestDialog(t)

	listing, err := d.catalog.Get("Chelsea vs Arsenal")
	assert.NoError(t, err)

	intent := &models.BookingIntent{
		EventName:  "Chelsea vs Arsenal",
		Email:      "fan@example.com",
		Quantity:   2,
		TicketType: models.StandardTicketType,
	}

	summary := d.ConfirmationSummary(listing, intent)
	assert.Contains(t, summary, "Chelsea vs Arsenal")
	assert.Contains(t, summary, "Stamford Bridge")
	assert.Contains(t, summary, "kickoff 15:00")
	assert.Contains(t, summary, "2 x Standard")
	assert.Contains(t, summary, "£170.00")
	assert.Contains(t, summary, "fan@example.com")
	assert.Contains(t, summary, "'confirm'")
}

func TestAlternativeDatesReply(t *testing.T) {
	d := newTestDialog(t)

	dates := []time.Time{
		time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC),
	}
	reply := d.AlternativeDatesReply("Chelsea vs Arsenal", dates)
	assert.Contains(t, reply, "Saturday 12 September 2026")
	assert.Contains(t, reply, "Saturday 19 September 2026")
}
