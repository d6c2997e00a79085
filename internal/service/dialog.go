package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"matchtix/internal/models"
	"matchtix/internal/repository"
)

// State is the dialog position derived from a conversation's waiting
// flags. The flags are mutually exclusive, so the mapping is total.
type State int

const (
	StateIdle State = iota
	StateAwaitingQuantity
	StateAwaitingEmail
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateAwaitingQuantity:
		return "awaiting_quantity"
	case StateAwaitingEmail:
		return "awaiting_email"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "idle"
	}
}

// StateOf classifies a conversation for dispatch.
func StateOf(c *models.ConversationState) State {
	switch {
	case c.AwaitingConfirmation:
		return StateAwaitingConfirmation
	case c.AwaitingEmail:
		return StateAwaitingEmail
	case c.AwaitingQuantity:
		return StateAwaitingQuantity
	default:
		return StateIdle
	}
}

// ConfirmDecision classifies a reply given at the confirmation step.
type ConfirmDecision int

const (
	ConfirmAskAgain ConfirmDecision = iota
	ConfirmProceed
	ConfirmCancel
)

const (
	minQuantity = 1
	maxQuantity = 10
)

var emailRx = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// DialogEngine holds the pure per-turn decisions: input classification,
// validation and reply text. Side effects belong to the orchestrator.
type DialogEngine struct {
	catalog *repository.EventCatalog
}

func NewDialogEngine(catalog *repository.EventCatalog) *DialogEngine {
	return &DialogEngine{catalog: catalog}
}

// DecideConfirmation matches "confirm"/"cancel", case-insensitive, trimmed.
func (d *DialogEngine) DecideConfirmation(text string) ConfirmDecision {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "confirm":
		return ConfirmProceed
	case "cancel":
		return ConfirmCancel
	default:
		return ConfirmAskAgain
	}
}

// ExtractEmail pulls an address out of the reply, so "it's jo@club.com"
// works as well as a bare address.
func (d *DialogEngine) ExtractEmail(text string) (string, bool) {
	m := emailRx.FindString(text)
	return m, m != ""
}

// ParseQuantity accepts exactly the closed integer range [1,10].
func (d *DialogEngine) ParseQuantity(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < minQuantity || n > maxQuantity {
		return 0, false
	}
	return n, true
}

// ValidQuantity reports whether an extracted quantity needs re-prompting.
func (d *DialogEngine) ValidQuantity(n int) bool {
	return n >= minQuantity && n <= maxQuantity
}

// WelcomeReply greets a sender and lists what is currently bookable.
func (d *DialogEngine) WelcomeReply() string {
	var b strings.Builder
	b.WriteString("Welcome to MatchTix! Tell me which match you'd like tickets for, ")
	b.WriteString("e.g. \"2 tickets for Chelsea vs Arsenal, my email is fan@example.com\".\n")

	listings := d.catalog.ListAvailable()
	if len(listings) == 0 {
		b.WriteString("Nothing is on sale right now, please check back later.")
		return b.String()
	}

	b.WriteString("Currently on sale:\n")
	for _, l := range listings {
		fmt.Fprintf(&b, "- %s — %s, %s, kickoff %s (from %s)\n",
			l.Name,
			l.Date.Format("Monday 2 January"),
			l.Venue,
			l.Kickoff,
			models.FormatPence(l.Prices[models.StandardTicketType]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ConfirmationSummary asks the sender to confirm a fully-populated intent.
func (d *DialogEngine) ConfirmationSummary(listing *models.EventListing, intent *models.BookingIntent) string {
	ticketType := intent.TicketType
	if ticketType == "" {
		ticketType = models.StandardTicketType
	}
	unitPrice, ok := listing.Prices[ticketType]
	if !ok {
		unitPrice = listing.Prices[models.StandardTicketType]
	}

	var b strings.Builder
	b.WriteString("Here's your booking:\n")
	fmt.Fprintf(&b, "%s\n", listing.Name)
	fmt.Fprintf(&b, "%s at %s, kickoff %s\n", listing.Date.Format("Monday 2 January 2006"), listing.Venue, listing.Kickoff)
	fmt.Fprintf(&b, "%d x %s ticket(s) — total %s\n", intent.Quantity, ticketType, models.FormatPence(unitPrice*int64(intent.Quantity)))
	fmt.Fprintf(&b, "Tickets will be sent to %s\n", intent.Email)
	if intent.FanName != "" {
		fmt.Fprintf(&b, "Booked for %s\n", intent.FanName)
	}
	if intent.Requirements != "" {
		fmt.Fprintf(&b, "Special requirements: %s\n", intent.Requirements)
	}
	b.WriteString("Reply 'confirm' to book or 'cancel' to start over.")
	return b.String()
}

// AlternativeDatesReply offers substitute dates when the requested one is
// unavailable. The flow does not resume from a picked date; the sender
// starts a fresh request.
func (d *DialogEngine) AlternativeDatesReply(eventName string, dates []time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sorry, %s isn't available on that date. Alternative dates:\n", eventName)
	for _, date := range dates {
		fmt.Fprintf(&b, "- %s\n", date.Format("Monday 2 January 2006"))
	}
	b.WriteString("Send a new message if you'd like to book one of these.")
	return b.String()
}

// Static prompts for the waiting states.

func (d *DialogEngine) AskQuantityReply() string {
	return fmt.Sprintf("How many tickets would you like? (between %d and %d)", minQuantity, maxQuantity)
}

func (d *DialogEngine) InvalidQuantityReply() string {
	return fmt.Sprintf("Please send a number of tickets between %d and %d.", minQuantity, maxQuantity)
}

func (d *DialogEngine) AskEmailReply() string {
	return "What email address should the tickets go to?"
}

func (d *DialogEngine) InvalidEmailReply() string {
	return "That doesn't look like an email address, please try again."
}

func (d *DialogEngine) AskConfirmOrCancelReply() string {
	return "Please reply 'confirm' to complete your booking or 'cancel' to start over."
}

func (d *DialogEngine) CancelledReply() string {
	return "No problem, your booking has been cancelled. Message me any time to start again."
}

func (d *DialogEngine) NoAvailabilityReply(eventName string) string {
	return fmt.Sprintf("Sorry, there's no availability for %s right now.", eventName)
}

func (d *DialogEngine) CouldNotDetermineEventReply() string {
	return "Sorry, I couldn't work out which match you meant from your voice note. Could you send it as a text message?"
}

func (d *DialogEngine) VoiceFailureReply() string {
	return "Sorry, I couldn't process your voice note. Please try again or send a text message."
}

func (d *DialogEngine) GenericFailureReply() string {
	return "Sorry, something went wrong on our side and your booking was not completed. Please try again."
}
