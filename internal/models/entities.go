package models

import (
	"sync"
	"time"
)

// StandardTicketType is the fallback price table entry; every listing must
// carry it.
const StandardTicketType = "Standard"

// EventListing represents one bookable event with its seat pool and pricing.
// Listings are created at startup and mutated only through the catalog's
// reservation path; Available must always equal len(Seats).
type EventListing struct {
	Name      string           `json:"name"`
	Date      time.Time        `json:"date"`
	Venue     string           `json:"venue"`
	Kickoff   string           `json:"kickoff"`
	Category  string           `json:"category"`
	Prices    map[string]int64 `json:"prices"` // ticket type -> unit price in pence
	Seats     []string         `json:"seats"`
	Available int              `json:"available"`
}

// BookingIntent accumulates the structured booking request across turns.
// Fields are filled by the extractor first and by follow-up prompts after.
type BookingIntent struct {
	EventName    string    `json:"event_name"`
	DateText     string    `json:"date_text"`
	Date         time.Time `json:"date"`
	FanName      string    `json:"fan_name"`
	Email        string    `json:"email"`
	Quantity     int       `json:"quantity"`
	Requirements string    `json:"requirements"`
	TicketType   string    `json:"ticket_type"`
}

// AwaitingFlag names the single waiting flag a conversation may hold.
type AwaitingFlag int

const (
	AwaitingNone AwaitingFlag = iota
	AwaitQuantity
	AwaitEmail
	AwaitConfirmation
)

// ConversationState tracks one sender's progress through the booking flow.
// At most one awaiting flag is set at a time; all writes go through
// SetAwaiting so the exclusivity holds structurally, not by convention.
type ConversationState struct {
	mu sync.Mutex

	SenderID             string
	Intent               *BookingIntent
	AwaitingQuantity     bool
	AwaitingEmail        bool
	AwaitingConfirmation bool
	LastActive           time.Time
}

func NewConversationState(senderID string) *ConversationState {
	return &ConversationState{
		SenderID:   senderID,
		LastActive: time.Now(),
	}
}

// Lock serializes turns for this sender; the orchestrator holds it for the
// whole turn so racing turns from one number cannot interleave.
func (s *ConversationState) Lock()   { s.mu.Lock() }
func (s *ConversationState) Unlock() { s.mu.Unlock() }

// SetAwaiting sets exactly one waiting flag, clearing the others.
func (s *ConversationState) SetAwaiting(flag AwaitingFlag) {
	s.AwaitingQuantity = flag == AwaitQuantity
	s.AwaitingEmail = flag == AwaitEmail
	s.AwaitingConfirmation = flag == AwaitConfirmation
}

// Reset clears the intent and all waiting flags. The entry itself stays in
// the store for the process lifetime; calling Reset twice is a no-op.
func (s *ConversationState) Reset() {
	s.Intent = nil
	s.SetAwaiting(AwaitingNone)
}

// BookingRecord is the immutable result of a successful reservation.
type BookingRecord struct {
	EventName  string    `json:"event_name"`
	Date       time.Time `json:"date"`
	Venue      string    `json:"venue"`
	Kickoff    string    `json:"kickoff"`
	TicketRef  string    `json:"ticket_ref"`
	Email      string    `json:"email"`
	Quantity   int       `json:"quantity"`
	Category   string    `json:"category"`
	BookedAt   time.Time `json:"booked_at"`
	TotalPence int64     `json:"total_pence"`
	Seats      []string  `json:"seats"`
}
