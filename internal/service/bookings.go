package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	apperrors "matchtix/internal/errors"
	"matchtix/internal/logger"
	"matchtix/internal/models"
	"matchtix/internal/repository"

	"github.com/google/uuid"
)

const ticketRefPrefix = "MTX-"

// PaymentConfirmer checks a charge with the payment gateway before seats
// are committed. The stub implementation always succeeds; a real gateway
// may fail with ErrPaymentNotConfirmed.
type PaymentConfirmer interface {
	Confirm(amount int64, orderID string) error
}

// BookingService is the booking engine: availability checks and atomic
// reservations against the event catalog.
type BookingService struct {
	catalog *repository.EventCatalog
	payment PaymentConfirmer
}

func NewBookingService(catalog *repository.EventCatalog, payment PaymentConfirmer) *BookingService {
	return &BookingService{
		catalog: catalog,
		payment: payment,
	}
}

// CheckAvailability reports whether the listing exists, has seats left and
// is scheduled on the requested calendar date (time of day is ignored).
func (s *BookingService) CheckAvailability(eventName string, date time.Time) bool {
	listing, err := s.catalog.Get(eventName)
	if err != nil {
		return false
	}
	return listing.Available > 0 && sameDay(listing.Date, date)
}

// Reserve books quantity seats for a listing and returns the booking
// record. Failure order: unknown event, insufficient inventory, invalid
// contact, payment not confirmed. The seat dequeue and count decrement are
// atomic inside the catalog.
func (s *BookingService) Reserve(ctx context.Context, eventName string, email string, quantity int, ticketType string) (*models.BookingRecord, error) {
	listing, err := s.catalog.Get(eventName)
	if err != nil {
		return nil, err
	}

	if quantity > listing.Available {
		return nil, fmt.Errorf("%w: %d requested, %d remaining", apperrors.ErrInsufficientInventory, quantity, listing.Available)
	}

	if email != "" && !containsAt(email) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidContact, email)
	}

	if ticketType == "" {
		ticketType = models.StandardTicketType
	}
	unitPrice, ok := listing.Prices[ticketType]
	if !ok {
		unitPrice = listing.Prices[models.StandardTicketType]
	}
	total := unitPrice * int64(quantity)

	orderID := uuid.New().String()
	if err := s.payment.Confirm(total, orderID); err != nil {
		return nil, fmt.Errorf("payment check failed for order %s: %w", orderID, err)
	}

	seats, err := s.catalog.ReserveSeats(eventName, quantity)
	if err != nil {
		return nil, err
	}

	record := &models.BookingRecord{
		EventName:  listing.Name,
		Date:       listing.Date,
		Venue:      listing.Venue,
		Kickoff:    listing.Kickoff,
		TicketRef:  newTicketRef(),
		Email:      email,
		Quantity:   quantity,
		Category:   listing.Category,
		BookedAt:   time.Now(),
		TotalPence: total,
		Seats:      seats,
	}

	logger.WithContext(ctx).Info("Reservation confirmed",
		"ticket_ref", record.TicketRef,
		"event", record.EventName,
		"quantity", record.Quantity,
		"total", record.TotalPence)

	return record, nil
}

func containsAt(email string) bool {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// newTicketRef generates a reference like MTX-7K2F9QXD. Collisions are
// treated as negligible at this scale, so there is no retry.
func newTicketRef() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return ticketRefPrefix + string(b)
}
