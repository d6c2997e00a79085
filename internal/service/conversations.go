package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "matchtix/internal/errors"
	"matchtix/internal/logger"
	"matchtix/internal/messaging"
	"matchtix/internal/metrics"
	"matchtix/internal/models"
	"matchtix/internal/repository"
)

// Transcriber turns a voice note (by media URL) into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}

// Extractor pulls a booking intent out of free text. It never fails;
// fields the text lacks stay empty and an unknown event is an empty name.
type Extractor interface {
	Extract(ctx context.Context, text string) *models.BookingIntent
}

// Notifier delivers the booking confirmation over the messaging channel.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error
}

// ConversationService orchestrates one inbound turn: dialog decisions,
// booking engine calls and collaborator calls. Every path returns a reply
// string; no failure escapes to the transport layer.
type ConversationService struct {
	store       *repository.ConversationStore
	catalog     *repository.EventCatalog
	bookings    *BookingService
	dialog      *DialogEngine
	transcriber Transcriber
	extractor   Extractor
	notifier    Notifier
	nats        *messaging.NATSClient
}

func NewConversationService(repos *repository.Repositories, bookings *BookingService, dialog *DialogEngine, transcriber Transcriber, extractor Extractor, notifier Notifier, natsClient *messaging.NATSClient) *ConversationService {
	return &ConversationService{
		store:       repos.Conversations,
		catalog:     repos.Events,
		bookings:    bookings,
		dialog:      dialog,
		transcriber: transcriber,
		extractor:   extractor,
		notifier:    notifier,
		nats:        natsClient,
	}
}

// HandleTurn processes one inbound message and returns the reply text.
// The sender's state lock is held for the whole turn, so racing turns from
// the same sender serialize instead of interleaving.
func (s *ConversationService) HandleTurn(ctx context.Context, senderID, body, mediaURL string) (reply string) {
	start := time.Now()
	defer func() {
		metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}()

	state := s.store.GetOrCreate(senderID)
	state.Lock()
	defer state.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.WithSenderID(senderID).Error("Panic while handling turn", "panic", r)
			state.Reset()
			metrics.TurnsTotal.WithLabelValues("error").Inc()
			reply = s.dialog.GenericFailureReply()
		}
	}()

	state.LastActive = time.Now()

	switch StateOf(state) {
	case StateAwaitingConfirmation:
		return s.handleConfirmation(ctx, state, body)
	case StateAwaitingEmail:
		return s.handleEmail(ctx, state, body)
	case StateAwaitingQuantity:
		return s.handleQuantity(ctx, state, body)
	default:
		return s.handleNewMessage(ctx, state, body, mediaURL)
	}
}

func (s *ConversationService) handleConfirmation(ctx context.Context, state *models.ConversationState, body string) string {
	switch s.dialog.DecideConfirmation(body) {
	case ConfirmProceed:
		return s.completeBooking(ctx, state)

	case ConfirmCancel:
		eventName := ""
		if state.Intent != nil {
			eventName = state.Intent.EventName
		}
		state.Reset()
		s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
			EventName: eventName,
			SenderID:  state.SenderID,
			Timestamp: time.Now(),
		})
		metrics.TurnsTotal.WithLabelValues("cancelled").Inc()
		return s.dialog.CancelledReply()

	default:
		metrics.TurnsTotal.WithLabelValues("prompt").Inc()
		return s.dialog.AskConfirmOrCancelReply()
	}
}

func (s *ConversationService) handleEmail(ctx context.Context, state *models.ConversationState, body string) string {
	email, ok := s.dialog.ExtractEmail(body)
	if !ok {
		metrics.TurnsTotal.WithLabelValues("invalid").Inc()
		return s.dialog.InvalidEmailReply()
	}

	if state.Intent == nil {
		// Flag without an intent means the state was corrupted somewhere;
		// start the sender over rather than leave them stuck.
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("error").Inc()
		return s.dialog.GenericFailureReply()
	}

	state.Intent.Email = email
	return s.proceedToAvailability(ctx, state)
}

func (s *ConversationService) handleQuantity(ctx context.Context, state *models.ConversationState, body string) string {
	n, ok := s.dialog.ParseQuantity(body)
	if !ok {
		metrics.TurnsTotal.WithLabelValues("invalid").Inc()
		return s.dialog.InvalidQuantityReply()
	}

	if state.Intent == nil {
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("error").Inc()
		return s.dialog.GenericFailureReply()
	}

	state.Intent.Quantity = n
	if state.Intent.Email == "" {
		state.SetAwaiting(models.AwaitEmail)
		metrics.TurnsTotal.WithLabelValues("prompt").Inc()
		return s.dialog.AskEmailReply()
	}
	return s.proceedToAvailability(ctx, state)
}

func (s *ConversationService) handleNewMessage(ctx context.Context, state *models.ConversationState, body, mediaURL string) string {
	if mediaURL != "" {
		transcript, err := s.transcriber.Transcribe(ctx, mediaURL)
		if err != nil {
			logger.WithContext(ctx).Error("Transcription failed",
				"error", err,
				"sender_id", state.SenderID,
				"media_url", mediaURL)
			state.Reset()
			metrics.TurnsTotal.WithLabelValues("error").Inc()
			return s.dialog.VoiceFailureReply()
		}
		intent := s.extractor.Extract(ctx, transcript)
		return s.applyIntent(ctx, state, intent, true)
	}

	if strings.TrimSpace(body) != "" {
		intent := s.extractor.Extract(ctx, body)
		return s.applyIntent(ctx, state, intent, false)
	}

	metrics.TurnsTotal.WithLabelValues("welcome").Inc()
	return s.dialog.WelcomeReply()
}

// applyIntent runs the shared new-intent logic for voice and text turns.
// The "could not determine event" reply is voice-only; a text turn with no
// recognized event gets the welcome listing instead.
func (s *ConversationService) applyIntent(ctx context.Context, state *models.ConversationState, intent *models.BookingIntent, fromVoice bool) string {
	if intent == nil || intent.EventName == "" {
		metrics.TurnsTotal.WithLabelValues("welcome").Inc()
		if fromVoice {
			return s.dialog.CouldNotDetermineEventReply()
		}
		return s.dialog.WelcomeReply()
	}

	state.Intent = intent

	if !s.dialog.ValidQuantity(intent.Quantity) {
		state.SetAwaiting(models.AwaitQuantity)
		metrics.TurnsTotal.WithLabelValues("prompt").Inc()
		return s.dialog.AskQuantityReply()
	}

	if intent.Email == "" {
		state.SetAwaiting(models.AwaitEmail)
		metrics.TurnsTotal.WithLabelValues("prompt").Inc()
		return s.dialog.AskEmailReply()
	}

	return s.proceedToAvailability(ctx, state)
}

// proceedToAvailability runs once the intent has an event, a valid
// quantity and an email. It either offers alternatives and resets, or
// moves the sender to the confirmation step.
func (s *ConversationService) proceedToAvailability(ctx context.Context, state *models.ConversationState) string {
	intent := state.Intent

	// A sender who named no date means the advertised fixture, not
	// literally tomorrow.
	if intent.DateText == "" {
		if listing, err := s.catalog.Get(intent.EventName); err == nil {
			intent.Date = listing.Date
		}
	}

	if !s.bookings.CheckAvailability(intent.EventName, intent.Date) {
		eventName := intent.EventName
		dates := s.catalog.AlternativeDates(eventName)
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("unavailable").Inc()
		if len(dates) > 0 {
			return s.dialog.AlternativeDatesReply(eventName, dates)
		}
		return s.dialog.NoAvailabilityReply(eventName)
	}

	listing, err := s.catalog.Get(intent.EventName)
	if err != nil {
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("failed").Inc()
		return s.dialog.NoAvailabilityReply(intent.EventName)
	}

	state.SetAwaiting(models.AwaitConfirmation)
	metrics.TurnsTotal.WithLabelValues("prompt").Inc()
	return s.dialog.ConfirmationSummary(listing, intent)
}

// completeBooking drives the booking engine on a confirmed intent. Success
// and failure both reset the conversation; the reply is always honest
// about which one happened.
func (s *ConversationService) completeBooking(ctx context.Context, state *models.ConversationState) string {
	intent := state.Intent
	if intent == nil {
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("error").Inc()
		return s.dialog.GenericFailureReply()
	}

	record, err := s.bookings.Reserve(ctx, intent.EventName, intent.Email, intent.Quantity, intent.TicketType)
	if err != nil {
		reply := s.bookingFailureReply(err, intent.EventName)
		state.Reset()
		metrics.TurnsTotal.WithLabelValues("failed").Inc()
		metrics.BookingFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		s.publish(ctx, models.EventBookingFailed, models.BookingFailedEvent{
			EventName: intent.EventName,
			SenderID:  state.SenderID,
			Reason:    failureReason(err),
			Timestamp: time.Now(),
		})
		logger.WithContext(ctx).Error("Reservation failed",
			"error", err,
			"sender_id", state.SenderID,
			"event", intent.EventName)
		return reply
	}

	state.Reset()
	metrics.TurnsTotal.WithLabelValues("confirmed").Inc()
	metrics.BookingsTotal.Inc()
	metrics.SeatsReservedTotal.Add(float64(record.Quantity))

	s.publish(ctx, models.EventBookingConfirmed, models.BookingConfirmedEvent{
		TicketRef:  record.TicketRef,
		EventName:  record.EventName,
		SenderID:   state.SenderID,
		Email:      record.Email,
		Quantity:   record.Quantity,
		TotalPence: record.TotalPence,
		Timestamp:  time.Now(),
	})

	// The reservation already succeeded; a delivery failure is logged and
	// counted but never reported to the sender as a booking failure.
	if err := s.notifier.SendBookingConfirmation(ctx, state.SenderID, record); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		logger.WithContext(ctx).Error("Failed to deliver booking confirmation",
			"error", err,
			"ticket_ref", record.TicketRef,
			"sender_id", state.SenderID)
	}

	return bookedReply(record)
}

func (s *ConversationService) bookingFailureReply(err error, eventName string) string {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "Sorry, I couldn't find that event any more. Send a new message to see what's on sale."
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		remaining := s.catalog.Availability(eventName)
		if remaining == 1 {
			return "Sorry, only 1 seat is left for " + eventName + ". Send a new message to book it."
		}
		return fmt.Sprintf("Sorry, only %d seats are left for %s. Send a new message with a smaller quantity.", remaining, eventName)
	case errors.Is(err, apperrors.ErrInvalidContact):
		return "The email address on your booking doesn't look right. Send a new message to start over."
	case errors.Is(err, apperrors.ErrPaymentNotConfirmed):
		return "Your payment could not be confirmed, so nothing was booked. Please try again."
	default:
		return s.dialog.GenericFailureReply()
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, apperrors.ErrInvalidContact):
		return "invalid_contact"
	case errors.Is(err, apperrors.ErrPaymentNotConfirmed):
		return "payment_not_confirmed"
	default:
		return "internal"
	}
}

func bookedReply(record *models.BookingRecord) string {
	var b strings.Builder
	b.WriteString("You're booked! Ticket reference " + record.TicketRef + "\n")
	b.WriteString(record.EventName + " at " + record.Venue + ", kickoff " + record.Kickoff + "\n")
	b.WriteString("Seats: " + strings.Join(record.Seats, ", ") + "\n")
	b.WriteString("Total " + models.FormatPence(record.TotalPence) + " — tickets sent to " + record.Email)
	return b.String()
}

func (s *ConversationService) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.nats.Publish(subject, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}
