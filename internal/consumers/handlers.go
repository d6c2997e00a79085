package consumers

import (
	"encoding/json"
	"log/slog"

	"matchtix/internal/models"

	"github.com/nats-io/stan.go"
)

type Handlers struct{}

func NewHandlers() *Handlers {
	return &Handlers{}
}

func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		return
	}

	slog.Info("Booking confirmed",
		"ticket_ref", event.TicketRef,
		"event", event.EventName,
		"quantity", event.Quantity,
		"total", event.TotalPence)

	// Downstream fulfilment (document generation, CRM sync) hangs off
	// this subject; for now the audit log entry is the processing.

	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	slog.Info("Booking cancelled", "event", event.EventName, "sender_id", event.SenderID)

	m.Ack()
}

func (h *Handlers) HandleBookingFailed(m *stan.Msg) {
	var event models.BookingFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking failed event", "error", err)
		return
	}

	slog.Warn("Booking failed",
		"event", event.EventName,
		"sender_id", event.SenderID,
		"reason", event.Reason)

	m.Ack()
}
