package models

import "time"

// NATS Event Types
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingFailed    = "booking.failed"
)

// BookingConfirmedEvent represents a successful reservation
type BookingConfirmedEvent struct {
	TicketRef  string    `json:"ticket_ref"`
	EventName  string    `json:"event_name"`
	SenderID   string    `json:"sender_id"`
	Email      string    `json:"email"`
	Quantity   int       `json:"quantity"`
	TotalPence int64     `json:"total_pence"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingCancelledEvent represents a sender cancelling at confirmation
type BookingCancelledEvent struct {
	EventName string    `json:"event_name"`
	SenderID  string    `json:"sender_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingFailedEvent represents a reservation that could not complete
type BookingFailedEvent struct {
	EventName string    `json:"event_name"`
	SenderID  string    `json:"sender_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
