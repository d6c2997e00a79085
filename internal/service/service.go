package service

import (
	"matchtix/internal/messaging"
	"matchtix/internal/repository"
)

type Services struct {
	Bookings      *BookingService
	Dialog        *DialogEngine
	Conversations *ConversationService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, transcriber Transcriber, extractor Extractor, notifier Notifier, payment PaymentConfirmer) *Services {
	bookingService := NewBookingService(repos.Events, payment)
	dialogEngine := NewDialogEngine(repos.Events)
	conversationService := NewConversationService(repos, bookingService, dialogEngine, transcriber, extractor, notifier, natsClient)

	return &Services{
		Bookings:      bookingService,
		Dialog:        dialogEngine,
		Conversations: conversationService,
	}
}
