package consumers

import (
	"log/slog"

	"matchtix/internal/config"
	"matchtix/internal/messaging"
	"matchtix/internal/models"
)

// ConsumerService tails the booking lifecycle subjects for audit and
// downstream fulfilment. It runs as its own binary so the API process
// never blocks on consumer work.
type ConsumerService struct {
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	return &ConsumerService{
		nats:     natsClient,
		handlers: NewHandlers(),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.Subscribe(models.EventBookingConfirmed, cs.handlers.HandleBookingConfirmed); err != nil {
		return err
	}

	if _, err := cs.nats.Subscribe(models.EventBookingCancelled, cs.handlers.HandleBookingCancelled); err != nil {
		return err
	}

	if _, err := cs.nats.Subscribe(models.EventBookingFailed, cs.handlers.HandleBookingFailed); err != nil {
		return err
	}

	return nil
}

func (cs *ConsumerService) Stop() error {
	return cs.nats.Close()
}
