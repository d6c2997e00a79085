package repository

import "matchtix/internal/models"

type Repositories struct {
	Events        *EventCatalog
	Conversations *ConversationStore
}

func NewRepositories(listings []models.EventListing) (*Repositories, error) {
	catalog, err := NewEventCatalog(listings)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Events:        catalog,
		Conversations: NewConversationStore(),
	}, nil
}
