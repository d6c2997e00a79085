package models

import "fmt"

// FormatPence renders an integer pence amount as a user-facing price
func FormatPence(pence int64) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}

// InboundMessage - входящее сообщение из webhook мессенджера
type InboundMessage struct {
	From       string `form:"From" json:"from"`
	Body       string `form:"Body" json:"body"`
	MediaURL   string `form:"MediaUrl0" json:"media_url"`
	MessageSID string `form:"MessageSid" json:"message_sid"`
}

// ListEventsResponseItem - элемент списка событий
type ListEventsResponseItem struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Venue     string `json:"venue"`
	Kickoff   string `json:"kickoff"`
	Category  string `json:"category"`
	Available int    `json:"available"`
}

// ListEventsResponse - список доступных событий
type ListEventsResponse []ListEventsResponseItem
