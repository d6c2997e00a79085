package handlers

import (
	"encoding/xml"
	"log/slog"
	"net/http"

	"matchtix/internal/cache"
	"matchtix/internal/models"
	"matchtix/internal/repository"
	"matchtix/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	catalog      *repository.EventCatalog
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, catalog *repository.EventCatalog, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		catalog:      catalog,
		valkeyClient: valkeyClient,
	}
}

// twimlResponse - XML-конверт ответа для канала сообщений
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// InboundMessage - POST /webhook/inbound
// Принять входящее сообщение из мессенджера и вернуть ответ
func (h *Handlers) InboundMessage(c *gin.Context) {
	var msg models.InboundMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg.From == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "From is required"})
		return
	}

	// Каналы сообщений повторяют доставку при таймауте; повторное
	// сообщение не должно продвигать диалог второй раз
	if h.valkeyClient != nil && h.valkeyClient.MarkProcessed(c.Request.Context(), msg.MessageSID) {
		slog.Info("Duplicate webhook delivery ignored", "message_sid", msg.MessageSID, "from", msg.From)
		c.XML(http.StatusOK, twimlResponse{})
		return
	}

	reply := h.services.Conversations.HandleTurn(c.Request.Context(), msg.From, msg.Body, msg.MediaURL)

	c.XML(http.StatusOK, twimlResponse{Message: reply})
}

// ListEvents - GET /api/events
// Получить список доступных событий
func (h *Handlers) ListEvents(c *gin.Context) {
	listings := h.catalog.ListAvailable()

	response := make(models.ListEventsResponse, 0, len(listings))
	for _, l := range listings {
		response = append(response, models.ListEventsResponseItem{
			Name:      l.Name,
			Date:      l.Date.Format("2006-01-02"),
			Venue:     l.Venue,
			Kickoff:   l.Kickoff,
			Category:  l.Category,
			Available: l.Available,
		})
	}

	c.JSON(http.StatusOK, response)
}
