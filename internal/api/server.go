package api

import (
	"fmt"
	"log"
	"net/http"

	"matchtix/internal/cache"
	"matchtix/internal/config"
	"matchtix/internal/external"
	"matchtix/internal/handlers"
	"matchtix/internal/messaging"
	"matchtix/internal/middleware"
	"matchtix/internal/repository"
	"matchtix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	// Загружаем каталог событий
	listings, err := repository.LoadListings(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load event catalog: %v", err)
	}

	repos, err := repository.NewRepositories(listings)
	if err != nil {
		log.Fatalf("Failed to build event catalog: %v", err)
	}

	// Подключаемся к NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Подключаемся к valkey (опционально)
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Printf("Valkey unavailable, webhook dedup disabled: %v", err)
	}

	// Создаем клиенты внешних сервисов
	transcriber := external.NewTranscriptionClient(cfg.Transcription)
	extractor := external.NewExtractor(cfg.Extractor, repos.Events.Names())
	notifier := external.NewNotifierClient(cfg.Notifier)
	paymentClient := external.NewPaymentClient(cfg.Payment)

	// Создаем сервисы
	services := service.NewServices(repos, natsClient, transcriber, extractor, notifier, paymentClient)

	// Создаем роутер
	router := gin.New()

	// Применяем middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	// Создаем сервер
	server := &Server{
		router:   router,
		config:   cfg,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	// Настраиваем роуты
	server.setupRoutes()

	return server
}

// setupRoutes настраивает все роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.repos.Events, s.valkey)

	// Webhook входящих сообщений
	webhook := s.router.Group("/webhook")
	{
		webhook.POST("/inbound", h.InboundMessage)
	}

	// API routes
	api := s.router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
		}
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Prometheus metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       "matchtix-api",
		"version":       "1.0.0",
		"conversations": s.repos.Conversations.Len(),
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing valkey connection: %v", err)
		}
	}

	return nil
}
