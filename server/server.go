package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"prepserver/database"
	"prepserver/internal/config"
	"prepserver/server/handlers"
	"prepserver/server/middleware"
	"prepserver/server/services"
)

// Server — HTTP сервер движка стандартизации
type Server struct {
	config *config.Config
	db     *database.DB

	sessionService    *services.SessionService
	similarityService *services.SimilarityService

	sessionHandler    *handlers.SessionHandler
	similarityHandler *handlers.SimilarityHandler

	rateLimiter *middleware.RateLimiter

	httpServer     *http.Server
	httpHandler    http.Handler
	handlerOnce    sync.Once
	handlerInitErr error
}

// NewServer создает сервер со всеми зависимостями
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	replacements, err := cfg.DepartmentReplacements()
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionService := services.NewSessionService(db, replacements)
	similarityService := services.NewSimilarityService()

	return &Server{
		config:            cfg,
		db:                db,
		sessionService:    sessionService,
		similarityService: similarityService,
		sessionHandler:    handlers.NewSessionHandler(sessionService, cfg.MaxUploadBytes),
		similarityHandler: handlers.NewSimilarityHandler(similarityService),
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}, nil
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	handler, err := s.ensureHTTPHandler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // экспорт больших таблиц
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Сервер запускается на порту %s", s.config.Port)
	log.Printf("API доступно по адресу: http://localhost%s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("не удалось запустить HTTP сервер на %s: %w", addr, err)
	}

	return nil
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Initiating graceful shutdown...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия базы данных: %w", err)
	}

	log.Println("Graceful shutdown completed")
	return nil
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler, err := s.ensureHTTPHandler()
	if err != nil {
		http.Error(w, "server is not initialized", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}

func (s *Server) ensureHTTPHandler() (http.Handler, error) {
	s.handlerOnce.Do(func() {
		s.httpHandler, s.handlerInitErr = s.buildHTTPHandler()
	})

	if s.handlerInitErr != nil {
		return nil, s.handlerInitErr
	}
	return s.httpHandler, nil
}

func (s *Server) buildHTTPHandler() (http.Handler, error) {
	// Режим Gin: release по умолчанию, переопределяется через GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(s.rateLimiter.GinRateLimitMiddleware())

	s.registerGinHandlers(router)

	return router, nil
}

// registerGinHandlers регистрирует все Gin handlers
func (s *Server) registerGinHandlers(router *gin.Engine) {
	// Health check endpoint — простой эндпоинт без зависимостей
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "prep-server",
			"time":    time.Now().Format(time.RFC3339),
		})
	}
	router.GET("/health", health)

	api := router.Group("/api")
	api.GET("/health", health)

	// Sessions API
	sessionsAPI := api.Group("/sessions")
	{
		sessionsAPI.POST("", s.sessionHandler.HandleCreateSessionGin)
		sessionsAPI.GET("/:id", s.sessionHandler.HandleGetSessionGin)
		sessionsAPI.GET("/:id/clusters", s.sessionHandler.HandleClustersGin)
		sessionsAPI.POST("/:id/decisions", s.sessionHandler.HandleDecisionsGin)
		sessionsAPI.GET("/:id/mapping", s.sessionHandler.HandleMappingGin)
		sessionsAPI.GET("/:id/export", s.sessionHandler.HandleExportGin)
	}

	// Similarity API
	similarityAPI := api.Group("/similarity")
	{
		similarityAPI.POST("/compare", s.similarityHandler.HandleCompareGin)
		similarityAPI.POST("/extract", s.similarityHandler.HandleExtractGin)
	}
}
