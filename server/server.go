package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"euringserver/conversion"
	"euringserver/database"
	"euringserver/recognition"
	"euringserver/server/middleware"
)

// Server HTTP сервер распознавания и конвертации строк EURING
type Server struct {
	db         *database.DB
	engine     *recognition.Engine
	config     *Config
	httpServer *http.Server
	logChan    chan LogEntry
	startTime  time.Time

	// Конвертер пересоздается при перезагрузке дескрипторов версий
	converter *conversion.Service
	convMutex sync.RWMutex
}

// NewServer создает новый сервер
func NewServer(db *database.DB, engine *recognition.Engine, config *Config) (*Server, error) {
	s := &Server{
		db:        db,
		engine:    engine,
		config:    config,
		logChan:   make(chan LogEntry, config.LogBufferSize),
		startTime: time.Now(),
	}

	if err := s.rebuildConverter(); err != nil {
		return nil, fmt.Errorf("failed to build converter: %w", err)
	}

	return s, nil
}

// rebuildConverter собирает сервис конвертации из текущих версий движка
func (s *Server) rebuildConverter() error {
	versions, err := s.engine.Versions()
	if err != nil {
		return err
	}

	s.convMutex.Lock()
	s.converter = conversion.NewService(versions)
	s.convMutex.Unlock()
	return nil
}

// getConverter текущий сервис конвертации
func (s *Server) getConverter() *conversion.Service {
	s.convMutex.RLock()
	defer s.convMutex.RUnlock()
	return s.converter
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.log(LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("Starting server on port %s", s.config.Port),
	})

	handler := s.setupMux()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second, // Таймаут для idle соединений
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// setupMux настраивает маршруты и возвращает http.Handler
// Используется как в Start(), так и в ServeHTTP() для тестов
func (s *Server) setupMux() http.Handler {
	mux := http.NewServeMux()

	// Распознавание
	mux.HandleFunc("/api/euring/recognize", s.handleRecognize)
	mux.HandleFunc("/api/euring/recognize/batch", s.handleRecognizeBatch)
	mux.HandleFunc("/api/euring/uncertainty", s.handleUncertainty)

	// Конвертация
	mux.HandleFunc("/api/euring/convert", s.handleConvert)
	mux.HandleFunc("/api/euring/convert/batch", s.handleConvertBatch)

	// Версии
	mux.HandleFunc("/api/euring/versions", s.handleVersions)
	mux.HandleFunc("/api/euring/versions/reload", s.handleVersionsReload)
	mux.HandleFunc("/api/euring/versions/", s.handleVersionRoutes)

	// Квоты и биллинг
	mux.HandleFunc("/api/euring/quota/", s.handleQuota)
	mux.HandleFunc("/api/euring/billing/", s.handleBilling)

	// Служебные
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	// Цепочка middleware
	handler := SecurityHeadersMiddleware(mux)
	handler = RequestIDMiddleware(handler)
	handler = LoggingMiddleware(handler)
	handler = middleware.RecoverMiddleware(handler)

	return handler
}

// ServeHTTP реализует http.Handler для использования в тестах
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := s.setupMux()
	handler.ServeHTTP(w, r)
}

// Shutdown корректно останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.log(LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   "Shutting down server...",
	})

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// GetLogChannel канал записей лога сервера
func (s *Server) GetLogChannel() <-chan LogEntry {
	return s.logChan
}

// log отправляет запись в лог
func (s *Server) log(entry LogEntry) {
	select {
	case s.logChan <- entry:
	default:
		// Если канал полон, пропускаем запись
	}
	log.Printf("[%s] %s: %s", entry.Level, entry.Timestamp.Format("15:04:05"), entry.Message)
}

// writeJSONResponse записывает JSON ответ
func (s *Server) writeJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	middleware.WriteJSONResponse(w, data, statusCode)
}

// writeJSONError записывает JSON ошибку
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	middleware.WriteJSONError(w, message, statusCode)
}

// userIDFromRequest определяет пользователя по заголовку или телу запроса
func userIDFromRequest(r *http.Request, bodyUserID string) string {
	if bodyUserID != "" {
		return bodyUserID
	}
	if header := r.Header.Get("X-User-ID"); header != "" {
		return header
	}
	return "anonymous"
}

// handleHealth обрабатывает проверку здоровья сервера
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	versions, err := s.engine.Versions()
	status := "healthy"
	if err != nil {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          status,
		"versions_loaded": len(versions),
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"time":            time.Now().Format(time.RFC3339),
	})
}

// handleStats обрабатывает запрос статистики сервиса
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.db.GetStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	usage, err := s.db.VersionUsage()
	if err == nil {
		stats["version_usage"] = usage
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
