package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// ErrorEnvelope единый формат JSON ошибки API. Идентификатор запроса
// берется из заголовка ответа, который цепочка middleware выставляет
// до вызова обработчиков.
type ErrorEnvelope struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// WriteJSONError записывает ошибку в формате конверта
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	envelope := ErrorEnvelope{
		Error:     message,
		Status:    statusCode,
		RequestID: w.Header().Get("X-Request-ID"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Printf("Ошибка кодирования JSON ошибки: %v", err)
	}
}

// WriteJSONResponse записывает произвольный JSON ответ.
// Сбой кодирования после WriteHeader уже не исправить, только залогировать.
func WriteJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Ошибка кодирования JSON ответа: %v", err)
	}
}

// RecoverMiddleware перехватывает панику обработчика и отвечает
// JSON ошибкой вместо обрыва соединения
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Паника в обработчике %s %s: %v", r.Method, r.URL.Path, err)
				WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
