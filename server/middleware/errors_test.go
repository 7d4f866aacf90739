package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-42")

	WriteJSONError(rec, "something failed", http.StatusBadRequest)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	if envelope.Error != "something failed" {
		t.Errorf("Error = %q", envelope.Error)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", envelope.Status)
	}
	if envelope.RequestID != "req-42" {
		t.Errorf("конверт должен нести идентификатор запроса, получено %q", envelope.RequestID)
	}
	if envelope.Timestamp == "" {
		t.Error("конверт без метки времени")
	}
}

func TestWriteJSONErrorWithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSONError(rec, "oops", http.StatusInternalServerError)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	if envelope.RequestID != "" {
		t.Errorf("без middleware идентификатор должен быть пуст, получено %q", envelope.RequestID)
	}
}

func TestWriteJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSONResponse(rec, map[string]int{"total": 4}, http.StatusOK)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["total"] != 4 {
		t.Errorf("body = %v", body)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	RecoverMiddleware(panicking).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("паника должна превращаться в JSON ошибку: %v", err)
	}
	if envelope.Error == "" {
		t.Error("конверт ошибки без сообщения")
	}
}

func TestRecoverMiddlewarePassthrough(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RecoverMiddleware(ok).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, обычный ответ не должен искажаться", rec.Code)
	}
}
