package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"euringserver/database"
	"euringserver/recognition"
	"euringserver/scheme"
)

// versionSummary краткое представление версии для ответа
func versionSummary(v *scheme.Version) *VersionSummary {
	if v == nil {
		return nil
	}
	return &VersionSummary{
		ID:          v.ID,
		Name:        v.Name,
		Year:        v.Year,
		Description: v.Description,
	}
}

// recognitionStatusCode HTTP статус для ошибки распознавания
func recognitionStatusCode(err error) int {
	switch {
	case errors.Is(err, recognition.ErrEmptyInput), errors.Is(err, recognition.ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.Is(err, recognition.ErrNoSchemes):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleRecognize обрабатывает распознавание одной строки
func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	userID := userIDFromRequest(r, req.UserID)

	start := time.Now()
	result, err := s.engine.RecognizeOne(req.InputString)
	if err != nil {
		s.writeJSONError(w, err.Error(), recognitionStatusCode(err))
		return
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	charge, err := s.db.ConsumeQuota(userID, "recognition", 1)
	if err != nil {
		s.writeJSONError(w, "Failed to charge quota: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// История ведется по возможности, ошибка записи не валит ответ
	level := ""
	if result.Breakdown != nil && result.Breakdown.Uncertainty != nil {
		level = string(result.Breakdown.Uncertainty.Level)
	}
	if err := s.db.LogRecognition(&database.RecognitionEntry{
		UserID:           userID,
		InputString:      req.InputString,
		DetectedVersion:  result.DetectedVersion.ID,
		Confidence:       result.Confidence,
		UncertaintyLevel: level,
		ProcessingTimeMS: elapsed,
	}); err != nil {
		s.log(LogEntry{Timestamp: time.Now(), Level: "WARN", Message: "failed to log recognition: " + err.Error()})
	}

	alternatives := make([]*VersionSummary, 0, len(result.Alternatives))
	for _, alt := range result.Alternatives {
		alternatives = append(alternatives, versionSummary(alt))
	}

	s.writeJSONResponse(w, &RecognizeResponse{
		DetectedVersion:  versionSummary(result.DetectedVersion),
		Confidence:       result.Confidence,
		Alternatives:     alternatives,
		Breakdown:        result.Breakdown,
		Charge:           charge,
		ProcessingTimeMS: elapsed,
	}, http.StatusOK)
}

// handleRecognizeBatch обрабатывает пакетное распознавание
func (s *Server) handleRecognizeBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	userID := userIDFromRequest(r, req.UserID)

	batch, err := s.engine.RecognizeBatch(r.Context(), req.InputStrings, req.SameVersionHint)
	if err != nil {
		s.writeJSONError(w, err.Error(), recognitionStatusCode(err))
		return
	}

	charge, err := s.db.ConsumeQuota(userID, "recognition", len(req.InputStrings))
	if err != nil {
		s.writeJSONError(w, "Failed to charge quota: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"results":               batch.Results,
		"processing_summary":    batch.Summary,
		"same_version_detected": batch.SameVersionDetected,
		"total_processed":       batch.TotalProcessed,
		"charge":                charge,
	}, http.StatusOK)
}

// handleUncertainty обрабатывает запрос развёрнутого отчёта о неопределённости
func (s *Server) handleUncertainty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UncertaintyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	report, err := s.engine.ExplainUncertainty(req.InputString, req.MaxAlternatives)
	if err != nil {
		s.writeJSONError(w, err.Error(), recognitionStatusCode(err))
		return
	}

	s.writeJSONResponse(w, report, http.StatusOK)
}
