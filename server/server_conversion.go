package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"euringserver/conversion"
	"euringserver/database"
)

// conversionStatusCode HTTP статус для ошибки конвертации
func conversionStatusCode(err error) int {
	switch {
	case errors.Is(err, conversion.ErrUnknownVersion):
		return http.StatusNotFound
	case errors.Is(err, conversion.ErrUnsupportedConversion):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// handleConvert обрабатывает конвертацию одной строки
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.InputString == "" || req.FromVersion == "" || req.ToVersion == "" {
		s.writeJSONError(w, "input_string, from_version and to_version are required", http.StatusBadRequest)
		return
	}

	userID := userIDFromRequest(r, req.UserID)

	result, err := s.getConverter().Convert(req.InputString, req.FromVersion, req.ToVersion)
	if err != nil {
		s.writeJSONError(w, err.Error(), conversionStatusCode(err))
		return
	}

	charge, err := s.db.ConsumeQuota(userID, "conversion", 1)
	if err != nil {
		s.writeJSONError(w, "Failed to charge quota: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.db.LogConversion(&database.ConversionEntry{
		UserID:           userID,
		InputString:      result.OriginalString,
		OutputString:     result.ConvertedString,
		FromVersion:      result.FromVersion,
		ToVersion:        result.ToVersion,
		Success:          result.Success,
		Error:            result.Error,
		ProcessingTimeMS: result.ProcessingTimeMS,
	}); err != nil {
		s.log(LogEntry{Timestamp: time.Now(), Level: "WARN", Message: "failed to log conversion: " + err.Error()})
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"result": result,
		"charge": charge,
	}, http.StatusOK)
}

// handleConvertBatch обрабатывает пакетную конвертацию
func (s *Server) handleConvertBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.FromVersion == "" || req.ToVersion == "" {
		s.writeJSONError(w, "from_version and to_version are required", http.StatusBadRequest)
		return
	}

	userID := userIDFromRequest(r, req.UserID)

	batch, err := s.getConverter().ConvertBatch(req.InputStrings, req.FromVersion, req.ToVersion)
	if err != nil {
		s.writeJSONError(w, err.Error(), conversionStatusCode(err))
		return
	}

	charge, err := s.db.ConsumeQuota(userID, "conversion", len(req.InputStrings))
	if err != nil {
		s.writeJSONError(w, "Failed to charge quota: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"results":         batch.Results,
		"total_processed": batch.TotalProcessed,
		"successful":      batch.Successful,
		"failed":          batch.Failed,
		"charge":          charge,
	}, http.StatusOK)
}
