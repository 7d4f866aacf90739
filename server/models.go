package server

import (
	"time"

	"euringserver/recognition"
)

// RecognizeRequest запрос распознавания одной строки
type RecognizeRequest struct {
	InputString string `json:"input_string"`
	UserID      string `json:"user_id,omitempty"`
}

// RecognizeResponse итог распознавания для клиента
type RecognizeResponse struct {
	DetectedVersion  *VersionSummary              `json:"detected_version,omitempty"`
	Confidence       float64                      `json:"confidence"`
	Alternatives     []*VersionSummary            `json:"alternative_versions,omitempty"`
	Breakdown        *recognition.ScoreBreakdown  `json:"analysis_details,omitempty"`
	Charge           interface{}                  `json:"charge,omitempty"`
	ProcessingTimeMS float64                      `json:"processing_time_ms"`
}

// BatchRecognizeRequest запрос пакетного распознавания.
// SameVersionHint: true — батч объявлен однородным, false — смешанным,
// отсутствует — стратегия выбирается автоматически.
type BatchRecognizeRequest struct {
	InputStrings    []string `json:"input_strings"`
	SameVersionHint *bool    `json:"same_version_hint,omitempty"`
	UserID          string   `json:"user_id,omitempty"`
}

// UncertaintyRequest запрос развёрнутого отчёта о неопределённости
type UncertaintyRequest struct {
	InputString     string `json:"input_string"`
	MaxAlternatives int    `json:"max_alternatives,omitempty"`
}

// ConvertRequest запрос конвертации одной строки
type ConvertRequest struct {
	InputString string `json:"input_string"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	UserID      string `json:"user_id,omitempty"`
}

// BatchConvertRequest запрос пакетной конвертации
type BatchConvertRequest struct {
	InputStrings []string `json:"input_strings"`
	FromVersion  string   `json:"from_version"`
	ToVersion    string   `json:"to_version"`
	UserID       string   `json:"user_id,omitempty"`
}

// VersionSummary краткая информация о версии для ответов API
type VersionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Description string `json:"description,omitempty"`
}

// LogEntry запись лога
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Endpoint  string    `json:"endpoint,omitempty"`
}
