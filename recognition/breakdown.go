package recognition

import (
	"euringserver/scheme"
)

// AlgorithmVersion версия алгоритма оценки, попадает в каждый ScoreBreakdown
const AlgorithmVersion = "2.0"

// Имена компонент уверенности в ScoreBreakdown.ConfidenceFactors
const (
	ComponentDiscriminant = "format_discriminant"
	ComponentTotalLength  = "total_length"
	ComponentFieldPattern = "field_pattern"
	ComponentRules        = "validation_rules"
	ComponentRegex        = "regex_match"
)

// ScoreBreakdown детальная раскладка оценки пары (строка, версия).
// После вычисления не меняется, кроме прикрепления контекстных факторов
// и оценки неопределённости резолвером.
type ScoreBreakdown struct {
	ConfidenceFactors map[string]float64     `json:"confidence_factors"`
	FieldMatches      map[string]bool        `json:"field_matches"`
	ContextFactors    *ContextFactors        `json:"context_factors,omitempty"`
	Uncertainty       *UncertaintyAssessment `json:"uncertainty_assessment,omitempty"`
	ProcessingTimeMS  float64                `json:"processing_time_ms"`
	AlgorithmVersion  string                 `json:"algorithm_version"`
}

// ContextFactors контекстные сигналы, применённые при разрешении неоднозначности
type ContextFactors struct {
	TemporalScore    float64 `json:"temporal_score"`
	ConsistencyScore float64 `json:"consistency_score"`
	LikelihoodScore  float64 `json:"likelihood_score"`
	EnhancedScore    float64 `json:"enhanced_score"`
}

// Candidate пара (версия, оценка) для одной входной строки.
// Живет только в рамках одного вызова распознавания.
type Candidate struct {
	Version   *scheme.Version
	Score     float64
	Breakdown *ScoreBreakdown
}

// RecognitionResult итог распознавания одной строки
type RecognitionResult struct {
	DetectedVersion *scheme.Version   `json:"detected_version"`
	Confidence      float64           `json:"confidence"`
	Alternatives    []*scheme.Version `json:"alternative_versions,omitempty"`
	Breakdown       *ScoreBreakdown   `json:"analysis_details"`
	// Processed=false означает, что строка не была обработана
	// из-за дедлайна батча; такие записи не считаются распознанными
	Processed bool `json:"processed"`
}
