package recognition

import (
	"sort"

	"euringserver/scheme"
)

// Level уровень неопределённости распознавания
type Level string

const (
	LevelConfident     Level = "confident"
	LevelLowConfidence Level = "low_confidence"
	LevelAmbiguous     Level = "ambiguous"
)

// Коды причин оценки неопределённости
const (
	ReasonConfidentMatch      = "confident_match"
	ReasonLowConfidence       = "low_confidence"
	ReasonSingleLowConfidence = "single_low_confidence"
	ReasonAmbiguousCandidates = "ambiguous_candidates"
	ReasonNoCandidates        = "no_candidates"
)

// UncertaintyAssessment классификация уверенности набора кандидатов
type UncertaintyAssessment struct {
	Level     Level    `json:"level"`
	Reason    string   `json:"reason"`
	ScoreGap  *float64 `json:"score_gap,omitempty"`  // разрыв между двумя верхними оценками
	BestScore *float64 `json:"best_score,omitempty"` // лучшая оценка
}

// VersionProbability нормированный вес версии для показа человеку.
// Это не калиброванная вероятность, только относительный вес.
type VersionProbability struct {
	Version     *scheme.Version `json:"version"`
	Probability float64         `json:"probability"`
}

// UncertaintyHandler классифицирует уверенность и нормирует оценки
type UncertaintyHandler struct {
	// ConfidenceThreshold ниже этой оценки результат считается неуверенным
	ConfidenceThreshold float64
	// AmbiguityGap разрыв верхних оценок, при котором кандидаты неразличимы
	AmbiguityGap float64
	// MaxAlternatives сколько кандидатов попадает в нормировку
	MaxAlternatives int
}

// NewUncertaintyHandler создает обработчик со стандартными порогами
func NewUncertaintyHandler() *UncertaintyHandler {
	return &UncertaintyHandler{
		ConfidenceThreshold: 0.7,
		AmbiguityGap:        0.1,
		MaxAlternatives:     5,
	}
}

// Assess классифицирует уровень неопределённости набора кандидатов
func (uh *UncertaintyHandler) Assess(candidates []Candidate) *UncertaintyAssessment {
	if len(candidates) == 0 {
		return &UncertaintyAssessment{Level: LevelAmbiguous, Reason: ReasonNoCandidates}
	}

	sorted := sortedByScore(candidates)
	best := sorted[0].Score

	if best < uh.ConfidenceThreshold {
		if len(sorted) > 1 {
			gap := best - sorted[1].Score
			if gap < uh.AmbiguityGap {
				return &UncertaintyAssessment{
					Level:    LevelAmbiguous,
					Reason:   ReasonAmbiguousCandidates,
					ScoreGap: &gap,
				}
			}
			return &UncertaintyAssessment{
				Level:     LevelLowConfidence,
				Reason:    ReasonLowConfidence,
				BestScore: &best,
			}
		}
		return &UncertaintyAssessment{
			Level:     LevelLowConfidence,
			Reason:    ReasonSingleLowConfidence,
			BestScore: &best,
		}
	}

	return &UncertaintyAssessment{
		Level:     LevelConfident,
		Reason:    ReasonConfidentMatch,
		BestScore: &best,
	}
}

// Probabilities нормирует оценки top-k кандидатов к сумме 1.
// При нулевой сумме веса делятся поровну.
func (uh *UncertaintyHandler) Probabilities(candidates []Candidate, k int) []VersionProbability {
	if len(candidates) == 0 {
		return nil
	}
	if k <= 0 {
		k = uh.MaxAlternatives
	}

	sorted := sortedByScore(candidates)
	if len(sorted) > k {
		sorted = sorted[:k]
	}

	total := 0.0
	for _, c := range sorted {
		total += c.Score
	}

	probs := make([]VersionProbability, 0, len(sorted))
	if total == 0 {
		equal := 1.0 / float64(len(sorted))
		for _, c := range sorted {
			probs = append(probs, VersionProbability{Version: c.Version, Probability: equal})
		}
		return probs
	}

	for _, c := range sorted {
		probs = append(probs, VersionProbability{Version: c.Version, Probability: c.Score / total})
	}
	return probs
}

// sortedByScore копия кандидатов по убыванию оценки; вход не меняется
func sortedByScore(candidates []Candidate) []Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	return sorted
}
