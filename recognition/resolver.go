package recognition

import (
	"euringserver/scheme"
)

// ContextWeights веса контекстного пересчёта при неоднозначности.
// Политические константы без строгого вывода, вынесены в конфигурацию.
type ContextWeights struct {
	Original    float64
	Temporal    float64
	Consistency float64
	Likelihood  float64
}

// Resolution итог разрешения неоднозначности для одной строки
type Resolution struct {
	Winner       *scheme.Version
	Confidence   float64
	Alternatives []*scheme.Version
	Breakdown    *ScoreBreakdown
}

// AmbiguityResolver выбирает победителя среди кандидатов и решает,
// какие версии остаются легитимными альтернативами
type AmbiguityResolver struct {
	context     *ContextAnalyzer
	uncertainty *UncertaintyHandler

	// AmbiguityGap разрыв оценок, запускающий сбор альтернатив
	AmbiguityGap float64
	// AlternativeWindow более широкое окно включения в альтернативы:
	// пограничные кандидаты всплывают, даже если триггер не сработал по ним
	AlternativeWindow float64
	// Weights контекстного пересчёта
	Weights ContextWeights
}

// NewAmbiguityResolver создает резолвер со стандартной политикой
func NewAmbiguityResolver() *AmbiguityResolver {
	return &AmbiguityResolver{
		context:           NewContextAnalyzer(),
		uncertainty:       NewUncertaintyHandler(),
		AmbiguityGap:      0.1,
		AlternativeWindow: 0.2,
		Weights: ContextWeights{
			Original:    0.5,
			Temporal:    0.2,
			Consistency: 0.2,
			Likelihood:  0.1,
		},
	}
}

// Uncertainty доступ к обработчику неопределённости (для отчётов)
func (ar *AmbiguityResolver) Uncertainty() *UncertaintyHandler {
	return ar.uncertainty
}

// Resolve выбирает победителя. Пустой набор кандидатов — ошибка
// вызывающего: без загруженных версий звать резолвер нельзя.
func (ar *AmbiguityResolver) Resolve(candidates []Candidate, record string) (*Resolution, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	sorted := sortedByScore(candidates)
	assessment := ar.uncertainty.Assess(candidates)

	best := sorted[0]

	// Сбор альтернатив: триггер — малый разрыв или неуверенный уровень,
	// окно включения шире триггера
	var alternatives []*scheme.Version
	if len(sorted) > 1 {
		secondScore := sorted[1].Score
		if best.Score-secondScore <= ar.AmbiguityGap ||
			assessment.Level == LevelLowConfidence || assessment.Level == LevelAmbiguous {
			for _, c := range sorted[1:] {
				if best.Score-c.Score <= ar.AlternativeWindow {
					alternatives = append(alternatives, c.Version)
				}
			}
		}
	}

	// Контекстный пересчёт только когда он нужен
	if len(alternatives) > 0 || assessment.Level == LevelAmbiguous {
		best = ar.applyContext(sorted, record)
	}

	best.Breakdown.Uncertainty = assessment

	return &Resolution{
		Winner:       best.Version,
		Confidence:   best.Score,
		Alternatives: alternatives,
		Breakdown:    best.Breakdown,
	}, nil
}

// applyContext пересчитывает оценки кандидатов с контекстными сигналами
// и возвращает нового лидера. Контекстные факторы прикрепляются к
// раскладке каждого кандидата для аудита.
func (ar *AmbiguityResolver) applyContext(candidates []Candidate, record string) Candidate {
	temporal := ar.context.TemporalScores(candidates)
	consistency := ar.context.FieldConsistencyScores(candidates)
	likelihood := ar.context.LengthLikelihoodScores(record, candidates)

	best := candidates[0]
	bestScore := -1.0
	for _, c := range candidates {
		id := c.Version.ID
		t := defaultWeight(temporal, id)
		cons := defaultWeight(consistency, id)
		l := defaultWeight(likelihood, id)

		enhanced := c.Score*ar.Weights.Original +
			t*ar.Weights.Temporal +
			cons*ar.Weights.Consistency +
			l*ar.Weights.Likelihood

		c.Breakdown.ContextFactors = &ContextFactors{
			TemporalScore:    t,
			ConsistencyScore: cons,
			LikelihoodScore:  l,
			EnhancedScore:    enhanced,
		}

		if enhanced > bestScore {
			bestScore = enhanced
			best = Candidate{Version: c.Version, Score: enhanced, Breakdown: c.Breakdown}
		}
	}
	return best
}

func defaultWeight(m map[string]float64, id string) float64 {
	if w, ok := m[id]; ok {
		return w
	}
	return 0.5
}
