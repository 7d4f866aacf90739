package recognition

// ContextAnalyzer вспомогательные сигналы для разрешения неоднозначности.
// Запускается только когда сырые оценки слишком близки или неуверенны:
// в обычном однозначном случае эта работа не нужна.
type ContextAnalyzer struct {
	// Априорные веса по году версии: свежие версии вероятнее
	// при прочих равных
	temporalWeights map[int]float64
}

// NewContextAnalyzer создает анализатор со стандартными временными весами
func NewContextAnalyzer() *ContextAnalyzer {
	return &ContextAnalyzer{
		temporalWeights: map[int]float64{
			1966: 0.1,
			1979: 0.3,
			2000: 0.8,
			2020: 1.0,
		},
	}
}

// TemporalScores априорное предпочтение более свежих версий
func (ca *ContextAnalyzer) TemporalScores(candidates []Candidate) map[string]float64 {
	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		w, ok := ca.temporalWeights[c.Version.Year]
		if !ok {
			w = 0.5
		}
		scores[c.Version.ID] = w
	}
	return scores
}

// FieldConsistencyScores доля совпавших полей из раскладки кандидата
func (ca *ContextAnalyzer) FieldConsistencyScores(candidates []Candidate) map[string]float64 {
	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		total := len(c.Breakdown.FieldMatches)
		if total == 0 {
			scores[c.Version.ID] = 0.0
			continue
		}
		matched := 0
		for _, ok := range c.Breakdown.FieldMatches {
			if ok {
				matched++
			}
		}
		scores[c.Version.ID] = float64(matched) / float64(total)
	}
	return scores
}

// LengthLikelihoodScores правдоподобие по длине строки: 1.0 при точном
// совпадении, линейный спад по относительному отклонению
func (ca *ContextAnalyzer) LengthLikelihoodScores(record string, candidates []Candidate) map[string]float64 {
	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		scores[c.Version.ID] = lengthScore(len(record), c.Version.Format.TotalLength)
	}
	return scores
}
