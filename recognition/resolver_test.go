package recognition

import (
	"testing"
)

func fabricatedCandidate(t testing.TB, versionID string, score float64, matches map[string]bool) Candidate {
	t.Helper()
	return Candidate{
		Version: versionByID(t, versionID),
		Score:   score,
		Breakdown: &ScoreBreakdown{
			ConfidenceFactors: map[string]float64{},
			FieldMatches:      matches,
			AlgorithmVersion:  AlgorithmVersion,
		},
	}
}

func TestResolveConfident(t *testing.T) {
	resolver := NewAmbiguityResolver()

	candidates := []Candidate{
		fabricatedCandidate(t, "euring_2020", 0.95, map[string]bool{"species": true}),
		fabricatedCandidate(t, "euring_1966", 0.2, map[string]bool{"species": false}),
	}

	resolution, err := resolver.Resolve(candidates, rec2020)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolution.Winner.ID != "euring_2020" {
		t.Errorf("победитель %s, ожидался euring_2020", resolution.Winner.ID)
	}
	if resolution.Confidence != 0.95 {
		t.Errorf("уверенность %v, исходная оценка не должна меняться без пересчёта", resolution.Confidence)
	}
	if len(resolution.Alternatives) != 0 {
		t.Errorf("при большом отрыве альтернатив быть не должно: %v", resolution.Alternatives)
	}
	if resolution.Breakdown.Uncertainty == nil {
		t.Fatal("оценка неопределённости должна прикрепляться к раскладке")
	}
	if resolution.Breakdown.Uncertainty.Level != LevelConfident {
		t.Errorf("уровень %v, ожидался confident", resolution.Breakdown.Uncertainty.Level)
	}
	if resolution.Breakdown.ContextFactors != nil {
		t.Error("контекстный пересчёт не должен запускаться для уверенного результата")
	}
}

func TestResolveAmbiguous(t *testing.T) {
	resolver := NewAmbiguityResolver()

	// Близкие оценки ниже порога уверенности: запускается сбор
	// альтернатив и контекстный пересчёт
	candidates := []Candidate{
		fabricatedCandidate(t, "euring_2020", 0.65, map[string]bool{"a": true, "b": true}),
		fabricatedCandidate(t, "euring_1966", 0.60, map[string]bool{"a": true, "b": false}),
	}

	resolution, err := resolver.Resolve(candidates, rec2020)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolution.Breakdown.Uncertainty.Level != LevelAmbiguous {
		t.Errorf("уровень %v, ожидался ambiguous", resolution.Breakdown.Uncertainty.Level)
	}
	if len(resolution.Alternatives) == 0 {
		t.Fatal("близкий кандидат должен попасть в альтернативы")
	}
	if resolution.Alternatives[0].ID != "euring_1966" {
		t.Errorf("альтернатива %s, ожидалась euring_1966", resolution.Alternatives[0].ID)
	}

	// Контекст за 2020: совпадение длины записи, свежий год, полная
	// согласованность полей
	if resolution.Winner.ID != "euring_2020" {
		t.Errorf("победитель после пересчёта %s, ожидался euring_2020", resolution.Winner.ID)
	}
	if resolution.Breakdown.ContextFactors == nil {
		t.Fatal("контекстные факторы должны прикрепляться при пересчёте")
	}
	if resolution.Confidence <= 0.65 {
		t.Errorf("пересчитанная уверенность %v должна превышать исходную при поддержке контекста", resolution.Confidence)
	}
}

func TestResolveAlternativeWindow(t *testing.T) {
	resolver := NewAmbiguityResolver()

	// Второй кандидат в окне 0.2, третий далеко за его пределами
	candidates := []Candidate{
		fabricatedCandidate(t, "euring_2020", 0.60, map[string]bool{"a": true}),
		fabricatedCandidate(t, "euring_2000", 0.55, map[string]bool{"a": true}),
		fabricatedCandidate(t, "euring_1966", 0.20, map[string]bool{"a": false}),
	}

	resolution, err := resolver.Resolve(candidates, rec2020)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(resolution.Alternatives) != 1 {
		t.Fatalf("ожидалась 1 альтернатива, получено %d", len(resolution.Alternatives))
	}
	if resolution.Alternatives[0].ID != "euring_2000" {
		t.Errorf("альтернатива %s, ожидалась euring_2000", resolution.Alternatives[0].ID)
	}
}

func TestResolveEmptyCandidates(t *testing.T) {
	resolver := NewAmbiguityResolver()

	if _, err := resolver.Resolve(nil, "x"); err != ErrNoCandidates {
		t.Errorf("Resolve(nil) error = %v, ожидался ErrNoCandidates", err)
	}
}

func TestContextAnalyzerTemporalScores(t *testing.T) {
	ca := NewContextAnalyzer()

	candidates := []Candidate{
		fabricatedCandidate(t, "euring_1966", 0.5, nil),
		fabricatedCandidate(t, "euring_2020", 0.5, nil),
	}
	scores := ca.TemporalScores(candidates)

	if scores["euring_1966"] >= scores["euring_2020"] {
		t.Errorf("свежая версия должна иметь больший временной вес: %v", scores)
	}
	if scores["euring_2020"] != 1.0 {
		t.Errorf("вес 2020 = %v, ожидался 1.0", scores["euring_2020"])
	}
}

func TestContextAnalyzerFieldConsistency(t *testing.T) {
	ca := NewContextAnalyzer()

	candidates := []Candidate{
		fabricatedCandidate(t, "euring_2020", 0.5, map[string]bool{"a": true, "b": true, "c": false, "d": false}),
		fabricatedCandidate(t, "euring_1966", 0.5, nil),
	}
	scores := ca.FieldConsistencyScores(candidates)

	if scores["euring_2020"] != 0.5 {
		t.Errorf("доля совпавших полей %v, ожидалось 0.5", scores["euring_2020"])
	}
	if scores["euring_1966"] != 0.0 {
		t.Errorf("пустая раскладка должна давать 0, получено %v", scores["euring_1966"])
	}
}

func TestContextAnalyzerLengthLikelihood(t *testing.T) {
	ca := NewContextAnalyzer()

	candidates := []Candidate{
		fabricatedCandidate(t, "euring_2020", 0.5, nil),
		fabricatedCandidate(t, "euring_1966", 0.5, nil),
	}
	scores := ca.LengthLikelihoodScores(rec2020, candidates)

	if scores["euring_2020"] != 1.0 {
		t.Errorf("точное совпадение длины должно давать 1.0, получено %v", scores["euring_2020"])
	}
	if scores["euring_1966"] >= scores["euring_2020"] {
		t.Errorf("несовпадающая длина не может быть правдоподобнее точной: %v", scores)
	}
}
