package recognition

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"euringserver/scheme"
)

// Strategy выбранная стратегия пакетной обработки
type Strategy string

const (
	StrategySameVersion Strategy = "same_version_optimized"
	StrategyMixed       Strategy = "mixed_version_optimized"
	StrategyAutoSame    Strategy = "auto_detected_same_version"
	StrategyAutoMixed   Strategy = "auto_detected_mixed_version"
	StrategyIndividual  Strategy = "individual_processing"
)

// ProcessingSummary диагностическая сводка пакетной обработки.
// Потребляется вызывающими для наблюдаемости, алгоритм её не читает.
type ProcessingSummary struct {
	TotalStrings        int            `json:"total_strings"`
	Strategy            Strategy       `json:"batch_type"`
	OptimizationApplied bool           `json:"optimization_applied"`
	VersionGroups       map[string]int `json:"version_groups,omitempty"` // счётчики по версиям (смешанный путь)
	ProcessingTimeMS    float64        `json:"processing_time_ms"`
}

// BatchResult итог пакетного распознавания; результаты выровнены
// по индексам со входным списком независимо от стратегии
type BatchResult struct {
	Results             []*RecognitionResult `json:"results"`
	Summary             *ProcessingSummary   `json:"processing_summary"`
	SameVersionDetected bool                 `json:"same_version_detected"`
	TotalProcessed      int                  `json:"total_processed"`
}

// BatchProcessor адаптивная пакетная обработка: использует типовой
// случай, когда весь батч в одной версии, чтобы не гонять полную
// классификацию по каждой строке
type BatchProcessor struct {
	matcher  *PatternMatcher
	resolver *AmbiguityResolver

	// BatchSizeThreshold с этого размера включается автодетект стратегии
	BatchSizeThreshold int
	// SampleSize сколько строк пробуется при автодетекте
	SampleSize int
	// Workers параллелизм обработки независимых строк
	Workers int
}

// NewBatchProcessor создает обработчик со стандартными настройками
func NewBatchProcessor(matcher *PatternMatcher, resolver *AmbiguityResolver) *BatchProcessor {
	return &BatchProcessor{
		matcher:            matcher,
		resolver:           resolver,
		BatchSizeThreshold: 10,
		SampleSize:         3,
		Workers:            runtime.NumCPU(),
	}
}

// scoreCandidates оценивает строку против каждой версии из набора
func (bp *BatchProcessor) scoreCandidates(record string, versions []*scheme.Version) []Candidate {
	candidates := make([]Candidate, 0, len(versions))
	for _, v := range versions {
		score, breakdown := bp.matcher.Score(record, v)
		candidates = append(candidates, Candidate{Version: v, Score: score, Breakdown: breakdown})
	}
	return candidates
}

// recognizeRecord полная классификация одной строки против набора версий
func (bp *BatchProcessor) recognizeRecord(record string, versions []*scheme.Version) (*RecognitionResult, error) {
	resolution, err := bp.resolver.Resolve(bp.scoreCandidates(record, versions), record)
	if err != nil {
		return nil, err
	}
	return &RecognitionResult{
		DetectedVersion: resolution.Winner,
		Confidence:      resolution.Confidence,
		Alternatives:    resolution.Alternatives,
		Breakdown:       resolution.Breakdown,
		Processed:       true,
	}, nil
}

// ProcessSameVersion оптимизация однородного батча: классифицируется
// только первая строка, остальные лишь валидируются против победителя.
// O(1) классификаций + O(n) валидаций вместо O(n*версий).
func (bp *BatchProcessor) ProcessSameVersion(ctx context.Context, records []string, versions []*scheme.Version) ([]*RecognitionResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	resolution, err := bp.resolver.Resolve(bp.scoreCandidates(records[0], versions), records[0])
	if err != nil {
		return nil, err
	}
	winner := resolution.Winner

	results := make([]*RecognitionResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.Workers)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			if gctx.Err() != nil {
				// Дедлайн вызывающего: строка остаётся необработанной,
				// а не молча выпадает из результатов
				results[i] = &RecognitionResult{Processed: false}
				return nil
			}
			score, breakdown := bp.matcher.Score(record, winner)
			results[i] = &RecognitionResult{
				DetectedVersion: winner,
				Confidence:      score,
				Breakdown:       breakdown,
				Processed:       true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessMixed обработка смешанного батча: строки группируются по
// точной длине, кандидаты в группе ограничиваются версиями той же
// объявленной длины. Группа без подходящей версии классифицируется
// против полного набора (с закономерно низкой уверенностью).
// Результаты собираются обратно в исходный порядок.
func (bp *BatchProcessor) ProcessMixed(ctx context.Context, records []string, versions []*scheme.Version) ([]*RecognitionResult, error) {
	buckets := make(map[int][]int)
	for i, record := range records {
		buckets[len(record)] = append(buckets[len(record)], i)
	}

	results := make([]*RecognitionResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.Workers)

	for length, indices := range buckets {
		var compatible []*scheme.Version
		for _, v := range versions {
			if v.Format.TotalLength == length {
				compatible = append(compatible, v)
			}
		}
		if len(compatible) == 0 {
			compatible = versions
		}

		for _, idx := range indices {
			idx := idx
			g.Go(func() error {
				if gctx.Err() != nil {
					results[idx] = &RecognitionResult{Processed: false}
					return nil
				}
				result, err := bp.recognizeRecord(records[idx], compatible)
				if err != nil {
					return err
				}
				results[idx] = result
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessIndividual независимая классификация каждой строки без
// оптимизаций: для малых батчей накладные расходы выборки дороже выгоды
func (bp *BatchProcessor) ProcessIndividual(ctx context.Context, records []string, versions []*scheme.Version) ([]*RecognitionResult, error) {
	results := make([]*RecognitionResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.Workers)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = &RecognitionResult{Processed: false}
				return nil
			}
			result, err := bp.recognizeRecord(record, versions)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// VersionCounts счётчики обнаруженных версий по результатам
func VersionCounts(results []*RecognitionResult) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		if r != nil && r.Processed && r.DetectedVersion != nil {
			counts[r.DetectedVersion.ID]++
		}
	}
	return counts
}

// elapsedMS миллисекунды с момента start
func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
