package recognition

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"euringserver/scheme"
)

// VersionSource источник дескрипторов версий (репозиторий схем).
// Единственный ввод-вывод движка; вызывается один раз при первом
// обращении, вне горячего пути оценки.
type VersionSource interface {
	LoadAll() ([]*scheme.Version, error)
}

// VersionSourceFunc адаптер функции к VersionSource
type VersionSourceFunc func() ([]*scheme.Version, error)

func (f VersionSourceFunc) LoadAll() ([]*scheme.Version, error) { return f() }

// UncertaintyOption один вариант версии с нормированным весом
type UncertaintyOption struct {
	VersionID   string  `json:"version_id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Probability float64 `json:"probability"`
}

// UncertaintyReport развёрнутый отчёт о неопределённости распознавания,
// предназначен для ручного разбора пограничных записей
type UncertaintyReport struct {
	Level          Level               `json:"uncertainty_level"`
	Reason         string              `json:"uncertainty_reason"`
	Options        []UncertaintyOption `json:"options"`
	TotalOptions   int                 `json:"total_options"`
	Recommendation *UncertaintyOption  `json:"recommendation,omitempty"`
}

// Engine фасад движка распознавания: кеширует дескрипторы версий,
// предоставляет одиночное и пакетное распознавание и развёрнутый
// отчёт о неопределённости. Кеш загружается один раз и сбрасывается
// только явным Reload.
type Engine struct {
	source   VersionSource
	matcher  *PatternMatcher
	resolver *AmbiguityResolver
	batch    *BatchProcessor

	mu       sync.RWMutex
	versions []*scheme.Version
	loaded   bool
}

// NewEngine создает движок поверх источника версий
func NewEngine(source VersionSource) *Engine {
	matcher := NewPatternMatcher()
	resolver := NewAmbiguityResolver()
	return &Engine{
		source:   source,
		matcher:  matcher,
		resolver: resolver,
		batch:    NewBatchProcessor(matcher, resolver),
	}
}

// Versions возвращает кешированный список версий, загружая его при
// первом обращении. Конкурентные первые вызовы не гоняют загрузку
// повторно: заполнение кеша идёт под блокировкой с повторной проверкой.
func (e *Engine) Versions() ([]*scheme.Version, error) {
	e.mu.RLock()
	if e.loaded {
		versions := e.versions
		e.mu.RUnlock()
		return versions, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return e.versions, nil
	}
	versions, err := e.source.LoadAll()
	if err != nil {
		return nil, err
	}
	e.versions = versions
	e.loaded = true
	return versions, nil
}

// Reload сбрасывает кеш и немедленно загружает версии заново
func (e *Engine) Reload() error {
	versions, err := e.source.LoadAll()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.versions = versions
	e.loaded = true
	e.mu.Unlock()
	return nil
}

// loadedVersions версии с проверкой непустоты
func (e *Engine) loadedVersions() ([]*scheme.Version, error) {
	versions, err := e.Versions()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, ErrNoSchemes
	}
	return versions, nil
}

// scoreAll параллельно оценивает строку против каждой версии.
// Оценка пары чистая, поэтому синхронизация не нужна, кроме сборки
// результатов по фиксированным индексам.
func (e *Engine) scoreAll(record string, versions []*scheme.Version) []Candidate {
	candidates := make([]Candidate, len(versions))
	var g errgroup.Group
	g.SetLimit(e.batch.Workers)
	for i, v := range versions {
		i, v := i, v
		g.Go(func() error {
			score, breakdown := e.matcher.Score(record, v)
			candidates[i] = Candidate{Version: v, Score: score, Breakdown: breakdown}
			return nil
		})
	}
	_ = g.Wait() // воркеры ошибок не возвращают
	return candidates
}

// RecognizeOne распознает версию одной строки EURING
func (e *Engine) RecognizeOne(record string) (*RecognitionResult, error) {
	if strings.TrimSpace(record) == "" {
		return nil, ErrEmptyInput
	}
	versions, err := e.loadedVersions()
	if err != nil {
		return nil, err
	}

	resolution, err := e.resolver.Resolve(e.scoreAll(record, versions), record)
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

// RecognizeBatch пакетное распознавание с адаптивной стратегией.
// sameVersion: true — батч объявлен однородным, false — смешанным,
// nil — стратегия выбирается автоматически.
func (e *Engine) RecognizeBatch(ctx context.Context, records []string, sameVersion *bool) (*BatchResult, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	versions, err := e.loadedVersions()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &ProcessingSummary{TotalStrings: len(records)}

	var results []*RecognitionResult

	switch {
	case sameVersion != nil && *sameVersion:
		results, err = e.batch.ProcessSameVersion(ctx, records, versions)
		summary.Strategy = StrategySameVersion
		summary.OptimizationApplied = true

	case sameVersion != nil && !*sameVersion:
		results, err = e.batch.ProcessMixed(ctx, records, versions)
		summary.Strategy = StrategyMixed
		summary.OptimizationApplied = true

	default:
		results, err = e.autoDetectBatch(ctx, records, versions, summary)
	}
	if err != nil {
		return nil, err
	}

	counts := VersionCounts(results)
	if summary.Strategy == StrategyMixed || summary.Strategy == StrategyAutoMixed {
		summary.VersionGroups = counts
	}
	summary.ProcessingTimeMS = elapsedMS(start)

	return &BatchResult{
		Results:             results,
		Summary:             summary,
		SameVersionDetected: len(counts) == 1,
		TotalProcessed:      len(records),
	}, nil
}

// autoDetectBatch выбирает стратегию по выборке: для крупных батчей
// классифицируются первые строки, и если все сходятся на одной версии,
// батч считается однородным
func (e *Engine) autoDetectBatch(ctx context.Context, records []string, versions []*scheme.Version, summary *ProcessingSummary) ([]*RecognitionResult, error) {
	if len(records) < e.batch.BatchSizeThreshold {
		summary.Strategy = StrategyIndividual
		return e.batch.ProcessIndividual(ctx, records, versions)
	}

	sampleSize := e.batch.SampleSize
	if sampleSize > len(records) {
		sampleSize = len(records)
	}

	sampleIDs := make(map[string]bool, sampleSize)
	for i := 0; i < sampleSize; i++ {
		result, err := e.batch.recognizeRecord(records[i], versions)
		if err != nil {
			return nil, err
		}
		sampleIDs[result.DetectedVersion.ID] = true
	}

	if len(sampleIDs) == 1 {
		summary.Strategy = StrategyAutoSame
		summary.OptimizationApplied = true
		return e.batch.ProcessSameVersion(ctx, records, versions)
	}

	summary.Strategy = StrategyAutoMixed
	summary.OptimizationApplied = true
	return e.batch.ProcessMixed(ctx, records, versions)
}

// ExplainUncertainty всегда выполняет полную оценку кандидатов
// (без обрезания на уверенных совпадениях) и возвращает уровень
// неопределённости с нормированным списком вариантов
func (e *Engine) ExplainUncertainty(record string, maxAlternatives int) (*UncertaintyReport, error) {
	if strings.TrimSpace(record) == "" {
		return nil, ErrEmptyInput
	}
	versions, err := e.loadedVersions()
	if err != nil {
		return nil, err
	}

	candidates := e.scoreAll(record, versions)
	assessment := e.resolver.Uncertainty().Assess(candidates)
	probs := e.resolver.Uncertainty().Probabilities(candidates, maxAlternatives)

	options := make([]UncertaintyOption, 0, len(probs))
	for _, p := range probs {
		options = append(options, UncertaintyOption{
			VersionID:   p.Version.ID,
			Name:        p.Version.Name,
			Year:        p.Version.Year,
			Probability: p.Probability,
		})
	}

	report := &UncertaintyReport{
		Level:        assessment.Level,
		Reason:       assessment.Reason,
		Options:      options,
		TotalOptions: len(options),
	}
	if len(options) > 0 {
		report.Recommendation = &options[0]
	}
	return report, nil
}
