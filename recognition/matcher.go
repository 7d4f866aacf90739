package recognition

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"euringserver/scheme"
)

// PatternMatcher вычисляет взвешенную оценку соответствия строки версии.
// Чистая функция от пары (строка, версия): никакого разделяемого
// состояния, потокобезопасен без синхронизации.
type PatternMatcher struct {
	weights map[string]float64
}

// NewPatternMatcher создает matcher со стандартными весами.
// Дискриминант доминирует: структурно неверная версия не должна
// перевесить структурно верную за счёт совпадений полей.
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{
		weights: map[string]float64{
			ComponentDiscriminant: 0.4,
			ComponentTotalLength:  0.2,
			ComponentFieldPattern: 0.2,
			ComponentRules:        0.1,
			ComponentRegex:        0.1,
		},
	}
}

// Score вычисляет оценку соответствия [0,1] и детальную раскладку
func (pm *PatternMatcher) Score(record string, v *scheme.Version) (float64, *ScoreBreakdown) {
	start := time.Now()

	factors := make(map[string]float64, len(pm.weights))
	fieldMatches := make(map[string]bool)

	discriminant := discriminantScore(record, v)
	factors[ComponentDiscriminant] = discriminant

	if discriminant < 0.3 {
		// Структура точно не совпала: тонкие проверки не запускаем
		factors[ComponentTotalLength] = 0.0
		factors[ComponentFieldPattern] = 0.0
		factors[ComponentRules] = 0.0
		factors[ComponentRegex] = 0.0
	} else {
		factors[ComponentTotalLength] = lengthScore(len(record), v.Format.TotalLength)

		fieldScore, matches := pm.fieldPatternScore(record, v)
		factors[ComponentFieldPattern] = fieldScore
		fieldMatches = matches

		factors[ComponentRules] = pm.validationRuleScore(record, v)
		factors[ComponentRegex] = pm.regexScore(record, v)
	}

	total := 0.0
	for component, score := range factors {
		total += score * pm.weights[component]
	}

	breakdown := &ScoreBreakdown{
		ConfidenceFactors: factors,
		FieldMatches:      fieldMatches,
		ProcessingTimeMS:  float64(time.Since(start).Microseconds()) / 1000.0,
		AlgorithmVersion:  AlgorithmVersion,
	}
	return total, breakdown
}

// lengthScore 1.0 при точном совпадении длины, иначе линейный спад
// по относительному отклонению
func lengthScore(actual, expected int) float64 {
	if expected <= 0 {
		return 0.0
	}
	if actual == expected {
		return 1.0
	}
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	score := 1.0 - float64(diff)/float64(expected)
	if score < 0 {
		return 0.0
	}
	return score
}

// fieldPatternScore обходит раскладку полей версии и оценивает
// правдоподобие каждого поля. Для разделяемых форматов строка сначала
// токенизируется, для позиционных режется по объявленным длинам.
// Поле за границей строки считается несовпавшим, а не ошибкой.
func (pm *PatternMatcher) fieldPatternScore(record string, v *scheme.Version) (float64, map[string]bool) {
	matches := make(map[string]bool, len(v.Fields))
	if len(v.Fields) == 0 {
		return 0.0, matches
	}

	tokens := v.Tokens(record)
	matched := 0
	for i, f := range v.Fields {
		if i >= len(tokens) {
			matches[f.Name] = false
			continue
		}
		ok := matchFieldValue(tokens[i], f, v.Separated())
		matches[f.Name] = ok
		if ok {
			matched++
		}
	}
	return float64(matched) / float64(len(v.Fields)), matches
}

// matchFieldValue проверяет одно значение против описания поля:
// точная длина (если объявлена), допустимые значения, грубый тип
func matchFieldValue(value string, f scheme.FieldDefinition, separated bool) bool {
	// В разделяемом формате длина токена проверяется только если объявлена;
	// в позиционном срез всегда объявленной длины
	if separated && f.Length > 0 && len(value) != f.Length {
		return false
	}

	if len(f.ValidValues) > 0 {
		for _, allowed := range f.ValidValues {
			if value == allowed {
				return true
			}
		}
		return false
	}

	switch f.DataType {
	case "numeric", "date":
		return allDigits(value)
	case "decimal":
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case "alphanumeric":
		return isAlnum(strings.ReplaceAll(value, " ", ""))
	}

	// Поля без объявленных ограничений проходят тривиально
	return true
}

// validationRuleScore доля пройденных декларативных правил версии.
// Сбой вычисления правила считается непройденным правилом, не ошибкой.
func (pm *PatternMatcher) validationRuleScore(record string, v *scheme.Version) float64 {
	if len(v.Rules) == 0 {
		return 1.0
	}

	values := v.ExtractFieldValues(record)
	passed := 0
	for _, rule := range v.Rules {
		value, ok := values[rule.FieldName]
		if !ok {
			continue
		}
		if matched, err := rule.Evaluate(value); err == nil && matched {
			passed++
		}
	}
	return float64(passed) / float64(len(v.Rules))
}

// regexScore 1.0 если версия не объявляет pattern или строка ему
// соответствует; ошибка компиляции pattern даёт 0.0
func (pm *PatternMatcher) regexScore(record string, v *scheme.Version) float64 {
	if v.Format.ValidationPattern == "" {
		return 1.0
	}
	re, err := v.CompiledPattern()
	if err != nil || re == nil {
		return 0.0
	}
	if re.MatchString(record) {
		return 1.0
	}
	return 0.0
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
