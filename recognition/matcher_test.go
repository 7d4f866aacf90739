package recognition

import (
	"testing"

	"euringserver/scheme"
)

// Канонические записи четырёх форматов для тестов пакета
const (
	rec1966 = "1234 AB12345 3 15061995 5230N 00415E 01 1 123 0250 0123"
	rec2020 = "00123|ABC12345|1|0|3|1|20230615|1200|52.3702|4.8952|1|01|01|0|0|123.5|45.2|12.3|23.1|2|1|0"
	rec1979 = "01234" + "GB" + "A123456" + "4" + "1" + "1" + "150695" + "150695" +
		"52300N" + "004150" + "01" + "1" + "01" + "--" + "123" + "0250" + "--" +
		"0123" + "23" + "--" + "123" + "456" + "-------"
	rec2000 = "GBTO" + "XA1" + "..." + "1234567" + "AB" + "12345" + "12345" + "N" + "4" +
		"AB123" + "01" + "-----" + "0123" + "123" + "123" + "123" + "GB01" +
		"+" + "523702" + "+" + "048952" + "123456789012" + "---" + "1234567"
)

// versionByID встроенная версия по идентификатору
func versionByID(t testing.TB, id string) *scheme.Version {
	t.Helper()
	for _, v := range scheme.BuiltinVersions() {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("неизвестная версия %s", id)
	return nil
}

func TestCanonicalRecordLengths(t *testing.T) {
	// Записи обязаны совпадать с объявленными длинами форматов,
	// иначе остальные тесты проверяют не то
	tests := []struct {
		id     string
		record string
	}{
		{"euring_1966", rec1966},
		{"euring_1979", rec1979},
		{"euring_2000", rec2000},
		{"euring_2020", rec2020},
	}
	for _, tt := range tests {
		v := versionByID(t, tt.id)
		if len(tt.record) != v.Format.TotalLength {
			t.Errorf("запись %s: длина %d, ожидалось %d", tt.id, len(tt.record), v.Format.TotalLength)
		}
	}
}

func TestDiscriminantScore(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		versionID string
		want      float64
	}{
		{"Пайпы против 2020", rec2020, "euring_2020", 1.0},
		{"Пайпы против 1966", rec2020, "euring_1966", 0.0},
		{"Пайпы против 1979", rec2020, "euring_1979", 0.0},
		{"Пайпы против 2000", rec2020, "euring_2000", 0.0},

		{"Пробелы против 1966", rec1966, "euring_1966", 1.0},
		{"Пробелы против 2020", rec1966, "euring_2020", 0.0},
		{"Пробелы против 1979", rec1966, "euring_1979", 0.0},
		{"Пробелы против 2000", rec1966, "euring_2000", 0.0},

		{"Фиксированная 78 против 1979", rec1979, "euring_1979", 1.0},
		{"Фиксированная 78 против 2000", rec1979, "euring_2000", 0.0},
		{"Фиксированная 78 против 1966", rec1979, "euring_1966", 0.0},

		{"Фиксированная 96 против 2000", rec2000, "euring_2000", 1.0},
		{"Фиксированная 96 против 1979", rec2000, "euring_1979", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := versionByID(t, tt.versionID)
			if got := discriminantScore(tt.record, v); got != tt.want {
				t.Errorf("discriminantScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscriminantUnknownKindNeutral(t *testing.T) {
	v := &scheme.Version{ID: "custom", Format: scheme.FormatSpec{TotalLength: 10}}
	if got := discriminantScore("abc", v); got != 0.5 {
		t.Errorf("неизвестный вид формата должен давать 0.5, получено %v", got)
	}
}

func TestScoreCanonicalRecords(t *testing.T) {
	matcher := NewPatternMatcher()

	// Каноническая запись каждого формата должна давать высокую оценку
	// своей версии и нулевую всем структурно несовместимым
	tests := []struct {
		record    string
		versionID string
	}{
		{rec1966, "euring_1966"},
		{rec1979, "euring_1979"},
		{rec2000, "euring_2000"},
		{rec2020, "euring_2020"},
	}

	for _, tt := range tests {
		own := versionByID(t, tt.versionID)
		score, breakdown := matcher.Score(tt.record, own)
		if score < 0.9 {
			t.Errorf("оценка %s против своей версии = %v, ожидалось >= 0.9 (%v)",
				tt.versionID, score, breakdown.ConfidenceFactors)
		}
		if breakdown.AlgorithmVersion != AlgorithmVersion {
			t.Errorf("версия алгоритма %s, ожидалось %s", breakdown.AlgorithmVersion, AlgorithmVersion)
		}

		for _, other := range scheme.BuiltinVersions() {
			if other.ID == tt.versionID {
				continue
			}
			otherScore, otherBreakdown := matcher.Score(tt.record, other)
			if otherBreakdown.ConfidenceFactors[ComponentDiscriminant] != 0.0 {
				continue
			}
			if otherScore != 0.0 {
				t.Errorf("запись %s против %s: структурный ноль должен отсекать оценку, получено %v",
					tt.versionID, other.ID, otherScore)
			}
		}
	}
}

func TestScoreShortCircuit(t *testing.T) {
	matcher := NewPatternMatcher()
	v := versionByID(t, "euring_2020")

	// Строка без | структурно не 2020: остальные компоненты обязаны
	// быть нулями, а не случайными совпадениями
	_, breakdown := matcher.Score(rec1966, v)
	for _, component := range []string{ComponentTotalLength, ComponentFieldPattern, ComponentRules, ComponentRegex} {
		if breakdown.ConfidenceFactors[component] != 0.0 {
			t.Errorf("компонент %s = %v после структурного нуля, ожидался 0",
				component, breakdown.ConfidenceFactors[component])
		}
	}
}

func TestScoreTruncatedRecord(t *testing.T) {
	matcher := NewPatternMatcher()
	v := versionByID(t, "euring_1979")

	full, _ := matcher.Score(rec1979, v)
	truncated, _ := matcher.Score(rec1979[:77], v)

	if truncated >= full {
		t.Errorf("усечённая запись (%v) не должна оцениваться выше полной (%v)", truncated, full)
	}
	if truncated < 0.5 {
		t.Errorf("усечённая на 1 символ запись должна оставаться узнаваемой, получено %v", truncated)
	}
}

func TestLengthScore(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
		want     float64
	}{
		{"Точное совпадение", 78, 78, 1.0},
		{"Отклонение на половину", 39, 78, 0.5},
		{"Двойная длина", 156, 78, 0.0},
		{"Нулевая ожидаемая длина", 10, 0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lengthScore(tt.actual, tt.expected); got != tt.want {
				t.Errorf("lengthScore(%d, %d) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}
