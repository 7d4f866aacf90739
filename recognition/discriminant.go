package recognition

import (
	"strings"
	"unicode"

	"euringserver/scheme"
)

// discriminantScore дешёвая структурная проверка строки против версии.
// Возвращает 1.0 (структура совпала), 0.0 (точно не этот формат)
// или 0.5 (неизвестный вид формата, нейтрально). Оценка 0.0 отсекает
// все остальные компоненты: случайные совпадения полей не должны
// перевесить структурно неверный формат.
func discriminantScore(record string, v *scheme.Version) float64 {
	switch v.KindOrDefault() {
	case scheme.KindPipeDelimited:
		// 2020: обязательны разделители |
		if strings.Contains(record, "|") {
			return 1.0
		}
		return 0.0

	case scheme.KindSpaceSeparated:
		// 1966: много пробелов, без | и без заполнителей --
		if strings.Count(record, " ") >= 5 &&
			!strings.Contains(record, "|") &&
			!strings.Contains(record, "--") {
			return 1.0
		}
		return 0.0

	case scheme.KindFixedWidthA:
		// 1979: ~78 символов, первые 5 цифры, есть --, максимум один пробел
		if len(record) >= 75 && len(record) <= 82 &&
			!strings.Contains(record, "|") &&
			leadingDigits(record, 5) &&
			strings.Contains(record, "--") &&
			strings.Count(record, " ") <= 1 {
			return 1.0
		}
		return 0.0

	case scheme.KindFixedWidthB:
		// 2000: ~96 символов, без пробелов и |, начинается с буквы
		if len(record) >= 90 && len(record) <= 100 &&
			!strings.Contains(record, " ") &&
			!strings.Contains(record, "|") &&
			startsWithLetter(record) {
			return 1.0
		}
		return 0.0
	}

	return 0.5
}

// leadingDigits первые n символов строки являются цифрами
func leadingDigits(s string, n int) bool {
	if len(s) < n {
		return false
	}
	for _, c := range s[:n] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func startsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsLetter(rune(s[0]))
}
