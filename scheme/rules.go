package scheme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// RuleType закрытый набор видов правил валидации.
// Декларативная модель правил сохранена, но вместо выполнения
// произвольных выражений каждое правило интерпретируется switch-ом.
type RuleType string

const (
	RuleExactLength RuleType = "exact_length" // длина значения == Length
	RuleMinLength   RuleType = "min_length"   // длина значения >= Length
	RuleMaxLength   RuleType = "max_length"   // длина значения <= Length
	RuleNumeric     RuleType = "numeric"      // только цифры
	RuleAlpha       RuleType = "alpha"        // только буквы
	RuleAlnum       RuleType = "alnum"        // буквы и цифры
	RuleRange       RuleType = "range"        // числовое значение в [Min, Max]
	RuleRegex       RuleType = "regex"        // совпадение с Pattern
	RuleOneOf       RuleType = "one_of"       // значение из списка Values
	RuleNotEmpty    RuleType = "not_empty"    // непустое после trim
)

// ValidationRule декларативное правило валидации значения поля
type ValidationRule struct {
	FieldName    string   `json:"field_name"`
	RuleType     RuleType `json:"rule_type"`
	Length       int      `json:"length,omitempty"`
	Min          float64  `json:"min,omitempty"`
	Max          float64  `json:"max,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	Values       []string `json:"values,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// Evaluate проверяет значение поля по правилу.
// Ошибка возвращается только для некорректного самого правила
// (неизвестный тип, битый regex); вызывающий трактует её как непройденное правило.
func (r ValidationRule) Evaluate(value string) (bool, error) {
	switch r.RuleType {
	case RuleExactLength:
		return len(value) == r.Length, nil
	case RuleMinLength:
		return len(value) >= r.Length, nil
	case RuleMaxLength:
		return len(value) <= r.Length, nil
	case RuleNumeric:
		return isDigits(value), nil
	case RuleAlpha:
		return value != "" && strings.IndexFunc(value, func(c rune) bool { return !unicode.IsLetter(c) }) < 0, nil
	case RuleAlnum:
		return value != "" && strings.IndexFunc(value, func(c rune) bool { return !unicode.IsLetter(c) && !unicode.IsDigit(c) }) < 0, nil
	case RuleRange:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return false, nil
		}
		return n >= r.Min && n <= r.Max, nil
	case RuleRegex:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false, fmt.Errorf("некорректный pattern правила для поля %s: %w", r.FieldName, err)
		}
		return re.MatchString(value), nil
	case RuleOneOf:
		for _, v := range r.Values {
			if value == v {
				return true, nil
			}
		}
		return false, nil
	case RuleNotEmpty:
		return strings.TrimSpace(value) != "", nil
	}
	return false, fmt.Errorf("неизвестный тип правила: %s", r.RuleType)
}

func isDigits(s string) bool {
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
