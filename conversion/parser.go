package conversion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"euringserver/scheme"
)

// ParsedRecord разобранная запись: значения полей по раскладке версии
// плюс список ошибок валидации отдельных полей
type ParsedRecord struct {
	VersionID string            `json:"version_id"`
	Values    map[string]string `json:"values"`
	Errors    []string          `json:"validation_errors,omitempty"`
}

// Valid запись без ошибок валидации полей
func (p *ParsedRecord) Valid() bool {
	return len(p.Errors) == 0
}

// ParseRecord разбирает строку по раскладке версии. Структурное
// несоответствие (число полей, полная длина) — ошибка; проблемы
// отдельных полей собираются в Errors и не прерывают разбор.
func ParseRecord(record string, v *scheme.Version) (*ParsedRecord, error) {
	if strings.TrimSpace(record) == "" {
		return nil, fmt.Errorf("строка EURING не может быть пустой")
	}

	if v.Separated() {
		tokens := strings.Split(record, v.Format.FieldSeparator)
		if len(tokens) != len(v.Fields) {
			return nil, fmt.Errorf("формат %s требует ровно %d полей, получено %d", v.Name, len(v.Fields), len(tokens))
		}
	} else if len(record) != v.Format.TotalLength {
		return nil, fmt.Errorf("формат %s требует ровно %d символов, получено %d", v.Name, v.Format.TotalLength, len(record))
	}

	parsed := &ParsedRecord{
		VersionID: v.ID,
		Values:    v.ExtractFieldValues(record),
	}

	for _, rule := range v.Rules {
		value, ok := parsed.Values[rule.FieldName]
		if !ok {
			continue
		}
		matched, err := rule.Evaluate(value)
		if err != nil || !matched {
			msg := rule.ErrorMessage
			if msg == "" {
				msg = fmt.Sprintf("поле %s не прошло правило %s", rule.FieldName, rule.RuleType)
			}
			parsed.Errors = append(parsed.Errors, msg)
		}
	}

	return parsed, nil
}

// parseLatitudeDM широта DDMM + N/S в десятичные градусы
func parseLatitudeDM(value string) (float64, error) {
	if len(value) != 5 {
		return 0, fmt.Errorf("широта должна быть 5 символов, получено %d", len(value))
	}
	deg, err1 := strconv.Atoi(value[:2])
	min, err2 := strconv.Atoi(value[2:4])
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("градусы и минуты широты должны быть числовыми: %q", value)
	}
	if deg > 90 || min > 59 {
		return 0, fmt.Errorf("недопустимая широта: %q", value)
	}
	decimal := float64(deg) + float64(min)/60.0
	switch value[4] {
	case 'N':
		return decimal, nil
	case 'S':
		return -decimal, nil
	}
	return 0, fmt.Errorf("направление широты должно быть N или S: %q", value)
}

// parseLongitudeDM долгота DDDMM + E/W в десятичные градусы
func parseLongitudeDM(value string) (float64, error) {
	if len(value) != 6 {
		return 0, fmt.Errorf("долгота должна быть 6 символов, получено %d", len(value))
	}
	deg, err1 := strconv.Atoi(value[:3])
	min, err2 := strconv.Atoi(value[3:5])
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("градусы и минуты долготы должны быть числовыми: %q", value)
	}
	if deg > 180 || min > 59 {
		return 0, fmt.Errorf("недопустимая долгота: %q", value)
	}
	decimal := float64(deg) + float64(min)/60.0
	switch value[5] {
	case 'E':
		return decimal, nil
	case 'W':
		return -decimal, nil
	}
	return 0, fmt.Errorf("направление долготы должно быть E или W: %q", value)
}

// formatLatitudeDM десятичные градусы в DDMM + N/S
func formatLatitudeDM(decimal float64) string {
	dir := "N"
	if decimal < 0 {
		dir = "S"
	}
	abs := math.Abs(decimal)
	deg := int(abs)
	min := int((abs - float64(deg)) * 60)
	return fmt.Sprintf("%02d%02d%s", deg, min, dir)
}

// formatLongitudeDM десятичные градусы в DDDMM + E/W
func formatLongitudeDM(decimal float64) string {
	dir := "E"
	if decimal < 0 {
		dir = "W"
	}
	abs := math.Abs(decimal)
	deg := int(abs)
	min := int((abs - float64(deg)) * 60)
	return fmt.Sprintf("%03d%02d%s", deg, min, dir)
}

// flipDateDDMMYYYY перестановка DDMMYYYY -> YYYYMMDD
func flipDateDDMMYYYY(value string) (string, error) {
	if len(value) != 8 {
		return "", fmt.Errorf("дата должна быть 8 цифр DDMMYYYY: %q", value)
	}
	return value[4:] + value[2:4] + value[:2], nil
}

// flipDateYYYYMMDD перестановка YYYYMMDD -> DDMMYYYY
func flipDateYYYYMMDD(value string) (string, error) {
	if len(value) != 8 {
		return "", fmt.Errorf("дата должна быть 8 цифр YYYYMMDD: %q", value)
	}
	return value[6:] + value[4:6] + value[:4], nil
}
