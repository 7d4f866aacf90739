package scheme

import (
	"regexp"
	"strings"
	"sync"
)

// Kind структурный тип формата EURING версии.
// Заменяет строковые сравнения по ID версии ("1966" in version_id)
// явным тегом на дескрипторе.
type Kind string

const (
	KindPipeDelimited  Kind = "pipe_delimited"  // 2020: поля через "|"
	KindSpaceSeparated Kind = "space_separated" // 1966: поля через пробел
	KindFixedWidthA    Kind = "fixed_width_a"   // 1979: фиксированная ширина ~78, заполнители "--"
	KindFixedWidthB    Kind = "fixed_width_b"   // 2000: фиксированная ширина ~96, без пробелов
	KindUnknown        Kind = "unknown"
)

// FieldDefinition описание одного поля в формате версии
type FieldDefinition struct {
	Position       int      `json:"position"`                  // Порядковый номер поля
	Name           string   `json:"name"`                      // Имя поля
	DataType       string   `json:"data_type"`                 // Тип: numeric, alphanumeric, decimal, date, coordinate, string
	Length         int      `json:"length"`                    // Длина; 0 = переменная (только для разделяемых форматов)
	ValidValues    []string `json:"valid_values,omitempty"`    // Допустимые значения (точное совпадение)
	Description    string   `json:"description,omitempty"`     // Описание поля
	SemanticDomain string   `json:"semantic_domain,omitempty"` // Семантический домен (identification_marking, species, ...)
}

// FormatSpec спецификация формата строки версии
type FormatSpec struct {
	TotalLength       int    `json:"total_length"`                 // Ожидаемая полная длина строки
	FieldSeparator    string `json:"field_separator,omitempty"`    // Разделитель полей; пусто = позиционный формат
	Encoding          string `json:"encoding,omitempty"`           // Кодировка (по умолчанию utf-8)
	ValidationPattern string `json:"validation_pattern,omitempty"` // Необязательный regex всей строки
}

// Version дескриптор одной EURING версии: раскладка полей,
// правила валидации и спецификация формата.
type Version struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description,omitempty"`
	Kind        Kind              `json:"kind,omitempty"`
	Fields      []FieldDefinition `json:"field_definitions"`
	Rules       []ValidationRule  `json:"validation_rules,omitempty"`
	Format      FormatSpec        `json:"format_specification"`

	patternOnce sync.Once
	pattern     *regexp.Regexp
	patternErr  error
}

// KindOrDefault возвращает явный Kind дескриптора, либо выводит его
// из спецификации формата для данных без тега (старые JSON файлы).
func (v *Version) KindOrDefault() Kind {
	if v.Kind != "" {
		return v.Kind
	}
	switch v.Format.FieldSeparator {
	case "|":
		return KindPipeDelimited
	case " ":
		return KindSpaceSeparated
	}
	switch {
	case v.Format.TotalLength >= 75 && v.Format.TotalLength <= 82:
		return KindFixedWidthA
	case v.Format.TotalLength >= 90 && v.Format.TotalLength <= 100:
		return KindFixedWidthB
	}
	return KindUnknown
}

// Separated сообщает, разделяются ли поля версии явным разделителем
func (v *Version) Separated() bool {
	return v.Format.FieldSeparator != ""
}

// Tokens разбивает строку записи на токены полей.
// Для позиционных форматов возвращает срезы по объявленным длинам;
// поле, выходящее за границу строки, не попадает в результат.
func (v *Version) Tokens(record string) []string {
	if v.Separated() {
		return strings.Split(record, v.Format.FieldSeparator)
	}
	tokens := make([]string, 0, len(v.Fields))
	pos := 0
	for _, f := range v.Fields {
		if pos+f.Length > len(record) {
			break
		}
		tokens = append(tokens, record[pos:pos+f.Length])
		pos += f.Length
	}
	return tokens
}

// ExtractFieldValues извлекает значения полей записи по раскладке версии.
// Недостающие поля (строка короче раскладки) опускаются, ошибкой это не является.
func (v *Version) ExtractFieldValues(record string) map[string]string {
	tokens := v.Tokens(record)
	values := make(map[string]string, len(v.Fields))
	for i, f := range v.Fields {
		if i >= len(tokens) {
			break
		}
		values[f.Name] = tokens[i]
	}
	return values
}

// CompiledPattern компилирует ValidationPattern версии один раз.
// Ошибка компиляции не фатальна: вызывающий учитывает её как несовпадение.
func (v *Version) CompiledPattern() (*regexp.Regexp, error) {
	v.patternOnce.Do(func() {
		if v.Format.ValidationPattern == "" {
			return
		}
		v.pattern, v.patternErr = regexp.Compile(v.Format.ValidationPattern)
	})
	return v.pattern, v.patternErr
}

// DeclaredFieldLengthSum сумма объявленных длин полей.
// Для разделяемых форматов учитывает разделители между полями.
func (v *Version) DeclaredFieldLengthSum() int {
	sum := 0
	for _, f := range v.Fields {
		sum += f.Length
	}
	if v.Separated() && len(v.Fields) > 1 {
		sum += (len(v.Fields) - 1) * len(v.Format.FieldSeparator)
	}
	return sum
}
