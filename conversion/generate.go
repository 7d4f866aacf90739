package conversion

import (
	"strings"

	"euringserver/scheme"
)

// Generate собирает строку записи по раскладке версии из значений полей.
// Поле без значения получает первый допустимый заполнитель из ValidValues
// (так пустые поля позиционных форматов выходят "--" и "-----"), иначе ноль.
// Значения приводятся к объявленной ширине: числовые дополняются нулями
// слева, прочие пробелами справа, лишнее усекается.
func Generate(v *scheme.Version, values map[string]string) string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		value, ok := values[f.Name]
		if !ok || value == "" {
			value = fieldDefault(f)
		}
		parts = append(parts, fitWidth(value, f))
	}
	if v.Separated() {
		return strings.Join(parts, v.Format.FieldSeparator)
	}
	return strings.Join(parts, "")
}

// fieldDefault заполнитель для отсутствующего значения поля
func fieldDefault(f scheme.FieldDefinition) string {
	if len(f.ValidValues) > 0 {
		return f.ValidValues[0]
	}
	return "0"
}

// fitWidth приводит значение к объявленной ширине поля.
// Нулевая ширина означает переменную длину, значение не трогается.
func fitWidth(value string, f scheme.FieldDefinition) string {
	if f.Length == 0 {
		return value
	}
	if len(value) > f.Length {
		return value[:f.Length]
	}
	if len(value) == f.Length {
		return value
	}
	pad := f.Length - len(value)
	switch f.DataType {
	case "numeric", "decimal", "date":
		return strings.Repeat("0", pad) + value
	}
	return value + strings.Repeat(" ", pad)
}
