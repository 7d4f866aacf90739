package conversion

import (
	"strings"
	"testing"

	"euringserver/scheme"
)

// Канонические записи форматов для тестов пакета
const (
	rec1966 = "1234 AB12345 3 15061995 5230N 00415E 01 1 123 0250 0123"
	rec2020 = "00123|ABC12345|1|0|3|1|20230615|1200|52.3702|4.8952|1|01|01|0|0|123.5|45.2|12.3|23.1|2|1|0"
)

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

func TestParseRecordValid(t *testing.T) {
	v := versionByID(t, "euring_1966")

	parsed, err := ParseRecord(rec1966, v)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if !parsed.Valid() {
		t.Fatalf("каноническая запись не должна давать ошибок полей: %v", parsed.Errors)
	}
	if parsed.VersionID != "euring_1966" {
		t.Errorf("VersionID = %s", parsed.VersionID)
	}

	wants := map[string]string{
		"species_code": "1234",
		"ring_number":  "AB12345",
		"date_code":    "15061995",
		"latitude":     "5230N",
		"weight":       "0250",
	}
	for field, want := range wants {
		if parsed.Values[field] != want {
			t.Errorf("поле %s = %q, want %q", field, parsed.Values[field], want)
		}
	}
}

func TestParseRecordStructuralErrors(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		versionID string
	}{
		{"Пустая строка", "   ", "euring_1966"},
		{"Лишнее поле", rec1966 + " extra", "euring_1966"},
		{"Недостающее поле", "1234 AB12345 3", "euring_1966"},
		{"Усечённая позиционная запись", strings.Repeat("0", 77), "euring_1979"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRecord(tt.record, versionByID(t, tt.versionID)); err == nil {
				t.Error("структурное несоответствие должно быть ошибкой разбора")
			}
		})
	}
}

func TestParseRecordCollectsFieldErrors(t *testing.T) {
	v := versionByID(t, "euring_1966")

	// Номер кольца нарушает правило, структура строки цела
	record := "1234 ab12345 3 15061995 5230N 00415E 01 1 123 0250 0123"
	parsed, err := ParseRecord(record, v)
	if err != nil {
		t.Fatalf("проблемы полей не должны прерывать разбор: %v", err)
	}
	if parsed.Valid() {
		t.Fatal("нарушение правила поля должно попасть в Errors")
	}
	if len(parsed.Errors) != 1 || !strings.Contains(parsed.Errors[0], "кольца") {
		t.Errorf("неожиданные ошибки: %v", parsed.Errors)
	}
}

func TestParseLatitudeDM(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{"5230N", 52.5, false},
		{"5230S", -52.5, false},
		{"0000N", 0.0, false},
		{"9960N", 0, true},  // минуты за пределами
		{"523N", 0, true},   // короткая
		{"5230X", 0, true},  // направление
		{"ab30N", 0, true},  // нечисловая
	}
	for _, tt := range tests {
		got, err := parseLatitudeDM(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLatitudeDM(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLatitudeDM(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseLongitudeDM(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{"00415E", 4.25, false},
		{"01030W", -10.5, false},
		{"18100E", 0, true}, // градусы за пределами
		{"0415E", 0, true},  // короткая
		{"00415Z", 0, true}, // направление
	}
	for _, tt := range tests {
		got, err := parseLongitudeDM(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLongitudeDM(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLongitudeDM(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFormatCoordinatesDM(t *testing.T) {
	if got := formatLatitudeDM(52.5); got != "5230N" {
		t.Errorf("formatLatitudeDM(52.5) = %q, want 5230N", got)
	}
	if got := formatLatitudeDM(-1.25); got != "0115S" {
		t.Errorf("formatLatitudeDM(-1.25) = %q, want 0115S", got)
	}
	if got := formatLongitudeDM(4.25); got != "00415E" {
		t.Errorf("formatLongitudeDM(4.25) = %q, want 00415E", got)
	}
	if got := formatLongitudeDM(-10.5); got != "01030W" {
		t.Errorf("formatLongitudeDM(-10.5) = %q, want 01030W", got)
	}
}

func TestFlipDates(t *testing.T) {
	got, err := flipDateDDMMYYYY("15061995")
	if err != nil || got != "19950615" {
		t.Errorf("flipDateDDMMYYYY = %q, %v", got, err)
	}
	got, err = flipDateYYYYMMDD("19950615")
	if err != nil || got != "15061995" {
		t.Errorf("flipDateYYYYMMDD = %q, %v", got, err)
	}
	if _, err := flipDateDDMMYYYY("1506"); err == nil {
		t.Error("короткая дата должна быть ошибкой")
	}
}

func TestGenerateFitsWidths(t *testing.T) {
	v := versionByID(t, "euring_1966")

	record := Generate(v, map[string]string{
		"species_code": "123", // короче ширины, дополняется нулём
		"ring_number":  "AB12345",
	})
	tokens := strings.Split(record, " ")
	if len(tokens) != len(v.Fields) {
		t.Fatalf("сгенерировано %d полей, ожидалось %d", len(tokens), len(v.Fields))
	}
	if tokens[0] != "0123" {
		t.Errorf("числовое поле должно дополняться нулями слева: %q", tokens[0])
	}
	if tokens[1] != "AB12345" {
		t.Errorf("точное значение не должно меняться: %q", tokens[1])
	}
}

func TestGeneratePositionalFillers(t *testing.T) {
	v := versionByID(t, "euring_1979")

	// Пустые поля позиционного формата получают объявленные заполнители,
	// итоговая строка держит полную ширину
	record := Generate(v, map[string]string{})
	if len(record) != v.Format.TotalLength {
		t.Fatalf("длина %d, ожидалось %d", len(record), v.Format.TotalLength)
	}
	if !strings.HasSuffix(record, "-------") {
		t.Errorf("хвостовой заполнитель потерян: %q", record)
	}
}
