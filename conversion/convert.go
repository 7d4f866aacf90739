package conversion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"euringserver/scheme"
)

var (
	// ErrUnknownVersion запрошенная версия не зарегистрирована
	ErrUnknownVersion = errors.New("неизвестная версия EURING")
	// ErrUnsupportedConversion пара версий без таблицы правил конвертации
	ErrUnsupportedConversion = errors.New("конвертация между этими версиями не поддерживается")
)

// Result итог конвертации одной строки
type Result struct {
	OriginalString   string    `json:"original_string"`
	ConvertedString  string    `json:"converted_string,omitempty"`
	FromVersion      string    `json:"from_version"`
	ToVersion        string    `json:"to_version"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
	Notes            []string  `json:"conversion_notes,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	ProcessingTimeMS float64   `json:"processing_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

// BatchConversionResult итог пакетной конвертации; результаты выровнены
// по индексам со входным списком
type BatchConversionResult struct {
	Results        []*Result `json:"results"`
	TotalProcessed int       `json:"total_processed"`
	Successful     int       `json:"successful"`
	Failed         int       `json:"failed"`
}

// pairKey ключ таблицы поддерживаемых конвертаций
type pairKey struct {
	from string
	to   string
}

// fieldConverter правила переноса значений между двумя раскладками.
// Возвращает значения полей целевой версии плюс заметки и предупреждения.
type fieldConverter func(values map[string]string) (map[string]string, []string, []string)

// Service конвертация строк EURING между версиями по таблице правил.
// Полные правила реализованы для пары 1966<->2020; остальные пары
// возвращают явную ошибку вместо приблизительного результата.
type Service struct {
	versions map[string]*scheme.Version
	rules    map[pairKey]fieldConverter
}

// NewService создает сервис конвертации над набором версий
func NewService(versions []*scheme.Version) *Service {
	s := &Service{
		versions: make(map[string]*scheme.Version, len(versions)),
		rules:    make(map[pairKey]fieldConverter),
	}
	for _, v := range versions {
		s.versions[v.ID] = v
	}
	s.rules[pairKey{"euring_1966", "euring_2020"}] = convert1966To2020
	s.rules[pairKey{"euring_2020", "euring_1966"}] = convert2020To1966
	return s
}

// SupportedPairs список пар версий с полными правилами конвертации
func (s *Service) SupportedPairs() [][2]string {
	pairs := make([][2]string, 0, len(s.rules))
	for key := range s.rules {
		pairs = append(pairs, [2]string{key.from, key.to})
	}
	return pairs
}

// Convert конвертирует одну строку EURING из версии from в версию to.
// Структурно непригодная строка или неподдерживаемая пара — ошибка;
// проблемы отдельных полей попадают в предупреждения результата.
func (s *Service) Convert(record, fromID, toID string) (*Result, error) {
	start := time.Now()

	from, ok := s.versions[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, fromID)
	}
	to, ok := s.versions[toID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, toID)
	}

	result := &Result{
		OriginalString: record,
		FromVersion:    fromID,
		ToVersion:      toID,
		Timestamp:      time.Now().UTC(),
	}

	if fromID == toID {
		result.ConvertedString = record
		result.Success = true
		result.Notes = append(result.Notes, "исходная и целевая версии совпадают, строка не изменена")
		result.ProcessingTimeMS = elapsedMS(start)
		return result, nil
	}

	converter, ok := s.rules[pairKey{fromID, toID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, fromID, toID)
	}

	parsed, err := ParseRecord(record, from)
	if err != nil {
		return nil, fmt.Errorf("разбор исходной строки: %w", err)
	}
	if !parsed.Valid() {
		result.Warnings = append(result.Warnings, parsed.Errors...)
	}

	converted, notes, warnings := converter(parsed.Values)
	result.Notes = append(result.Notes, notes...)
	result.Warnings = append(result.Warnings, warnings...)
	result.ConvertedString = Generate(to, converted)
	result.Success = true
	result.ProcessingTimeMS = elapsedMS(start)
	return result, nil
}

// ConvertBatch конвертирует список строк; отказ одной строки не
// прерывает остальные, ошибка сохраняется в её результате
func (s *Service) ConvertBatch(records []string, fromID, toID string) (*BatchConversionResult, error) {
	if len(records) == 0 {
		return nil, errors.New("пакет строк не может быть пустым")
	}

	batch := &BatchConversionResult{
		Results:        make([]*Result, len(records)),
		TotalProcessed: len(records),
	}
	for i, record := range records {
		result, err := s.Convert(record, fromID, toID)
		if err != nil {
			// Неизвестная версия или неподдерживаемая пара одинаковы для
			// всего пакета, нет смысла повторять отказ по каждой строке
			if errors.Is(err, ErrUnknownVersion) || errors.Is(err, ErrUnsupportedConversion) {
				return nil, err
			}
			result = &Result{
				OriginalString: record,
				FromVersion:    fromID,
				ToVersion:      toID,
				Error:          err.Error(),
				Timestamp:      time.Now().UTC(),
			}
		}
		batch.Results[i] = result
		if result.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}

// convert1966To2020 перенос полей пробельного формата 1966 в формат 2020.
// Недостающие в 1966 поля получают значения по умолчанию с заметкой.
func convert1966To2020(values map[string]string) (map[string]string, []string, []string) {
	out := make(map[string]string, 22)
	var notes, warnings []string

	// Код вида: 4 цифры -> 5 с ведущим нулём
	if species, err := strconv.Atoi(values["species_code"]); err == nil {
		out["species_code"] = fmt.Sprintf("%05d", species)
	} else {
		out["species_code"] = "00000"
		warnings = append(warnings, "код вида не числовой, подставлен 00000")
	}

	// Кольцо: 2 буквы + 5 цифр -> 3 буквы + 5 цифр (вставка A)
	ring := values["ring_number"]
	if len(ring) == 7 {
		out["ring_number"] = ring[:2] + "A" + ring[2:]
		notes = append(notes, "номер кольца дополнен до схемы 3 буквы + 5 цифр")
	} else {
		out["ring_number"] = ring
		warnings = append(warnings, "номер кольца не соответствует схеме 1966, перенесён как есть")
	}

	out["metal_ring_info"] = "1"
	out["other_marks_info"] = "0"
	out["age_code"] = values["age_code"]
	out["sex_code"] = "9"
	notes = append(notes, "пол не кодируется в формате 1966, подставлено 9 (неизвестен)")

	// Дата: DDMMYYYY -> YYYYMMDD
	if date, err := flipDateDDMMYYYY(values["date_code"]); err == nil {
		out["date_code"] = date
	} else {
		out["date_code"] = "00000000"
		warnings = append(warnings, err.Error())
	}

	out["time_code"] = "1200"
	notes = append(notes, "время не кодируется в формате 1966, подставлен полдень")

	// Координаты: градусы-минуты -> десятичные
	if lat, err := parseLatitudeDM(values["latitude"]); err == nil {
		out["latitude_decimal"] = strconv.FormatFloat(lat, 'f', 4, 64)
	} else {
		out["latitude_decimal"] = "0.0000"
		warnings = append(warnings, err.Error())
	}
	if lon, err := parseLongitudeDM(values["longitude"]); err == nil {
		out["longitude_decimal"] = strconv.FormatFloat(lon, 'f', 4, 64)
	} else {
		out["longitude_decimal"] = "0.0000"
		warnings = append(warnings, err.Error())
	}

	out["condition_code"] = strings.TrimLeft(values["condition_code"], "0")
	if out["condition_code"] == "" {
		out["condition_code"] = "0"
	}
	out["method_code"] = values["method_code"]
	out["accuracy_code"] = "01"
	notes = append(notes, "точность координат не кодируется в формате 1966, подставлено 01")
	out["status_info"] = "0"
	out["verification_code"] = "0"

	// Биометрия: крыло в мм, вес из 0.1 г в граммы, клюв из 0.1 мм в мм
	out["wing_length"] = scaleTenth(values["wing_length"], 1, &warnings, "длина крыла")
	out["weight"] = scaleTenth(values["weight"], 10, &warnings, "вес")
	out["bill_length"] = scaleTenth(values["bill_length"], 10, &warnings, "длина клюва")
	notes = append(notes, "вес и длина клюва пересчитаны из единиц 0.1 в базовые")

	out["tarsus_length"] = "0"
	out["fat_score"] = "0"
	out["muscle_score"] = "0"
	out["moult_code"] = "0"

	return out, notes, warnings
}

// convert2020To1966 обратный перенос; поля без места в раскладке 1966
// отбрасываются с заметкой о потере данных
func convert2020To1966(values map[string]string) (map[string]string, []string, []string) {
	out := make(map[string]string, 11)
	var notes, warnings []string

	// Код вида: 5 цифр -> 4 (старшая цифра должна быть нулевой)
	if species, err := strconv.Atoi(values["species_code"]); err == nil {
		if species > 9999 {
			warnings = append(warnings, "код вида больше 9999, усечён до 4 цифр")
			species %= 10000
		}
		out["species_code"] = fmt.Sprintf("%04d", species)
	} else {
		out["species_code"] = "0000"
		warnings = append(warnings, "код вида не числовой, подставлен 0000")
	}

	// Кольцо: 3 буквы + 5 цифр -> 2 буквы + 5 цифр (третья буква теряется)
	ring := values["ring_number"]
	if len(ring) == 8 {
		out["ring_number"] = ring[:2] + ring[3:]
		notes = append(notes, "третья буква номера кольца не кодируется в формате 1966")
	} else {
		out["ring_number"] = ring
		warnings = append(warnings, "номер кольца не соответствует схеме 2020, перенесён как есть")
	}

	out["age_code"] = values["age_code"]

	// Дата: YYYYMMDD -> DDMMYYYY
	if date, err := flipDateYYYYMMDD(values["date_code"]); err == nil {
		out["date_code"] = date
	} else {
		out["date_code"] = "00000000"
		warnings = append(warnings, err.Error())
	}

	// Координаты: десятичные -> градусы-минуты (минутная точность)
	if lat, err := strconv.ParseFloat(values["latitude_decimal"], 64); err == nil {
		out["latitude"] = formatLatitudeDM(lat)
	} else {
		out["latitude"] = "0000N"
		warnings = append(warnings, "широта не числовая, подставлен ноль")
	}
	if lon, err := strconv.ParseFloat(values["longitude_decimal"], 64); err == nil {
		out["longitude"] = formatLongitudeDM(lon)
	} else {
		out["longitude"] = "00000E"
		warnings = append(warnings, "долгота не числовая, подставлен ноль")
	}
	notes = append(notes, "координаты округлены до минутной точности")

	out["condition_code"] = values["condition_code"]
	out["method_code"] = lastDigit(values["method_code"])

	// Биометрия обратно в целые единицы 0.1
	out["wing_length"] = wholeUnits(values["wing_length"], 1, 3, &warnings, "длина крыла")
	out["weight"] = wholeUnits(values["weight"], 10, 4, &warnings, "вес")
	out["bill_length"] = wholeUnits(values["bill_length"], 10, 4, &warnings, "длина клюва")

	notes = append(notes, "пол, время, статус и дополнительная биометрия не кодируются в формате 1966 и отброшены")

	return out, notes, warnings
}

// scaleTenth переводит целое значение в единицах 1/divisor в десятичную
// строку; нечисловое значение заменяется нулём с предупреждением
func scaleTenth(value string, divisor float64, warnings *[]string, label string) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s не числовая, подставлен ноль", label))
		return "0.0"
	}
	return strconv.FormatFloat(float64(n)/divisor, 'f', 1, 64)
}

// wholeUnits переводит десятичное значение обратно в целые единицы
// с фиксированной шириной
func wholeUnits(value string, factor float64, width int, warnings *[]string, label string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s не числовая, подставлен ноль", label))
		return strings.Repeat("0", width)
	}
	return fmt.Sprintf("%0*d", width, int(f*factor+0.5))
}

// lastDigit последняя цифра кода, либо 0
func lastDigit(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "0"
	}
	return value[len(value)-1:]
}

// elapsedMS миллисекунды с момента start
func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
