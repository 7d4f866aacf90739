package scheme

// BuiltinVersions возвращает четыре поддерживаемые EURING версии
// с раскладками полей исторических форматов. Используется как
// начальное наполнение репозитория (seed) и в тестах.
func BuiltinVersions() []*Version {
	return []*Version{
		builtin1966(),
		builtin1979(),
		builtin2000(),
		builtin2020(),
	}
}

// builtin1966 пробельный формат: 11 полей через одиночный пробел
func builtin1966() *Version {
	return &Version{
		ID:          "euring_1966",
		Name:        "EURING 1966",
		Year:        1966,
		Description: "Исходный формат обмена: 11 полей, разделённых пробелами",
		Kind:        KindSpaceSeparated,
		Fields: []FieldDefinition{
			{Position: 0, Name: "species_code", DataType: "numeric", Length: 4, SemanticDomain: "species"},
			{Position: 1, Name: "ring_number", DataType: "alphanumeric", Length: 7, SemanticDomain: "identification_marking"},
			{Position: 2, Name: "age_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 3, Name: "date_code", DataType: "numeric", Length: 8, Description: "DDMMYYYY", SemanticDomain: "temporal"},
			{Position: 4, Name: "latitude", DataType: "coordinate", Length: 5, Description: "DDMM + N/S", SemanticDomain: "spatial"},
			{Position: 5, Name: "longitude", DataType: "coordinate", Length: 6, Description: "DDDMM + E/W", SemanticDomain: "spatial"},
			{Position: 6, Name: "condition_code", DataType: "numeric", Length: 2, SemanticDomain: "methodology"},
			{Position: 7, Name: "method_code", DataType: "numeric", Length: 1, SemanticDomain: "methodology"},
			{Position: 8, Name: "wing_length", DataType: "numeric", Length: 3, Description: "мм", SemanticDomain: "biometrics"},
			{Position: 9, Name: "weight", DataType: "numeric", Length: 4, Description: "0.1 г", SemanticDomain: "biometrics"},
			{Position: 10, Name: "bill_length", DataType: "numeric", Length: 4, Description: "0.1 мм", SemanticDomain: "biometrics"},
		},
		Rules: []ValidationRule{
			{FieldName: "species_code", RuleType: RuleRange, Min: 1000, Max: 9999, ErrorMessage: "код вида должен быть 4-значным"},
			{FieldName: "ring_number", RuleType: RuleRegex, Pattern: `^[A-Z]{2}[0-9]{5}$`, ErrorMessage: "номер кольца: 2 буквы + 5 цифр"},
			{FieldName: "age_code", RuleType: RuleRange, Min: 1, Max: 9, ErrorMessage: "код возраста 1-9"},
			{FieldName: "date_code", RuleType: RuleExactLength, Length: 8, ErrorMessage: "дата в формате DDMMYYYY"},
		},
		Format: FormatSpec{
			TotalLength:    55, // 45 символов полей + 10 разделителей
			FieldSeparator: " ",
			Encoding:       "utf-8",
		},
	}
}

// builtin1979 фиксированная ширина 78 символов, пустые поля заполняются "--"
func builtin1979() *Version {
	return &Version{
		ID:          "euring_1979",
		Name:        "EURING 1979",
		Year:        1979,
		Description: "Фиксированный формат 78 символов с заполнителями --",
		Kind:        KindFixedWidthA,
		Fields: []FieldDefinition{
			{Position: 0, Name: "species_code", DataType: "numeric", Length: 5, SemanticDomain: "species"},
			{Position: 1, Name: "scheme_country", DataType: "alphanumeric", Length: 2, SemanticDomain: "identification_marking"},
			{Position: 2, Name: "ring_number", DataType: "alphanumeric", Length: 7, SemanticDomain: "identification_marking"},
			{Position: 3, Name: "age_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 4, Name: "sex_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 5, Name: "status_code", DataType: "numeric", Length: 1, SemanticDomain: "methodology"},
			{Position: 6, Name: "date_first", DataType: "date", Length: 6, Description: "DDMMYY", SemanticDomain: "temporal"},
			{Position: 7, Name: "date_current", DataType: "date", Length: 6, Description: "DDMMYY", SemanticDomain: "temporal"},
			{Position: 8, Name: "latitude", DataType: "coordinate", Length: 6, SemanticDomain: "spatial"},
			{Position: 9, Name: "longitude", DataType: "coordinate", Length: 6, SemanticDomain: "spatial"},
			{Position: 10, Name: "condition_code", DataType: "numeric", Length: 2, SemanticDomain: "methodology"},
			{Position: 11, Name: "method_code", DataType: "numeric", Length: 1, SemanticDomain: "methodology"},
			{Position: 12, Name: "accuracy_code", DataType: "numeric", Length: 2, SemanticDomain: "spatial"},
			{Position: 13, Name: "empty_fields_1", DataType: "string", Length: 2, ValidValues: []string{"--"}},
			{Position: 14, Name: "wing_length", DataType: "numeric", Length: 3, SemanticDomain: "biometrics"},
			{Position: 15, Name: "weight", DataType: "numeric", Length: 4, SemanticDomain: "biometrics"},
			{Position: 16, Name: "empty_fields_2", DataType: "string", Length: 2, ValidValues: []string{"--"}},
			{Position: 17, Name: "bill_length", DataType: "numeric", Length: 4, SemanticDomain: "biometrics"},
			{Position: 18, Name: "tarsus_length", DataType: "numeric", Length: 2, SemanticDomain: "biometrics"},
			{Position: 19, Name: "empty_fields_3", DataType: "string", Length: 2, ValidValues: []string{"--"}},
			{Position: 20, Name: "additional_code_1", DataType: "numeric", Length: 3},
			{Position: 21, Name: "additional_code_2", DataType: "numeric", Length: 3},
			{Position: 22, Name: "padding", DataType: "string", Length: 7, ValidValues: []string{"-------"}},
		},
		Rules: []ValidationRule{
			{FieldName: "scheme_country", RuleType: RuleRegex, Pattern: `^[A-Z]{2}$`, ErrorMessage: "страна схемы: 2 заглавные буквы"},
			{FieldName: "ring_number", RuleType: RuleRegex, Pattern: `^[A-Z][0-9 ]{6}$`, ErrorMessage: "номер кольца: буква + 6 цифр"},
			{FieldName: "age_code", RuleType: RuleNumeric, ErrorMessage: "код возраста числовой"},
			{FieldName: "date_current", RuleType: RuleNumeric, ErrorMessage: "дата числовая DDMMYY"},
		},
		Format: FormatSpec{
			TotalLength: 78,
			Encoding:    "utf-8",
		},
	}
}

// builtin2000 фиксированная ширина 96 символов, без пробелов, начинается с букв
func builtin2000() *Version {
	return &Version{
		ID:          "euring_2000",
		Name:        "EURING 2000",
		Year:        2000,
		Description: "Фиксированный формат 96 символов (EPE-совместимый)",
		Kind:        KindFixedWidthB,
		Fields: []FieldDefinition{
			{Position: 0, Name: "scheme_code", DataType: "alphanumeric", Length: 4, SemanticDomain: "identification_marking"},
			{Position: 1, Name: "ring_prefix", DataType: "alphanumeric", Length: 3, SemanticDomain: "identification_marking"},
			{Position: 2, Name: "separator", DataType: "string", Length: 3, ValidValues: []string{"..."}},
			{Position: 3, Name: "ring_number", DataType: "numeric", Length: 7, SemanticDomain: "identification_marking"},
			{Position: 4, Name: "ring_suffix", DataType: "alphanumeric", Length: 2, SemanticDomain: "identification_marking"},
			{Position: 5, Name: "date_first", DataType: "numeric", Length: 5, Description: "кодированная дата", SemanticDomain: "temporal"},
			{Position: 6, Name: "date_current", DataType: "numeric", Length: 5, Description: "кодированная дата", SemanticDomain: "temporal"},
			{Position: 7, Name: "status_code", DataType: "alphanumeric", Length: 1, SemanticDomain: "methodology"},
			{Position: 8, Name: "age_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 9, Name: "location_code", DataType: "alphanumeric", Length: 5, SemanticDomain: "spatial"},
			{Position: 10, Name: "accuracy_code", DataType: "alphanumeric", Length: 2, SemanticDomain: "spatial"},
			{Position: 11, Name: "empty_fields_1", DataType: "string", Length: 5, ValidValues: []string{"-----"}},
			{Position: 12, Name: "measurement_1", DataType: "numeric", Length: 4, SemanticDomain: "biometrics"},
			{Position: 13, Name: "measurement_2", DataType: "numeric", Length: 3, SemanticDomain: "biometrics"},
			{Position: 14, Name: "measurement_3", DataType: "numeric", Length: 3, SemanticDomain: "biometrics"},
			{Position: 15, Name: "measurement_4", DataType: "numeric", Length: 3, SemanticDomain: "biometrics"},
			{Position: 16, Name: "region_code", DataType: "alphanumeric", Length: 4, SemanticDomain: "spatial"},
			{Position: 17, Name: "latitude_sign", DataType: "string", Length: 1, ValidValues: []string{"+", "-"}},
			{Position: 18, Name: "latitude_value", DataType: "numeric", Length: 6, SemanticDomain: "spatial"},
			{Position: 19, Name: "longitude_sign", DataType: "string", Length: 1, ValidValues: []string{"+", "-"}},
			{Position: 20, Name: "longitude_value", DataType: "numeric", Length: 6, SemanticDomain: "spatial"},
			{Position: 21, Name: "additional_codes", DataType: "numeric", Length: 12},
			{Position: 22, Name: "empty_fields_2", DataType: "string", Length: 3, ValidValues: []string{"---"}},
			{Position: 23, Name: "final_code", DataType: "numeric", Length: 7},
		},
		Rules: []ValidationRule{
			{FieldName: "scheme_code", RuleType: RuleAlnum, ErrorMessage: "код схемы из букв и цифр"},
			{FieldName: "ring_number", RuleType: RuleNumeric, ErrorMessage: "номер кольца числовой"},
			{FieldName: "age_code", RuleType: RuleNumeric, ErrorMessage: "код возраста числовой"},
			{FieldName: "latitude_value", RuleType: RuleExactLength, Length: 6, ErrorMessage: "широта 6 цифр"},
		},
		Format: FormatSpec{
			TotalLength: 96,
			Encoding:    "utf-8",
		},
	}
}

// builtin2020 актуальный формат: 22 поля через вертикальную черту
func builtin2020() *Version {
	return &Version{
		ID:          "euring_2020",
		Name:        "EURING 2020",
		Year:        2020,
		Description: "Актуальный формат обмена: 22 поля через |",
		Kind:        KindPipeDelimited,
		Fields: []FieldDefinition{
			{Position: 0, Name: "species_code", DataType: "numeric", Length: 5, SemanticDomain: "species"},
			{Position: 1, Name: "ring_number", DataType: "alphanumeric", Length: 8, SemanticDomain: "identification_marking"},
			{Position: 2, Name: "metal_ring_info", DataType: "numeric", Length: 0, SemanticDomain: "identification_marking"},
			{Position: 3, Name: "other_marks_info", DataType: "numeric", Length: 0, SemanticDomain: "identification_marking"},
			{Position: 4, Name: "age_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 5, Name: "sex_code", DataType: "numeric", Length: 1, SemanticDomain: "demographics"},
			{Position: 6, Name: "date_code", DataType: "numeric", Length: 8, Description: "YYYYMMDD", SemanticDomain: "temporal"},
			{Position: 7, Name: "time_code", DataType: "numeric", Length: 4, Description: "HHMM", SemanticDomain: "temporal"},
			{Position: 8, Name: "latitude_decimal", DataType: "decimal", Length: 0, SemanticDomain: "spatial"},
			{Position: 9, Name: "longitude_decimal", DataType: "decimal", Length: 0, SemanticDomain: "spatial"},
			{Position: 10, Name: "condition_code", DataType: "numeric", Length: 0, SemanticDomain: "methodology"},
			{Position: 11, Name: "method_code", DataType: "numeric", Length: 0, SemanticDomain: "methodology"},
			{Position: 12, Name: "accuracy_code", DataType: "numeric", Length: 0, SemanticDomain: "spatial"},
			{Position: 13, Name: "status_info", DataType: "numeric", Length: 0, SemanticDomain: "methodology"},
			{Position: 14, Name: "verification_code", DataType: "numeric", Length: 0, SemanticDomain: "methodology"},
			{Position: 15, Name: "wing_length", DataType: "decimal", Length: 0, SemanticDomain: "biometrics"},
			{Position: 16, Name: "weight", DataType: "decimal", Length: 0, SemanticDomain: "biometrics"},
			{Position: 17, Name: "bill_length", DataType: "decimal", Length: 0, SemanticDomain: "biometrics"},
			{Position: 18, Name: "tarsus_length", DataType: "decimal", Length: 0, SemanticDomain: "biometrics"},
			{Position: 19, Name: "fat_score", DataType: "numeric", Length: 0, SemanticDomain: "biometrics"},
			{Position: 20, Name: "muscle_score", DataType: "numeric", Length: 0, SemanticDomain: "biometrics"},
			{Position: 21, Name: "moult_code", DataType: "numeric", Length: 0, SemanticDomain: "biometrics"},
		},
		Rules: []ValidationRule{
			{FieldName: "ring_number", RuleType: RuleRegex, Pattern: `^[A-Z]{3}[0-9]{5}$`, ErrorMessage: "номер кольца: 3 заглавные буквы + 5 цифр"},
			{FieldName: "date_code", RuleType: RuleExactLength, Length: 8, ErrorMessage: "дата в формате YYYYMMDD"},
			{FieldName: "time_code", RuleType: RuleExactLength, Length: 4, ErrorMessage: "время в формате HHMM"},
			{FieldName: "age_code", RuleType: RuleRange, Min: 0, Max: 9, ErrorMessage: "код возраста 0-9"},
		},
		Format: FormatSpec{
			TotalLength:    90, // длина канонической записи
			FieldSeparator: "|",
			Encoding:       "utf-8",
		},
	}
}
