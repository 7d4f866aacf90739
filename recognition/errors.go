package recognition

import "errors"

// Ошибки структурного уровня: возвращаются вызывающему явно.
// Внутренние сбои оценки (битое правило, кривой regex) в ошибки
// не превращаются, а поглощаются нулевыми суб-оценками.
var (
	// ErrEmptyInput пустая или пробельная входная строка
	ErrEmptyInput = errors.New("строка EURING не может быть пустой")
	// ErrEmptyBatch пустой список строк для пакетной обработки
	ErrEmptyBatch = errors.New("список строк не может быть пустым")
	// ErrNoSchemes в репозитории нет ни одной загруженной версии
	ErrNoSchemes = errors.New("нет загруженных версий EURING")
	// ErrNoCandidates резолвер вызван с пустым набором кандидатов
	ErrNoCandidates = errors.New("нет кандидатов для разрешения неоднозначности")
)
