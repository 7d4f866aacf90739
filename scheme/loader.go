package scheme

import (
	"fmt"
	"sort"
)

// IntegrityReport результат проверки целостности дескриптора.
// Ошибки делают дескриптор непригодным, предупреждения только
// понижают доверие (несовпадение суммы длин не должно ронять распознавание).
type IntegrityReport struct {
	VersionID string   `json:"version_id"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// Valid сообщает, пригоден ли дескриптор к использованию
func (r *IntegrityReport) Valid() bool {
	return len(r.Errors) == 0
}

// Loader загрузчик версий поверх репозитория с проверкой целостности
type Loader struct {
	repo *Repository
}

// NewLoader создает загрузчик
func NewLoader(repo *Repository) *Loader {
	return &Loader{repo: repo}
}

// ValidateVersion проверяет целостность одного дескриптора
func ValidateVersion(v *Version) *IntegrityReport {
	report := &IntegrityReport{VersionID: v.ID}

	if v.ID == "" {
		report.Errors = append(report.Errors, "идентификатор версии обязателен")
	}
	if v.Name == "" {
		report.Errors = append(report.Errors, "имя версии обязательно")
	}
	if v.Year < 1963 || v.Year > 2030 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("год версии %d вне ожидаемого диапазона 1963-2030", v.Year))
	}

	if len(v.Fields) == 0 {
		report.Errors = append(report.Errors, "версия должна объявлять хотя бы одно поле")
	} else {
		seen := make(map[int]bool, len(v.Fields))
		fixedWidth := true
		for _, f := range v.Fields {
			if seen[f.Position] {
				report.Errors = append(report.Errors, fmt.Sprintf("дублируется позиция поля %d", f.Position))
			}
			seen[f.Position] = true
			if f.Length == 0 {
				fixedWidth = false
			}
		}
		// Поля переменной ширины делают сумму длин неинформативной
		if fixedWidth {
			if sum := v.DeclaredFieldLengthSum(); sum != v.Format.TotalLength {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"сумма длин полей (%d) не совпадает с объявленной полной длиной (%d)", sum, v.Format.TotalLength))
			}
		}
	}

	names := make(map[string]bool, len(v.Fields))
	for _, f := range v.Fields {
		names[f.Name] = true
	}
	for _, rule := range v.Rules {
		if !names[rule.FieldName] {
			report.Errors = append(report.Errors, fmt.Sprintf("правило ссылается на неизвестное поле: %s", rule.FieldName))
		}
	}

	if _, err := v.CompiledPattern(); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("regex формата не компилируется: %v", err))
	}

	return report
}

// LoadValidated загружает все версии и отбрасывает непрошедшие проверку.
// Возвращает пригодные версии и отчёты по всем.
func (l *Loader) LoadValidated() ([]*Version, []*IntegrityReport, error) {
	versions, err := l.repo.LoadAll()
	if err != nil {
		return nil, nil, err
	}

	var valid []*Version
	reports := make([]*IntegrityReport, 0, len(versions))
	for _, v := range versions {
		report := ValidateVersion(v)
		reports = append(reports, report)
		if report.Valid() {
			valid = append(valid, v)
		}
	}
	return valid, reports, nil
}

// ActiveVersionForYear возвращает версию, действовавшую в указанном году:
// последнюю по году выпуска среди не превышающих его
func ActiveVersionForYear(versions []*Version, year int) *Version {
	sorted := make([]*Version, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	var active *Version
	for _, v := range sorted {
		if v.Year <= year {
			active = v
		} else {
			break
		}
	}
	return active
}
