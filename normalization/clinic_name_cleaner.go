package normalization

import "strings"

// ClinicNameCleaner разбирает сырые названия клиник на локацию и отделение
// и приводит сокращенные названия отделений к каноническому виду
type ClinicNameCleaner struct {
	departmentReplacements map[string]string
}

// DefaultDepartmentReplacements возвращает таблицу замен отделений по умолчанию
func DefaultDepartmentReplacements() map[string]string {
	return map[string]string{
		"Onc.": "Oncology",
	}
}

// NewClinicNameCleaner создает очиститель с таблицей замен по умолчанию
func NewClinicNameCleaner() *ClinicNameCleaner {
	return NewClinicNameCleanerWithReplacements(DefaultDepartmentReplacements())
}

// NewClinicNameCleanerWithReplacements создает очиститель с заданной таблицей замен
func NewClinicNameCleanerWithReplacements(replacements map[string]string) *ClinicNameCleaner {
	if replacements == nil {
		replacements = map[string]string{}
	}
	return &ClinicNameCleaner{
		departmentReplacements: replacements,
	}
}

// SplitLocationAndDepartment делит название клиники по пробелам: последний
// токен считается отделением, остальные, соединенные одиночными пробелами, —
// локацией. Единственный токен трактуется как отделение без локации.
// Регистр и пунктуация не изменяются.
func SplitLocationAndDepartment(raw string) (string, string) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return "", ""
	}
	if len(tokens) == 1 {
		return "", tokens[0]
	}
	return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
}

// ReplaceDepartment возвращает каноническое название отделения из таблицы
// замен; неизвестные отделения проходят без изменений
func (c *ClinicNameCleaner) ReplaceDepartment(department string) string {
	if replacement, ok := c.departmentReplacements[department]; ok {
		return replacement
	}
	return department
}

// AddDepartmentReplacement расширяет таблицу замен отделений
func (c *ClinicNameCleaner) AddDepartmentReplacement(abbrev, full string) {
	c.departmentReplacements[abbrev] = full
}
