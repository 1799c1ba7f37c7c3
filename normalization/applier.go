package normalization

import "strings"

// Cell — значение одной ячейки столбца. Valid=false означает отсутствующее
// значение (null); такие ячейки не участвуют в кластеризации.
type Cell struct {
	Value string
	Valid bool
}

// CellsFromStrings преобразует сырой столбец в ячейки: пустая после обрезки
// строка считается отсутствующим значением
func CellsFromStrings(values []string) []Cell {
	cells := make([]Cell, len(values))
	for i, value := range values {
		cells[i] = Cell{
			Value: value,
			Valid: strings.TrimSpace(value) != "",
		}
	}
	return cells
}

// ClinicNameApplier применяет подтвержденные соответствия к столбцу
// названий клиник
type ClinicNameApplier struct {
	cleaner *ClinicNameCleaner
	store   *MappingStore
}

// NewClinicNameApplier создает применитель для клиник
func NewClinicNameApplier(cleaner *ClinicNameCleaner, store *MappingStore) *ClinicNameApplier {
	return &ClinicNameApplier{
		cleaner: cleaner,
		store:   store,
	}
}

// ApplyCell стандартизирует одну ячейку: локация заменяется по хранилищу
// (без решения — проходит как есть), отделение — по таблице замен,
// результат собирается как "локация отделение"
func (a *ClinicNameApplier) ApplyCell(cell Cell) string {
	if !cell.Valid {
		return ""
	}

	location, department := SplitLocationAndDepartment(cell.Value)
	location = a.store.Apply(location)
	department = a.cleaner.ReplaceDepartment(department)

	return location + " " + department
}

// ApplyColumn стандартизирует столбец целиком; длина и порядок сохраняются
func (a *ClinicNameApplier) ApplyColumn(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = a.ApplyCell(cell)
	}
	return out
}

// ClinicKeys возвращает отсортированные уникальные локации столбца —
// ключи для кластеризации
func (a *ClinicNameApplier) ClinicKeys(cells []Cell) []string {
	keys := make([]string, 0, len(cells))
	for _, cell := range cells {
		if !cell.Valid {
			continue
		}
		location, _ := SplitLocationAndDepartment(cell.Value)
		keys = append(keys, location)
	}
	return sortedUnique(keys)
}

// OrganismApplier применяет подтвержденные соответствия к столбцу
// выделенных микроорганизмов
type OrganismApplier struct {
	cleaner *OrganismNameCleaner
	store   *MappingStore
}

// NewOrganismApplier создает применитель для микроорганизмов
func NewOrganismApplier(cleaner *OrganismNameCleaner, store *MappingStore) *OrganismApplier {
	return &OrganismApplier{
		cleaner: cleaner,
		store:   store,
	}
}

// ApplyCell стандартизирует одну ячейку: составное значение делится по "&",
// каждый фрагмент очищается и заменяется по хранилищу, затем фрагменты
// собираются обратно через " & " с сохранением порядка.
// Отсутствующее значение дает пустую строку.
func (a *OrganismApplier) ApplyCell(cell Cell) string {
	if !cell.Valid {
		return ""
	}

	fragments := SplitOrganisms(cell.Value)
	for i, fragment := range fragments {
		fragments[i] = a.store.Apply(a.cleaner.Clean(fragment))
	}

	return strings.Join(fragments, " & ")
}

// ApplyColumn стандартизирует столбец целиком; длина и порядок сохраняются
func (a *OrganismApplier) ApplyColumn(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = a.ApplyCell(cell)
	}
	return out
}

// OrganismKeys возвращает отсортированные уникальные канонические названия
// фрагментов столбца — ключи для кластеризации
func (a *OrganismApplier) OrganismKeys(cells []Cell) []string {
	keys := make([]string, 0, len(cells))
	for _, cell := range cells {
		if !cell.Valid {
			continue
		}
		for _, fragment := range SplitOrganisms(cell.Value) {
			cleaned := a.cleaner.Clean(fragment)
			if cleaned != "" {
				keys = append(keys, cleaned)
			}
		}
	}
	return sortedUnique(keys)
}
