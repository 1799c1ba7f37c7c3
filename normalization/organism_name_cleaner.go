package normalization

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
)

var (
	// Пробелы, дефисы и точки схлопываются в один пробел
	organismSeparatorRegex = regexp.MustCompile(`[\s\-.]+`)

	// Подряд повторенные квалификаторы таксона
	duplicateComplexRegex = regexp.MustCompile(`\bcomplex complex\b`)
	duplicateSpeciesRegex = regexp.MustCompile(`\bspecies species\b`)

	// Маркер неопределенности уже в канонической позиции
	qualifierSuffixRegex = regexp.MustCompile(`\((suspected|possible)\)$`)

	// Маркер неопределенности в свободной позиции, с необязательным артиклем
	qualifierInlineRegex = regexp.MustCompile(`\b(?:a )?(possible|suspected)\b`)
)

// CleanOrganismName приводит сырое название микроорганизма к каноническому
// виду: схлопывает пробелы, дефисы и точки, опускает регистр, убирает
// повторенные квалификаторы, переносит маркер неопределенности в суффикс
// "(possible)"/"(suspected)" и поднимает регистр первого слова.
// Функция детерминирована и идемпотентна; пустой после обрезки вход дает "".
func CleanOrganismName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(organismSeparatorRegex.ReplaceAllString(raw, " ")))
	if name == "" {
		return ""
	}

	// Повторяем до неподвижной точки: тройной повтор схлопывается за два прохода
	for duplicateComplexRegex.MatchString(name) {
		name = duplicateComplexRegex.ReplaceAllString(name, "complex")
	}
	for duplicateSpeciesRegex.MatchString(name) {
		name = duplicateSpeciesRegex.ReplaceAllString(name, "species")
	}

	// Маркер уже стоит суффиксом — достаточно поднять регистр первого слова
	if qualifierSuffixRegex.MatchString(name) {
		return capitalizeFirstWord(name)
	}

	if m := qualifierInlineRegex.FindStringSubmatch(name); m != nil {
		qualifier := m[1]
		name = qualifierInlineRegex.ReplaceAllString(name, " ")
		name = strings.TrimSpace(organismSeparatorRegex.ReplaceAllString(name, " "))
		if name == "" {
			return "(" + qualifier + ")"
		}
		return capitalizeFirstWord(name) + " (" + qualifier + ")"
	}

	return capitalizeFirstWord(name)
}

// capitalizeFirstWord поднимает регистр первой буквы, остальное не трогает
func capitalizeFirstWord(name string) string {
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// SplitOrganisms делит составную ячейку на отдельные названия по символу
// "&" и обрезает пробелы у каждого фрагмента. Пустые фрагменты сохраняются,
// чтобы обратная сборка не меняла число позиций.
func SplitOrganisms(cell string) []string {
	parts := strings.Split(cell, "&")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// OrganismNameCleaner мемоизирует результаты CleanOrganismName.
// Кеш не имеет наблюдаемого эффекта кроме скорости: очистка детерминирована.
type OrganismNameCleaner struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewOrganismNameCleaner создает очиститель с пустым кешем
func NewOrganismNameCleaner() *OrganismNameCleaner {
	return &OrganismNameCleaner{
		cache: make(map[string]string),
	}
}

// Clean возвращает каноническое название, используя кеш
func (c *OrganismNameCleaner) Clean(raw string) string {
	c.mu.RLock()
	if cached, found := c.cache[raw]; found {
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	cleaned := CleanOrganismName(raw)

	c.mu.Lock()
	c.cache[raw] = cleaned
	c.mu.Unlock()

	return cleaned
}

// CacheSize возвращает число закешированных названий
func (c *OrganismNameCleaner) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
