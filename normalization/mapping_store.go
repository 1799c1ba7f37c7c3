package normalization

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrBlankReplacement возвращается при попытке подтвердить пустую замену
var ErrBlankReplacement = errors.New("replacement must not be blank")

// ParseError — фатальная ошибка разбора файла соответствий.
// Сессия с таким файлом не начинается: частичное применение недопустимо.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping parse error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("mapping parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecisionKind — вид решения оператора по кластеру
type DecisionKind string

const (
	// DecisionKeepAsIs фиксирует ключ как собственную замену
	DecisionKeepAsIs DecisionKind = "keep_as_is"
	// DecisionSelect выбирает замену из кандидатов кластера
	DecisionSelect DecisionKind = "select"
	// DecisionCustom задает произвольную замену
	DecisionCustom DecisionKind = "custom"
)

// Decision — решение оператора по одному ключу
type Decision struct {
	Kind  DecisionKind `json:"kind"`
	Value string       `json:"value,omitempty"`
}

// MappingStore хранит подтвержденные соответствия «ключ — замена».
// Хранилище только растет: подтвержденное соответствие нельзя удалить,
// его можно лишь переписать новым решением.
type MappingStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMappingStore создает пустое хранилище
func NewMappingStore() *MappingStore {
	return &MappingStore{
		entries: make(map[string]string),
	}
}

// Merge вливает внешние соответствия; для уже известных ключей
// внешнее значение имеет приоритет
func (ms *MappingStore) Merge(external map[string]string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for key, replacement := range external {
		ms.entries[key] = replacement
	}
}

// Resolve фиксирует решение оператора по ключу. Пустая замена
// (после обрезки пробелов) отклоняется, хранилище не изменяется.
func (ms *MappingStore) Resolve(key string, decision Decision) error {
	var replacement string

	switch decision.Kind {
	case DecisionKeepAsIs:
		replacement = key
	case DecisionSelect, DecisionCustom:
		replacement = decision.Value
	default:
		return fmt.Errorf("unknown decision kind %q", decision.Kind)
	}

	if strings.TrimSpace(replacement) == "" {
		return ErrBlankReplacement
	}

	ms.mu.Lock()
	ms.entries[key] = replacement
	ms.mu.Unlock()

	return nil
}

// Replacement возвращает подтвержденную замену для ключа
func (ms *MappingStore) Replacement(key string) (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	replacement, ok := ms.entries[key]
	return replacement, ok
}

// Apply возвращает замену для ключа или сам ключ, если решения еще нет
func (ms *MappingStore) Apply(key string) string {
	if replacement, ok := ms.Replacement(key); ok {
		return replacement
	}
	return key
}

// Contains сообщает, есть ли для ключа подтвержденная замена
func (ms *MappingStore) Contains(key string) bool {
	_, ok := ms.Replacement(key)
	return ok
}

// Len возвращает число подтвержденных соответствий
func (ms *MappingStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}

// Keys возвращает отсортированный список подтвержденных ключей
func (ms *MappingStore) Keys() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.entries))
	for key := range ms.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot возвращает копию всех соответствий
func (ms *MappingStore) Snapshot() map[string]string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	snapshot := make(map[string]string, len(ms.entries))
	for key, replacement := range ms.entries {
		snapshot[key] = replacement
	}
	return snapshot
}

// ParseMapping разбирает файл соответствий: JSON-объект со строковыми
// ключами и значениями. Любое отклонение формата — *ParseError.
func ParseMapping(data []byte) (map[string]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ParseError{Reason: "empty mapping file"}
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, &ParseError{Reason: "malformed JSON object", Err: err}
	}

	if mapping == nil {
		return nil, &ParseError{Reason: "mapping must be a JSON object"}
	}

	return mapping, nil
}

// SerializeMapping сериализует соответствия в JSON с отсортированными
// ключами; ParseMapping(SerializeMapping(m)) возвращает исходные данные
func SerializeMapping(mapping map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize mapping: %w", err)
	}
	return data, nil
}
