package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"prepserver/database"
	"prepserver/importer"
	"prepserver/normalization"
	apperrors "prepserver/server/errors"
)

// Виды стандартизируемых столбцов
const (
	KindClinicName        = "clinic_name"
	KindIsolatedOrganisms = "isolated_organisms"
)

// Форматы экспорта
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// SessionInfo — сводка сессии для ответов API
type SessionInfo struct {
	ID              string   `json:"id"`
	ColumnName      string   `json:"column_name"`
	Kind            string   `json:"kind"`
	Status          string   `json:"status"`
	PendingClusters int      `json:"pending_clusters"`
	Letters         []string `json:"letters,omitempty"`
}

// KeyDecision — решение оператора по одному ключу
type KeyDecision struct {
	Key   string                     `json:"key"`
	Kind  normalization.DecisionKind `json:"kind"`
	Value string                     `json:"value,omitempty"`
}

// DecisionOutcome — результат применения одного решения
type DecisionOutcome struct {
	Key      string `json:"key"`
	Resolved bool   `json:"resolved"`
	Error    string `json:"error,omitempty"`
}

// ClustersResponse — нерешенные кластеры сессии
type ClustersResponse struct {
	Clusters []normalization.CandidateCluster `json:"clusters"`
	Letters  []string                         `json:"letters,omitempty"`
	Pending  int                              `json:"pending"`
}

// ExportResult — стандартизированная таблица в сериализованном виде
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// sessionState — рабочее состояние активной сессии: загруженная таблица,
// хранилище соответствий и кластеры, построенные при старте
type sessionState struct {
	id       string
	column   string
	kind     string
	table    *importer.Table
	cells    []normalization.Cell
	store    *normalization.MappingStore
	clusters []normalization.CandidateCluster

	clinicCleaner   *normalization.ClinicNameCleaner
	organismCleaner *normalization.OrganismNameCleaner
}

// SessionService управляет жизненным циклом сессий стандартизации.
// Мутации состояния сессий сериализуются общим мьютексом: движок
// синхронный, конкурентных фоновых работ внутри ядра нет.
type SessionService struct {
	mu       sync.Mutex
	db       *database.DB
	grouper  *normalization.DuplicateGrouper
	sessions map[string]*sessionState

	departmentReplacements map[string]string
}

// NewSessionService создает сервис сессий.
// departmentReplacements == nil означает таблицу замен по умолчанию.
func NewSessionService(db *database.DB, departmentReplacements map[string]string) *SessionService {
	return &SessionService{
		db:                     db,
		grouper:                normalization.NewDuplicateGrouper(),
		sessions:               make(map[string]*sessionState),
		departmentReplacements: departmentReplacements,
	}
}

func (s *SessionService) newClinicCleaner() *normalization.ClinicNameCleaner {
	if s.departmentReplacements == nil {
		return normalization.NewClinicNameCleaner()
	}
	return normalization.NewClinicNameCleanerWithReplacements(s.departmentReplacements)
}

// CreateSession загружает таблицу, заполняет хранилище соответствий
// (сначала из завершенных сессий того же вида, затем из внешнего файла —
// внешние записи имеют приоритет), строит кластеры и сохраняет сессию
func (s *SessionService) CreateSession(filename string, tableData []byte, column, kind string, mappingData []byte) (*SessionInfo, error) {
	if kind != KindClinicName && kind != KindIsolatedOrganisms {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown column kind %q", kind), nil)
	}

	table, err := parseTable(filename, tableData)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to load table", err)
	}

	values, err := table.Column(column)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("column %q not found", column), err)
	}
	cells := normalization.CellsFromStrings(values)

	store := normalization.NewMappingStore()

	// Предзаполнение из завершенных сессий того же вида
	seeded, err := s.db.MappingForKind(kind)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load stored mapping", err)
	}
	store.Merge(seeded)

	// Внешний файл соответствий: ошибка разбора фатальна, сессия не создается
	if len(mappingData) > 0 {
		external, err := normalization.ParseMapping(mappingData)
		if err != nil {
			return nil, apperrors.NewValidationError("failed to parse mapping file", err)
		}
		store.Merge(external)
	}

	state := &sessionState{
		id:              uuid.New().String(),
		column:          column,
		kind:            kind,
		table:           table,
		cells:           cells,
		store:           store,
		clinicCleaner:   s.newClinicCleaner(),
		organismCleaner: normalization.NewOrganismNameCleaner(),
	}

	excluded := make(map[string]bool, store.Len())
	for _, key := range store.Keys() {
		excluded[key] = true
	}

	keys := state.keys()
	switch kind {
	case KindClinicName:
		state.clusters = s.grouper.GroupClinicCandidates(keys, excluded)
	case KindIsolatedOrganisms:
		state.clusters = s.grouper.GroupOrganismCandidates(keys, excluded)
	}

	if err := s.db.CreateSession(state.id, column, kind); err != nil {
		return nil, apperrors.NewInternalError("failed to persist session", err)
	}
	if err := s.db.UpsertMappings(state.id, store.Snapshot(), database.MappingSourceSeeded); err != nil {
		return nil, apperrors.NewInternalError("failed to persist seeded mapping", err)
	}

	s.mu.Lock()
	s.sessions[state.id] = state
	s.mu.Unlock()

	info := &SessionInfo{
		ID:              state.id,
		ColumnName:      column,
		Kind:            kind,
		Status:          database.SessionStatusActive,
		PendingClusters: len(state.pendingClusters()),
	}
	if kind == KindIsolatedOrganisms {
		info.Letters = normalization.BatchLetters(keys)
	}

	return info, nil
}

// keys возвращает ключи кластеризации для столбца сессии
func (st *sessionState) keys() []string {
	switch st.kind {
	case KindClinicName:
		applier := normalization.NewClinicNameApplier(st.clinicCleaner, st.store)
		return applier.ClinicKeys(st.cells)
	default:
		applier := normalization.NewOrganismApplier(st.organismCleaner, st.store)
		return applier.OrganismKeys(st.cells)
	}
}

// pendingClusters возвращает кластеры, по которым еще нет решения
func (st *sessionState) pendingClusters() []normalization.CandidateCluster {
	pending := make([]normalization.CandidateCluster, 0, len(st.clusters))
	for _, cluster := range st.clusters {
		if !st.store.Contains(cluster.Key) {
			pending = append(pending, cluster)
		}
	}
	return pending
}

// Clusters возвращает нерешенные кластеры; для микроорганизмов — с
// фильтром по букве партии
func (s *SessionService) Clusters(id, letter string) (*ClustersResponse, error) {
	state, err := s.state(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := state.pendingClusters()

	response := &ClustersResponse{Pending: len(pending)}

	if state.kind == KindIsolatedOrganisms {
		pendingKeys := make([]string, len(pending))
		for i, cluster := range pending {
			pendingKeys[i] = cluster.Key
		}
		response.Letters = normalization.BatchLetters(pendingKeys)

		if letter != "" {
			filtered := make([]normalization.CandidateCluster, 0, len(pending))
			for _, cluster := range pending {
				if firstLetterOf(cluster.Key) == strings.ToUpper(letter) {
					filtered = append(filtered, cluster)
				}
			}
			pending = filtered
		}
	}

	response.Clusters = pending
	return response, nil
}

func firstLetterOf(key string) string {
	r := []rune(key)
	if len(r) == 0 {
		return "#"
	}
	return string(unicode.ToUpper(r[0]))
}

// ApplyDecisions применяет пакет решений оператора. Некорректное решение
// (пустая замена, неизвестный вид) отклоняется для своего ключа и не
// затрагивает остальные; принятые решения сохраняются в базе.
func (s *SessionService) ApplyDecisions(id string, decisions []KeyDecision) ([]DecisionOutcome, int, error) {
	state, err := s.state(id)
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]DecisionOutcome, 0, len(decisions))
	resolved := make(map[string]string, len(decisions))

	for _, decision := range decisions {
		outcome := DecisionOutcome{Key: decision.Key}

		err := state.store.Resolve(decision.Key, normalization.Decision{
			Kind:  decision.Kind,
			Value: decision.Value,
		})
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Resolved = true
			resolved[decision.Key] = state.store.Apply(decision.Key)
		}

		outcomes = append(outcomes, outcome)
	}

	if len(resolved) > 0 {
		if err := s.db.UpsertMappings(id, resolved, database.MappingSourceOperator); err != nil {
			return nil, 0, apperrors.NewInternalError("failed to persist decisions", err)
		}
	}

	pending := len(state.pendingClusters())
	if pending == 0 {
		if err := s.db.UpdateSessionStatus(id, database.SessionStatusCompleted); err != nil {
			return nil, 0, apperrors.NewInternalError("failed to complete session", err)
		}
	}

	return outcomes, pending, nil
}

// Mapping возвращает текущее содержимое хранилища соответствий сессии
func (s *SessionService) Mapping(id string) (map[string]string, error) {
	state, err := s.state(id)
	if err != nil {
		return nil, err
	}
	return state.store.Snapshot(), nil
}

// Export применяет соответствия ко всему столбцу и сериализует таблицу.
// Нерешенные ключи проходят без изменений — это не ошибка.
func (s *SessionService) Export(id, format string) (*ExportResult, error) {
	state, err := s.state(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var column []string
	switch state.kind {
	case KindClinicName:
		applier := normalization.NewClinicNameApplier(state.clinicCleaner, state.store)
		column = applier.ApplyColumn(state.cells)
	default:
		applier := normalization.NewOrganismApplier(state.organismCleaner, state.store)
		column = applier.ApplyColumn(state.cells)
	}

	table, err := state.table.WithReplacedColumn(state.column, column)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to replace column", err)
	}

	var buf bytes.Buffer
	switch format {
	case "", ExportFormatCSV:
		if err := table.WriteCSV(&buf); err != nil {
			return nil, apperrors.NewInternalError("failed to write CSV", err)
		}
		return &ExportResult{
			Filename:    "standardized.csv",
			ContentType: "text/csv",
			Data:        buf.Bytes(),
		}, nil
	case ExportFormatXLSX:
		if err := importer.WriteXLSX(table, &buf); err != nil {
			return nil, apperrors.NewInternalError("failed to write XLSX", err)
		}
		return &ExportResult{
			Filename:    "standardized.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format), nil)
	}
}

// Session возвращает сводку сессии
func (s *SessionService) Session(id string) (*SessionInfo, error) {
	state, err := s.state(id)
	if err != nil {
		return nil, err
	}

	stored, err := s.db.GetSession(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError("session not found", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &SessionInfo{
		ID:              stored.ID,
		ColumnName:      stored.ColumnName,
		Kind:            stored.Kind,
		Status:          stored.Status,
		PendingClusters: len(state.pendingClusters()),
	}, nil
}

// state возвращает рабочее состояние активной сессии
func (s *SessionService) state(id string) (*sessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s is not active", id), nil)
	}
	return state, nil
}

// parseTable выбирает парсер по расширению файла
func parseTable(filename string, data []byte) (*importer.Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return importer.ParseXLSX(bytes.NewReader(data))
	}
	return importer.ParseCSV(bytes.NewReader(data))
}
