package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Статусы сессии стандартизации
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusAborted   = "aborted"
)

// Источники записей соответствий
const (
	MappingSourceSeeded   = "seeded"
	MappingSourceOperator = "operator"
)

// ErrSessionNotFound возвращается, когда сессия с данным id отсутствует
var ErrSessionNotFound = errors.New("session not found")

// Session — одна сессия стандартизации: один столбец, один запуск
type Session struct {
	ID         string    `json:"id"`
	ColumnName string    `json:"column_name"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// migrate создает таблицы сессий и соответствий
func (db *DB) migrate() error {
	log.Println("Running migration: creating standardization session tables...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			column_name TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('clinic_name', 'isolated_organisms')),
			status TEXT NOT NULL CHECK(status IN ('active', 'completed', 'aborted')) DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS session_mappings (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			replacement TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('seeded', 'operator')),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(session_id, key),
			FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_kind ON sessions(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_session_mappings_session_id ON session_mappings(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			errStr := strings.ToLower(err.Error())
			if !strings.Contains(errStr, "already exists") {
				return fmt.Errorf("migration failed: %w", err)
			}
		}
	}

	return nil
}

// CreateSession сохраняет новую сессию
func (db *DB) CreateSession(id, columnName, kind string) error {
	_, err := db.conn.Exec(`
		INSERT INTO sessions (id, column_name, kind, status)
		VALUES (?, ?, ?, ?)
	`, id, columnName, kind, SessionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession возвращает сессию по id
func (db *DB) GetSession(id string) (*Session, error) {
	row := db.conn.QueryRow(`
		SELECT id, column_name, kind, status, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`, id)

	var s Session
	err := row.Scan(&s.ID, &s.ColumnName, &s.Kind, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	return &s, nil
}

// ListSessions возвращает все сессии, новые первыми
func (db *DB) ListSessions() ([]Session, error) {
	rows, err := db.conn.Query(`
		SELECT id, column_name, kind, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ColumnName, &s.Kind, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// UpdateSessionStatus переводит сессию в новый статус
func (db *DB) UpdateSessionStatus(id, status string) error {
	result, err := db.conn.Exec(`
		UPDATE sessions
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// UpsertMappings сохраняет пакет соответствий сессии в одной транзакции;
// повторная запись ключа перезаписывает замену и источник
func (db *DB) UpsertMappings(sessionID string, mapping map[string]string, source string) error {
	if len(mapping) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO session_mappings (session_id, key, replacement, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			replacement = excluded.replacement,
			source = excluded.source
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare mapping upsert: %w", err)
	}
	defer stmt.Close()

	for key, replacement := range mapping {
		if _, err := stmt.Exec(sessionID, key, replacement, source); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert mapping for key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mappings: %w", err)
	}

	return nil
}

// SessionMapping возвращает все соответствия сессии
func (db *DB) SessionMapping(sessionID string) (map[string]string, error) {
	rows, err := db.conn.Query(`
		SELECT key, replacement
		FROM session_mappings
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session mapping: %w", err)
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var key, replacement string
		if err := rows.Scan(&key, &replacement); err != nil {
			return nil, fmt.Errorf("failed to scan mapping entry: %w", err)
		}
		mapping[key] = replacement
	}

	return mapping, rows.Err()
}

// MappingForKind собирает соответствия всех завершенных сессий данного вида;
// более поздние сессии имеют приоритет. Используется для предзаполнения
// хранилища новой сессии.
func (db *DB) MappingForKind(kind string) (map[string]string, error) {
	rows, err := db.conn.Query(`
		SELECT m.key, m.replacement
		FROM session_mappings m
		JOIN sessions s ON s.id = m.session_id
		WHERE s.kind = ? AND s.status = ?
		ORDER BY s.created_at ASC, s.id ASC
	`, kind, SessionStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping for kind %s: %w", kind, err)
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var key, replacement string
		if err := rows.Scan(&key, &replacement); err != nil {
			return nil, fmt.Errorf("failed to scan mapping entry: %w", err)
		}
		mapping[key] = replacement
	}

	return mapping, rows.Err()
}
