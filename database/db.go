package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB обертка над подключением к базе данных сессий стандартизации
type DB struct {
	conn *sql.DB
}

// NewDB открывает базу данных и выполняет миграции
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite плохо справляется с большим количеством одновременных соединений
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(3)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Включаем поддержку FOREIGN KEY constraints в SQLite
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// WAL позволяет множественным читателям работать одновременно без блокировок
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Conn возвращает низкоуровневое подключение
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close закрывает подключение к базе данных
func (db *DB) Close() error {
	return db.conn.Close()
}
