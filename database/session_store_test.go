package database

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestDB_CreateAndGetSession(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSession("sess-1", "Isolated Organisms", "isolated_organisms"); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	session, err := db.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession() failed: %v", err)
	}
	if session.ColumnName != "Isolated Organisms" {
		t.Errorf("ColumnName = %q", session.ColumnName)
	}
	if session.Kind != "isolated_organisms" {
		t.Errorf("Kind = %q", session.Kind)
	}
	if session.Status != SessionStatusActive {
		t.Errorf("Status = %q, want %q", session.Status, SessionStatusActive)
	}
	if session.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestDB_GetSession_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetSession("missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestDB_UpdateSessionStatus(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSession("sess-1", "Clinic Name", "clinic_name"); err != nil {
		t.Fatal(err)
	}

	if err := db.UpdateSessionStatus("sess-1", SessionStatusCompleted); err != nil {
		t.Fatalf("UpdateSessionStatus() failed: %v", err)
	}

	session, err := db.GetSession("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != SessionStatusCompleted {
		t.Errorf("Status = %q, want %q", session.Status, SessionStatusCompleted)
	}

	if err := db.UpdateSessionStatus("missing", SessionStatusCompleted); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for missing session, got %v", err)
	}
}

func TestDB_UpsertMappings(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSession("sess-1", "Isolated Organisms", "isolated_organisms"); err != nil {
		t.Fatal(err)
	}

	seeded := map[string]string{"E coli": "E coli"}
	if err := db.UpsertMappings("sess-1", seeded, MappingSourceSeeded); err != nil {
		t.Fatalf("UpsertMappings() failed: %v", err)
	}

	// Решение оператора перезаписывает запись по тому же ключу
	operator := map[string]string{
		"E coli":     "Escherichia coli",
		"Klebsiella": "Klebsiella pneumoniae",
	}
	if err := db.UpsertMappings("sess-1", operator, MappingSourceOperator); err != nil {
		t.Fatalf("UpsertMappings() failed: %v", err)
	}

	mapping, err := db.SessionMapping("sess-1")
	if err != nil {
		t.Fatalf("SessionMapping() failed: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %v", len(mapping), mapping)
	}
	if mapping["E coli"] != "Escherichia coli" {
		t.Errorf("Upsert did not overwrite entry: %q", mapping["E coli"])
	}
}

func TestDB_MappingForKind(t *testing.T) {
	db := newTestDB(t)

	// Завершенная сессия — источник предзаполнения
	if err := db.CreateSession("old", "Isolated Organisms", "isolated_organisms"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertMappings("old", map[string]string{"E coli": "Escherichia coli"}, MappingSourceOperator); err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateSessionStatus("old", SessionStatusCompleted); err != nil {
		t.Fatal(err)
	}

	// Активная сессия не участвует
	if err := db.CreateSession("active", "Isolated Organisms", "isolated_organisms"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertMappings("active", map[string]string{"Staph": "Staphylococcus"}, MappingSourceOperator); err != nil {
		t.Fatal(err)
	}

	// Сессии другого вида не участвуют
	if err := db.CreateSession("clinic", "Clinic Name", "clinic_name"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertMappings("clinic", map[string]string{"Main St": "Main Street"}, MappingSourceOperator); err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateSessionStatus("clinic", SessionStatusCompleted); err != nil {
		t.Fatal(err)
	}

	mapping, err := db.MappingForKind("isolated_organisms")
	if err != nil {
		t.Fatalf("MappingForKind() failed: %v", err)
	}
	if len(mapping) != 1 || mapping["E coli"] != "Escherichia coli" {
		t.Errorf("MappingForKind = %v", mapping)
	}
}

func TestDB_ListSessions(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateSession("a", "Clinic Name", "clinic_name"); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateSession("b", "Isolated Organisms", "isolated_organisms"); err != nil {
		t.Fatal(err)
	}

	sessions, err := db.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}
}
