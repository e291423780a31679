package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitDuckDBCardsSchema(t *testing.T) {
	db, err := InitDuckDB(filepath.Join(t.TempDir(), "cards.duckdb"))
	if err != nil {
		t.Fatalf("InitDuckDB: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT column_name FROM information_schema.columns WHERE table_name = 'cards' ORDER BY ordinal_position`)
	if err != nil {
		t.Fatalf("listing columns: %v", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		columns = append(columns, name)
	}

	want := []string{"name", "position", "attribute", "level", "card_type", "atk", "defense", "description", "rarity", "extra"}
	if len(columns) != len(want) {
		t.Fatalf("columns = %v, want %v", columns, want)
	}
	for i := range want {
		if columns[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, columns[i], want[i])
		}
	}
}

func TestInitDuckDBReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", "cards.duckdb")

	db, err := InitDuckDB(path)
	if err != nil {
		t.Fatalf("InitDuckDB: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO cards (name, position) VALUES ('Kuriboh', 0)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	db, err = InitDuckDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}

func TestInitDuckDBInMemory(t *testing.T) {
	db, err := InitDuckDB("")
	if err != nil {
		t.Fatalf("in-memory: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("fresh in-memory table has %d rows", n)
	}
}
