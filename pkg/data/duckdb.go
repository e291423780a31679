package data

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const cardsSchema = `
CREATE TABLE IF NOT EXISTS cards (
	name        VARCHAR PRIMARY KEY,
	position    INTEGER NOT NULL,
	attribute   VARCHAR,
	level       VARCHAR,
	card_type   VARCHAR,
	atk         VARCHAR,
	defense     VARCHAR,
	description VARCHAR,
	rarity      VARCHAR,
	extra       VARCHAR
)`

// InitDuckDB opens (or creates) the analytics database at path.
// An empty path opens an in-memory database.
func InitDuckDB(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(cardsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository mirrors the card catalog into DuckDB for ad-hoc queries and stats.
type Repository struct {
	db *sql.DB
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// ReplaceCards swaps the table contents for cards, keeping their order.
func (r *Repository) ReplaceCards(cards []*Card) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO cards
		(name, position, attribute, level, card_type, atk, defense, description, rarity, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, card := range cards {
		extra := ""
		if len(card.Extra) > 0 {
			raw, err := json.Marshal(card.Extra)
			if err != nil {
				return err
			}
			extra = string(raw)
		}
		if _, err := stmt.Exec(card.Name, i, card.Attribute, card.Level, card.CardType,
			card.ATK, card.DEF, card.Description, card.Rarity, extra); err != nil {
			return fmt.Errorf("failed to insert card %q: %w", card.Name, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) ListCards() ([]*Card, error) {
	rows, err := r.db.Query(`SELECT name, attribute, level, card_type, atk, defense,
		description, rarity, extra FROM cards ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		var card Card
		var extra sql.NullString
		if err := rows.Scan(&card.Name, &card.Attribute, &card.Level, &card.CardType,
			&card.ATK, &card.DEF, &card.Description, &card.Rarity, &extra); err != nil {
			return nil, err
		}
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &card.Extra); err != nil {
				return nil, fmt.Errorf("card %q: bad extra column: %w", card.Name, err)
			}
		}
		cards = append(cards, &card)
	}
	return cards, rows.Err()
}

// FieldCount is one row of a grouped count.
type FieldCount struct {
	Value string
	Count int
}

var countableFields = map[string]string{
	"attribute": "attribute",
	"type":      "card_type",
	"rarity":    "rarity",
	"level":     "level",
}

// CountBy groups cards by one of: attribute, type, rarity, level.
func (r *Repository) CountBy(field string) ([]FieldCount, error) {
	column, ok := countableFields[field]
	if !ok {
		return nil, fmt.Errorf("cannot group by %q", field)
	}

	rows, err := r.db.Query(fmt.Sprintf(
		`SELECT %[1]s, COUNT(*) FROM cards GROUP BY %[1]s ORDER BY COUNT(*) DESC, %[1]s`, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldCount
	for rows.Next() {
		var fc FieldCount
		var value sql.NullString
		if err := rows.Scan(&value, &fc.Count); err != nil {
			return nil, err
		}
		fc.Value = value.String
		out = append(out, fc)
	}
	return out, rows.Err()
}
