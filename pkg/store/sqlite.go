package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS models (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	population    TEXT NOT NULL DEFAULT '',
	timestamp     INTEGER NOT NULL DEFAULT 0,
	elements      INTEGER NOT NULL DEFAULT 0,
	relationships INTEGER NOT NULL DEFAULT 0,
	body          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS models_timestamp ON models(timestamp DESC);
`

// SQLiteStore keeps documents as JSON rows in a local SQLite file. Counts
// are denormalized on write so List never decodes bodies.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]ModelSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, population, timestamp, elements, relationships
		FROM models ORDER BY timestamp DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []ModelSummary
	for rows.Next() {
		var m ModelSummary
		if err := rows.Scan(&m.ID, &m.Name, &m.Population, &m.Timestamp, &m.Elements, &m.Relationships); err != nil {
			return nil, fmt.Errorf("scan model summary: %w", err)
		}
		m.Date = FormatDate(m.Timestamp)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*document.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM models WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get model %s: %w", id, err)
	}
	return document.Unmarshal([]byte(body))
}

func (s *SQLiteStore) Put(ctx context.Context, id string, doc *document.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := apperr.ValidateStorageID(id); err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	sum := Summarize(id, doc)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO models (id, name, population, timestamp, elements, relationships, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			population = excluded.population,
			timestamp = excluded.timestamp,
			elements = excluded.elements,
			relationships = excluded.relationships,
			body = excluded.body`,
		id, sum.Name, sum.Population, sum.Timestamp, sum.Elements, sum.Relationships, string(body))
	if err != nil {
		return "", fmt.Errorf("put model %s: %w", id, err)
	}
	return id, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete model %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
