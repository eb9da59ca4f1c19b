package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
	"github.com/cognicore/kotoba/pkg/kotoba/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("wal: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	japanese TEXT UNIQUE NOT NULL,
	reading TEXT,
	part_of_speech TEXT,
	english TEXT,
	sentence TEXT,
	extra TEXT,
	tags TEXT,
	count INTEGER DEFAULT 0,
	updated_at TEXT
);

CREATE TABLE IF NOT EXISTS ignored_roots (
	root TEXT PRIMARY KEY,
	added_at TEXT
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// ImportEntries upserts dictionary entries by ID in one transaction.
// Entries without an ID get one assigned.
func (s *sqliteStore) ImportEntries(ctx context.Context, entries []lexicon.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entries (id, data) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET data=excluded.data;
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("encode entry %d: %w", e.ID, err)
		}
		var id any
		if e.ID != 0 {
			id = e.ID
		}
		if _, err := stmt.ExecContext(ctx, id, string(data)); err != nil {
			return 0, fmt.Errorf("import entry %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Entries returns every stored entry ordered by ID.
func (s *sqliteStore) Entries(ctx context.Context) ([]lexicon.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM entries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lexicon.Entry
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var e lexicon.Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", id, err)
		}
		e.ID = id
		out = append(out, e)
	}
	return out, rows.Err()
}

// EntryCount returns the number of stored entries.
func (s *sqliteStore) EntryCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// UpsertNote inserts a note or updates the one with the same Japanese
// text. An existing note keeps its ID.
func (s *sqliteStore) UpsertNote(ctx context.Context, n notes.Note) error {
	if strings.TrimSpace(n.Japanese) == "" || n.ID == "" {
		return fmt.Errorf("note needs an id and japanese text: %w", internalerr.ErrInvalidInput)
	}
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO notes (id, japanese, reading, part_of_speech, english, sentence, extra, tags, count, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(japanese) DO UPDATE SET
	reading=excluded.reading,
	part_of_speech=excluded.part_of_speech,
	english=excluded.english,
	sentence=excluded.sentence,
	extra=excluded.extra,
	tags=excluded.tags,
	count=excluded.count,
	updated_at=excluded.updated_at;
`
	_, err = s.db.ExecContext(ctx, stmt,
		n.ID,
		n.Japanese,
		n.Reading,
		n.PartOfSpeech,
		n.English,
		n.Sentence,
		n.Extra,
		string(tags),
		n.Count,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

const noteColumns = `id, japanese, reading, part_of_speech, english, sentence, extra, tags, count`

// GetNote retrieves a note by its Japanese text
func (s *sqliteStore) GetNote(ctx context.Context, japanese string) (notes.Note, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE japanese = ?`, japanese)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return notes.Note{}, false, nil
	}
	if err != nil {
		return notes.Note{}, false, err
	}
	return n, true, nil
}

// ListNotes returns notes by descending count, then Japanese text. A
// non-positive limit returns all of them.
func (s *sqliteStore) ListNotes(ctx context.Context, limit int) ([]notes.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY count DESC, japanese`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notes.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNote removes a note. Deleting a missing note returns ErrNotFound.
func (s *sqliteStore) DeleteNote(ctx context.Context, japanese string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE japanese = ?`, japanese)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %q: %w", japanese, internalerr.ErrNotFound)
	}
	return nil
}

// IgnoreRoot records root as ignored
func (s *sqliteStore) IgnoreRoot(ctx context.Context, root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("empty root: %w", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ignored_roots (root, added_at) VALUES (?, ?)
ON CONFLICT(root) DO NOTHING;
`, root, time.Now().UTC().Format(time.RFC3339))
	return err
}

// UnignoreRoot forgets an ignored root
func (s *sqliteStore) UnignoreRoot(ctx context.Context, root string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ignored_roots WHERE root = ?`, root)
	return err
}

// IgnoredRoots returns every ignored root, sorted
func (s *sqliteStore) IgnoredRoots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT root FROM ignored_roots ORDER BY root`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (notes.Note, error) {
	var (
		n                                          notes.Note
		reading, pos, english, sentence, extra, tg sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Japanese, &reading, &pos, &english, &sentence, &extra, &tg, &n.Count); err != nil {
		return notes.Note{}, err
	}
	n.Reading = reading.String
	n.PartOfSpeech = pos.String
	n.English = english.String
	n.Sentence = sentence.String
	n.Extra = extra.String
	if tg.String != "" && tg.String != "null" {
		if err := json.Unmarshal([]byte(tg.String), &n.Tags); err != nil {
			return notes.Note{}, fmt.Errorf("decode tags of %q: %w", n.Japanese, err)
		}
	}
	return n, nil
}
