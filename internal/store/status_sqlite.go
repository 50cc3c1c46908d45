package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"folio-cli/internal/model"

	_ "modernc.org/sqlite"
)

// StatusStore is the durable per-document read-status record, backed by a
// sqlite file. It is deliberately ignorant of the filesystem: records are keyed
// by library path and a document's deletion does not remove its record. Every
// mutation is a single self-contained upsert (last-write-wins), so calls are
// idempotent under retry and need no surrounding transaction.
type StatusStore struct {
	DBPath string
}

func (st StatusStore) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(st.DBPath) == "" {
		return nil, errors.New("status store: db path not set")
	}
	if err := os.MkdirAll(filepath.Dir(st.DBPath), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", st.DBPath)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is
	// locked" flakiness when a CLI command races the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := st.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (st StatusStore) migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			library_path TEXT UNIQUE NOT NULL,
			original_path TEXT,
			category TEXT NOT NULL DEFAULT 'General',
			title TEXT,
			is_read INTEGER NOT NULL DEFAULT 0,
			date_added_unixms INTEGER NOT NULL,
			last_opened_unixms INTEGER,
			tags_json TEXT,
			notes TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_is_read ON documents(is_read);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Add upserts a record for a newly-added (or newly-discovered) document with
// default unread status. An existing record keeps its read flag and timestamps;
// only category/origin/title are refreshed to the new on-disk truth.
func (st StatusStore) Add(ctx context.Context, libraryPath, category, originalPath, title string) error {
	libraryPath = strings.TrimSpace(libraryPath)
	if libraryPath == "" {
		return errors.New("status store: missing library path")
	}
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO documents(library_path, original_path, category, title, is_read, date_added_unixms)
		VALUES(?, ?, ?, ?, 0, ?)
		ON CONFLICT(library_path) DO UPDATE SET
			original_path = excluded.original_path,
			category      = excluded.category,
			title         = excluded.title
	`, libraryPath, nullIfEmpty(originalPath), category, nullIfEmpty(title), time.Now().UTC().UnixMilli())
	return err
}

// MarkRead flags the document read and stamps last-opened. Unknown paths get a
// fresh record first (upsert), so a mark against a never-added document works.
func (st StatusStore) MarkRead(ctx context.Context, libraryPath string) error {
	return st.setRead(ctx, libraryPath, true)
}

// MarkUnread clears the read flag. The last-opened timestamp is left alone.
func (st StatusStore) MarkUnread(ctx context.Context, libraryPath string) error {
	return st.setRead(ctx, libraryPath, false)
}

func (st StatusStore) setRead(ctx context.Context, libraryPath string, read bool) error {
	libraryPath = strings.TrimSpace(libraryPath)
	if libraryPath == "" {
		return errors.New("status store: missing library path")
	}
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	nowMs := time.Now().UTC().UnixMilli()
	if read {
		_, err = db.ExecContext(ctx, `
			INSERT INTO documents(library_path, category, is_read, date_added_unixms, last_opened_unixms)
			VALUES(?, ?, 1, ?, ?)
			ON CONFLICT(library_path) DO UPDATE SET
				is_read            = 1,
				last_opened_unixms = excluded.last_opened_unixms
		`, libraryPath, categoryFromPath(libraryPath), nowMs, nowMs)
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents(library_path, category, is_read, date_added_unixms)
		VALUES(?, ?, 0, ?)
		ON CONFLICT(library_path) DO UPDATE SET is_read = 0
	`, libraryPath, categoryFromPath(libraryPath), nowMs)
	return err
}

// IsRead reports the read flag for a path. Unknown paths are unread by policy;
// absence is never an error.
func (st StatusStore) IsRead(ctx context.Context, libraryPath string) (bool, error) {
	db, err := st.open(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var read int
	err = db.QueryRowContext(ctx, `SELECT is_read FROM documents WHERE library_path = ?`, libraryPath).Scan(&read)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return read != 0, nil
}

// UpdateLastOpened stamps now as the last-opened time, preserving an existing
// read flag and defaulting a fresh record to unread.
func (st StatusStore) UpdateLastOpened(ctx context.Context, libraryPath string) error {
	libraryPath = strings.TrimSpace(libraryPath)
	if libraryPath == "" {
		return errors.New("status store: missing library path")
	}
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	nowMs := time.Now().UTC().UnixMilli()
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents(library_path, category, is_read, date_added_unixms, last_opened_unixms)
		VALUES(?, ?, 0, ?, ?)
		ON CONFLICT(library_path) DO UPDATE SET last_opened_unixms = excluded.last_opened_unixms
	`, libraryPath, categoryFromPath(libraryPath), nowMs, nowMs)
	return err
}

// Rename points an existing record at a new library path, typically after a
// move between categories. Read state, timestamps, tags and notes all travel
// with the record. A leftover record at the new path is replaced.
func (st StatusStore) Rename(ctx context.Context, oldPath, newPath, newCategory string) error {
	oldPath = strings.TrimSpace(oldPath)
	newPath = strings.TrimSpace(newPath)
	if oldPath == "" || newPath == "" {
		return errors.New("status store: missing library path")
	}
	if strings.TrimSpace(newCategory) == "" {
		newCategory = categoryFromPath(newPath)
	}
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE library_path = ?`, newPath); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET library_path = ?, category = ? WHERE library_path = ?
	`, newPath, newCategory, oldPath); err != nil {
		return err
	}
	return tx.Commit()
}

// SetTags replaces the free-form tags on an existing record.
func (st StatusStore) SetTags(ctx context.Context, libraryPath string, tags []string) error {
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `UPDATE documents SET tags_json = ? WHERE library_path = ?`, string(b), libraryPath)
	return err
}

// SetNotes replaces the free-form notes on an existing record.
func (st StatusStore) SetNotes(ctx context.Context, libraryPath string, notes string) error {
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `UPDATE documents SET notes = ? WHERE library_path = ?`, notes, libraryPath)
	return err
}

// Info returns the full record for a path, or nil when absent.
func (st StatusStore) Info(ctx context.Context, libraryPath string) (*model.StatusRecord, error) {
	db, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	row := db.QueryRowContext(ctx, `
		SELECT library_path, original_path, category, title, is_read,
		       date_added_unixms, last_opened_unixms, tags_json, notes
		FROM documents WHERE library_path = ?
	`, libraryPath)
	rec, err := scanStatusRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns stored records, optionally filtered by category, ordered by
// (category, library path). Stale records for deleted files are included; the
// caller cross-references against the library listing.
func (st StatusStore) List(ctx context.Context, category string) ([]model.StatusRecord, error) {
	db, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT library_path, original_path, category, title, is_read,
	             date_added_unixms, last_opened_unixms, tags_json, notes
	      FROM documents`
	var rows *sql.Rows
	if strings.TrimSpace(category) != "" {
		rows, err = db.QueryContext(ctx, q+` WHERE category = ? ORDER BY category, library_path`, category)
	} else {
		rows, err = db.QueryContext(ctx, q+` ORDER BY category, library_path`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StatusRecord{}
	for rows.Next() {
		rec, err := scanStatusRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadMap returns libraryPath -> read flag for every stored record. The tree
// reconciler uses this to annotate a whole rebuild with one query.
func (st StatusStore) ReadMap(ctx context.Context) (map[string]bool, error) {
	db, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT library_path, is_read FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var path string
		var read int
		if err := rows.Scan(&path, &read); err != nil {
			return nil, err
		}
		out[path] = read != 0
	}
	return out, rows.Err()
}

// Delete removes a record. Deleting an absent path is not an error.
func (st StatusStore) Delete(ctx context.Context, libraryPath string) error {
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM documents WHERE library_path = ?`, libraryPath)
	return err
}

// Prune removes records whose library path is not in the existing set. This is
// the explicit, on-demand cleanup for orphaned records; the reconciler's sync
// pass never deletes anything.
func (st StatusStore) Prune(ctx context.Context, existing map[string]bool) (int, error) {
	recs, err := st.List(ctx, "")
	if err != nil {
		return 0, err
	}
	db, err := st.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	removed := 0
	for _, r := range recs {
		if existing[r.LibraryPath] {
			continue
		}
		res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE library_path = ?`, r.LibraryPath)
		if err != nil {
			return removed, err
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += int(n)
		}
	}
	return removed, nil
}

// Stats aggregates totals over the stored records (not the filesystem).
func (st StatusStore) Stats(ctx context.Context) (model.StatusStats, error) {
	db, err := st.open(ctx)
	if err != nil {
		return model.StatusStats{}, err
	}
	defer db.Close()

	var out model.StatusStats
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&out.Total); err != nil {
		return out, err
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE is_read = 1`).Scan(&out.Read); err != nil {
		return out, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM documents GROUP BY category ORDER BY COUNT(*) DESC, category
	`)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return out, err
		}
		out.ByCategory = append(out.ByCategory, cc)
	}
	return out, rows.Err()
}

func scanStatusRecord(scan func(dest ...any) error) (*model.StatusRecord, error) {
	var (
		rec        model.StatusRecord
		origin     sql.NullString
		title      sql.NullString
		read       int
		addedMs    int64
		openedMs   sql.NullInt64
		tagsJSON   sql.NullString
		notes      sql.NullString
	)
	if err := scan(&rec.LibraryPath, &origin, &rec.Category, &title, &read, &addedMs, &openedMs, &tagsJSON, &notes); err != nil {
		return nil, err
	}
	rec.OriginalPath = origin.String
	rec.Title = title.String
	rec.Read = read != 0
	rec.DateAdded = time.UnixMilli(addedMs).UTC()
	if openedMs.Valid {
		t := time.UnixMilli(openedMs.Int64).UTC()
		rec.LastOpened = &t
	}
	if tagsJSON.Valid && strings.TrimSpace(tagsJSON.String) != "" {
		_ = json.Unmarshal([]byte(tagsJSON.String), &rec.Tags)
	}
	rec.Notes = notes.String
	return &rec, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func categoryFromPath(libraryPath string) string {
	cat := filepath.Base(filepath.Dir(libraryPath))
	if cat == "." || cat == string(filepath.Separator) {
		return DefaultCategory
	}
	return cat
}
