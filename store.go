package inkwell

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/inkwell/content"
)

const settingsID = "settings"

// Store is a SQLite-backed content source. Entries are kept as JSON
// documents keyed by collection and id, and are filled by Import.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during an import; busy_timeout makes a writer
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
`)
	return err
}

// Put inserts or replaces one entry.
func (s *Store) Put(ctx context.Context, collection, id string, v any) error {
	return putEntry(ctx, s.db, collection, id, 0, v)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putEntry(ctx context.Context, db execer, collection, id string, position int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO entries (collection, id, position, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET position = excluded.position, body = excluded.body`,
		collection, id, position, string(body))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes one entry. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE collection = ? AND id = ?`, collection, id)
	return err
}

// Count returns the number of entries in collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE collection = ?`, collection).Scan(&n)
	return n, err
}

// ImportStats reports how many entries Import wrote per collection.
type ImportStats map[string]int

// Import replaces the store's contents with every collection of snap in a
// single transaction. Collection order is preserved.
func (s *Store) Import(ctx context.Context, snap *content.Snapshot) (ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return nil, fmt.Errorf("clear entries: %w", err)
	}

	stats := ImportStats{}
	put := func(collection, id string, i int, v any) error {
		stats[collection]++
		return putEntry(ctx, tx, collection, id, i, v)
	}
	for i, v := range snap.Posts {
		if err := put(content.DirPosts, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.Authors {
		if err := put(content.DirAuthors, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.Categories {
		if err := put(content.DirCategories, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.Tags {
		if err := put(content.DirTags, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.Pages {
		if err := put(content.DirPages, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.AffiliateCategories {
		if err := put(content.DirAffiliateCategories, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	for i, v := range snap.AffiliateProducts {
		if err := put(content.DirAffiliateProducts, v.ID, i, v); err != nil {
			return nil, err
		}
	}
	if err := put(content.DirSettings, settingsID, 0, snap.Settings); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stats, nil
}

func list[T any](ctx context.Context, s *Store, collection string) ([]T, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM entries WHERE collection = ? ORDER BY position, id`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Posts(ctx context.Context) ([]content.Post, error) {
	return list[content.Post](ctx, s, content.DirPosts)
}

func (s *Store) Authors(ctx context.Context) ([]content.Author, error) {
	return list[content.Author](ctx, s, content.DirAuthors)
}

func (s *Store) Categories(ctx context.Context) ([]content.Category, error) {
	return list[content.Category](ctx, s, content.DirCategories)
}

func (s *Store) Tags(ctx context.Context) ([]content.Tag, error) {
	return list[content.Tag](ctx, s, content.DirTags)
}

func (s *Store) Pages(ctx context.Context) ([]content.Page, error) {
	return list[content.Page](ctx, s, content.DirPages)
}

func (s *Store) AffiliateCategories(ctx context.Context) ([]content.AffiliateCategory, error) {
	return list[content.AffiliateCategory](ctx, s, content.DirAffiliateCategories)
}

func (s *Store) AffiliateProducts(ctx context.Context) ([]content.AffiliateProduct, error) {
	return list[content.AffiliateProduct](ctx, s, content.DirAffiliateProducts)
}

// Settings returns the stored settings, or an error wrapping
// content.ErrNotFound when none were imported.
func (s *Store) Settings(ctx context.Context) (content.Settings, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM entries WHERE collection = ? AND id = ?`, content.DirSettings, settingsID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Settings{}, fmt.Errorf("settings: %w", content.ErrNotFound)
	}
	if err != nil {
		return content.Settings{}, err
	}
	var settings content.Settings
	if err := json.Unmarshal([]byte(body), &settings); err != nil {
		return content.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}
