package gamedata

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store caches static game data in a local SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultCachePath returns <user config dir>/draftmate/gamedata.db
func DefaultCachePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "draftmate", "gamedata.db")
}

// OpenStore opens (and creates if needed) the cache at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS queues (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			map_name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS maps (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS champions (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			alias TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS assets (
			kind TEXT NOT NULL,
			id INTEGER NOT NULL,
			icon_path TEXT NOT NULL,
			PRIMARY KEY (kind, id)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

const (
	assetItem  = "item"
	assetSpell = "spell"
	assetPerk  = "perk"
)

// Save replaces the cached tables with snap in one transaction.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"queues", "maps", "champions", "assets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for id, q := range snap.Queues {
		if _, err := tx.ExecContext(ctx, "INSERT INTO queues (id, name, map_name) VALUES (?, ?, ?)", id, q.Name, q.MapName); err != nil {
			return fmt.Errorf("failed to insert queue %d: %w", id, err)
		}
	}
	for id, name := range snap.Maps {
		if _, err := tx.ExecContext(ctx, "INSERT INTO maps (id, name) VALUES (?, ?)", id, name); err != nil {
			return fmt.Errorf("failed to insert map %d: %w", id, err)
		}
	}
	for id, c := range snap.Champions {
		if _, err := tx.ExecContext(ctx, "INSERT INTO champions (id, name, alias) VALUES (?, ?, ?)", id, c.Name, c.Alias); err != nil {
			return fmt.Errorf("failed to insert champion %d: %w", id, err)
		}
	}

	assets := map[string]map[int]string{
		assetItem:  snap.Items,
		assetSpell: snap.Spells,
		assetPerk:  snap.Perks,
	}
	for kind, table := range assets {
		for id, path := range table {
			if _, err := tx.ExecContext(ctx, "INSERT INTO assets (kind, id, icon_path) VALUES (?, ?, ?)", kind, id, path); err != nil {
				return fmt.Errorf("failed to insert %s %d: %w", kind, id, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the cached tables. An empty cache yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := newSnapshot()

	if err := s.each(ctx, "SELECT id, name, map_name FROM queues", func(rows *sql.Rows) error {
		var id int
		var q QueueInfo
		if err := rows.Scan(&id, &q.Name, &q.MapName); err != nil {
			return err
		}
		snap.Queues[id] = q
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.each(ctx, "SELECT id, name FROM maps", func(rows *sql.Rows) error {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		snap.Maps[id] = name
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.each(ctx, "SELECT id, name, alias FROM champions", func(rows *sql.Rows) error {
		var c Champion
		if err := rows.Scan(&c.ID, &c.Name, &c.Alias); err != nil {
			return err
		}
		snap.Champions[c.ID] = c
		return nil
	}); err != nil {
		return nil, err
	}

	tables := map[string]map[int]string{
		assetItem:  snap.Items,
		assetSpell: snap.Spells,
		assetPerk:  snap.Perks,
	}
	if err := s.each(ctx, "SELECT kind, id, icon_path FROM assets", func(rows *sql.Rows) error {
		var kind, path string
		var id int
		if err := rows.Scan(&kind, &id, &path); err != nil {
			return err
		}
		if t, ok := tables[kind]; ok {
			t[id] = path
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) each(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}
	return rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
