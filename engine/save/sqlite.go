package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore keeps snapshots in a single sqlite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and prepares the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping save database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init save schema: %w", err)
	}
	return store, nil
}

func (st *SQLiteStore) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS saves (
		name     TEXT PRIMARY KEY,
		id       TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		data     BLOB NOT NULL
	);`
	_, err := st.db.ExecContext(ctx, schema)
	return err
}

// Put inserts or replaces the slot.
func (st *SQLiteStore) Put(ctx context.Context, name string, snap *Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	const query = `
	INSERT INTO saves (name, id, saved_at, data) VALUES (?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE SET id = excluded.id, saved_at = excluded.saved_at, data = excluded.data`
	if _, err := st.db.ExecContext(ctx, query, name, snap.ID, snap.SavedAt.Format(time.RFC3339Nano), data); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// Get reads the slot.
func (st *SQLiteStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	var data []byte
	err := st.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode save %q: %w", name, err)
	}
	return snap, nil
}

// List returns every slot, sorted by name.
func (st *SQLiteStore) List(ctx context.Context) ([]Slot, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT name, id, saved_at FROM saves ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var saved string
		if err := rows.Scan(&sl.Name, &sl.ID, &saved); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		sl.SavedAt, _ = time.Parse(time.RFC3339Nano, saved)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// Close closes the database.
func (st *SQLiteStore) Close() error {
	return st.db.Close()
}
