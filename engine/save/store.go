package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by Get for a slot that does not exist.
var ErrNotFound = errors.New("save not found")

// ErrBadName is returned for slot names that are empty or would resolve
// outside the save directory.
var ErrBadName = errors.New("invalid save name")

// Slot describes a stored snapshot.
type Slot struct {
	Name    string
	ID      string
	SavedAt time.Time
}

// Store keeps snapshots under slot names.
type Store interface {
	Put(ctx context.Context, name string, snap *Snapshot) error
	Get(ctx context.Context, name string) (*Snapshot, error)
	List(ctx context.Context) ([]Slot, error)
	Close() error
}

// FileStore keeps one JSON file per slot in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first Put.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// checkName rejects names holding a path separator or a parent reference.
func checkName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

func (fs *FileStore) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(fs.Dir, name+".json"), nil
}

// Put writes the slot, replacing any previous save of the same name.
func (fs *FileStore) Put(ctx context.Context, name string, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.path(name)
	if err != nil {
		return err
	}
	data, err := Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// Get reads the slot.
func (fs *FileStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := fs.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
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

// List returns every readable slot, sorted by name.
func (fs *FileStore) List(ctx context.Context) ([]Slot, error) {
	entries, err := os.ReadDir(fs.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var slots []Slot
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		snap, err := fs.Get(ctx, name)
		if err != nil {
			continue
		}
		slots = append(slots, Slot{Name: name, ID: snap.ID, SavedAt: snap.SavedAt})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots, nil
}

// Close is a no-op.
func (fs *FileStore) Close() error { return nil }
