// Package migrations tracks schema migration files and which of them have
// been applied. The relational backend's schema is managed through its own
// dashboard, so this package only does bookkeeping: it never executes SQL.
package migrations

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/simonbeirouti/aura/internal/infrastructure/vault"
)

const migrationStoreName = "migrations"
const appliedKey = "applied_migrations"

// Migration is one .sql file in the migrations directory. The id is the
// filename without extension; files apply in lexicographic order.
type Migration struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Checksum  string  `json:"checksum"`
	AppliedAt *string `json:"applied_at,omitempty"`
}

// Status summarizes the migration state for diagnostics.
type Status struct {
	TotalMigrations   int      `json:"total_migrations"`
	AppliedMigrations int      `json:"applied_migrations"`
	Pending           []string `json:"pending"`
	LastApplied       *string  `json:"last_applied,omitempty"`
}

// Tracker reads migration files from a directory and records applied ids in
// a sealed store.
type Tracker struct {
	dir   string
	vault *vault.Vault
}

func NewTracker(dir string, v *vault.Vault) *Tracker {
	return &Tracker{dir: dir, vault: v}
}

// Load returns the migrations present on disk, in apply order.
func (t *Tracker) Load() ([]Migration, error) {
	entries, err := os.ReadDir(t.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(t.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		id := strings.TrimSuffix(e.Name(), ".sql")
		migrations = append(migrations, Migration{
			ID:       id,
			Name:     e.Name(),
			Checksum: checksum(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].ID < migrations[j].ID })
	return migrations, nil
}

// Status compares the files on disk with the applied set.
func (t *Tracker) Status() (*Status, error) {
	migrations, err := t.Load()
	if err != nil {
		return nil, err
	}
	applied, err := t.applied()
	if err != nil {
		return nil, err
	}

	status := &Status{TotalMigrations: len(migrations), AppliedMigrations: len(applied)}
	for _, m := range migrations {
		if _, ok := applied[m.ID]; !ok {
			status.Pending = append(status.Pending, m.ID)
		}
	}

	var last string
	for _, m := range applied {
		if m.AppliedAt != nil && *m.AppliedAt > last {
			last = *m.AppliedAt
		}
	}
	if last != "" {
		status.LastApplied = &last
	}
	return status, nil
}

// MarkApplied records that the named migration has been run against the
// backend. Unknown ids are rejected.
func (t *Tracker) MarkApplied(id string) error {
	migrations, err := t.Load()
	if err != nil {
		return err
	}
	var match *Migration
	for i := range migrations {
		if migrations[i].ID == id {
			match = &migrations[i]
			break
		}
	}
	if match == nil {
		return fmt.Errorf("unknown migration %s", id)
	}

	applied, err := t.applied()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	match.AppliedAt = &now
	applied[id] = *match

	store, err := t.vault.Store(migrationStoreName)
	if err != nil {
		return err
	}
	if err := store.Set(appliedKey, applied); err != nil {
		return err
	}
	return store.Save()
}

// Reset clears the applied set. Used when the backend schema is rebuilt.
func (t *Tracker) Reset() error {
	return t.vault.Remove(migrationStoreName)
}

func (t *Tracker) applied() (map[string]Migration, error) {
	store, err := t.vault.Store(migrationStoreName)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]Migration)
	if raw, ok := store.Get(appliedKey); ok {
		if err := json.Unmarshal(raw, &applied); err != nil {
			return nil, fmt.Errorf("failed to decode applied migrations: %w", err)
		}
	}
	return applied, nil
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
