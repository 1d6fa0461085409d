// Package users persists the user profile store as a single JSON document.
//
// Two on-disk shapes are accepted: the current one,
// {"alice": {"password": "<hex>", "default_city": "Pune"|null}}, and the
// legacy one where the value is the bare digest string. Legacy or incomplete
// entries are normalized on load and the document is rewritten once, so later
// loads find nothing left to upgrade.
package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

const (
	fieldPassword    = "password"
	fieldDefaultCity = "default_city"
)

// FileRepository is a Repository backed by one JSON file. It serializes its
// own reads and writes so a single process never tears the file; it does not
// coordinate with other processes.
type FileRepository struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

func NewFileRepository(path string, logger logging.Logger) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger.With("module", "user_store", "path", path),
	}
}

// Path is the location of the backing document.
func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load(ctx context.Context) (models.UserStore, error) {
	store, _, err := r.load(ctx)
	return store, err
}

// Upgrade loads the document, normalizing it if needed, and reports how many
// entries had to be upgraded.
func (r *FileRepository) Upgrade(ctx context.Context) (int, error) {
	_, upgraded, err := r.load(ctx)
	return upgraded, err
}

func (r *FileRepository) load(ctx context.Context) (models.UserStore, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		store := models.UserStore{}
		if err := r.write(store); err != nil {
			return nil, 0, err
		}
		r.logger.Info(ctx, "created empty user document")
		return store, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read user document: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.UserStore{}, 0, fmt.Errorf("%w: %s: %v", common.ErrStorageCorrupt, r.path, err)
	}

	store, upgraded := normalize(raw)
	if upgraded > 0 {
		if err := r.write(store); err != nil {
			return nil, 0, err
		}
		r.logger.Info(ctx, "user document upgraded", "records", upgraded)
	}

	return store, upgraded, nil
}

func (r *FileRepository) Save(ctx context.Context, store models.UserStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(store)
}

// write overwrites the document in place. A crash mid-write can leave a
// truncated file; the next Load reports it as ErrStorageCorrupt.
func (r *FileRepository) write(store models.UserStore) error {
	if store == nil {
		store = models.UserStore{}
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o770); err != nil {
		return fmt.Errorf("write user document: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write user document: %w", err)
	}
	return nil
}

// normalize converts every raw entry to a UserRecord and returns how many
// entries were not already in canonical form.
func normalize(raw map[string]json.RawMessage) (models.UserStore, int) {
	store := make(models.UserStore, len(raw))
	upgraded := 0

	for name, value := range raw {
		rec, changed := normalizeRecord(value)
		rec.Username = name
		store[name] = rec
		if changed {
			upgraded++
		}
	}

	return store, upgraded
}

func normalizeRecord(value json.RawMessage) (models.UserRecord, bool) {
	if isNull(value) {
		return models.UserRecord{}, true
	}

	// legacy shape: username -> digest
	var digest string
	if err := json.Unmarshal(value, &digest); err == nil {
		return models.UserRecord{PasswordHash: digest}, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil || fields == nil {
		// neither a string nor an object; keep the user, drop the garbage
		return models.UserRecord{}, true
	}

	var rec models.UserRecord
	changed := false

	if p, ok := fields[fieldPassword]; !ok || isNull(p) || json.Unmarshal(p, &rec.PasswordHash) != nil {
		rec.PasswordHash = ""
		changed = true
	}

	c, ok := fields[fieldDefaultCity]
	if !ok {
		changed = true
	} else {
		var city *string
		if err := json.Unmarshal(c, &city); err != nil {
			changed = true
		} else {
			rec.DefaultCity = city
		}
	}

	return rec, changed
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
