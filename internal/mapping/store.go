// Package mapping persists the durable table from test identifiers to Azure
// DevOps work item ids.
//
// The table lives in a single JSON file keyed by test identifier. Writes are
// whole-file overwrites with no locking, so only one writer may mutate the
// store at a time; during a run the registration commands are the sole
// writers and the synchronizer only reads.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/config"
	"github.com/teppoaland/sbsaa/pkg/types"
)

// FileName is the mapping file inside the config directory.
const FileName = "test_mapping.json"

// Store is the file-backed mapping table. Load it once, then use Get for
// lookups; Add persists the whole table back immediately.
type Store struct {
	path    string
	cfg     *config.Config
	logger  *zap.Logger
	entries map[string]types.MappingEntry
}

// NewStore loads the mapping table from configDir. An absent file yields an
// empty store. A file that exists but cannot be parsed is logged and treated
// as empty; test execution correctness is never affected by a corrupt
// mapping file.
func NewStore(configDir string, cfg *config.Config, logger *zap.Logger) *Store {
	s := &Store{
		path:    filepath.Join(configDir, FileName),
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]types.MappingEntry),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read mapping file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var entries map[string]types.MappingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("mapping file is corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(fmt.Errorf("%w: %w", types.ErrMappingCorrupt, err)))
		return
	}

	for testID, entry := range entries {
		entry.TestID = testID
		s.entries[testID] = entry
	}
}

// Add inserts or overwrites the entry for testID, computes its canonical
// work item URL, and immediately persists the entire table.
func (s *Store) Add(testID string, workItemID int, workItemType string) error {
	s.entries[testID] = types.MappingEntry{
		TestID:       testID,
		WorkItemID:   workItemID,
		WorkItemType: workItemType,
		URL:          s.cfg.WorkItemURL(workItemID),
	}
	return s.persist()
}

// Get returns the work item id mapped to testID.
func (s *Store) Get(testID string) (int, bool) {
	entry, ok := s.entries[testID]
	if !ok {
		return 0, false
	}
	return entry.WorkItemID, true
}

// Entry returns the full mapping entry for testID.
func (s *Store) Entry(testID string) (types.MappingEntry, bool) {
	entry, ok := s.entries[testID]
	return entry, ok
}

// Require returns the entry for testID or ErrNoMapping. Use it where an
// absent mapping is an error rather than the skip-sync signal.
func (s *Store) Require(testID string) (types.MappingEntry, error) {
	entry, ok := s.entries[testID]
	if !ok {
		return types.MappingEntry{}, fmt.Errorf("%w: %s", types.ErrNoMapping, testID)
	}
	return entry, nil
}

// All returns a copy of every entry, keyed by test identifier.
func (s *Store) All() map[string]types.MappingEntry {
	out := make(map[string]types.MappingEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of mapped tests.
func (s *Store) Len() int {
	return len(s.entries)
}

// persist writes the whole table back to disk.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create mapping dir: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}
