// Package snapshot stores golden values for ToMatchSnapshot and compares new
// values against them.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Store loads and saves recorded values by snapshot id.
type Store interface {
	// Load returns the value recorded under id, or false when there is none.
	Load(id string) (any, bool, error)
	Save(id string, v any) error
}

// Mode decides what Compare does with missing and mismatching snapshots.
type Mode int

const (
	// ModeRecordNew saves missing snapshots and fails on mismatches.
	ModeRecordNew Mode = iota
	// ModeUpdate saves missing snapshots and overwrites mismatching ones.
	ModeUpdate
	// ModeStrict fails on missing snapshots as well as on mismatches.
	ModeStrict
)

// Result is the outcome of one snapshot comparison.
type Result struct {
	Passed     bool
	Message    string
	Expected   any
	Actual     any
	IsNew      bool
	WasUpdated bool
}

// Compare checks actual against the value stored under id. Both sides are
// normalized through JSON first, so a map[string]int and the
// map[string]any read back from disk compare equal.
func Compare(store Store, id string, actual any, mode Mode) (*Result, error) {
	normalized, err := Normalize(actual)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	result := &Result{Actual: normalized}

	expected, exists, err := store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}

	if !exists {
		if mode == ModeStrict {
			result.Message = "snapshot does not exist (run with --update-snapshots to create)"
			return result, nil
		}
		if err := store.Save(id, normalized); err != nil {
			return nil, fmt.Errorf("failed to save snapshot %s: %w", id, err)
		}
		result.Passed = true
		result.IsNew = true
		result.Expected = normalized
		result.Message = "new snapshot created"
		return result, nil
	}

	expected, err = Normalize(expected)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	result.Expected = expected

	if equality.ValueEqual(expected, normalized) {
		result.Passed = true
		return result, nil
	}

	if mode == ModeUpdate {
		if err := store.Save(id, normalized); err != nil {
			return nil, fmt.Errorf("failed to update snapshot %s: %w", id, err)
		}
		result.Passed = true
		result.WasUpdated = true
		result.Message = "snapshot updated"
		return result, nil
	}

	result.Message = "snapshot mismatch"
	return result, nil
}

// Normalize round-trips v through JSON.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON serializable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Key builds a snapshot id from the owning check and an optional snapshot
// name. Anonymous snapshots are keyed by a hash of the value.
func Key(checkName, snapshotName string, v any) string {
	if snapshotName != "" {
		return fmt.Sprintf("%s::%s", checkName, snapshotName)
	}
	if checkName != "" {
		return checkName
	}
	hash := sha256.Sum256([]byte(value.Export(v)))
	return "anon_" + hex.EncodeToString(hash[:8])
}
