// Package corpus stores relation violations as JSON files so they can be
// inspected and replayed after the run that found them.
//
// Each entry lives in its own file named <id>.json under the corpus
// directory. Entries only record what is needed to regenerate the case
// (suite, relation, seed, case index); the inputs and outputs are kept for
// reading, not for replay.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/calvinalkan/mrsuite/pkg/mr"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
	fileExt   = ".json"
)

var (
	ErrNotFound      = errors.New("corpus entry not found")
	ErrAmbiguousID   = errors.New("ambiguous corpus entry id")
	ErrNotReplayable = errors.New("violation has no case index")
	ErrInvalidEntry  = errors.New("invalid corpus entry")
)

// Entry is a saved violation.
type Entry struct {
	ID      string    `json:"id"`
	UUID    string    `json:"uuid"`
	SavedAt time.Time `json:"saved_at"`
	RunID   string    `json:"run_id,omitempty"`

	Suite    string `json:"suite"`
	Relation string `json:"relation"`
	Seed     uint64 `json:"seed"`
	Case     int    `json:"case"`
	Message  string `json:"message"`

	Source      json.RawMessage `json:"source,omitempty"`
	SourceOut   json.RawMessage `json:"source_out,omitempty"`
	FollowUp    json.RawMessage `json:"follow_up,omitempty"`
	FollowUpOut json.RawMessage `json:"follow_up_out,omitempty"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s/%s seed=%d case=%d", e.ID, e.Suite, e.Relation, e.Seed, e.Case)
}

// Save writes v to dir as a new entry and returns it. runID ties entries
// from the same run together and may be empty.
func Save(dir string, v mr.Violation, runID string) (Entry, error) {
	if v.Case < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotReplayable, v)
	}

	id, err := newUUIDv7()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:       shortID(id),
		UUID:     id.String(),
		SavedAt:  uuidTime(id),
		RunID:    runID,
		Suite:    v.Suite,
		Relation: v.Relation,
		Seed:     v.Seed,
		Case:     v.Case,
		Message:  v.Message,
	}

	fields := []struct {
		dst *json.RawMessage
		val any
	}{
		{&entry.Source, v.Source},
		{&entry.SourceOut, v.SourceOut},
		{&entry.FollowUp, v.FollowUp},
		{&entry.FollowUpOut, v.FollowUpOut},
	}

	for _, f := range fields {
		if f.val == nil {
			continue
		}

		raw, marshalErr := json.Marshal(f.val)
		if marshalErr != nil {
			return Entry{}, fmt.Errorf("encode %s/%s case: %w", v.Suite, v.Relation, marshalErr)
		}

		*f.dst = raw
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("encode entry: %w", err)
	}

	data = append(data, '\n')

	mkdirErr := os.MkdirAll(dir, dirPerms)
	if mkdirErr != nil {
		return Entry{}, fmt.Errorf("failed to create corpus directory: %w", mkdirErr)
	}

	path := filepath.Join(dir, entry.ID+fileExt)

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return Entry{}, fmt.Errorf("failed to write corpus entry: %w", writeErr)
	}

	// atomic.WriteFile doesn't set permissions for new files
	chmodErr := os.Chmod(path, filePerms)
	if chmodErr != nil {
		return Entry{}, fmt.Errorf("failed to set file permissions: %w", chmodErr)
	}

	return entry, nil
}

// List returns the readable entries in dir, oldest first. A missing
// directory is an empty corpus.
//
// Files that cannot be read or decoded do not stop the listing; each one
// yields an error in invalid (wrapping [ErrInvalidEntry] for bad contents)
// so callers can report it and carry on. err is only set when the
// directory itself cannot be read.
func List(dir string) (entries []Entry, invalid []error, err error) {
	names, err := entryNames(dir)
	if err != nil {
		return nil, nil, err
	}

	entries = make([]Entry, 0, len(names))

	for _, name := range names {
		entry, readErr := read(filepath.Join(dir, name+fileExt))
		if readErr != nil {
			invalid = append(invalid, readErr)

			continue
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].UUID != entries[j].UUID {
			return entries[i].UUID < entries[j].UUID
		}

		return entries[i].ID < entries[j].ID
	})

	return entries, invalid, nil
}

// Load returns the entry whose id is id or starts with id. Matching is
// case-insensitive.
func Load(dir, id string) (Entry, error) {
	name, err := resolve(dir, id)
	if err != nil {
		return Entry{}, err
	}

	return read(filepath.Join(dir, name+fileExt))
}

// Remove deletes the entry resolved like [Load].
func Remove(dir, id string) error {
	name, err := resolve(dir, id)
	if err != nil {
		return err
	}

	removeErr := os.Remove(filepath.Join(dir, name+fileExt))
	if removeErr != nil {
		return fmt.Errorf("remove corpus entry %s: %w", name, removeErr)
	}

	return nil
}

// Replay regenerates the case behind e with r and re-checks it. It returns
// nil when the relation now holds.
func Replay(r mr.Runner, e Entry) (*mr.Violation, error) {
	if r.Info().Name != e.Suite {
		return nil, fmt.Errorf("%w: entry %s belongs to suite %s, not %s", ErrInvalidEntry, e.ID, e.Suite, r.Info().Name)
	}

	v, err := r.Replay(e.Relation, e.Seed, e.Case)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", e.ID, err)
	}

	return v, nil
}

func resolve(dir, id string) (string, error) {
	id = strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(id), fileExt))
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	names, err := entryNames(dir)
	if err != nil {
		return "", err
	}

	var matches []string

	for _, name := range names {
		if name == id {
			return name, nil
		}

		if strings.HasPrefix(name, id) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguousID, id, strings.Join(matches, ", "))
	}
}

func entryNames(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	names := make([]string, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}

		names = append(names, strings.TrimSuffix(de.Name(), fileExt))
	}

	sort.Strings(names)

	return names, nil
}

func read(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("read corpus entry: %w", err)
	}

	var entry Entry

	decodeErr := json.Unmarshal(data, &entry)
	if decodeErr != nil {
		return Entry{}, fmt.Errorf("%w %s: %w", ErrInvalidEntry, filepath.Base(path), decodeErr)
	}

	if entry.ID == "" || entry.Suite == "" || entry.Relation == "" || entry.Case < 0 {
		return Entry{}, fmt.Errorf("%w %s: missing suite, relation or case", ErrInvalidEntry, filepath.Base(path))
	}

	if _, parseErr := uuid.Parse(entry.UUID); parseErr != nil {
		return Entry{}, fmt.Errorf("%w %s: %w", ErrInvalidEntry, filepath.Base(path), parseErr)
	}

	return entry, nil
}
