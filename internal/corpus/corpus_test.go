package corpus_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mrsuite/internal/corpus"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// lenSuite has one relation that holds and one that fails whenever the
// input is non-empty, so every run produces replayable violations.
func lenSuite() *mr.Suite[[]int, int] {
	return &mr.Suite[[]int, int]{
		Name: "len",
		Generate: func(src mr.Source) []int {
			s := make([]int, src.IntN(6))
			for i := range s {
				s[i] = src.IntN(100)
			}

			return s
		},
		Exec:  func(in []int) (int, error) { return len(in), nil },
		Clone: slices.Clone[[]int],
		Relations: []mr.Relation[[]int, int]{
			{
				Name: "reverse",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					slices.Reverse(in)

					return in, true
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Equal(c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "double-is-same",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return append(in, in...), true
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Equal(c.SourceOut, c.FollowUpOut)
				},
			},
		},
	}
}

func violations(t *testing.T) []mr.Violation {
	t.Helper()

	report := lenSuite().Run(context.Background(), mr.Options{Cases: 20, Seed: 3})
	require.NotEmpty(t, report.Violations)

	return report.Violations
}

func Test_Save_Writes_Entry_That_Load_Returns_When_Violation_Saved(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "corpus")
	v := violations(t)[0]

	saved, err := corpus.Save(dir, v, "run-1")
	require.NoError(t, err)

	assert.Len(t, saved.ID, 12)
	assert.Equal(t, "len", saved.Suite)
	assert.Equal(t, "double-is-same", saved.Relation)
	assert.Equal(t, v.Case, saved.Case)
	assert.Equal(t, "run-1", saved.RunID)

	info, err := os.Stat(filepath.Join(dir, saved.ID+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := corpus.Load(dir, strings.ToLower(saved.ID[:6]))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))

	var source []int
	require.NoError(t, json.Unmarshal(loaded.Source, &source))
	assert.Equal(t, v.Source, source)
}

func Test_Save_Rejects_Violation_When_Case_Is_Stream_Driven(t *testing.T) {
	t.Parallel()

	v := violations(t)[0]
	v.Case = -1

	_, err := corpus.Save(t.TempDir(), v, "")
	require.ErrorIs(t, err, corpus.ErrNotReplayable)
}

func Test_List_Returns_Entries_Oldest_First_When_Several_Saved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	found := violations(t)

	var ids []string

	for _, v := range found[:3] {
		e, err := corpus.Save(dir, v, "")
		require.NoError(t, err)

		ids = append(ids, e.ID)
	}

	// Non-entry files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o600))

	entries, invalid, err := corpus.List(dir)
	require.NoError(t, err)
	require.Empty(t, invalid)
	require.Len(t, entries, 3)

	for i, e := range entries {
		assert.Equal(t, ids[i], e.ID, "entry %d", i)
	}
}

func Test_List_Returns_Empty_When_Directory_Missing(t *testing.T) {
	t.Parallel()

	entries, invalid, err := corpus.List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, invalid)
	assert.Empty(t, entries)
}

func Test_List_Skips_Corrupt_Entries_When_Others_Are_Readable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	saved, err := corpus.Save(dir, violations(t)[0], "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000BROKEN00.json"), []byte("{"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000NOCASE00.json"), []byte(`{"id": "0000NOCASE00"}`), 0o600))

	entries, invalid, err := corpus.List(dir)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, saved.ID, entries[0].ID)

	require.Len(t, invalid, 2)

	for _, e := range invalid {
		require.ErrorIs(t, e, corpus.ErrInvalidEntry)
	}

	assert.Contains(t, invalid[0].Error(), "0000BROKEN00.json")
	assert.Contains(t, invalid[1].Error(), "0000NOCASE00.json")
}

func Test_Load_Returns_Error_When_Id_Unknown_Or_Ambiguous(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEntry(t, dir, "AAAA00000001")
	writeEntry(t, dir, "AAAA00000002")

	_, err := corpus.Load(dir, "ZZZ")
	require.ErrorIs(t, err, corpus.ErrNotFound)

	_, err = corpus.Load(dir, "AAAA")
	require.ErrorIs(t, err, corpus.ErrAmbiguousID)

	e, err := corpus.Load(dir, "aaaa00000002.json")
	require.NoError(t, err)
	assert.Equal(t, "AAAA00000002", e.ID)
}

func Test_Remove_Deletes_Entry_When_Id_Matches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e, err := corpus.Save(dir, violations(t)[0], "")
	require.NoError(t, err)

	require.NoError(t, corpus.Remove(dir, e.ID))

	_, err = corpus.Load(dir, e.ID)
	require.ErrorIs(t, err, corpus.ErrNotFound)

	err = corpus.Remove(dir, e.ID)
	require.ErrorIs(t, err, corpus.ErrNotFound)
}

func Test_Replay_Reproduces_Violation_When_Entry_Saved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v := violations(t)[0]

	e, err := corpus.Save(dir, v, "")
	require.NoError(t, err)

	loaded, err := corpus.Load(dir, e.ID)
	require.NoError(t, err)

	got, err := corpus.Replay(lenSuite(), loaded)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.String(), got.String())
}

func Test_Replay_Returns_Nil_When_Relation_Holds(t *testing.T) {
	t.Parallel()

	e := corpus.Entry{ID: "X", Suite: "len", Relation: "reverse", Seed: 3, Case: 4}

	got, err := corpus.Replay(lenSuite(), e)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func Test_Replay_Returns_Error_When_Entry_Does_Not_Match_Suite(t *testing.T) {
	t.Parallel()

	_, err := corpus.Replay(lenSuite(), corpus.Entry{ID: "X", Suite: "other", Relation: "reverse"})
	require.ErrorIs(t, err, corpus.ErrInvalidEntry)

	_, err = corpus.Replay(lenSuite(), corpus.Entry{ID: "X", Suite: "len", Relation: "gone"})
	require.ErrorIs(t, err, mr.ErrUnknownRelation)
}

func writeEntry(t *testing.T, dir, id string) {
	t.Helper()

	data, err := json.Marshal(corpus.Entry{
		ID:       id,
		UUID:     "01920000-0000-7000-8000-000000000000",
		Suite:    "len",
		Relation: "reverse",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0o600))
}
