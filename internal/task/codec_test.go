package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileIsEmpty(t *testing.T) {
	tasks, err := LoadFile(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	in := []Task{
		{ID: "1", Title: "Call Mom", DueAt: NewDueTime(time.Date(2099, 1, 1, 10, 0, 0, 0, time.Local))},
		{ID: "2", Title: "Pay rent", DueAt: NewDueTime(time.Date(2099, 2, 1, 9, 30, 0, 0, time.Local)), Sent: true},
	}

	require.NoError(t, SaveFile(path, in))

	out, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Sent, out[i].Sent)
		assert.True(t, in[i].DueAt.Equal(out[i].DueAt.Time), "due time mismatch: %v vs %v", in[i].DueAt, out[i].DueAt)
	}
}

func TestSaveFile_NilSavesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, SaveFile(path, nil))

	out, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLoadFile_MalformedJSONIsCorruptNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tasks, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, tasks)
}

func TestLoadFile_MissingRequiredFieldsIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","sent":false}]`), 0o644))

	tasks, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, tasks)
}

func TestDueWithin_LookaheadBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	window := 5 * time.Minute

	in4 := Task{DueAt: NewDueTime(now.Add(4 * time.Minute))}
	in6 := Task{DueAt: NewDueTime(now.Add(6 * time.Minute))}
	past := Task{DueAt: NewDueTime(now.Add(-time.Hour))}

	assert.True(t, in4.DueWithin(now, window))
	assert.False(t, in6.DueWithin(now, window))
	assert.True(t, past.DueWithin(now, window))
}
