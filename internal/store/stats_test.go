package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chat-memory/internal/model"
)

func TestStats(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "a", "1"))
	s.now = clockAt(t0.Add(time.Hour))
	require.NoError(t, s.Remember(ctx, "b", "2"))

	st := s.Stats()
	assert.Equal(t, dir, st.Dir)
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, "2024-01-01T12:00:00Z", st.Oldest)
	assert.Equal(t, "2024-01-01T13:00:00Z", st.Newest)

	require.Len(t, st.Files, 3)
	for i, f := range model.Formats {
		fs := st.Files[i]
		assert.Equal(t, f, fs.Format)
		assert.True(t, fs.Exists)
		assert.Positive(t, fs.SizeBytes)
		assert.NotNil(t, fs.ModTime)
		assert.True(t, fs.InSync, f)
	}
}

func TestStats_DetectsDrift(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	require.NoError(t, s.Remember(context.Background(), "a", "1"))

	writeFile(t, s.Path(model.FormatText), "a: 2\n")

	st := s.Stats()
	assert.True(t, st.Files[0].InSync)
	assert.True(t, st.Files[1].InSync)
	assert.False(t, st.Files[2].InSync)

	require.NoError(t, s.SaveAll())
	assert.True(t, s.Stats().Files[2].InSync)
}

func TestStats_MissingFiles(t *testing.T) {
	st := newTestStore(t, t.TempDir()).Stats()

	assert.Zero(t, st.Entries)
	for _, fs := range st.Files {
		assert.False(t, fs.Exists)
		assert.False(t, fs.InSync)
	}
}
