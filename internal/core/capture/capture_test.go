package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/report"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFromFile(t *testing.T) {
	c := New(nil)
	path := writeFile(t, "screenshot.png", []byte{0x89, 'P', 'N', 'G'})

	att, err := c.FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "screenshot.png", att.Name)
	assert.Equal(t, int64(4), att.Size)
	assert.Equal(t, "image/png", att.MimeType)
	assert.Equal(t, report.AttachmentPending, att.State())

	payload, ok := att.Payload()
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, payload)
}

func TestFromFileUnknownExtension(t *testing.T) {
	c := New(nil)
	path := writeFile(t, "dump.bin0", []byte{1, 2, 3})

	att, err := c.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", att.MimeType)
}

func TestFromFileIgnorePatterns(t *testing.T) {
	c := New([]string{".DS_Store", "*.tmp"})

	t.Run("exact match", func(t *testing.T) {
		path := writeFile(t, ".DS_Store", []byte{1})
		_, err := c.FromFile(path)
		assert.ErrorIs(t, err, ErrIgnored)
	})

	t.Run("glob match", func(t *testing.T) {
		path := writeFile(t, "scratch.tmp", []byte{1})
		_, err := c.FromFile(path)
		assert.ErrorIs(t, err, ErrIgnored)
	})

	t.Run("non-matching file passes", func(t *testing.T) {
		path := writeFile(t, "notes.txt", []byte("hello"))
		att, err := c.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", att.Name)
	})
}

func TestFromFileMissing(t *testing.T) {
	c := New(nil)
	_, err := c.FromFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIgnored)
}
