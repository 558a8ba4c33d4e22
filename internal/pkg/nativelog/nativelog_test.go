package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRotatesDaily(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	day := time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	first, err := os.ReadFile(filepath.Join(dir, "dental_2024-05-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "dental_2024-05-11.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(second))
}

func TestResolveDirFromEnv(t *testing.T) {
	t.Setenv(EnvLogDir, "/var/log/dental")
	assert.Equal(t, "/var/log/dental", ResolveDir())
}
