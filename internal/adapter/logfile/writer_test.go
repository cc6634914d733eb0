package logfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAlert(event string) domain.NotifiedAlert {
	return domain.NotifiedAlert{
		ClassifiedAlert: domain.ClassifiedAlert{
			Category:    domain.CategoryTornado,
			Event:       event,
			Headline:    "H1",
			Description: "D1",
		},
		NotifiedAt: time.Date(2024, time.April, 26, 15, 10, 7, 0, time.UTC),
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Tornado Warning_20240426_151007.txt", FileName(testAlert("Tornado Warning")))
	assert.Equal(t, "a_b_c_20240426_151007.txt", FileName(testAlert("a/b\\c")))
}

func TestWriter_WriteAlert_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "AlertLog")
	w := NewWriter(dir)

	path, err := w.WriteAlert(testAlert("Tornado Warning"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Tornado Warning_20240426_151007.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Alert Header: H1\nAlert Description: D1\n", string(data))
}

func TestWriter_WriteAlert_Unwritable(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewWriter(blocker).WriteAlert(testAlert("Tornado Warning"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create log dir")
}
