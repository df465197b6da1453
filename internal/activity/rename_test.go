package activity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		md   Metadata
		want string
	}{
		{
			name: "hours and minutes",
			md:   Metadata{StartTime: testStart, DurationSeconds: 3900, Sport: "Running"},
			want: "2024-03-09_0715_Running_1h5m.fit",
		},
		{
			name: "exact hour",
			md:   Metadata{StartTime: testStart, DurationSeconds: 7200, Sport: "Cycling"},
			want: "2024-03-09_0715_Cycling_2h.fit",
		},
		{
			name: "no duration",
			md:   Metadata{StartTime: testStart, Sport: "Trail Running"},
			want: "2024-03-09_0715_TrailRunning_0m.fit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileName(tt.md)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FileName(Metadata{Sport: "Running"})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestRenameByMetadata(t *testing.T) {
	dir := t.TempDir()
	md := Metadata{StartTime: testStart, DurationSeconds: 1800, Sport: "Running"}

	first := filepath.Join(dir, "A1B2C3.fit")
	second := filepath.Join(dir, "D4E5F6.fit")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0644))

	got, err := RenameByMetadata(first, md)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-03-09_0715_Running_30m.fit"), got)
	assert.NoFileExists(t, first)

	// Same metadata again: conflict gets a suffix
	got2, err := RenameByMetadata(second, md)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-03-09_0715_Running_30m_1.fit"), got2)

	// Already canonical: no-op
	same, err := RenameByMetadata(got, md)
	require.NoError(t, err)
	assert.Equal(t, got, same)
	assert.FileExists(t, got)
}

func TestRenameByMetadata_NoStartTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.fit")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := RenameByMetadata(path, Metadata{Sport: "Running"})
	assert.ErrorIs(t, err, ErrMissingData)
	assert.FileExists(t, path)
}
