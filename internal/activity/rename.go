package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName builds the canonical name for an activity, e.g.
// "2024-03-09_0715_Running_1h5m.fit"
func FileName(md Metadata) (string, error) {
	if md.StartTime.IsZero() {
		return "", fmt.Errorf("%w: no start time", ErrMissingData)
	}
	return baseName(md) + ".fit", nil
}

func baseName(md Metadata) string {
	sport := strings.ReplaceAll(md.Sport, " ", "")
	if sport == "" {
		sport = unknownSport
	}

	secs := int(md.DurationSeconds)
	h := secs / 3600
	m := (secs % 3600) / 60
	var dur string
	if h > 0 {
		dur += fmt.Sprintf("%dh", h)
	}
	if m > 0 || h == 0 {
		dur += fmt.Sprintf("%dm", m)
	}

	return fmt.Sprintf("%s_%s_%s", md.StartTime.Format("2006-01-02_1504"), sport, dur)
}

// RenameByMetadata renames the file at path to its canonical name in the same
// directory and returns the new path. Names already taken get a numeric suffix.
// A file already carrying its canonical name is left alone.
func RenameByMetadata(path string, md Metadata) (string, error) {
	if md.StartTime.IsZero() {
		return "", fmt.Errorf("%w: cannot rename %s without a start time", ErrMissingData, filepath.Base(path))
	}

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	base := baseName(md)
	target := filepath.Join(dir, base+".fit")
	for n := 1; target != path; n++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", fmt.Errorf("checking %s: %w", target, err)
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d.fit", base, n))
	}

	if target == path {
		return path, nil
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("renaming %s: %w", filepath.Base(path), err)
	}
	return target, nil
}
