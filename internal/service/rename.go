package service

import (
	"context"
	"fmt"
	"path/filepath"

	"fit-calories/internal/activity"
)

// MetadataReader reads the descriptive fields of an activity file
type MetadataReader interface {
	ReadMetadata(path string) (activity.Metadata, error)
}

// RenameResult is the outcome of renaming one file
type RenameResult struct {
	OldPath  string
	NewPath  string
	Err      error
	Category Category
}

// Changed reports whether the file was moved
func (r RenameResult) Changed() bool {
	return r.Err == nil && r.NewPath != r.OldPath
}

// RenameAll renames each file to its date/sport/duration name. Files without
// a start time are left in place and reported as missing_data.
func RenameAll(ctx context.Context, reader MetadataReader, paths []string) []RenameResult {
	results := make([]RenameResult, 0, len(paths))
	for _, path := range paths {
		res := RenameResult{OldPath: path}
		if err := ctx.Err(); err != nil {
			res.Err = err
			res.Category = CategoryCanceled
			results = append(results, res)
			continue
		}

		md, err := reader.ReadMetadata(path)
		if err == nil {
			res.NewPath, err = activity.RenameByMetadata(path, md)
		}
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", filepath.Base(path), err)
			res.Category = Categorize(err)
		}
		results = append(results, res)
	}
	return results
}
