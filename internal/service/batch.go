package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fit-calories/internal/activity"
	"fit-calories/internal/analysis"
	"fit-calories/internal/keytel"
)

// RecordingReader loads one activity file. activity.FITReader implements it.
type RecordingReader interface {
	Read(path string) (activity.Recording, error)
}

// BatchService summarizes activity files one after another
type BatchService struct {
	reader  RecordingReader
	profile analysis.Profile

	// Logf receives one line per failed file. Defaults to log.Printf.
	Logf func(format string, v ...any)
}

// NewBatchService creates a batch service for a validated profile
func NewBatchService(reader RecordingReader, profile analysis.Profile) *BatchService {
	return &BatchService{
		reader:  reader,
		profile: profile,
		Logf:    log.Printf,
	}
}

// BatchProgress reports progress during a run
type BatchProgress struct {
	Total     int
	Completed int
	Current   string
	Result    *FileResult // set once Current is done
}

// FileResult is the outcome for one file: a summary, or an error and its category
type FileResult struct {
	Path     string
	Summary  analysis.Summary
	Metadata activity.Metadata
	Err      error
	Category Category
}

// OK reports whether the file produced a summary
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Name returns the file's base name
func (r FileResult) Name() string {
	return filepath.Base(r.Path)
}

// Report contains the results of a batch run, in input order
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FileResult

	Succeeded     int
	Failed        int
	TotalCalories float64
	TotalMinutes  float64
	TotalBytes    int64
}

func (r *Report) add(res FileResult) {
	r.Results = append(r.Results, res)
	if !res.OK() {
		r.Failed++
		return
	}
	r.Succeeded++
	r.TotalCalories += res.Summary.EstimatedCalories
	r.TotalMinutes += res.Summary.DurationMinutes
	r.TotalBytes += res.Metadata.SizeBytes
}

// FailureCounts returns the number of failed files per category
func (r *Report) FailureCounts() map[Category]int {
	counts := make(map[Category]int)
	for _, res := range r.Results {
		if !res.OK() {
			counts[res.Category]++
		}
	}
	return counts
}

// Successes returns only the results that produced a summary
func (r *Report) Successes() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Run processes every path exactly once. A failing file never stops the run;
// cancellation stops before the next file and marks the rest canceled.
func (s *BatchService) Run(ctx context.Context, paths []string) *Report {
	return s.RunWithProgress(ctx, paths, nil)
}

// RunWithProgress is Run with progress updates. progress is closed on return.
func (s *BatchService) RunWithProgress(ctx context.Context, paths []string, progress chan<- BatchProgress) *Report {
	if progress != nil {
		defer close(progress)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]FileResult, 0, len(paths)),
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			for _, rest := range paths[i:] {
				report.add(FileResult{
					Path:     rest,
					Err:      fmt.Errorf("%s: not processed: %w", rest, err),
					Category: CategoryCanceled,
				})
			}
			s.logf("[batch %s] canceled with %d of %d files remaining", report.RunID, len(paths)-i, len(paths))
			break
		}

		if progress != nil {
			progress <- BatchProgress{Total: len(paths), Completed: i, Current: path}
		}

		res := s.processFile(path)
		if !res.OK() {
			s.logf("[batch %s] %s: %s: %v", report.RunID, res.Name(), res.Category, res.Err)
		}
		report.add(res)

		if progress != nil {
			progress <- BatchProgress{Total: len(paths), Completed: i + 1, Current: path, Result: &res}
		}
	}

	report.FinishedAt = time.Now()
	return report
}

// processFile reads and summarizes one file
func (s *BatchService) processFile(path string) FileResult {
	res := FileResult{Path: path}

	rec, err := s.reader.Read(path)
	if err != nil {
		res.Err = err
		res.Category = Categorize(err)
		return res
	}
	res.Metadata = rec.Metadata

	summary, err := analysis.Summarize(rec.Samples, s.profile)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		res.Category = Categorize(err)
		return res
	}
	res.Summary = summary
	return res
}

func (s *BatchService) logf(format string, v ...any) {
	if s.Logf != nil {
		s.Logf(format, v...)
	}
}

// Categorize maps an error to its failure category
func Categorize(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CategoryCanceled
	case errors.Is(err, activity.ErrInvalidFile):
		return CategoryInvalidFile
	case errors.Is(err, activity.ErrMissingData):
		return CategoryMissingData
	case errors.Is(err, keytel.ErrCalculation):
		return CategoryCalculation
	case errors.Is(err, keytel.ErrValidation):
		return CategoryValidation
	default:
		return CategoryUnexpected
	}
}

// Discover lists regular files in dir whose names match pattern, ignoring
// case, sorted by name
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	pattern = strings.ToLower(pattern)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(pattern, strings.ToLower(e.Name())); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
