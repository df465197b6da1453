package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"fit-calories/internal/activity"
	"fit-calories/internal/analysis"
	"fit-calories/internal/keytel"
)

var testStart = time.Date(2024, 3, 9, 7, 15, 0, 0, time.UTC)

var testProfile = analysis.Profile{WeightKg: 70, AgeYears: 30, Gender: keytel.Male}

type fakeReader struct {
	recordings map[string]activity.Recording
	errs       map[string]error
	calls      []string
}

func (f *fakeReader) Read(path string) (activity.Recording, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return activity.Recording{}, err
	}
	rec, ok := f.recordings[path]
	if !ok {
		return activity.Recording{}, fmt.Errorf("%w: %s not found", activity.ErrInvalidFile, path)
	}
	return rec, nil
}

func hr(v int) *int { return &v }

func twoSampleRecording(size int64) activity.Recording {
	return activity.Recording{
		Samples: []activity.Sample{
			{Timestamp: testStart, HeartRate: hr(100)},
			{Timestamp: testStart.Add(10 * time.Minute), HeartRate: hr(140)},
		},
		Metadata: activity.Metadata{StartTime: testStart, DurationSeconds: 600, Sport: "Running", SubSport: "Unknown", SizeBytes: size},
	}
}

func newTestService(r RecordingReader) (*BatchService, *[]string) {
	var logs []string
	svc := NewBatchService(r, testProfile)
	svc.Logf = func(format string, v ...any) {
		logs = append(logs, fmt.Sprintf(format, v...))
	}
	return svc, &logs
}

func TestBatchRun_IsolatesFailures(t *testing.T) {
	reader := &fakeReader{
		recordings: map[string]activity.Recording{
			"a.fit": twoSampleRecording(1000),
			"c.fit": twoSampleRecording(2000),
		},
		errs: map[string]error{
			"b.fit": fmt.Errorf("%w: decoding FIT data: bad header", activity.ErrInvalidFile),
		},
	}
	svc, logs := newTestService(reader)

	report := svc.Run(context.Background(), []string{"a.fit", "b.fit", "c.fit"})

	require.Len(t, report.Results, 3)
	assert.Equal(t, []string{"a.fit", "b.fit", "c.fit"}, reader.calls)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.RunID)

	assert.True(t, report.Results[0].OK())
	assert.InDelta(t, 96.984, report.Results[0].Summary.EstimatedCalories, 0.01)
	assert.Equal(t, CategoryInvalidFile, report.Results[1].Category)
	assert.ErrorIs(t, report.Results[1].Err, activity.ErrInvalidFile)
	assert.True(t, report.Results[2].OK())

	assert.InDelta(t, 2*96.984, report.TotalCalories, 0.02)
	assert.Equal(t, 20.0, report.TotalMinutes)
	assert.Equal(t, int64(3000), report.TotalBytes)

	if diff := cmp.Diff(map[Category]int{CategoryInvalidFile: 1}, report.FailureCounts()); diff != "" {
		t.Errorf("FailureCounts() mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], report.RunID)
	assert.Contains(t, (*logs)[0], "b.fit")
}

func TestBatchRun_Categories(t *testing.T) {
	noReadings := activity.Recording{Samples: []activity.Sample{
		{Timestamp: testStart},
		{Timestamp: testStart.Add(time.Minute)},
	}}
	reader := &fakeReader{
		recordings: map[string]activity.Recording{
			"empty.fit": {},
			"nohr.fit":  noReadings,
			"good.fit":  twoSampleRecording(0),
		},
		errs: map[string]error{
			"weird.fit": errors.New("disk on fire"),
		},
	}
	svc, _ := newTestService(reader)

	report := svc.Run(context.Background(), []string{"empty.fit", "nohr.fit", "weird.fit", "good.fit"})

	got := make([]Category, len(report.Results))
	for i, res := range report.Results {
		got[i] = res.Category
	}
	want := []Category{CategoryMissingData, CategoryMissingData, CategoryUnexpected, CategoryNone}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchRun_InvalidProfile(t *testing.T) {
	reader := &fakeReader{recordings: map[string]activity.Recording{"a.fit": twoSampleRecording(0)}}
	svc := NewBatchService(reader, analysis.Profile{WeightKg: 0, AgeYears: 30, Gender: keytel.Male})
	svc.Logf = nil

	report := svc.Run(context.Background(), []string{"a.fit"})

	require.Len(t, report.Results, 1)
	assert.Equal(t, CategoryValidation, report.Results[0].Category)
	assert.ErrorIs(t, report.Results[0].Err, keytel.ErrValidation)
}

func TestBatchRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &cancelingReader{
		fakeReader: fakeReader{recordings: map[string]activity.Recording{
			"a.fit": twoSampleRecording(0),
			"b.fit": twoSampleRecording(0),
			"c.fit": twoSampleRecording(0),
		}},
		cancel: cancel,
	}
	svc, logs := newTestService(reader)

	report := svc.Run(ctx, []string{"a.fit", "b.fit", "c.fit"})

	require.Len(t, report.Results, 3)
	assert.Equal(t, []string{"a.fit"}, reader.calls, "files after cancellation must not be read")
	assert.True(t, report.Results[0].OK())
	for _, res := range report.Results[1:] {
		assert.Equal(t, CategoryCanceled, res.Category)
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], "canceled")
}

// cancelingReader cancels its context after the first read
type cancelingReader struct {
	fakeReader
	cancel context.CancelFunc
}

func (c *cancelingReader) Read(path string) (activity.Recording, error) {
	defer c.cancel()
	return c.fakeReader.Read(path)
}

func TestBatchRunWithProgress(t *testing.T) {
	reader := &fakeReader{recordings: map[string]activity.Recording{
		"a.fit": twoSampleRecording(0),
		"b.fit": twoSampleRecording(0),
	}}
	svc, _ := newTestService(reader)

	progress := make(chan BatchProgress, 10)
	report := svc.RunWithProgress(context.Background(), []string{"a.fit", "b.fit"}, progress)

	var updates []BatchProgress
	for p := range progress {
		updates = append(updates, p)
	}
	require.Len(t, updates, 4)
	assert.Nil(t, updates[0].Result)
	require.NotNil(t, updates[3].Result)
	assert.Equal(t, 2, updates[3].Completed)
	assert.Equal(t, "b.fit", updates[3].Result.Path)
	assert.Equal(t, 2, report.Succeeded)
}

func TestBatchRun_RealFITFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, activity.WriteTestFIT(filepath.Join(dir, "01.fit"), activity.TestActivity{
		Start:      testStart,
		Step:       5 * time.Minute,
		HeartRates: []uint8{100, 0xFF, 140},
		Sport:      fit.SportRunning,
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02.fit"), []byte("not a fit file"), 0644))
	require.NoError(t, activity.WriteTestFIT(filepath.Join(dir, "03.FIT"), activity.TestActivity{
		Start:      testStart,
		Step:       time.Minute,
		HeartRates: []uint8{0xFF, 0xFF},
		Sport:      fit.SportCycling,
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	paths, err := Discover(dir, "*.fit")
	require.NoError(t, err)
	require.Len(t, paths, 3)

	svc, _ := newTestService(activity.NewFITReader())
	report := svc.Run(context.Background(), paths)

	require.Len(t, report.Results, 3)

	first := report.Results[0]
	require.True(t, first.OK(), "unexpected error: %v", first.Err)
	assert.Equal(t, 120.0, first.Summary.AverageHeartRate)
	assert.InDelta(t, 10.0, first.Summary.DurationMinutes, 1e-9)
	assert.InDelta(t, 96.984, first.Summary.EstimatedCalories, 0.01)
	assert.Equal(t, "Running", first.Metadata.Sport)
	assert.Positive(t, first.Metadata.SizeBytes)

	assert.Equal(t, CategoryInvalidFile, report.Results[1].Category)
	assert.Equal(t, CategoryMissingData, report.Results[2].Category)

	text := report.Text()
	assert.Contains(t, text, "01.fit")
	assert.Contains(t, text, "invalid_file=1")
	assert.Contains(t, text, "missing_data=1")
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		err  error
		want Category
	}{
		{nil, CategoryNone},
		{fmt.Errorf("x: %w", activity.ErrInvalidFile), CategoryInvalidFile},
		{fmt.Errorf("x: %w", activity.ErrMissingData), CategoryMissingData},
		{fmt.Errorf("x: %w", keytel.ErrValidation), CategoryValidation},
		{fmt.Errorf("x: %w", keytel.ErrCalculation), CategoryCalculation},
		{context.Canceled, CategoryCanceled},
		{fmt.Errorf("x: %w", context.DeadlineExceeded), CategoryCanceled},
		{errors.New("boom"), CategoryUnexpected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.err), "Categorize(%v)", tt.err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.fit", "A.FIT", "c.gpx", "a.fit"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.fit"), 0755))

	paths, err := Discover(dir, "")
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	if diff := cmp.Diff([]string{"A.FIT", "a.fit", "b.fit"}, names); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}

	_, err = Discover(filepath.Join(dir, "missing"), "*.fit")
	assert.Error(t, err)

	_, err = Discover(dir, "[")
	assert.Error(t, err)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m 00s", FormatMinutes(0))
	assert.Equal(t, "10m 30s", FormatMinutes(10.5))
	assert.Equal(t, "1h 05m", FormatMinutes(65))
	assert.Equal(t, "-", FormatSize(0))
	assert.True(t, strings.HasSuffix(FormatSize(2048), "kB"))
}
