package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// ReportHeaders are the column names of Report.Rows
var ReportHeaders = []string{"File", "Activity", "Start", "Duration", "Avg HR", "kcal", "Size / Error"}

// Rows returns one table row per file, in input order
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		if !res.OK() {
			rows = append(rows, []string{res.Name(), "-", "-", "-", "-", "-", string(res.Category)})
			continue
		}
		start := "-"
		if !res.Metadata.StartTime.IsZero() {
			start = res.Metadata.StartTime.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			res.Name(),
			res.Metadata.ActivityName(),
			start,
			FormatMinutes(res.Summary.DurationMinutes),
			fmt.Sprintf("%.0f", res.Summary.AverageHeartRate),
			fmt.Sprintf("%.1f", res.Summary.EstimatedCalories),
			FormatSize(res.Metadata.SizeBytes),
		})
	}
	return rows
}

// Totals returns the one-line batch totals
func (r *Report) Totals() string {
	return fmt.Sprintf("%d files  %d ok  %d failed  %s kcal over %s  (%s read)",
		len(r.Results), r.Succeeded, r.Failed,
		humanize.Comma(int64(math.Round(r.TotalCalories))),
		FormatMinutes(r.TotalMinutes),
		FormatSize(r.TotalBytes))
}

// Text renders the report as a table followed by totals and failure details
func (r *Report) Text() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(ReportHeaders...).
		Rows(r.Rows()...)

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(r.Totals())
	b.WriteString("\n")

	if r.Failed > 0 {
		counts := r.FailureCounts()
		b.WriteString("\nFailures:")
		for _, c := range Categories {
			if n := counts[c]; n > 0 {
				fmt.Fprintf(&b, " %s=%d", c, n)
			}
		}
		b.WriteString("\n")
		for _, res := range r.Results {
			if !res.OK() {
				fmt.Fprintf(&b, "  %s: %v\n", res.Name(), res.Err)
			}
		}
	}
	return b.String()
}

// FormatMinutes formats minutes as "1h 05m" or "42m 10s"
func FormatMinutes(minutes float64) string {
	secs := int(math.Round(minutes * 60))
	if secs >= 3600 {
		return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

// FormatSize formats a byte count, e.g. "12 kB"
func FormatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}
