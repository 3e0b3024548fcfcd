package status

import (
	"fmt"
	"strings"
	"time"
)

// SummaryFormatter defines how run summaries should be formatted
type SummaryFormatter interface {
	// FormatSummary formats the end-of-run summary block
	FormatSummary(s *Summary) string

	// FormatProgress formats a progress message
	FormatProgress(rows int, elapsed time.Duration) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultSummaryFormatter provides a default implementation of SummaryFormatter
type DefaultSummaryFormatter struct{}

// NewDefaultSummaryFormatter creates a new DefaultSummaryFormatter
func NewDefaultSummaryFormatter() *DefaultSummaryFormatter {
	return &DefaultSummaryFormatter{}
}

// FormatSummary formats the counters of a run, one per line
func (f *DefaultSummaryFormatter) FormatSummary(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "⏱️  Execution time:  %s\n", s.Elapsed().Round(time.Microsecond))
	fmt.Fprintf(&b, "📄 Total rows:      %d\n", s.Total)
	fmt.Fprintf(&b, "✅ Completed rows:  %d\n", s.Completed)
	fmt.Fprintf(&b, "⬜ Empty rows:      %d\n", s.Empty)
	fmt.Fprintf(&b, "❌ Incorrect rows:  %d\n", s.Incorrect)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "⏭️  Skipped rows:    %d\n", s.Skipped)
	}

	return b.String()
}

// FormatProgress formats a running row count with throughput
func (f *DefaultSummaryFormatter) FormatProgress(rows int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return fmt.Sprintf("⏳ Processed %d rows", rows)
	}
	rate := float64(rows) / elapsed.Seconds()
	return fmt.Sprintf("⏳ Processed %d rows (%.0f rows/s)", rows, rate)
}

// FormatError formats an error message with emoji
func (f *DefaultSummaryFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
