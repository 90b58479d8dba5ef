package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/nzbpost/internal/submit"
)

const responsePreview = 120

// formatEvent renders one batch event as a single line. Events that carry
// nothing for the operator render as "".
func formatEvent(e submit.Event, styles Styles) string {
	name := filepath.Base(e.Job.Path)
	switch e.Kind {
	case submit.EventBatchStarted:
		if e.Summary.Total == 0 {
			return ""
		}
		return styles.InfoText.Render(fmt.Sprintf("Total files found: %d", e.Summary.Total))
	case submit.EventNoFiles:
		return styles.WarningText.Render("No NZB files found to send.")
	case submit.EventSubmitting:
		return styles.Text.Render(fmt.Sprintf("[%d/%d] Sending: %s", e.Job.Index, e.Job.Total, name)) +
			" " + styles.MutedText.Render("(Category: "+e.Job.Category+")")
	case submit.EventResponse:
		return styles.FaintText.Render("      response: " + truncate(oneLine(e.Detail), responsePreview))
	case submit.EventAccepted:
		return styles.SuccessText.Render("  ✓ Successfully sent")
	case submit.EventMoved:
		return styles.MutedText.Render("    moved to " + e.Detail)
	case submit.EventRejected:
		return styles.WarningText.Render("  ! Unexpected API response: " + truncate(oneLine(e.Detail), responsePreview))
	case submit.EventUnparseable:
		return styles.WarningText.Render("  ! Could not parse response: " + truncate(oneLine(e.Detail), responsePreview))
	case submit.EventSubmitFailed:
		return styles.DangerText.Render("  ✗ Submission failed: " + e.Detail)
	case submit.EventMoveFailed:
		return styles.DangerText.Render("  ✗ Failed to move file: " + e.Detail)
	case submit.EventLogFailed:
		return styles.WarningText.Render("  ! Error writing to log: " + e.Detail)
	case submit.EventBatchFailed:
		return styles.DangerText.Render("✗ Batch failed: " + e.Detail)
	case submit.EventBatchFinished:
		return styles.SuccessText.Render(fmt.Sprintf("Total files successfully sent: %d", e.Summary.Accepted))
	}
	return ""
}

// summaryLines renders the end-of-batch report.
func summaryLines(sum submit.Summary, styles Styles) []string {
	lines := []string{
		styles.SuccessText.Render(fmt.Sprintf("Total files successfully sent: %d", sum.Accepted)),
	}
	if sum.Total == 0 {
		return lines
	}
	parts := []string{fmt.Sprintf("%d found", sum.Total)}
	for _, c := range []struct {
		n     int
		label string
	}{
		{sum.Rejected, "rejected"},
		{sum.Unparseable, "unparseable"},
		{sum.Failed, "failed"},
		{sum.MoveFailures, "not moved"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}
	if d := sum.Duration(); d > 0 {
		parts = append(parts, humanizeDuration(d))
	}
	lines = append(lines, styles.MutedText.Render(strings.Join(parts, " • ")))
	return lines
}

func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
