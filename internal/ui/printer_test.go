package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/submit"
)

func TestPrinter_ObservePrintsEventLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "Dracula", false)

	job := submit.Job{Path: "/pending/a.nzb", Category: "4010", Index: 1, Total: 2}
	p.Observe(submit.Event{Kind: submit.EventBatchStarted, Summary: submit.Summary{Total: 2}})
	p.Observe(submit.Event{Kind: submit.EventSubmitting, Job: job})
	p.Observe(submit.Event{Kind: submit.EventResponse, Job: job, Detail: `{"response":{}}`})
	p.Observe(submit.Event{Kind: submit.EventAccepted, Job: job})
	p.Observe(submit.Event{Kind: submit.EventMoveFailed, Job: job, Detail: "permission denied", Err: errors.New("permission denied")})
	p.Observe(submit.Event{Kind: submit.EventBatchFinished, Summary: submit.Summary{Total: 2, Accepted: 1}})

	out := buf.String()
	for _, want := range []string{
		"Total files found: 2",
		"[1/2] Sending: a.nzb",
		"(Category: 4010)",
		"Successfully sent",
		"Failed to move file: permission denied",
		"Total files successfully sent: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "response:") {
		t.Fatalf("non-verbose printer echoed the response:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output to a buffer contains ANSI escapes: %q", out)
	}
}

func TestPrinter_VerboseEchoesResponse(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "", true)

	p.Observe(submit.Event{Kind: submit.EventResponse, Detail: "{\n \"ok\": 1\n}"})
	if !strings.Contains(buf.String(), `response: { "ok": 1 }`) {
		t.Fatalf("output = %q, want folded response", buf.String())
	}
}

func TestPrinter_NoFilesBatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "Slate", false)

	p.Observe(submit.Event{Kind: submit.EventBatchStarted})
	p.Observe(submit.Event{Kind: submit.EventNoFiles})
	p.Observe(submit.Event{Kind: submit.EventBatchFinished})
	p.Summary(submit.Summary{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", lines)
	}
	if !strings.Contains(lines[0], "No NZB files found") {
		t.Fatalf("first line = %q, want no files notice", lines[0])
	}
}

func TestPrinter_SettingsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "Dracula", false)

	cfg := config.Config{SubmissionDir: "/pending", CompleteDir: "/done"}
	p.Settings(cfg, "2040", "/logs/submit_log_2024-01-02.txt")
	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	p.Summary(submit.Summary{
		Started:      start,
		Finished:     start.Add(75 * time.Second),
		Total:        4,
		Accepted:     2,
		Rejected:     1,
		Failed:       1,
		MoveFailures: 1,
	})

	out := buf.String()
	for _, want := range []string{
		"/pending", "/done", "submit_log_2024-01-02.txt", "2040",
		"4 found", "1 rejected", "1 failed", "1 not moved", "1m15s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unparseable") {
		t.Fatalf("zero counters should be omitted:\n%s", out)
	}
}
