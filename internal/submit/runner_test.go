package submit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/nzbpost/internal/batchlog"
	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/nzbgeek"
)

const (
	bodyOK   = `{"response":{"@attributes":{"REGISTER":"OK"}}}`
	bodyFail = `{"response":{"@attributes":{"REGISTER":"FAIL"}}}`
)

type fakeResponse struct {
	body string
	err  error
}

type fakeSubmitter struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
	ctxErrs   []error
}

func (f *fakeSubmitter) Submit(ctx context.Context, path, category string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := filepath.Base(path)
	f.calls = append(f.calls, name+"|"+category)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	resp, ok := f.responses[name]
	if !ok {
		return "", fmt.Errorf("unexpected file %s", name)
	}
	return resp.body, resp.err
}

type memLogger struct {
	lines []string
	err   error
}

func (m *memLogger) Append(message string) error {
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, message)
	return nil
}

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *eventRecorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

type folders struct {
	cfg config.Config
}

func newFolders(t *testing.T, files ...string) folders {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		APIKey:        "key",
		SubmissionDir: filepath.Join(root, "pending"),
		CompleteDir:   filepath.Join(root, "complete"),
		LogDir:        filepath.Join(root, "logs"),
	}
	for _, dir := range []string{cfg.SubmissionDir, cfg.CompleteDir, cfg.LogDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.SubmissionDir, name), []byte("<nzb>"+name+"</nzb>"), 0o644))
	}
	return folders{cfg: cfg}
}

func (f folders) pending(name string) string  { return filepath.Join(f.cfg.SubmissionDir, name) }
func (f folders) complete(name string) string { return filepath.Join(f.cfg.CompleteDir, name) }

func requireExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.NoError(t, err, "expected %s to exist", path)
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.True(t, errors.Is(err, os.ErrNotExist), "expected %s to be absent, stat err = %v", path, err)
}

func TestRunner_AcceptedMovedRejectedStays(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{
		"a.nzb": {body: bodyOK},
		"b.nzb": {body: bodyFail},
	}}
	logger := batchlog.New(f.cfg.LogDir)

	sum, err := NewRunner(f.cfg, sub, logger).Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Accepted)
	assert.Equal(t, 1, sum.Rejected)
	assert.Equal(t, []string{"a.nzb|4010", "b.nzb|4010"}, sub.calls)

	requireMissing(t, f.pending("a.nzb"))
	requireExists(t, f.complete("a.nzb"))
	requireExists(t, f.pending("b.nzb"))
	requireMissing(t, f.complete("b.nzb"))

	data, err := os.ReadFile(logger.TodayPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	log := string(data)
	assert.Contains(t, log, "[1/2] Sending: a.nzb (Category: 4010)")
	assert.Contains(t, log, "Response: "+bodyOK)
	assert.Contains(t, log, "Moved to: "+f.complete("a.nzb"))
	assert.Contains(t, log, "[2/2] Sending: b.nzb (Category: 4010)")
	assert.Contains(t, log, "[WARNING] Unexpected response: "+bodyFail)
	assert.Contains(t, log, fmt.Sprintf("Batch %s finished: 1/2 accepted", sum.ID))
}

func TestRunner_RerunAfterEverythingMovedIsEmpty(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{
		"a.nzb": {body: bodyOK},
		"b.nzb": {body: bodyOK},
	}}
	logger := &memLogger{}
	runner := NewRunner(f.cfg, sub, logger)

	first, err := runner.Run(context.Background(), "2000")
	require.NoError(t, err)
	require.Equal(t, 2, first.Accepted)

	logger.lines = nil
	second, err := runner.Run(context.Background(), "2000")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Total)
	assert.Equal(t, 0, second.Accepted)
	assert.Len(t, sub.calls, 2, "second batch must not submit anything")
	assert.Contains(t, logger.lines, "No NZB files found.")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunner_TimeoutSkipsFileAndContinues(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb")
	timeout := &nzbgeek.TransportError{Op: "execute request", Err: context.DeadlineExceeded}
	sub := &fakeSubmitter{responses: map[string]fakeResponse{
		"a.nzb": {err: timeout},
		"b.nzb": {body: bodyOK},
	}}
	logger := &memLogger{}

	sum, err := NewRunner(f.cfg, sub, logger).Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Accepted)
	requireExists(t, f.pending("a.nzb"))
	requireExists(t, f.complete("b.nzb"))
	assert.Contains(t, logger.lines, "[ERROR] Submission failed: "+timeout.Error())
	for _, line := range logger.lines {
		assert.NotEqual(t, "Moved to: "+f.complete("a.nzb"), line)
	}
}

func TestRunner_MoveFailureStillCountsAcceptance(t *testing.T) {
	f := newFolders(t, "a.nzb")
	require.NoError(t, os.Mkdir(f.complete("a.nzb"), 0o755))
	sub := &fakeSubmitter{responses: map[string]fakeResponse{"a.nzb": {body: bodyOK}}}
	logger := &memLogger{}
	rec := &eventRecorder{}

	sum, err := NewRunner(f.cfg, sub, logger, WithObserver(rec)).Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Accepted)
	assert.Equal(t, 1, sum.MoveFailures)
	requireExists(t, f.pending("a.nzb"))
	assert.Contains(t, rec.kinds(), EventMoveFailed)
	var found bool
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "[ERROR] Failed to move file: ") {
			found = true
		}
	}
	assert.True(t, found, "move failure not logged: %q", logger.lines)
}

func TestRunner_UnparseableResponseLeavesFile(t *testing.T) {
	f := newFolders(t, "a.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{"a.nzb": {body: "<html>oops</html>"}}}
	logger := &memLogger{}

	sum, err := NewRunner(f.cfg, sub, logger).Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Unparseable)
	assert.Equal(t, 0, sum.Accepted)
	requireExists(t, f.pending("a.nzb"))
	assert.Contains(t, logger.lines, "[WARNING] Non-JSON response: <html>oops</html>")
}

func TestRunner_EventSequence(t *testing.T) {
	f := newFolders(t, "a.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{"a.nzb": {body: bodyOK}}}
	rec := &eventRecorder{}
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	sum, err := NewRunner(f.cfg, sub, &memLogger{}, WithObserver(rec), WithClock(func() time.Time { return fixed })).
		Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, []EventKind{
		EventBatchStarted,
		EventSubmitting,
		EventResponse,
		EventAccepted,
		EventMoved,
		EventBatchFinished,
	}, rec.kinds())

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, sum, last.Summary)
	assert.Equal(t, fixed, last.Time)
	assert.Equal(t, f.complete("a.nzb"), rec.events[4].Detail)
	assert.Equal(t, 1, rec.events[1].Job.Index)
	assert.Equal(t, 1, rec.events[1].Job.Total)
}

func TestRunner_AcceptedCounterIsMonotonic(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb", "c.nzb", "d.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{
		"a.nzb": {body: bodyOK},
		"b.nzb": {err: errors.New("connection refused")},
		"c.nzb": {body: bodyFail},
		"d.nzb": {body: bodyOK},
	}}
	rec := &eventRecorder{}

	sum, err := NewRunner(f.cfg, sub, &memLogger{}, WithObserver(rec)).Run(context.Background(), "4010")
	require.NoError(t, err)

	prev := 0
	for _, e := range rec.events {
		require.GreaterOrEqual(t, e.Summary.Accepted, prev)
		prev = e.Summary.Accepted
	}
	assert.Equal(t, 2, sum.Accepted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Rejected)
}

func TestRunner_LogFailureDoesNotAbortBatch(t *testing.T) {
	f := newFolders(t, "a.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{"a.nzb": {body: bodyOK}}}
	rec := &eventRecorder{}

	sum, err := NewRunner(f.cfg, sub, &memLogger{err: errors.New("disk full")}, WithObserver(rec)).
		Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Accepted)
	requireExists(t, f.complete("a.nzb"))
	assert.Contains(t, rec.kinds(), EventLogFailed)
}

func TestRunner_IgnoresCancellationMidBatch(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb")
	sub := &fakeSubmitter{responses: map[string]fakeResponse{
		"a.nzb": {body: bodyOK},
		"b.nzb": {body: bodyOK},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := NewRunner(f.cfg, sub, &memLogger{}).Run(ctx, "4010")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Accepted)
	for _, ctxErr := range sub.ctxErrs {
		assert.NoError(t, ctxErr)
	}
}

func TestRunner_MissingSourceFolderFails(t *testing.T) {
	f := newFolders(t)
	require.NoError(t, os.Remove(f.cfg.SubmissionDir))
	sub := &fakeSubmitter{}
	rec := &eventRecorder{}

	_, err := NewRunner(f.cfg, sub, &memLogger{}, WithObserver(rec)).Run(context.Background(), "4010")
	require.Error(t, err)
	assert.Empty(t, sub.calls)
	assert.Equal(t, []EventKind{EventBatchFailed}, rec.kinds())
}

func TestRunner_EndToEndWithHTTPServer(t *testing.T) {
	f := newFolders(t, "a.nzb", "b.nzb", "notes.txt")

	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		name := r.MultipartForm.File["nzb"][0].Filename
		mu.Lock()
		seen = append(seen, name+"|"+r.URL.Query().Get("cat"))
		mu.Unlock()
		if name == "a.nzb" {
			_, _ = w.Write([]byte(bodyOK))
			return
		}
		_, _ = w.Write([]byte(bodyFail))
	}))
	t.Cleanup(server.Close)

	client, err := nzbgeek.NewClient("key", nzbgeek.WithEndpoint(server.URL+"/submit"))
	require.NoError(t, err)

	sum, err := NewRunner(f.cfg, client, batchlog.New(f.cfg.LogDir)).Run(context.Background(), "4010")
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Accepted)
	assert.Equal(t, []string{"a.nzb|4010", "b.nzb|4010"}, seen)
	requireExists(t, f.complete("a.nzb"))
	requireExists(t, f.pending("b.nzb"))
	requireExists(t, f.pending("notes.txt"))
}
