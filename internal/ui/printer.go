package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nzbpost/internal/config"
	"github.com/five82/nzbpost/internal/submit"
)

// Printer writes batch progress as plain lines for headless runs. Colors are
// only emitted when w is a terminal.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	styles  Styles
	verbose bool
}

var _ submit.Observer = (*Printer)(nil)

// NewPrinter returns a Printer writing to w with the named theme. Verbose
// printers also echo raw indexer responses.
func NewPrinter(w io.Writer, themeName string, verbose bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		styles:  GetTheme(themeName).StylesFor(r),
		verbose: verbose,
	}
}

// Observe prints one line per event.
func (p *Printer) Observe(e submit.Event) {
	if e.Kind == submit.EventResponse && !p.verbose {
		return
	}
	line := formatEvent(e, p.styles)
	if line == "" {
		return
	}
	p.println(line)
}

// Settings prints the resolved folders and category before a batch.
func (p *Printer) Settings(cfg config.Config, category, logPath string) {
	for _, row := range settingsRows(cfg, category, logPath) {
		p.println(p.styles.MutedText.Render(fmt.Sprintf("%-12s", row.label)) + " " + p.styles.Text.Render(row.value))
	}
}

// Created reports an output folder created during startup.
func (p *Printer) Created(dir string) {
	p.println(p.styles.InfoText.Render("Created folder: " + dir))
}

// Summary prints the end-of-batch report.
func (p *Printer) Summary(sum submit.Summary) {
	for _, line := range summaryLines(sum, p.styles)[1:] {
		p.println(line)
	}
}

// Lines prints raw text lines, such as a log tail.
func (p *Printer) Lines(lines []string) {
	for _, line := range lines {
		p.println(line)
	}
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, line)
}

type settingsRow struct {
	label string
	value string
}

func settingsRows(cfg config.Config, category, logPath string) []settingsRow {
	return []settingsRow{
		{"Source", cfg.SubmissionDir},
		{"Completed", cfg.CompleteDir},
		{"Log file", logPath},
		{"Category", category},
	}
}
