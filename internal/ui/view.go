package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nzbpost/internal/nzbgeek"
)

const progressWidth = 30

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		if m.interrupted {
			return ""
		}
		return m.theme.Styles().MutedText.Render("Goodbye!") + "\n"
	}

	styles := m.theme.Styles()
	var body string
	var footer string
	switch m.stage {
	case stageCategory:
		body = m.renderCategoryMenu(styles)
		footer = helpLine(styles, m.keys.Default, m.keys.Exit, m.keys.CycleTheme)
	case stageSubcategory:
		body = m.renderSubcategory(styles)
		footer = helpLine(styles, m.keys.Confirm, m.keys.Back)
	case stageConfirm:
		body = m.renderConfirm(styles)
		footer = helpLine(styles, m.keys.Confirm, m.keys.Back, m.keys.Interrupt)
	case stageRunning:
		body = m.renderRunning(styles)
		footer = helpLine(styles, m.keys.Interrupt)
	case stageSummary:
		body = m.renderSummary(styles)
		footer = helpLine(styles, m.keys.Again, m.keys.Exit)
	}

	parts := []string{m.renderHeader(styles), body}
	if m.notice != "" {
		parts = append(parts, styles.WarningText.Render(m.notice))
	}
	parts = append(parts, styles.Footer.Render(footer))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) renderHeader(styles Styles) string {
	title := styles.Logo.Render("nzbpost")
	meta := styles.MutedText.Render(fmt.Sprintf("NZBGeek submission tool v%s", nzbgeek.Version))
	theme := styles.FaintText.Render(m.theme.Name)
	return styles.Header.Render(title+"  "+meta+"  "+theme) + "\n"
}

func (m Model) renderCategoryMenu(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Select the NZB category"))
	b.WriteString("\n\n")
	for _, c := range nzbgeek.Categories() {
		fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render(c.Key), styles.Text.Render(c.Name))
	}
	fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render("9"),
		styles.Text.Render("Use default ")+styles.MutedText.Render("(PC/0day - "+nzbgeek.DefaultCategory+")"))
	if m.lastCategory != "" {
		fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render("↵"),
			styles.Text.Render("Use last category ")+styles.MutedText.Render("("+m.lastCategory+")"))
	}
	fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render("0"), styles.Text.Render("Exit program"))
	return b.String()
}

func (m Model) renderSubcategory(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("✓ You selected: " + m.selected.Name))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Enter the full subcategory ID, or press enter to use " + m.selected.Code))
	b.WriteString("\n")
	b.WriteString(m.subInput.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderConfirm(styles Styles) string {
	logPath := ""
	if m.logs != nil {
		logPath = m.logs.TodayPath()
	}
	var rows []string
	for _, row := range settingsRows(m.cfg, m.category, logPath) {
		rows = append(rows, styles.MutedText.Render(fmt.Sprintf("%-10s", row.label))+" "+styles.Text.Render(row.value))
	}
	panel := styles.Panel.Render(strings.Join(rows, "\n"))
	return styles.AccentText.Render("Ready to send") + "\n" + panel + "\n"
}

func (m Model) renderRunning(styles Styles) string {
	snap := m.snapshot
	var b strings.Builder

	status := "Scanning submission folder"
	if cur := snap.Current; cur.Path != "" {
		status = fmt.Sprintf("[%d/%d] Sending %s", cur.Index, cur.Total, filepath.Base(cur.Path))
	}
	b.WriteString(m.spinner.View() + " " + styles.Text.Render(status))
	b.WriteString("\n")
	if total := snap.Summary.Total; total > 0 {
		b.WriteString(progressBar(snap.Processed(), total, progressWidth, styles))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.events.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSummary(styles Styles) string {
	var b strings.Builder
	b.WriteString(m.events.View())
	b.WriteString("\n\n")
	if m.batchErr != nil {
		b.WriteString(styles.DangerText.Render("Batch failed: " + m.batchErr.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(strings.Join(summaryLines(m.summary, styles), "\n"))
		b.WriteString("\n")
	}
	if len(m.tail) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render("Recent log"))
		b.WriteString("\n")
		for _, line := range m.tail {
			b.WriteString(styles.FaintText.Render(truncate(line, maxWidth(m.width))))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render("1"), styles.Text.Render("Check again for new NZBs"))
	fmt.Fprintf(&b, "  %s  %s\n", styles.Key.Render("0"), styles.Text.Render("Exit program"))
	return b.String()
}

func progressBar(done, total, width int, styles Styles) string {
	if total <= 0 {
		return ""
	}
	if done > total {
		done = total
	}
	filled := done * width / total
	bar := styles.SuccessText.Render(strings.Repeat("█", filled)) +
		styles.FaintText.Render(strings.Repeat("░", width-filled))
	return bar + " " + styles.MutedText.Render(fmt.Sprintf("%d/%d", done, total))
}

func maxWidth(width int) int {
	if width <= 0 {
		return 120
	}
	return width - 2
}
