package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Confirm    key.Binding
	Back       key.Binding
	Default    key.Binding
	Exit       key.Binding
	Again      key.Binding
	Interrupt  key.Binding
	CycleTheme key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Default: key.NewBinding(
			key.WithKeys("9"),
			key.WithHelp("9", "default category"),
		),
		Exit: key.NewBinding(
			key.WithKeys("0", "q"),
			key.WithHelp("0", "exit"),
		),
		Again: key.NewBinding(
			key.WithKeys("1", "r"),
			key.WithHelp("1", "check again"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
	}
}

// helpLine renders "key action" pairs for the footer.
func helpLine(styles Styles, bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, styles.Key.Render(h.Key)+" "+styles.MutedText.Render(h.Desc))
	}
	return strings.Join(parts, styles.FaintText.Render(" • "))
}
