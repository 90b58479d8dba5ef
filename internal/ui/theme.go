package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the UI.
type Theme struct {
	Name string

	Surface string
	Border  string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Components
	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
	Panel  lipgloss.Style
	Key    lipgloss.Style
}

// Styles returns Lipgloss styles for this theme using the default renderer.
func (t Theme) Styles() Styles {
	return t.StylesFor(lipgloss.DefaultRenderer())
}

// StylesFor builds the styles against r, so output written somewhere other
// than stdout gets the color profile of that writer.
func (t Theme) StylesFor(r *lipgloss.Renderer) Styles {
	return Styles{
		Text: r.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: r.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: r.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: r.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: r.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: r.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: r.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Header: r.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: r.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		Key: r.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
	}
}

// Theme definitions

const defaultThemeName = "Dracula"

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
}

var themeOrder = []string{"Dracula", "Slate"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[defaultThemeName]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	out := make([]string, len(themeOrder))
	copy(out, themeOrder)
	return out
}

func draculaTheme() Theme {
	// Official Dracula palette
	return Theme{
		Name: "Dracula",

		Surface: "#282A36",
		Border:  "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette
	return Theme{
		Name: "Slate",

		Surface: "#0f172a", // slate-900
		Border:  "#334155", // slate-700

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500
	}
}
