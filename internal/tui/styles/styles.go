package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Dim        lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
	Green      lipgloss.Color
	Red        lipgloss.Color
	Blue       lipgloss.Color
}

// Palettes
var (
	DarkPalette = Palette{
		Accent:     lipgloss.Color("#E5A00D"),
		Background: lipgloss.Color("#1F2937"),
		Surface:    lipgloss.Color("#374151"),
		Dim:        lipgloss.Color("#6B7280"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Text:       lipgloss.Color("#F9FAFB"),
		Green:      lipgloss.Color("#10B981"),
		Red:        lipgloss.Color("#EF4444"),
		Blue:       lipgloss.Color("#3B82F6"),
	}

	LightPalette = Palette{
		Accent:     lipgloss.Color("#B45309"),
		Background: lipgloss.Color("#F9FAFB"),
		Surface:    lipgloss.Color("#E5E7EB"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Muted:      lipgloss.Color("#4B5563"),
		Text:       lipgloss.Color("#111827"),
		Green:      lipgloss.Color("#047857"),
		Red:        lipgloss.Color("#B91C1C"),
		Blue:       lipgloss.Color("#1D4ED8"),
	}
)

// Active palette colors
var (
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	DimGray    lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
	Green      lipgloss.Color
	Red        lipgloss.Color
	Blue       lipgloss.Color
)

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	HeaderStyle    lipgloss.Style
	SpinnerStyle   lipgloss.Style
	FilterStyle    lipgloss.Style
	ViewedStyle    lipgloss.Style
	InactiveBorder lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// Help styles
var (
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
)

// Match highlight styles for search results
var (
	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
)

// Toast styles
var (
	ToastInfoStyle  lipgloss.Style
	ToastErrorStyle lipgloss.Style
)

// ViewedChar marks authors the reader has already looked at
const ViewedChar = "✓"

func init() {
	Apply(DarkPalette)
}

// ForTheme returns the palette for a theme name ("light" or "dark")
func ForTheme(theme string) Palette {
	if theme == "light" {
		return LightPalette
	}
	return DarkPalette
}

// Apply rebuilds every style from p
func Apply(p Palette) {
	Accent, Background, Surface = p.Accent, p.Background, p.Surface
	DimGray, Muted, Text = p.Dim, p.Muted, p.Text
	Green, Red, Blue = p.Green, p.Red, p.Blue

	TitleStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(Muted)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)
	HeaderStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)
	FilterStyle = lipgloss.NewStyle().Foreground(Accent)
	ViewedStyle = lipgloss.NewStyle().Foreground(Green)

	InactiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		Background(Background)

	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true).
		MarginBottom(1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(DimGray)

	MatchHighlightStyle = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(Accent).
		Background(Surface).
		Bold(true)

	ToastInfoStyle = lipgloss.NewStyle().
		Foreground(Text).
		Background(Surface).
		Padding(0, 1)

	ToastErrorStyle = lipgloss.NewStyle().
		Foreground(Text).
		Background(Red).
		Padding(0, 1)
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads (or cuts) a string to the given width
func Pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:max(width, 0)])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly to avoid ANSI reset code issues.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visibleLen := 0

	base := lipgloss.NewStyle()
	if selected {
		base = base.Background(Surface)
	}

	for _, part := range parts {
		style := base
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(Text)
		default:
			style = style.Foreground(Muted)
		}
		if part.Rendered {
			b.WriteString(part.Text)
		} else {
			b.WriteString(style.Render(part.Text))
		}
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width (subtract 2 for left/right margin)
	if pad := width - visibleLen - 2; pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}

	margin := base.Render(" ")
	return margin + b.String() + margin
}

// RowPart represents a part of a row with optional foreground color.
// Rendered parts already carry their own styling.
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Rendered   bool
}
