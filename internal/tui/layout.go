package tui

// Layout proportions for the posts table
const (
	IDColumnWidth       = 5
	TitleColumnPercent  = 40
	AuthorColumnPercent = 20
	MinColumnWidth      = 8
	NarrowWidth         = 60 // below this the body column is hidden

	// title bar + column header + footer
	ChromeHeight = 3
)

// tableLayout holds calculated column widths for the View
type tableLayout struct {
	idWidth     int
	titleWidth  int
	authorWidth int
	bodyWidth   int // 0 if not shown
}

// calculateTableLayout computes column widths for the available width.
// The body excerpt is dropped first when the terminal is narrow.
func calculateTableLayout(availableWidth int) tableLayout {
	// row margins + column gaps
	usable := availableWidth - 2 - 3
	layout := tableLayout{idWidth: IDColumnWidth}

	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	rest := usable - layout.idWidth
	if availableWidth < NarrowWidth {
		layout.titleWidth = applyMin(rest * 2 / 3)
		layout.authorWidth = applyMin(rest - layout.titleWidth)
		return layout
	}

	layout.titleWidth = applyMin(rest * TitleColumnPercent / 100)
	layout.authorWidth = applyMin(rest * AuthorColumnPercent / 100)
	layout.bodyWidth = applyMin(rest - layout.titleWidth - layout.authorWidth)
	return layout
}

// tableHeight returns how many post rows fit below the chrome
func (m Model) tableHeight() int {
	return max(m.Height-ChromeHeight-len(m.Toasts.Items()), 1)
}
