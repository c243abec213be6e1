package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/search"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// renderTitleBar renders the top line: app name, active query and counts
func (m Model) renderTitleBar() string {
	left := styles.HeaderStyle.Render("postdeck")
	if q := m.snapshot.Query; q != "" {
		left += styles.DimStyle.Render("  search: ") + styles.FilterStyle.Render(q)
	}

	count := fmt.Sprintf("%d of %d loaded", m.snapshot.Shown(), len(m.snapshot.Records))
	if m.snapshot.Exhausted {
		count += " (all)"
	}
	right := styles.DimStyle.Render(count)

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderHeader renders the column header with the sort indicator
func (m Model) renderHeader(layout tableLayout) string {
	label := func(key domain.SortKey, width int) string {
		text := key.String()
		if key == m.snapshot.SortKey {
			text += " " + m.snapshot.SortDir.Arrow()
		}
		return styles.Pad(text, width)
	}

	cols := []string{
		label(domain.SortByID, layout.idWidth),
		label(domain.SortByTitle, layout.titleWidth),
		label(domain.SortByAuthor, layout.authorWidth),
	}
	if layout.bodyWidth > 0 {
		cols = append(cols, label(domain.SortByBody, layout.bodyWidth))
	}
	return " " + styles.HeaderStyle.Render(strings.Join(cols, " "))
}

// renderTable renders the visible window of posts
func (m Model) renderTable(layout tableLayout) string {
	height := m.tableHeight()

	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Height(height).Render(m.renderEmpty())
	}

	end := min(m.Offset+height, len(m.rows))
	lines := make([]string, 0, height)
	for i := m.Offset; i < end; i++ {
		lines = append(lines, m.renderPostRow(m.rows[i], i == m.Cursor, layout))
	}
	if end == len(m.rows) && len(lines) < height {
		lines = append(lines, m.renderMoreHint())
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderPostRow renders a single post row
func (m Model) renderPostRow(p domain.Post, selected bool, layout tableLayout) string {
	plain := lipgloss.NewStyle().Foreground(styles.Muted)
	mark := styles.MatchHighlightStyle
	if selected {
		plain = lipgloss.NewStyle().Foreground(styles.Text).Background(styles.Surface)
		mark = styles.MatchHighlightSelectedStyle
	}

	title := styles.Pad(styles.Truncate(p.Title, layout.titleWidth), layout.titleWidth)
	indexes := search.MatchIndexes(m.snapshot.Query, title)
	highlighted := search.Highlight(title, indexes, func(s string) string { return mark.Render(s) }, func(s string) string { return plain.Render(s) })

	author := m.Users.AuthorName(p.UserID)
	marker := " "
	if m.Users.IsViewed(p.UserID) {
		marker = styles.ViewedChar
	}
	green := styles.Green

	parts := []styles.RowPart{
		{Text: styles.Pad(fmt.Sprintf("%d", p.ID), layout.idWidth) + " "},
		{Text: highlighted, Rendered: true},
		{Text: " "},
		{Text: marker, Foreground: &green},
		{Text: styles.Pad(styles.Truncate(author, layout.authorWidth-1), layout.authorWidth-1)},
	}
	if layout.bodyWidth > 0 {
		dim := styles.DimGray
		parts = append(parts,
			styles.RowPart{Text: " "},
			styles.RowPart{Text: styles.Truncate(p.Excerpt(), layout.bodyWidth), Foreground: &dim},
		)
	}
	return styles.RenderListRow(parts, selected, m.Width)
}

// renderMoreHint tells the reader whether more posts can be shown
func (m Model) renderMoreHint() string {
	switch {
	case m.loading():
		return " " + RenderSpinner(m.SpinnerFrame) + styles.DimStyle.Render(" loading more...")
	case m.snapshot.HasMore():
		return styles.DimStyle.Render(" ↓ more posts (m)")
	default:
		return styles.DimStyle.Render(" end of results")
	}
}

// renderEmpty renders the table placeholder when no posts are visible
func (m Model) renderEmpty() string {
	switch {
	case m.loading():
		return " " + RenderSpinner(m.SpinnerFrame) + styles.DimStyle.Render(" Loading posts...")
	case m.snapshot.Err != nil:
		return " " + RenderError(m.snapshot.Err, m.Width) + styles.DimStyle.Render("  (r to retry)")
	case m.snapshot.Query != "":
		return styles.DimStyle.Render(fmt.Sprintf(" No posts match %q", m.snapshot.Query))
	default:
		return styles.DimStyle.Render(" No posts")
	}
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	if m.loading() {
		text := "Loading..."
		if m.sorting {
			text = "Loading all posts to sort..."
		}
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(text)
	} else if m.snapshot.Err != nil {
		left = styles.ErrorStyle.Render("Last request failed · r to retry")
	}

	center := styles.AccentStyle.Render("/") + styles.DimStyle.Render(" search  ") +
		styles.AccentStyle.Render("s") + styles.DimStyle.Render(" sort  ") +
		styles.AccentStyle.Render("u") + styles.DimStyle.Render(" authors")
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad
	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      SEARCH & SORT
  j/k        Up/down               /      Search titles
  g/G        First/last post       Esc    Clear search
  PgUp/PgDn  Scroll page           s      Sort menu
  m          Show more posts       1-4    Sort by id/title/author/body
  Enter      Open post                    (again to flip direction)

OTHER
  u          Authors               r      Retry
  t          Toggle theme          q      Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders the loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Render(styles.Truncate("Error: "+describeError(err), max(width-4, 10)))
}
