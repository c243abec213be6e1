package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible   bool
	options   []domain.SortKey
	cursor    int
	activeKey domain.SortKey
	activeDir domain.SortDirection
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{options: domain.SortKeys()}
}

// Show displays the modal positioned on the current sort key
func (m *SortModal) Show(activeKey domain.SortKey, activeDir domain.SortDirection) {
	m.visible = true
	m.activeKey = activeKey
	m.activeDir = activeDir
	m.cursor = 0
	for i, opt := range m.options {
		if opt == activeKey {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// A non-nil selection is the key the user confirmed; choosing the active key
// again means "flip direction", which the controller decides.
func (m *SortModal) HandleKey(key string) (handled bool, selection *domain.SortKey) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		chosen := m.options[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc", "s", "q":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	var lines []string
	for i, opt := range m.options {
		isActive := opt == m.activeKey

		prefix := "  "
		suffix := ""
		if isActive {
			prefix = "✓ "
			suffix = " " + m.activeDir.Arrow()
		}
		text := styles.Pad(prefix+opt.String()+suffix, 20)

		style := lipgloss.NewStyle().Foreground(styles.Muted)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.Text).Background(styles.Surface)
		case isActive:
			style = lipgloss.NewStyle().Foreground(styles.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.Background).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
