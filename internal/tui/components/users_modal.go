package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

const usersModalRows = 10

// UsersModal lists authors with a fuzzy filter
type UsersModal struct {
	visible bool
	input   textinput.Model
	users   []domain.User
	viewed  map[int]bool
	cursor  int
}

// NewUsersModal creates a new users modal
func NewUsersModal() UsersModal {
	ti := textinput.New()
	ti.Placeholder = "Filter authors..."
	ti.CharLimit = 50
	ti.Width = 36
	ti.Prompt = "> "
	return UsersModal{input: ti}
}

// Show displays the modal with an empty filter
func (m *UsersModal) Show() {
	m.visible = true
	m.cursor = 0
	m.input.PromptStyle = styles.FilterStyle
	m.input.TextStyle = lipgloss.NewStyle().Foreground(styles.Text)
	m.input.PlaceholderStyle = styles.DimStyle
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *UsersModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m UsersModal) IsVisible() bool {
	return m.visible
}

// Query returns the current filter text
func (m UsersModal) Query() string {
	return m.input.Value()
}

// SetUsers replaces the listed users and their viewed markers
func (m *UsersModal) SetUsers(users []domain.User, viewed func(int) bool) {
	m.users = users
	m.viewed = make(map[int]bool, len(users))
	for _, u := range users {
		m.viewed[u.ID] = viewed(u.ID)
	}
	if m.cursor >= len(users) {
		m.cursor = max(len(users)-1, 0)
	}
}

// Update handles input events. It returns the selected user when the reader
// confirms one, and reports whether the filter text changed.
func (m UsersModal) Update(msg tea.Msg) (UsersModal, tea.Cmd, *domain.User, bool) {
	if !m.visible {
		return m, nil, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, nil, false
		case "enter":
			if m.cursor < len(m.users) {
				u := m.users[m.cursor]
				m.viewed[u.ID] = true
				return m, nil, &u, false
			}
			return m, nil, nil, false
		case "down", "ctrl+n":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
			return m, nil, nil, false
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, nil, false
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	changed := m.input.Value() != before
	if changed {
		m.cursor = 0
	}
	return m, cmd, nil, changed
}

// View renders the modal
func (m UsersModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 44
	var lines []string
	start := max(m.cursor-usersModalRows+1, 0)
	end := min(start+usersModalRows, len(m.users))
	for i := start; i < end; i++ {
		u := m.users[i]
		marker := "  "
		if m.viewed[u.ID] {
			marker = styles.ViewedStyle.Render(styles.ViewedChar) + " "
		}
		text := styles.Pad(fmt.Sprintf("%-22s @%s", styles.Truncate(u.DisplayName(), 22), u.Username), width-2)

		style := lipgloss.NewStyle().Foreground(styles.Muted)
		if i == m.cursor {
			style = lipgloss.NewStyle().Foreground(styles.Text).Background(styles.Surface)
		}
		lines = append(lines, marker+style.Render(text))
	}
	if len(m.users) == 0 {
		lines = append(lines, styles.DimStyle.Render("No matching authors"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Authors"),
		m.input.View(),
		"",
		strings.Join(lines, "\n"),
		"",
		styles.DimStyle.Render(fmt.Sprintf("%d viewed · enter mark viewed · esc close", m.viewedCount())),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(0, 1).
		Width(width + 2).
		Render(content)
}

func (m UsersModal) viewedCount() int {
	n := 0
	for _, v := range m.viewed {
		if v {
			n++
		}
	}
	return n
}
