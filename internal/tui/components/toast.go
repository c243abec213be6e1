package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// DefaultToastTimeout is how long a toast stays on screen
const DefaultToastTimeout = 3500 * time.Millisecond

// ToastKind selects the toast styling
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
)

// Toast is a transient notification
type Toast struct {
	ID      string
	Message string
	Kind    ToastKind
}

// ToastExpiredMsg is delivered when a toast's timer fires
type ToastExpiredMsg struct {
	ID string
}

// Toasts is a stack of transient notifications, newest last
type Toasts struct {
	items   []Toast
	timeout time.Duration
}

// NewToasts creates an empty toast stack. A zero timeout uses the default.
func NewToasts(timeout time.Duration) Toasts {
	if timeout <= 0 {
		timeout = DefaultToastTimeout
	}
	return Toasts{timeout: timeout}
}

// Push adds a toast and returns its id with the command that expires it
func (t *Toasts) Push(message string, kind ToastKind) (string, tea.Cmd) {
	id := uuid.NewString()
	t.items = append(t.items, Toast{ID: id, Message: message, Kind: kind})
	return id, tea.Tick(t.timeout, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Remove drops the toast with the given id. Unknown ids are ignored.
func (t *Toasts) Remove(id string) bool {
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the toasts currently shown
func (t Toasts) Items() []Toast {
	return t.items
}

// View renders the toasts stacked vertically, right aligned to width
func (t Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.items))
	for _, item := range t.items {
		style := styles.ToastInfoStyle
		if item.Kind == ToastError {
			style = styles.ToastErrorStyle
		}
		msg := styles.Truncate(item.Message, max(width-4, 10))
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, style.Render(msg)))
	}
	return strings.Join(lines, "\n")
}
