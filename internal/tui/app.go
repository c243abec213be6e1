package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/posts"
	"github.com/mmcdole/postdeck/internal/theme"
	"github.com/mmcdole/postdeck/internal/tui/components"
	"github.com/mmcdole/postdeck/internal/tui/styles"
	"github.com/mmcdole/postdeck/internal/users"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Options configures the initial view
type Options struct {
	InitialQuery string
	InitialSort  domain.SortKey
	ToastTimeout time.Duration
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Posts *posts.Controller
	Users *users.Service
	Theme *theme.Service

	// UI Components
	SearchInput components.InputModal
	SortModal   components.SortModal
	UsersModal  components.UsersModal
	Detail      components.Detail
	Toasts      components.Toasts

	// Dimensions
	Width  int
	Height int

	// Posts view
	snapshot posts.State
	rows     []domain.Post // visible window in presentation order
	Cursor   int
	Offset   int

	// UI state
	SpinnerFrame int
	pending      int  // controller operations in flight
	sorting      bool // a sort is loading the whole collection

	opts   Options
	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(ctrl *posts.Controller, usersSvc *users.Service, themeSvc *theme.Service, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		State:       StateBrowsing,
		Posts:       ctrl,
		Users:       usersSvc,
		Theme:       themeSvc,
		SearchInput: components.NewInputModal(),
		SortModal:   components.NewSortModal(),
		UsersModal:  components.NewUsersModal(),
		Detail:      components.NewDetail(),
		Toasts:      components.NewToasts(opts.ToastTimeout),
		pending:     1, // initial load issued by Init
		opts:        opts,
		logger:      logger,
	}
	m.refresh()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		InitialLoadCmd(m.Posts, m.opts.InitialQuery, m.opts.InitialSort),
		FetchUsersCmd(m.Users),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Detail.SetSize(msg.Width, msg.Height)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.pending > 0 {
			m.refresh()
		}
		return m, TickCmd(100 * time.Millisecond)

	case PostsUpdatedMsg:
		m.pending = max(m.pending-1, 0)
		if msg.Op == OpSort {
			m.sorting = false
		}
		m.refresh()
		if msg.Err != nil && !domain.IsCanceled(msg.Err) {
			m.logger.Warn("posts operation failed", "op", msg.Op, "error", msg.Err)
			cmd := m.pushError(fmt.Sprintf("%s failed: %s", msg.Op, describeError(msg.Err)))
			return m, cmd
		}
		return m, nil

	case UsersLoadedMsg:
		if msg.Err != nil && !domain.IsCanceled(msg.Err) {
			cmd := m.pushError("loading authors failed: " + describeError(msg.Err))
			return m, cmd
		}
		m.refreshUsersModal()
		// Author names may change the order when sorted by author
		m.refresh()
		return m, nil

	case UserViewedMsg:
		m.refreshUsersModal()
		return m, nil

	case ThemeToggledMsg:
		styles.Apply(styles.ForTheme(msg.Theme))
		if msg.Err != nil {
			cmd := m.pushError("saving theme failed: " + describeError(msg.Err))
			return m, cmd
		}
		_, cmd := m.Toasts.Push("Theme: "+msg.Theme, components.ToastInfo)
		return m, cmd

	case components.ToastExpiredMsg:
		m.Toasts.Remove(msg.ID)
		m.clampCursor()
		return m, nil

	case ErrMsg:
		m.logger.Error("ui error", "context", msg.Context, "error", msg.Err)
		cmd := m.pushError(msg.Error())
		return m, cmd
	}

	return m, nil
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := calculateTableLayout(m.Width)
	parts := []string{
		m.renderTitleBar(),
		m.renderHeader(layout),
		m.renderTable(layout),
	}
	if toasts := m.Toasts.View(m.Width); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderFooter())
	view := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Overlays
	switch {
	case m.SearchInput.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.SearchInput.View())
	case m.SortModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.SortModal.View())
	case m.UsersModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.UsersModal.View())
	case m.Detail.IsVisible():
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.Detail.View())
	}

	return view
}

// refresh re-reads the controller state and rebuilds the visible rows
func (m *Model) refresh() {
	m.snapshot = m.Posts.Snapshot()
	m.rows = m.snapshot.Visible(m.Users.AuthorName)
	m.clampCursor()
}

func (m *Model) refreshUsersModal() {
	if m.UsersModal.IsVisible() {
		m.UsersModal.SetUsers(m.Users.Filter(m.UsersModal.Query()), m.Users.IsViewed)
	}
}

// clampCursor keeps the cursor on a row and inside the scroll window
func (m *Model) clampCursor() {
	if len(m.rows) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor, 0), len(m.rows)-1)

	height := m.tableHeight()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+height {
		m.Offset = m.Cursor - height + 1
	}
	m.Offset = max(min(m.Offset, len(m.rows)-1), 0)
}

func (m Model) loading() bool {
	return m.pending > 0 || m.snapshot.Loading
}

// startPostsOp tracks an in-flight controller command
func (m *Model) startPostsOp(cmd tea.Cmd) tea.Cmd {
	m.pending++
	return cmd
}

func (m *Model) pushError(text string) tea.Cmd {
	_, cmd := m.Toasts.Push(text, components.ToastError)
	m.clampCursor()
	return cmd
}

// describeError turns a request failure into a short reader-facing message
func describeError(err error) string {
	var statusErr *domain.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("server returned %d", statusErr.StatusCode)
	case errors.Is(err, domain.ErrServerOffline):
		return "cannot reach the server"
	default:
		return err.Error()
	}
}
