package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/posts"
	"github.com/mmcdole/postdeck/internal/theme"
	"github.com/mmcdole/postdeck/internal/users"
)

// Command factories for async operations

// opTimeout bounds a whole controller operation; sorting may fetch many pages
const opTimeout = 60 * time.Second

// InitialLoadCmd runs the startup search and applies the initial sort
func InitialLoadCmd(ctrl *posts.Controller, query string, sort domain.SortKey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := ctrl.Search(ctx, query); err != nil {
			return PostsUpdatedMsg{Op: OpSearch, Err: err}
		}
		if sort != "" && sort != ctrl.Snapshot().SortKey {
			return PostsUpdatedMsg{Op: OpSort, Err: ctrl.SetSort(ctx, sort)}
		}
		return PostsUpdatedMsg{Op: OpSearch}
	}
}

// SearchCmd starts a new query, superseding any in-flight request
func SearchCmd(ctrl *posts.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return PostsUpdatedMsg{Op: OpSearch, Err: ctrl.Search(ctx, query)}
	}
}

// GrowCmd reveals one more page of posts
func GrowCmd(ctrl *posts.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return PostsUpdatedMsg{Op: OpGrow, Err: ctrl.GrowVisibleWindow(ctx)}
	}
}

// SetSortCmd changes the sort order, loading the whole collection first
func SetSortCmd(ctrl *posts.Controller, key domain.SortKey) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return PostsUpdatedMsg{Op: OpSort, Err: ctrl.SetSort(ctx, key)}
	}
}

// FetchUsersCmd refreshes the author directory
func FetchUsersCmd(svc *users.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return UsersLoadedMsg{Err: svc.FetchAll(ctx)}
	}
}

// MarkViewedCmd records that the reader looked at an author
func MarkViewedCmd(svc *users.Service, user domain.User) tea.Cmd {
	return func() tea.Msg {
		if err := svc.MarkViewed(user.ID); err != nil {
			return ErrMsg{Err: err, Context: "saving viewed authors"}
		}
		return UserViewedMsg{User: user}
	}
}

// ToggleThemeCmd switches between light and dark
func ToggleThemeCmd(svc *theme.Service) tea.Cmd {
	return func() tea.Msg {
		name, err := svc.Toggle()
		return ThemeToggledMsg{Theme: name, Err: err}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}
