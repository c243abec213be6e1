package tui

import "github.com/mmcdole/postdeck/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PostsOp names the controller operation a PostsUpdatedMsg reports on
type PostsOp string

const (
	OpSearch PostsOp = "search"
	OpGrow   PostsOp = "load more"
	OpSort   PostsOp = "sort"
)

// PostsUpdatedMsg signals that a controller operation settled.
// The view re-reads the controller snapshot; Err is nil for cancellations.
type PostsUpdatedMsg struct {
	Op  PostsOp
	Err error
}

// UsersLoadedMsg signals that the author directory was refreshed
type UsersLoadedMsg struct {
	Err error
}

// UserViewedMsg signals that an author was added to the viewed set
type UserViewedMsg struct {
	User domain.User
}

// ThemeToggledMsg carries the newly active theme
type ThemeToggledMsg struct {
	Theme string
	Err   error
}

// TickMsg is a general tick message for animations
type TickMsg struct{}
