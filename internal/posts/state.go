package posts

import "github.com/mmcdole/postdeck/internal/domain"

// State is an immutable copy of the controller state, read by presentation code
type State struct {
	Query        string
	Records      []domain.Post // stored order, deduplicated by ID
	Cursor       int
	Exhausted    bool
	VisibleCount int
	SortKey      domain.SortKey
	SortDir      domain.SortDirection
	Loading      bool
	Err          error
	Epoch        uint64
	PageSize     int
}

// Visible returns the posts inside the visible window, in presentation order.
// VisibleCount may run ahead of the loaded records; the window is clamped.
func (s State) Visible(authorName AuthorNameFunc) []domain.Post {
	sorted := SortPosts(s.Records, s.SortKey, s.SortDir, authorName)
	n := min(s.VisibleCount, len(sorted))
	return sorted[:n]
}

// HasMore reports whether growing the window could show additional posts
func (s State) HasMore() bool {
	return s.VisibleCount < len(s.Records) || !s.Exhausted
}

// Shown returns how many posts the visible window currently covers
func (s State) Shown() int {
	return min(s.VisibleCount, len(s.Records))
}
