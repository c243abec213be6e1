package posts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mmcdole/postdeck/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AuthorNameFunc resolves a user ID to the name used when sorting by author
type AuthorNameFunc func(userID int) string

// SortPosts returns a sorted copy of records. The input slice is never reordered.
// Ties keep the stored (server) order in both directions.
func SortPosts(records []domain.Post, key domain.SortKey, dir domain.SortDirection, authorName AuthorNameFunc) []domain.Post {
	sorted := make([]domain.Post, len(records))
	copy(sorted, records)

	switch {
	case key == domain.SortByID || !key.Valid():
		sortNumeric(sorted, dir, func(p domain.Post) int { return p.ID })
		return sorted
	case key == domain.SortByAuthor && authorName == nil:
		sortNumeric(sorted, dir, func(p domain.Post) int { return p.UserID })
		return sorted
	}

	// Collator is not safe for concurrent use, so one per call.
	col := collate.New(language.Und, collate.IgnoreCase, collate.Loose)
	field := sortField(key, authorName)

	keys := make(map[int]string, len(sorted))
	for _, p := range sorted {
		keys[p.ID] = field(p)
	}

	slices.SortStableFunc(sorted, func(a, b domain.Post) int {
		c := col.CompareString(keys[a.ID], keys[b.ID])
		if dir == domain.SortDesc {
			return -c
		}
		return c
	})
	return sorted
}

func sortNumeric(posts []domain.Post, dir domain.SortDirection, field func(domain.Post) int) {
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		if dir == domain.SortDesc {
			return cmp.Compare(field(b), field(a))
		}
		return cmp.Compare(field(a), field(b))
	})
}

func sortField(key domain.SortKey, authorName AuthorNameFunc) func(domain.Post) string {
	switch key {
	case domain.SortByTitle:
		return func(p domain.Post) string { return strings.TrimSpace(p.Title) }
	case domain.SortByBody:
		return func(p domain.Post) string { return p.Excerpt() }
	case domain.SortByAuthor:
		return func(p domain.Post) string { return authorName(p.UserID) }
	}
	return func(domain.Post) string { return "" }
}
