package posts

import (
	"testing"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ids(posts []domain.Post) []int {
	out := make([]int, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestSortPosts(t *testing.T) {
	records := []domain.Post{
		{ID: 3, UserID: 2, Title: "cherry pie", Body: "zeta"},
		{ID: 1, UserID: 1, Title: "Banana bread", Body: "alpha"},
		{ID: 2, UserID: 3, Title: "apple tart", Body: "Mu"},
	}
	names := map[int]string{1: "Zoe", 2: "adam", 3: "Maria"}
	author := func(id int) string { return names[id] }

	tests := []struct {
		name string
		key  domain.SortKey
		dir  domain.SortDirection
		want []int
	}{
		{"id ascending", domain.SortByID, domain.SortAsc, []int{1, 2, 3}},
		{"id descending", domain.SortByID, domain.SortDesc, []int{3, 2, 1}},
		{"title ignores case", domain.SortByTitle, domain.SortAsc, []int{2, 1, 3}},
		{"title descending", domain.SortByTitle, domain.SortDesc, []int{3, 1, 2}},
		{"body", domain.SortByBody, domain.SortAsc, []int{1, 2, 3}},
		{"author name", domain.SortByAuthor, domain.SortAsc, []int{3, 2, 1}},
		{"author name descending", domain.SortByAuthor, domain.SortDesc, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortPosts(records, tt.key, tt.dir, author)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortPosts_DoesNotReorderInput(t *testing.T) {
	records := []domain.Post{{ID: 2}, {ID: 1}}
	SortPosts(records, domain.SortByID, domain.SortAsc, nil)
	assert.Equal(t, []int{2, 1}, ids(records))
}

func TestSortPosts_TiesKeepStoredOrder(t *testing.T) {
	records := []domain.Post{
		{ID: 5, Title: "same"},
		{ID: 2, Title: "Same"},
		{ID: 9, Title: "same "},
	}

	assert.Equal(t, []int{5, 2, 9}, ids(SortPosts(records, domain.SortByTitle, domain.SortAsc, nil)))
	assert.Equal(t, []int{5, 2, 9}, ids(SortPosts(records, domain.SortByTitle, domain.SortDesc, nil)))
}

func TestSortPosts_AuthorWithoutResolverUsesUserID(t *testing.T) {
	records := []domain.Post{
		{ID: 1, UserID: 3},
		{ID: 2, UserID: 1},
		{ID: 3, UserID: 2},
	}
	assert.Equal(t, []int{2, 3, 1}, ids(SortPosts(records, domain.SortByAuthor, domain.SortAsc, nil)))
}

func TestSortPosts_UnknownKeyFallsBackToID(t *testing.T) {
	records := []domain.Post{{ID: 2}, {ID: 1}}
	assert.Equal(t, []int{1, 2}, ids(SortPosts(records, domain.SortKey("views"), domain.SortAsc, nil)))
}

func TestState_VisibleClampsWindow(t *testing.T) {
	s := State{
		Records:      []domain.Post{{ID: 3}, {ID: 1}, {ID: 2}},
		VisibleCount: 30,
		SortKey:      domain.SortByID,
		SortDir:      domain.SortDesc,
		Exhausted:    true,
	}
	assert.Equal(t, []int{3, 2, 1}, ids(s.Visible(nil)))
	assert.Equal(t, 3, s.Shown())
	assert.False(t, s.HasMore())

	s.VisibleCount = 2
	assert.Equal(t, []int{3, 2}, ids(s.Visible(nil)))
	assert.True(t, s.HasMore())
}

func TestState_HasMoreWhileNotExhausted(t *testing.T) {
	s := State{VisibleCount: 30, Records: make([]domain.Post, 30)}
	assert.True(t, s.HasMore())
}
