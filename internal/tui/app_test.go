package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/posts"
	"github.com/mmcdole/postdeck/internal/store"
	"github.com/mmcdole/postdeck/internal/theme"
	"github.com/mmcdole/postdeck/internal/tui/styles"
	"github.com/mmcdole/postdeck/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves posts and users from memory, filtering titles like the real API
type fakeAPI struct {
	mu      sync.Mutex
	posts   []domain.Post
	users   []domain.User
	fail    error
	fetches int
}

func (f *fakeAPI) GetPosts(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fail != nil {
		return nil, f.fail
	}

	var matched []domain.Post
	for _, p := range f.posts {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Filter)) {
			matched = append(matched, p)
		}
	}
	start := min(q.Start, len(matched))
	end := min(q.Start+q.Limit, len(matched))
	return append([]domain.Post{}, matched[start:end]...), nil
}

func (f *fakeAPI) GetUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.User{}, f.users...), nil
}

func (f *fakeAPI) setFailure(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newFakeAPI(n int) *fakeAPI {
	api := &fakeAPI{}
	for i := 1; i <= n; i++ {
		title := fmt.Sprintf("post %d", i)
		if i%10 == 0 {
			title = fmt.Sprintf("alpha %d", i)
		}
		api.posts = append(api.posts, domain.Post{ID: i, UserID: (i-1)%3 + 1, Title: title, Body: "body"})
	}
	api.users = []domain.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret"},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette"},
		{ID: 3, Name: "Clementine Bauch", Username: "Samantha"},
	}
	return api
}

func newTestModel(t *testing.T, api *fakeAPI) Model {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prefs, err := store.NewPrefsStore("")
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	ctrl := posts.NewController(api, posts.DefaultPageSize, logger)
	t.Cleanup(ctrl.Close)

	m := NewModel(ctrl, users.NewService(api, prefs, logger), theme.NewService(prefs, logger), Options{
		ToastTimeout: 10 * time.Millisecond,
		Logger:       logger,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return feed(t, updated.(Model), m.Init())
}

// runCmd executes cmd and any batched children, returning the produced messages
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("command did not finish")
	}

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmd(t, c)...)
	}
	return out
}

// feed runs cmd and delivers the application messages it produces back into
// the model. Ticks and toast expiry are dropped so state stays observable.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range runCmd(t, cmd) {
		switch msg.(type) {
		case PostsUpdatedMsg, UsersLoadedMsg, UserViewedMsg, ThemeToggledMsg, ErrMsg:
			updated, next := m.Update(msg)
			m = feed(t, updated.(Model), next)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, cmd := m.Update(msg)
		m = feed(t, updated.(Model), cmd)
	}
	return m
}

func rowIDs(m Model) []int {
	ids := make([]int, len(m.rows))
	for i, p := range m.rows {
		ids[i] = p.ID
	}
	return ids
}

func TestModel_InitialLoad(t *testing.T) {
	api := newFakeAPI(65)
	m := newTestModel(t, api)

	assert.Len(t, m.rows, 30)
	assert.Equal(t, 1, m.rows[0].ID)
	assert.Equal(t, 0, m.pending)
	assert.False(t, m.loading())
	assert.True(t, m.Users.Loaded())
	assert.Equal(t, 1, api.fetchCount())
}

func TestModel_MoreGrowsWindowUntilExhausted(t *testing.T) {
	api := newFakeAPI(65)
	m := newTestModel(t, api)

	m = press(t, m, "m")
	assert.Len(t, m.rows, 60)

	m = press(t, m, "m")
	assert.Len(t, m.rows, 65)
	assert.False(t, m.snapshot.HasMore())

	m = press(t, m, "m")
	assert.Len(t, m.rows, 65)
	assert.Equal(t, 3, api.fetchCount())
	assert.Equal(t, 0, m.pending)
}

func TestModel_MovingPastLastRowLoadsMore(t *testing.T) {
	m := newTestModel(t, newFakeAPI(65))

	m = press(t, m, "G")
	assert.Equal(t, 29, m.Cursor)

	m = press(t, m, "j")
	assert.Len(t, m.rows, 60)
	assert.Equal(t, 29, m.Cursor)

	m = press(t, m, "j")
	assert.Equal(t, 30, m.Cursor)
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	m := newTestModel(t, newFakeAPI(5))

	m = press(t, m, "k", "k")
	assert.Equal(t, 0, m.Cursor)

	m = press(t, m, "j", "j", "j", "j", "j", "j")
	assert.Equal(t, 4, m.Cursor)
	assert.Len(t, m.rows, 5)
}

func TestModel_SearchAndClear(t *testing.T) {
	api := newFakeAPI(65)
	m := newTestModel(t, api)

	m = press(t, m, "/")
	require.True(t, m.SearchInput.IsVisible())

	m = press(t, m, "alpha", "enter")
	assert.False(t, m.SearchInput.IsVisible())
	assert.Equal(t, "alpha", m.snapshot.Query)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60}, rowIDs(m))

	m = press(t, m, "esc")
	assert.Equal(t, "", m.snapshot.Query)
	assert.Len(t, m.rows, 30)
}

func TestModel_SortLoadsWholeCollection(t *testing.T) {
	api := newFakeAPI(65)
	m := newTestModel(t, api)

	m = press(t, m, "1")
	assert.False(t, m.sorting)
	assert.Equal(t, domain.SortByID, m.snapshot.SortKey)
	assert.Equal(t, domain.SortDesc, m.snapshot.SortDir)
	assert.Len(t, m.snapshot.Records, 65)
	assert.True(t, m.snapshot.Exhausted)
	assert.Len(t, m.rows, 30)
	assert.Equal(t, 65, m.rows[0].ID)

	m = press(t, m, "2")
	assert.Equal(t, domain.SortByTitle, m.snapshot.SortKey)
	assert.Equal(t, domain.SortAsc, m.snapshot.SortDir)
	assert.Equal(t, "alpha 10", m.rows[0].Title)
	assert.Equal(t, 0, m.pending)
}

func TestModel_SortModal(t *testing.T) {
	m := newTestModel(t, newFakeAPI(10))

	m = press(t, m, "s")
	require.True(t, m.SortModal.IsVisible())

	// Confirming the active key flips the direction
	m = press(t, m, "enter")
	assert.False(t, m.SortModal.IsVisible())
	assert.Equal(t, domain.SortDesc, m.snapshot.SortDir)
	assert.Equal(t, 10, m.rows[0].ID)

	m = press(t, m, "s", "esc")
	assert.False(t, m.SortModal.IsVisible())
	assert.Equal(t, domain.SortDesc, m.snapshot.SortDir)
}

func TestModel_FailureShowsToastAndRetryRecovers(t *testing.T) {
	api := newFakeAPI(40)
	api.setFailure(fmt.Errorf("%w: connection refused", domain.ErrServerOffline))
	m := newTestModel(t, api)

	require.Len(t, m.Toasts.Items(), 1)
	assert.Contains(t, m.Toasts.Items()[0].Message, "cannot reach the server")
	assert.Error(t, m.snapshot.Err)
	assert.Empty(t, m.rows)

	api.setFailure(nil)
	m = press(t, m, "r")
	assert.NoError(t, m.snapshot.Err)
	assert.Len(t, m.rows, 30)
}

func TestModel_StatusErrorMessage(t *testing.T) {
	api := newFakeAPI(5)
	api.setFailure(&domain.StatusError{Path: "/posts", StatusCode: 503})
	m := newTestModel(t, api)

	require.Len(t, m.Toasts.Items(), 1)
	assert.Contains(t, m.Toasts.Items()[0].Message, "server returned 503")
}

func TestModel_EnterOpensDetailAndMarksAuthorViewed(t *testing.T) {
	m := newTestModel(t, newFakeAPI(5))

	m = press(t, m, "j", "enter")
	require.True(t, m.Detail.IsVisible())
	assert.Equal(t, 2, m.Detail.Post().ID)
	assert.True(t, m.Users.IsViewed(2))
	assert.Equal(t, []int{2}, m.Users.Viewed())

	m = press(t, m, "esc")
	assert.False(t, m.Detail.IsVisible())
	assert.Equal(t, "", m.snapshot.Query)
}

func TestModel_UsersModal(t *testing.T) {
	m := newTestModel(t, newFakeAPI(5))

	m = press(t, m, "u")
	require.True(t, m.UsersModal.IsVisible())

	m = press(t, m, "enter")
	assert.True(t, m.Users.IsViewed(1))

	m = press(t, m, "esc")
	assert.False(t, m.UsersModal.IsVisible())
}

func TestModel_ThemeToggle(t *testing.T) {
	t.Cleanup(func() { styles.Apply(styles.DarkPalette) })
	m := newTestModel(t, newFakeAPI(5))
	require.Equal(t, theme.Dark, m.Theme.Current())

	m = press(t, m, "t")
	assert.Equal(t, theme.Light, m.Theme.Current())
	require.Len(t, m.Toasts.Items(), 1)
	assert.Contains(t, m.Toasts.Items()[0].Message, "light")
}

func TestModel_HelpReturnsOnAnyKey(t *testing.T) {
	m := newTestModel(t, newFakeAPI(5))

	m = press(t, m, "?")
	assert.Equal(t, StateHelp, m.State)

	m = press(t, m, "x")
	assert.Equal(t, StateBrowsing, m.State)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, newFakeAPI(5))

	view := m.View()
	assert.Contains(t, view, "postdeck")
	assert.Contains(t, view, "post 1")
	assert.Contains(t, view, "5 of 5 loaded")
}

func TestModel_ViewBeforeWindowSize(t *testing.T) {
	api := newFakeAPI(1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prefs, err := store.NewPrefsStore("")
	require.NoError(t, err)
	defer prefs.Close()

	m := NewModel(posts.NewController(api, 0, logger), users.NewService(api, prefs, logger), theme.NewService(prefs, logger), Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "server returned 404", describeError(fmt.Errorf("fetch: %w", &domain.StatusError{Path: "/posts", StatusCode: 404})))
	assert.Equal(t, "cannot reach the server", describeError(domain.ErrServerOffline))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}
