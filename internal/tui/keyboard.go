package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.SearchInput.Show("Search post titles", m.snapshot.Query)
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.snapshot.Query == "" {
			return m, nil
		}
		m.Cursor, m.Offset = 0, 0
		cmd := m.startPostsOp(SearchCmd(m.Posts, ""))
		return m, cmd

	case key.Matches(msg, Keys.Up):
		m.Cursor--
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.Cursor >= len(m.rows)-1 {
			// Moving past the last row asks for more
			return m.growWindow()
		}
		m.Cursor++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.PageUp):
		m.Cursor -= m.tableHeight()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.PageDown):
		m.Cursor += m.tableHeight()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.Cursor = 0
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.End):
		m.Cursor = len(m.rows) - 1
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.More):
		return m.growWindow()

	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(m.snapshot.SortKey, m.snapshot.SortDir)
		return m, nil

	case key.Matches(msg, Keys.SortByID):
		return m.applySort(domain.SortByID)
	case key.Matches(msg, Keys.SortByTitle):
		return m.applySort(domain.SortByTitle)
	case key.Matches(msg, Keys.SortByAuthor):
		return m.applySort(domain.SortByAuthor)
	case key.Matches(msg, Keys.SortByBody):
		return m.applySort(domain.SortByBody)

	case key.Matches(msg, Keys.Enter):
		return m.openSelected()

	case key.Matches(msg, Keys.Users):
		m.UsersModal.Show()
		m.UsersModal.SetUsers(m.Users.Filter(""), m.Users.IsViewed)
		if !m.Users.Loaded() {
			return m, FetchUsersCmd(m.Users)
		}
		return m, nil

	case key.Matches(msg, Keys.Theme):
		return m, ToggleThemeCmd(m.Theme)

	case key.Matches(msg, Keys.Retry):
		cmd := m.startPostsOp(SearchCmd(m.Posts, m.snapshot.Query))
		return m, cmd
	}

	return m, nil
}

// routeToModal sends the key to the visible modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case m.SearchInput.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.SearchInput, cmd, submitted = m.SearchInput.Update(msg)
		if submitted {
			m.Cursor, m.Offset = 0, 0
			search := m.startPostsOp(SearchCmd(m.Posts, m.SearchInput.Value()))
			return true, m, tea.Batch(cmd, search)
		}
		return true, m, cmd

	case m.SortModal.IsVisible():
		_, selection := m.SortModal.HandleKey(msg.String())
		if selection != nil {
			model, cmd := m.applySort(*selection)
			return true, model.(Model), cmd
		}
		return true, m, nil

	case m.UsersModal.IsVisible():
		var cmd tea.Cmd
		var selected *domain.User
		var changed bool
		m.UsersModal, cmd, selected, changed = m.UsersModal.Update(msg)
		if changed {
			m.UsersModal.SetUsers(m.Users.Filter(m.UsersModal.Query()), m.Users.IsViewed)
		}
		if selected != nil {
			return true, m, tea.Batch(cmd, MarkViewedCmd(m.Users, *selected))
		}
		return true, m, cmd

	case m.Detail.IsVisible():
		m.Detail.HandleKey(msg.String())
		return true, m, nil
	}

	return false, m, nil
}

// growWindow reveals more posts when there are any left to show
func (m Model) growWindow() (tea.Model, tea.Cmd) {
	if !m.snapshot.HasMore() || m.loading() {
		return m, nil
	}
	cmd := m.startPostsOp(GrowCmd(m.Posts))
	return m, cmd
}

// applySort sorts by key; choosing the active key flips the direction
func (m Model) applySort(key domain.SortKey) (tea.Model, tea.Cmd) {
	m.sorting = true
	m.Cursor, m.Offset = 0, 0
	cmd := m.startPostsOp(SetSortCmd(m.Posts, key))
	return m, cmd
}

// openSelected shows the selected post and marks its author as viewed
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return m, nil
	}
	post := m.rows[m.Cursor]

	author, err := m.Users.Get(post.UserID)
	if err != nil {
		m.Detail.Show(post, nil, false)
		return m, nil
	}
	m.Detail.Show(post, &author, true)
	return m, MarkViewedCmd(m.Users, author)
}
