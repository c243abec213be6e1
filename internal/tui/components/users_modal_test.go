package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersModal_SelectAndFilter(t *testing.T) {
	m := NewUsersModal()
	m.Show()
	m.SetUsers([]domain.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret"},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette"},
	}, func(id int) bool { return id == 1 })

	m, _, sel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, sel)

	m, _, sel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.ID)
	assert.Equal(t, 2, m.viewedCount())

	m, _, _, changed := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	assert.True(t, changed)
	assert.Equal(t, "e", m.Query())

	m, _, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsVisible())
}

func TestUsersModal_ViewEmpty(t *testing.T) {
	m := NewUsersModal()
	assert.Equal(t, "", m.View())

	m.Show()
	m.SetUsers(nil, func(int) bool { return false })
	assert.Contains(t, m.View(), "No matching authors")
}
