package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// Detail shows a single post with its author
type Detail struct {
	visible bool
	post    domain.Post
	author  *domain.User
	viewed  bool
	offset  int // scroll offset into the body
	width   int
	height  int
}

// NewDetail creates a hidden detail panel
func NewDetail() Detail {
	return Detail{}
}

// Show displays post. author may be nil while the directory is unknown.
func (d *Detail) Show(post domain.Post, author *domain.User, viewed bool) {
	d.visible = true
	d.post = post
	d.author = author
	d.viewed = viewed
	d.offset = 0
}

// Hide dismisses the panel
func (d *Detail) Hide() {
	d.visible = false
}

// IsVisible returns whether the panel is shown
func (d Detail) IsVisible() bool {
	return d.visible
}

// Post returns the post on display
func (d Detail) Post() domain.Post {
	return d.post
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// HandleKey scrolls or closes the panel
func (d *Detail) HandleKey(key string) bool {
	if !d.visible {
		return false
	}
	switch key {
	case "j", "down":
		d.offset++
	case "k", "up":
		if d.offset > 0 {
			d.offset--
		}
	case "esc", "enter", "q", "h", "left":
		d.visible = false
	}
	return true
}

// View renders the component
func (d Detail) View() string {
	if !d.visible {
		return ""
	}

	contentWidth := max(d.width-6, 20)

	var header strings.Builder
	header.WriteString(styles.TitleStyle.Width(contentWidth).Render(d.post.Title))
	header.WriteString("\n")
	header.WriteString(styles.DimStyle.Render(fmt.Sprintf("Post #%d", d.post.ID)))
	header.WriteString("\n\n")
	header.WriteString(d.renderAuthor())
	header.WriteString("\n")

	bodyLines := strings.Split(wordWrap(d.post.Body, contentWidth), "\n")
	maxVisible := max(d.height-lipgloss.Height(header.String())-6, 1)
	offset := min(d.offset, max(len(bodyLines)-maxVisible, 0))
	end := min(offset+maxVisible, len(bodyLines))

	content := header.String() + "\n" + styles.SubtitleStyle.Render(strings.Join(bodyLines[offset:end], "\n"))
	return styles.ModalStyle.Width(contentWidth + 4).Render(content)
}

func (d Detail) renderAuthor() string {
	if d.author == nil {
		return styles.DimStyle.Render(fmt.Sprintf("by user #%d", d.post.UserID))
	}
	u := d.author
	name := styles.AccentStyle.Render(u.DisplayName())
	if d.viewed {
		name += " " + styles.ViewedStyle.Render(styles.ViewedChar)
	}

	lines := []string{"by " + name}
	if u.Username != "" {
		lines = append(lines, styles.DimStyle.Render("@"+u.Username))
	}
	if u.Email != "" {
		lines = append(lines, styles.DimStyle.Render(u.Email))
	}
	if u.Company.Name != "" {
		lines = append(lines, styles.DimStyle.Render(u.Company.Name))
	}
	if u.Address.City != "" {
		lines = append(lines, styles.DimStyle.Render(u.Address.City))
	}
	return strings.Join(lines, "\n")
}

// wordWrap wraps text at word boundaries
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) > width:
				out = append(out, line)
				line = word
			default:
				line += " " + word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
