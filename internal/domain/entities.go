package domain

import (
	"fmt"
	"strings"
)

// Post is a single record of the remote collection.
// Identity is by ID; posts are never edited locally.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Excerpt returns the body flattened to a single line
func (p Post) Excerpt() string {
	return strings.Join(strings.Fields(p.Body), " ")
}

// User is an author of posts
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Address is the postal address of a user (only the parts we display)
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Company is the employer of a user
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
}

// DisplayName returns the name shown in the author column
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user #%d", u.ID)
}

// SortKey identifies the post field used for presentation ordering
type SortKey string

const (
	SortByID     SortKey = "id"
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByBody   SortKey = "body"
)

// SortKeys returns every valid sort key in display order
func SortKeys() []SortKey {
	return []SortKey{SortByID, SortByTitle, SortByAuthor, SortByBody}
}

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	switch k {
	case SortByID, SortByTitle, SortByAuthor, SortByBody:
		return true
	}
	return false
}

// String returns the display name for the sort key
func (k SortKey) String() string {
	switch k {
	case SortByID:
		return "ID"
	case SortByTitle:
		return "Title"
	case SortByAuthor:
		return "Author"
	case SortByBody:
		return "Body"
	default:
		return "Unknown"
	}
}

// ParseSortKey converts user input ("Title", " author ") into a SortKey
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
	return k, nil
}

// SortDirection represents sort direction
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Flip returns the opposite direction
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Arrow returns the indicator used next to a sorted column header
func (d SortDirection) Arrow() string {
	if d == SortDesc {
		return "↓"
	}
	return "↑"
}
