package domain

// Store handles local persistence (BoltDB + memory).
// Services read and write preferences through it; the posts controller never does.
type Store interface {
	// === Preferences ===
	GetTheme() (string, bool)
	SaveTheme(theme string) error

	// === Viewed users ===
	GetViewedUsers() ([]int, bool)
	SaveViewedUsers(ids []int) error

	// === Users cache ===
	GetUsers() ([]User, bool)
	SaveUsers(users []User) error

	InvalidateAll()
	Close() error
}
