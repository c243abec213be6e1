package theme

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/domain"
)

// Theme names as persisted
const (
	Light = "light"
	Dark  = "dark"
)

// Service holds the light/dark preference
type Service struct {
	store  domain.Store
	logger *slog.Logger

	// detectDark reports whether the terminal background is dark
	detectDark func() bool

	mu      sync.RWMutex
	current string
}

// NewService creates a theme service. Call Init before reading Current.
func NewService(store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		logger:     logger,
		detectDark: lipgloss.HasDarkBackground,
		current:    Dark,
	}
}

// Init applies the saved theme, or derives one from the terminal background
func (s *Service) Init() string {
	theme, ok := s.store.GetTheme()
	if !ok || !valid(theme) {
		theme = Light
		if s.detectDark() {
			theme = Dark
		}
		s.logger.Debug("no saved theme, using terminal background", "theme", theme)
	}

	s.mu.Lock()
	s.current = theme
	s.mu.Unlock()
	return theme
}

// Toggle switches between light and dark and saves the choice
func (s *Service) Toggle() (string, error) {
	s.mu.Lock()
	if s.current == Dark {
		s.current = Light
	} else {
		s.current = Dark
	}
	theme := s.current
	s.mu.Unlock()

	if err := s.store.SaveTheme(theme); err != nil {
		s.logger.Error("failed to save theme", "error", err)
		return theme, fmt.Errorf("save theme: %w", err)
	}
	return theme, nil
}

// Current returns the active theme name
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsDark reports whether the dark theme is active
func (s *Service) IsDark() bool {
	return s.Current() == Dark
}

func valid(theme string) bool {
	return theme == Light || theme == Dark
}
