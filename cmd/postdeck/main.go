package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/adapter"
	"github.com/mmcdole/postdeck/internal/adapter/source/jsonplaceholder"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/posts"
	"github.com/mmcdole/postdeck/internal/store"
	"github.com/mmcdole/postdeck/internal/theme"
	"github.com/mmcdole/postdeck/internal/tui"
	"github.com/mmcdole/postdeck/internal/tui/styles"
	"github.com/mmcdole/postdeck/internal/users"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	query      string
	sort       string
	dump       bool
	clearCache bool
}

func main() {
	var showVersion bool
	var opts options
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.query, "query", "", "initial title filter")
	flag.StringVar(&opts.sort, "sort", "", "initial sort key (id, title, author, body)")
	flag.BoolVar(&opts.dump, "dump", false, "print all matching posts and exit")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "drop cached API responses before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("postdeck %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting postdeck", "version", Version, "api", cfg.API.BaseURL)

	sortKey := cfg.UI.DefaultSort
	if opts.sort != "" {
		sortKey = opts.sort
	}
	key, err := domain.ParseSortKey(sortKey)
	if err != nil {
		return err
	}

	// Local persistence
	prefs, err := store.NewPrefsStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer prefs.Close()

	if opts.clearCache {
		prefs.InvalidateAll()
		logger.Info("cache cleared")
	}

	// Create adapters and services
	client := jsonplaceholder.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	ctrl := posts.NewController(client, cfg.API.PageSize, logger)
	defer ctrl.Close()

	usersSvc := users.NewService(client, prefs, logger)
	usersSvc.InitViewed()

	if opts.dump || !term.IsTerminal(int(os.Stdout.Fd())) {
		return dump(os.Stdout, ctrl, usersSvc, opts.query, key)
	}

	themeSvc := theme.NewService(prefs, logger)
	styles.Apply(styles.ForTheme(themeSvc.Init()))

	model := tui.NewModel(ctrl, usersSvc, themeSvc, tui.Options{
		InitialQuery: opts.query,
		InitialSort:  key,
		Logger:       logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// dump loads every post matching query and prints it in the requested order
func dump(w io.Writer, ctrl *posts.Controller, usersSvc *users.Service, query string, key domain.SortKey) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := usersSvc.FetchAll(ctx); err != nil {
		slog.Warn("authors unavailable", "error", err)
	}
	if err := ctrl.Search(ctx, query); err != nil {
		return err
	}
	if key != ctrl.Snapshot().SortKey {
		if err := ctrl.SetSort(ctx, key); err != nil {
			return err
		}
	} else if err := ctrl.EnsureFullyLoaded(ctx); err != nil {
		return err
	}

	state := ctrl.Snapshot()
	state.VisibleCount = len(state.Records)
	for _, p := range state.Visible(usersSvc.AuthorName) {
		fmt.Fprintf(w, "%5d  %s  %s\n",
			p.ID,
			styles.Pad(styles.Truncate(usersSvc.AuthorName(p.UserID), 20), 20),
			p.Title)
	}
	return nil
}
