package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/fetch"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
	"github.com/lepinkainen/bookshelf/internal/tui"
)

var (
	runBrowser = tui.Run
	newSource  = func(s config.Settings) catalog.Source {
		return openlibrary.NewClientFromSettings(s)
	}
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var errNetwork = errors.New("network error")

// CLI represents the complete command structure for the bookshelf application
type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error); overrides log.level from config"`
	Config   string `help:"Path to a YAML config file (defaults to ./config.yaml when present)"`

	Browse BrowseCmd `cmd:"" default:"withargs" help:"Browse the catalog interactively"`
	Search SearchCmd `cmd:"" help:"Search the catalog and print one page of results"`
	Show   ShowCmd   `cmd:"" help:"Print the details of one book"`
}

// BrowseCmd represents the interactive browser
type BrowseCmd struct {
	Path string `arg:"" optional:"" default:"/" help:"Start path, e.g. /dune, /dune/2 or /book/OL7353617M"`
}

// SearchCmd represents the one-shot search command
type SearchCmd struct {
	Query  []string `arg:"" help:"Search text"`
	Page   int      `short:"p" help:"Page number, starting at 1"`
	Format string   `short:"F" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

// ShowCmd represents the one-shot detail command
type ShowCmd struct {
	ID     string `arg:"" help:"Open Library edition identifier, e.g. OL7353617M"`
	Format string `short:"F" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx      context.Context
	settings config.Settings
	out      io.Writer
}

func (r *runtime) catalog() *catalog.Service {
	return catalog.NewService(newSource(r.settings))
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name("bookshelf"),
		kong.Description("Search Open Library and browse book details from the terminal."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, kctx, &cli); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, kctx *kong.Context, cli *CLI) error {
	initLogging(stderr, config.ParseLogLevel(cli.LogLevel))

	if err := config.InitConfig(cli.Config); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	settings := config.Load()
	if cli.LogLevel != "" {
		settings.LogLevel = cli.LogLevel
	}
	initLogging(stderr, config.ParseLogLevel(settings.LogLevel))

	return kctx.Run(&runtime{ctx: ctx, settings: settings, out: stdout})
}

func (b *BrowseCmd) Run(rt *runtime) error {
	logOut, closeLog, err := openLogFile(rt.settings.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	// the alternate screen owns the terminal, so logs go to the file
	initLogging(logOut, config.ParseLogLevel(rt.settings.LogLevel))
	slog.Info("Starting browser", "path", b.Path)

	return runBrowser(rt.ctx, rt.catalog(), b.Path)
}

func (s *SearchCmd) Run(rt *runtime) error {
	q := catalog.SearchQuery{
		Text: strings.TrimSpace(strings.Join(s.Query, " ")),
		Page: max(s.Page, 0),
	}
	if !q.Active() {
		return fmt.Errorf("search text is required")
	}

	ctrl := fetch.New[catalog.SearchQuery, catalog.SearchResultPage](rt.catalog().Search,
		fetch.WithName[catalog.SearchQuery, catalog.SearchResultPage]("search"),
	)
	page, ok := ctrl.Load(rt.ctx, q).Get()
	if !ok {
		return fmt.Errorf("searching %q: %w", q.Text, errNetwork)
	}

	return writeOutput(rt.out, s.Format, page, func() string {
		return formatSearchText(q, page)
	})
}

func (s *ShowCmd) Run(rt *runtime) error {
	q := catalog.BookDetailQuery{Identifier: strings.TrimSpace(s.ID)}
	if q.Identifier == "" {
		return fmt.Errorf("book identifier is required")
	}

	ctrl := fetch.New[catalog.BookDetailQuery, catalog.BookDetail](rt.catalog().Detail,
		fetch.WithName[catalog.BookDetailQuery, catalog.BookDetail]("detail"),
	)
	book, ok := ctrl.Load(rt.ctx, q).Get()
	if !ok {
		return fmt.Errorf("loading book %s: %w", q.Identifier, errNetwork)
	}

	return writeOutput(rt.out, s.Format, book, func() string {
		return formatDetailText(book)
	})
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func initLogging(w io.Writer, level slog.Level) {
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
