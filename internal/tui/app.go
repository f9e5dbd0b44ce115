// Package tui is the terminal front end: a search screen and a book detail screen
// driven by the navigation history.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/nav"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Catalog is the data source behind both screens.
type Catalog interface {
	Search(ctx context.Context, q catalog.SearchQuery) (catalog.SearchResultPage, error)
	Detail(ctx context.Context, q catalog.BookDetailQuery) (catalog.BookDetail, error)
}

// screen is one activation of a view. deactivate ends its lifetime.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	resize(width, height int)
	deactivate()
}

type navigateMsg struct {
	path string
}

type backMsg struct{}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

func goBack() tea.Msg { return backMsg{} }

// App is the root bubbletea model.
type App struct {
	ctx     context.Context
	source  Catalog
	history *nav.History
	current screen
	nextID  int
	width   int
	height  int
}

// NewApp creates the app showing startPath.
func NewApp(ctx context.Context, source Catalog, startPath string) *App {
	a := &App{
		ctx:     ctx,
		source:  source,
		history: nav.NewHistory(startPath),
		width:   defaultListWidth,
		height:  defaultListHeight,
	}
	a.current = a.newScreen(a.history.Current())
	return a
}

// Init starts the first screen.
func (a *App) Init() tea.Cmd {
	return a.current.init()
}

// Update routes messages to the navigation logic and the current screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.current.deactivate()
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.current.resize(a.width, a.height)
		return a, nil
	case navigateMsg:
		return a, a.show(a.history.Push(msg.path))
	case backMsg:
		route, ok := a.history.Back()
		if !ok {
			return a, nil
		}
		return a, a.show(route)
	}

	return a, a.current.update(msg)
}

// View renders the current screen.
func (a *App) View() string {
	return a.current.view()
}

// Route returns the route of the current history entry.
func (a *App) Route() nav.Route {
	return a.history.Current()
}

// show activates route. A search route shown over a search screen reuses that screen
// and only changes its query; anything else replaces the screen.
func (a *App) show(route nav.Route) tea.Cmd {
	if s, ok := a.current.(*searchScreen); ok && route.Screen == nav.ScreenSearch {
		return s.setQuery(route.Search)
	}

	a.current.deactivate()
	a.current = a.newScreen(route)
	return a.current.init()
}

func (a *App) newScreen(route nav.Route) screen {
	a.nextID++
	var s screen
	switch route.Screen {
	case nav.ScreenDetail:
		s = newDetailScreen(a.ctx, a.nextID, a.source, route.Detail)
	default:
		s = newSearchScreen(a.ctx, a.nextID, a.source, route.Search)
	}
	s.resize(a.width, a.height)
	return s
}

// Run starts the interactive browser at startPath and blocks until the user quits.
func Run(ctx context.Context, source Catalog, startPath string) error {
	finalModel, err := runProgram(NewApp(ctx, source, startPath))
	if err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}

	if _, ok := finalModel.(*App); !ok {
		return fmt.Errorf("unexpected program result")
	}
	return nil
}
