package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/fetch"
	"github.com/lepinkainen/bookshelf/internal/nav"
)

type searchResolvedMsg struct {
	screenID int
	res      fetch.Resolution[catalog.SearchQuery, catalog.SearchResultPage]
}

type bookItem struct {
	catalog.SearchResultItem
}

func (i bookItem) FilterValue() string {
	return i.Label()
}

type bookDelegate struct {
	styles itemStyles
}

func newBookDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 1 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	line := truncate(book.Label(), m.Width()-2)
	if idx == m.Index() {
		_, _ = fmt.Fprint(w, d.styles.selected.Render("> "+line))
		return
	}
	_, _ = fmt.Fprint(w, d.styles.normal.Render("  "+line))
}

type searchScreen struct {
	ctx        context.Context
	id         int
	ctrl       *fetch.Controller[catalog.SearchQuery, catalog.SearchResultPage]
	input      textinput.Model
	results    list.Model
	spinner    spinner.Model
	query      catalog.SearchQuery
	inputFocus bool
}

func newSearchScreen(ctx context.Context, id int, source Catalog, q catalog.SearchQuery) *searchScreen {
	input := textinput.New()
	input.Placeholder = "Search books"
	input.Prompt = "> "
	input.CharLimit = 256
	input.SetValue(q.Text)

	l := list.New(nil, newBookDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctrl := fetch.New[catalog.SearchQuery, catalog.SearchResultPage](source.Search,
		fetch.WithName[catalog.SearchQuery, catalog.SearchResultPage]("search"),
		fetch.WithEnabled[catalog.SearchQuery, catalog.SearchResultPage](catalog.SearchQuery.Active),
	)

	return &searchScreen{
		ctx:     ctx,
		id:      id,
		ctrl:    ctrl,
		input:   input,
		results: l,
		spinner: sp,
		query:   q,
	}
}

func (s *searchScreen) init() tea.Cmd {
	focus := s.focusInput(!s.query.Active())
	return tea.Batch(focus, s.setQuery(s.query))
}

// setQuery applies a new route query to this screen instance.
func (s *searchScreen) setQuery(q catalog.SearchQuery) tea.Cmd {
	s.query = q
	if s.input.Value() != q.Text && q.Text != "" {
		s.input.SetValue(q.Text)
	}

	req, ok := s.ctrl.SetQuery(q)
	s.syncResults()
	if !ok {
		return nil
	}

	ctx, ctrl, id := s.ctx, s.ctrl, s.id
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return searchResolvedMsg{screenID: id, res: ctrl.Run(ctx, req)}
	})
}

func (s *searchScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchResolvedMsg:
		if msg.screenID != s.id {
			return nil
		}
		if s.ctrl.Apply(msg.res) {
			s.syncResults()
		}
		return nil
	case spinner.TickMsg:
		if !s.ctrl.State().IsLoading() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if s.inputFocus {
			return s.updateInput(msg)
		}
		return s.updateList(msg)
	}
	return nil
}

func (s *searchScreen) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return navigate(nav.SearchPath(s.input.Value(), 0))
	case "tab", "down":
		if len(s.results.Items()) > 0 {
			return s.focusInput(false)
		}
		return nil
	case "esc":
		return goBack
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *searchScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if selected, ok := s.results.SelectedItem().(bookItem); ok {
			return navigate(nav.BookPath(selected.Identifier))
		}
		return nil
	case "n":
		if page, ok := s.ctrl.State().Get(); ok && page.HasNext() {
			return navigate(nav.SearchPath(s.input.Value(), page.NextPageNumber))
		}
		return nil
	case "tab", "/":
		return s.focusInput(true)
	case "b", "esc":
		return goBack
	}

	var cmd tea.Cmd
	s.results, cmd = s.results.Update(msg)
	return cmd
}

func (s *searchScreen) focusInput(focus bool) tea.Cmd {
	s.inputFocus = focus
	if focus {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

// syncResults mirrors the controller state into the list.
func (s *searchScreen) syncResults() {
	page, ok := s.ctrl.State().Get()
	if !ok {
		s.results.SetItems(nil)
		return
	}

	items := make([]list.Item, len(page.Items))
	for i, item := range page.Items {
		items[i] = bookItem{SearchResultItem: item}
	}
	s.results.SetItems(items)
	s.results.ResetSelected()
	if len(items) > 0 && s.inputFocus && s.input.Value() == s.query.Text {
		s.focusInput(false)
	}
}

func (s *searchScreen) view() string {
	parts := []string{
		headerStyle.Render("Open Library search"),
		s.input.View(),
		"",
		s.body(),
	}

	if page, ok := s.ctrl.State().Get(); ok && page.HasNext() {
		parts = append(parts, nextPageStyle.Render(fmt.Sprintf(" Next page (%d) ", page.NextPageNumber)))
	}

	parts = append(parts, helpStyle.Render("Enter search/open | Tab switch focus | Up/Down navigate | n next page | b back | ctrl+c quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *searchScreen) body() string {
	state := s.ctrl.State()
	switch {
	case state.IsLoading():
		return zeroStateStyle.Render(s.spinner.View() + " Loading")
	case state.IsError():
		return errorStyle.Render("Network error")
	}

	page, ok := state.Get()
	if !ok || page.Empty() {
		return zeroStateStyle.Render("No results")
	}
	return s.results.View()
}

func (s *searchScreen) resize(width, height int) {
	w := clamp(defaultListWidth, width-4, 40)
	h := clamp(defaultListHeight, height-10, 5)
	s.results.SetSize(w, h)
	s.input.Width = w - 4
}

func (s *searchScreen) deactivate() {
	s.ctrl.Deactivate()
}
