package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/fetch"
)

type detailResolvedMsg struct {
	screenID int
	res      fetch.Resolution[catalog.BookDetailQuery, catalog.BookDetail]
}

type detailScreen struct {
	ctx     context.Context
	id      int
	query   catalog.BookDetailQuery
	ctrl    *fetch.Controller[catalog.BookDetailQuery, catalog.BookDetail]
	spinner spinner.Model
	width   int
}

func newDetailScreen(ctx context.Context, id int, source Catalog, q catalog.BookDetailQuery) *detailScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctrl := fetch.New[catalog.BookDetailQuery, catalog.BookDetail](source.Detail,
		fetch.WithName[catalog.BookDetailQuery, catalog.BookDetail]("detail"),
		fetch.WithInitialLoading[catalog.BookDetailQuery, catalog.BookDetail](),
	)

	return &detailScreen{
		ctx:     ctx,
		id:      id,
		query:   q,
		ctrl:    ctrl,
		spinner: sp,
		width:   defaultListWidth,
	}
}

func (s *detailScreen) init() tea.Cmd {
	req, ok := s.ctrl.SetQuery(s.query)
	if !ok {
		return nil
	}

	ctx, ctrl, id := s.ctx, s.ctrl, s.id
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return detailResolvedMsg{screenID: id, res: ctrl.Run(ctx, req)}
	})
}

func (s *detailScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailResolvedMsg:
		if msg.screenID == s.id {
			s.ctrl.Apply(msg.res)
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
		switch msg.String() {
		case "b", "esc", "backspace":
			return goBack
		}
	}
	return nil
}

func (s *detailScreen) view() string {
	state := s.ctrl.State()

	var body string
	switch {
	case state.IsLoading():
		body = zeroStateStyle.Render(s.spinner.View() + " Loading")
	case state.IsError():
		body = errorStyle.Render("Network error")
	default:
		if book, ok := state.Get(); ok {
			body = renderDetail(book, s.width)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		backButtonStyle.Render(" Back "),
		helpStyle.Render("b back | ctrl+c quit"),
	)
}

// renderDetail paints a book. Absent fields produce no line at all.
func renderDetail(book catalog.BookDetail, width int) string {
	lines := []string{titleStyle.Render(truncate(book.Title, width))}

	if book.CoverURL != nil {
		lines = append(lines, coverStyle.Render(*book.CoverURL))
	}

	var props []string
	if book.PageCount != nil {
		props = append(props, fmt.Sprintf("Pages: %d", *book.PageCount))
	}
	if book.FirstPublishedLabel != nil {
		props = append(props, "First published: "+*book.FirstPublishedLabel)
	}
	if book.LastPublishedLabel != nil {
		props = append(props, "Last published: "+*book.LastPublishedLabel)
	}
	for _, p := range props {
		lines = append(lines, propertyStyle.Render("• "+p))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *detailScreen) resize(width, _ int) {
	s.width = clamp(defaultListWidth, width-4, 40)
}

func (s *detailScreen) deactivate() {
	s.ctrl.Deactivate()
}
