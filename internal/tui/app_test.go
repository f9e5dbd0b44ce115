package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/fetch"
	"github.com/lepinkainen/bookshelf/internal/nav"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// fakeCatalog answers from maps. Queries listed in gates block until their gate is closed.
type fakeCatalog struct {
	mu       sync.Mutex
	pages    map[catalog.SearchQuery]catalog.SearchResultPage
	details  map[string]catalog.BookDetail
	err      error
	gates    map[string]chan struct{}
	searches []catalog.SearchQuery
	lookups  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:   map[catalog.SearchQuery]catalog.SearchResultPage{},
		details: map[string]catalog.BookDetail{},
		gates:   map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeCatalog) wait(key string) {
	f.mu.Lock()
	ch, ok := f.gates[key]
	f.mu.Unlock()
	if ok {
		<-ch
	}
}

func (f *fakeCatalog) Search(_ context.Context, q catalog.SearchQuery) (catalog.SearchResultPage, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	f.mu.Unlock()

	f.wait(q.Text)
	if f.err != nil {
		return catalog.SearchResultPage{}, f.err
	}
	return f.pages[q], nil
}

func (f *fakeCatalog) Detail(_ context.Context, q catalog.BookDetailQuery) (catalog.BookDetail, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, q.Identifier)
	f.mu.Unlock()

	f.wait(q.Identifier)
	if f.err != nil {
		return catalog.BookDetail{}, f.err
	}
	return f.details[q.Identifier], nil
}

func (f *fakeCatalog) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

// start runs cmd in the background and forwards navigation and fetch messages.
func start(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 16)
	if cmd == nil {
		return out
	}
	go runInto(cmd, out)
	return out
}

func runInto(cmd tea.Cmd, out chan<- tea.Msg) {
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				go runInto(c, out)
			}
		}
	case searchResolvedMsg, detailResolvedMsg, navigateMsg, backMsg:
		out <- msg
	}
}

func next(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a *App, k string) tea.Msg {
	t.Helper()
	_, cmd := a.Update(key(k))
	require.NotNil(t, cmd, "key %q produced no command", k)
	return cmd()
}

func dunePage() catalog.SearchResultPage {
	return catalog.SearchResultPage{
		Items: []catalog.SearchResultItem{
			{Title: "Dune", Author: "Frank Herbert", PublishedYear: intPtr(1965), Identifier: "OL1M"},
			{Title: "Dune Messiah", Author: "Frank Herbert", Identifier: "OL2M"},
		},
		NextPageNumber: 2,
	}
}

func searchCtrl(t *testing.T, a *App) *fetch.Controller[catalog.SearchQuery, catalog.SearchResultPage] {
	t.Helper()
	s, ok := a.current.(*searchScreen)
	require.True(t, ok, "current screen is %T", a.current)
	return s.ctrl
}

func TestLandingShowsNoResultsWithoutFetching(t *testing.T) {
	fake := newFakeCatalog()
	app := NewApp(context.Background(), fake, "/")

	app.Init()
	assert.Equal(t, fetch.Idle, searchCtrl(t, app).State().Status)
	assert.Zero(t, searchCtrl(t, app).Calls())
	assert.Contains(t, app.View(), "No results")
	assert.Zero(t, fake.searchCount())
}

func TestSearchLoadsResults(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "dune"}] = dunePage()
	app := NewApp(context.Background(), fake, "/dune")

	msgs := start(app.Init())
	assert.Contains(t, app.View(), "Loading")

	app.Update(next(t, msgs))

	view := app.View()
	assert.Contains(t, view, "Frank Herbert - Dune (1965)")
	assert.Contains(t, view, "Frank Herbert - Dune Messiah")
	assert.NotContains(t, view, "Dune Messiah (")
	assert.Contains(t, view, "Next page")
}

func TestSearchEmptyResult(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "zzz"}] = catalog.SearchResultPage{Items: []catalog.SearchResultItem{}}
	app := NewApp(context.Background(), fake, "/zzz")

	app.Update(next(t, start(app.Init())))

	assert.Equal(t, fetch.Loaded, searchCtrl(t, app).State().Status)
	assert.Contains(t, app.View(), "No results")
	assert.NotContains(t, app.View(), "Next page")
}

func TestSearchErrorShowsFlag(t *testing.T) {
	fake := newFakeCatalog()
	fake.err = errors.New("dial tcp: connection refused")
	app := NewApp(context.Background(), fake, "/dune")

	app.Update(next(t, start(app.Init())))

	view := app.View()
	assert.Contains(t, view, "Network error")
	assert.NotContains(t, view, "connection refused")
}

func TestNextPageReusesSearchScreen(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "dune"}] = dunePage()
	fake.pages[catalog.SearchQuery{Text: "dune", Page: 2}] = catalog.SearchResultPage{
		Items: []catalog.SearchResultItem{{Title: "Children of Dune", Author: "Frank Herbert", Identifier: "OL3M"}},
	}
	app := NewApp(context.Background(), fake, "/dune")
	app.Update(next(t, start(app.Init())))
	first := app.current

	msg := press(t, app, "n")
	require.Equal(t, navigateMsg{path: "/dune/2"}, msg)

	_, cmd := app.Update(msg)
	assert.Same(t, first, app.current)
	assert.Equal(t, "/dune/2", app.Route().Path)

	app.Update(next(t, start(cmd)))
	assert.Contains(t, app.View(), "Children of Dune")
	assert.NotContains(t, app.View(), "Next page")
	assert.Equal(t, 2, searchCtrl(t, app).Calls())
}

func TestRevisitingSameQueryDoesNotRefetch(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "dune"}] = dunePage()
	app := NewApp(context.Background(), fake, "/dune")
	app.Update(next(t, start(app.Init())))

	_, cmd := app.Update(navigateMsg{path: "/dune"})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, fake.searchCount())
}

func TestOpenBookAndGoBack(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "dune"}] = dunePage()
	fake.details["OL1M"] = catalog.BookDetail{
		Title:     "Dune",
		PageCount: intPtr(412),
		CoverURL:  strPtr("https://covers.openlibrary.org/b/id/1-M.jpg"),
	}
	app := NewApp(context.Background(), fake, "/dune")
	app.Update(next(t, start(app.Init())))
	searchScreenBefore := app.current

	msg := press(t, app, "enter")
	require.Equal(t, navigateMsg{path: "/book/OL1M"}, msg)

	_, cmd := app.Update(msg)
	detail, ok := app.current.(*detailScreen)
	require.True(t, ok)
	assert.Contains(t, app.View(), "Loading")
	assert.False(t, searchScreenBefore.(*searchScreen).ctrl.Active(), "previous screen deactivated")

	app.Update(next(t, start(cmd)))
	view := app.View()
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "Pages: 412")
	assert.Contains(t, view, "https://covers.openlibrary.org/b/id/1-M.jpg")
	assert.NotContains(t, view, "First published")
	assert.NotContains(t, view, "Last published")
	assert.Equal(t, fetch.Loaded, detail.ctrl.State().Status)

	back := press(t, app, "b")
	require.Equal(t, backMsg{}, back)
	_, cmd = app.Update(back)
	assert.Equal(t, nav.ScreenSearch, app.Route().Screen)
	_, isSearch := app.current.(*searchScreen)
	assert.True(t, isSearch)
	assert.NotSame(t, searchScreenBefore, app.current)

	app.Update(next(t, start(cmd)))
	assert.Contains(t, app.View(), "Frank Herbert - Dune (1965)")
}

func TestSubmitSearchFromInput(t *testing.T) {
	fake := newFakeCatalog()
	app := NewApp(context.Background(), fake, "/")
	app.Init()

	for _, r := range "ender" {
		app.Update(key(string(r)))
	}
	msg := press(t, app, "enter")
	assert.Equal(t, navigateMsg{path: "/ender"}, msg)
}

func TestStaleSearchResponseIsIgnored(t *testing.T) {
	fake := newFakeCatalog()
	fake.pages[catalog.SearchQuery{Text: "q1"}] = catalog.SearchResultPage{
		Items: []catalog.SearchResultItem{{Title: "First", Identifier: "OL1M"}},
	}
	fake.pages[catalog.SearchQuery{Text: "q2"}] = catalog.SearchResultPage{
		Items: []catalog.SearchResultItem{{Title: "Second", Identifier: "OL2M"}},
	}
	releaseQ1 := fake.gate("q1")
	releaseQ2 := fake.gate("q2")

	app := NewApp(context.Background(), fake, "/q1")
	q1Msgs := start(app.Init())

	_, cmd := app.Update(navigateMsg{path: "/q2"})
	q2Msgs := start(cmd)

	close(releaseQ2)
	app.Update(next(t, q2Msgs))
	assert.Contains(t, app.View(), "Second")

	close(releaseQ1)
	app.Update(next(t, q1Msgs))

	view := app.View()
	assert.Contains(t, view, "Second")
	assert.NotContains(t, view, "First")
	page, ok := searchCtrl(t, app).State().Get()
	require.True(t, ok)
	assert.Equal(t, "Second", page.Items[0].Title)
}

func TestDeactivatedDetailIgnoresLateResponse(t *testing.T) {
	fake := newFakeCatalog()
	fake.details["OL9M"] = catalog.BookDetail{Title: "Late"}
	release := fake.gate("OL9M")

	app := NewApp(context.Background(), fake, "/dune")
	fake.pages[catalog.SearchQuery{Text: "dune"}] = dunePage()
	app.Update(next(t, start(app.Init())))

	_, cmd := app.Update(navigateMsg{path: "/book/OL9M"})
	detail := app.current.(*detailScreen)
	detailMsgs := start(cmd)

	_, backCmd := app.Update(backMsg{})
	assert.False(t, detail.ctrl.Active())

	close(release)
	late := next(t, detailMsgs)
	app.Update(late)
	detail.update(late)

	assert.Equal(t, fetch.Loading, detail.ctrl.State().Status, "destroyed screen must not change")
	app.Update(next(t, start(backCmd)))
	assert.Contains(t, app.View(), "Frank Herbert - Dune (1965)")
}

func TestBackAtRootIsNoop(t *testing.T) {
	app := NewApp(context.Background(), newFakeCatalog(), "/")
	app.Init()

	_, cmd := app.Update(backMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, "/", app.Route().Path)
}

func TestCtrlCQuitsAndDeactivates(t *testing.T) {
	app := NewApp(context.Background(), newFakeCatalog(), "/book/OL1M")

	_, cmd := app.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, app.current.(*detailScreen).ctrl.Active())
}

func TestWindowResize(t *testing.T) {
	app := NewApp(context.Background(), newFakeCatalog(), "/")
	app.Update(tea.WindowSizeMsg{Width: 50, Height: 30})

	s := app.current.(*searchScreen)
	assert.Equal(t, 46, s.results.Width())
}

func TestRunUsesProgramSeam(t *testing.T) {
	orig := runProgram
	t.Cleanup(func() { runProgram = orig })

	var got tea.Model
	runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}

	require.NoError(t, Run(context.Background(), newFakeCatalog(), "/book/OL1M"))
	app, ok := got.(*App)
	require.True(t, ok)
	assert.Equal(t, nav.ScreenDetail, app.Route().Screen)

	runProgram = func(m tea.Model) (tea.Model, error) { return nil, errors.New("no tty") }
	require.Error(t, Run(context.Background(), newFakeCatalog(), "/"))
}
