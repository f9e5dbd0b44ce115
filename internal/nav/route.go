// Package nav maps navigation paths to screens and keeps the back history.
//
// Two path patterns exist: /book/:bookCode for the detail screen and
// /:search?/:page? for the search screen.
package nav

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/bookshelf/internal/catalog"
)

// Screen identifies which screen a route activates.
type Screen int

const (
	// ScreenSearch is the search results screen.
	ScreenSearch Screen = iota
	// ScreenDetail is the book detail screen.
	ScreenDetail
)

// Route is a parsed navigation path.
type Route struct {
	Path   string
	Screen Screen
	Search catalog.SearchQuery
	Detail catalog.BookDetailQuery
}

// Parse resolves path into a Route. Unknown shapes fall back to the search screen.
func Parse(path string) Route {
	segments := splitPath(path)

	if len(segments) >= 2 && segments[0] == "book" {
		id := unescape(strings.Join(segments[1:], "/"))
		if id != "" {
			return Route{
				Path:   BookPath(id),
				Screen: ScreenDetail,
				Detail: catalog.BookDetailQuery{Identifier: id},
			}
		}
	}

	var q catalog.SearchQuery
	if len(segments) > 0 {
		q.Text = unescape(segments[0])
	}
	if len(segments) > 1 {
		q.Page = parsePage(segments[1])
	}

	return Route{
		Path:   SearchPath(q.Text, q.Page),
		Screen: ScreenSearch,
		Search: q,
	}
}

// SearchPath builds /<query>[/<page>]; the page is only included when positive.
func SearchPath(text string, page int) string {
	if text == "" {
		return "/"
	}
	path := "/" + url.PathEscape(text)
	if page > 0 {
		path += "/" + strconv.Itoa(page)
	}
	return path
}

// BookPath builds /book/<id>.
func BookPath(id string) string {
	return "/book/" + url.PathEscape(id)
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func unescape(segment string) string {
	if v, err := url.PathUnescape(segment); err == nil {
		return v
	}
	return segment
}

// parsePage accepts positive integers only; anything else means no page.
func parsePage(segment string) int {
	n, err := strconv.Atoi(segment)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
