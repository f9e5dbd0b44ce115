// Package catalog holds the view models of the book browser and the pure functions
// that map raw Open Library responses onto them.
package catalog

import (
	"fmt"
	"strings"
)

// SearchQuery is derived from the search route. An empty Text means "no search yet".
type SearchQuery struct {
	Text string
	// Page is the requested page number; 0 means no page parameter was given.
	Page int
}

// Active reports whether the query should trigger a fetch.
func (q SearchQuery) Active() bool {
	return q.Text != ""
}

// CurrentPage is the page number the results belong to, defaulting to 1.
func (q SearchQuery) CurrentPage() int {
	if q.Page > 0 {
		return q.Page
	}
	return 1
}

// SearchResultItem is one row of the results list.
type SearchResultItem struct {
	Title         string `json:"title" yaml:"title"`
	Author        string `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedYear *int   `json:"published_year,omitempty" yaml:"published_year,omitempty"`
	Identifier    string `json:"identifier" yaml:"identifier"`
}

// Year renders the publication year, or "" when it is unknown.
func (i SearchResultItem) Year() string {
	if i.PublishedYear == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.PublishedYear)
}

// Label renders the item as "author - title (year)".
func (i SearchResultItem) Label() string {
	var sb strings.Builder
	sb.WriteString(i.Author)
	sb.WriteString(" - ")
	sb.WriteString(i.Title)
	if year := i.Year(); year != "" {
		sb.WriteString(" (")
		sb.WriteString(year)
		sb.WriteString(")")
	}
	return sb.String()
}

// SearchResultPage is a page of results and, when more exist, the next page number.
type SearchResultPage struct {
	Items          []SearchResultItem `json:"items" yaml:"items"`
	NextPageNumber int                `json:"next_page,omitempty" yaml:"next_page,omitempty"`
}

// HasNext reports whether another page of results exists.
func (p SearchResultPage) HasNext() bool {
	return p.NextPageNumber > 0
}

// Empty reports a successful search that matched nothing usable.
func (p SearchResultPage) Empty() bool {
	return len(p.Items) == 0
}

// BookDetailQuery is derived from the /book/:bookCode route.
type BookDetailQuery struct {
	Identifier string
}

// BookDetail is the detail screen's view model. Nil fields are not shown.
type BookDetail struct {
	Title               string  `json:"title" yaml:"title"`
	CoverURL            *string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	PageCount           *int    `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	FirstPublishedLabel *string `json:"first_published,omitempty" yaml:"first_published,omitempty"`
	LastPublishedLabel  *string `json:"last_published,omitempty" yaml:"last_published,omitempty"`
}
