package catalog

import (
	"context"

	bserrors "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/openlibrary"
)

// Source is the remote side of the catalog.
type Source interface {
	Search(ctx context.Context, text string, page int) (*openlibrary.SearchResponse, error)
	Details(ctx context.Context, id string) (openlibrary.DetailResponse, error)
}

// Compile-time check that the Open Library client is a Source.
var _ Source = (*openlibrary.Client)(nil)

// Service fetches raw responses and maps them to view models.
type Service struct {
	source Source
}

// NewService creates a Service backed by source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Search fetches and maps one page of results.
func (s *Service) Search(ctx context.Context, q SearchQuery) (SearchResultPage, error) {
	resp, err := s.source.Search(ctx, q.Text, q.Page)
	if err != nil {
		return SearchResultPage{}, bserrors.NewFetchError("search", err)
	}
	return MapSearch(resp, q), nil
}

// Detail fetches and maps one book. A payload without a usable record is a fetch error.
func (s *Service) Detail(ctx context.Context, q BookDetailQuery) (BookDetail, error) {
	resp, err := s.source.Details(ctx, q.Identifier)
	if err != nil {
		return BookDetail{}, bserrors.NewFetchError("details", err)
	}

	detail, err := MapDetail(resp, q)
	if err != nil {
		return BookDetail{}, bserrors.NewFetchError("details", err)
	}
	return detail, nil
}
