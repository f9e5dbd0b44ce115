package openlibrary

import (
	"context"
	"fmt"
	"net/url"

	bserrors "github.com/lepinkainen/bookshelf/internal/errors"
)

// BibKey returns the bibkeys value used to look up an edition by its Open Library id.
func BibKey(id string) string {
	return "OLID:" + id
}

// DetailsURL builds the books API request URL for an edition id.
func (c *Client) DetailsURL(id string) string {
	params := url.Values{}
	params.Set("jscmd", "data")
	params.Set("format", "json")
	params.Set("bibkeys", BibKey(id))
	return fmt.Sprintf("%s?%s", c.detailURL, params.Encode())
}

// Details fetches the jscmd=data record for an edition id.
func (c *Client) Details(ctx context.Context, id string) (DetailResponse, error) {
	if id == "" {
		return nil, bserrors.NewFetchError(opDetails, bserrors.ErrEmptyIdentifier)
	}

	var response DetailResponse
	if err := c.getJSON(ctx, opDetails, c.DetailsURL(id), detailSchema, &response); err != nil {
		return nil, err
	}
	return response, nil
}
