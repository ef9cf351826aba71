package client

import (
	"context"
	"net/http"

	"expensems/pkg/api"
)

// ListCategories fetches the full category set.
func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	var categories []api.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
