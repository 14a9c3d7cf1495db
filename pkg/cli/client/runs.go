package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"scrapi-go/pkg/models"
)

// ListRuns retrieves one page of runs for the authenticated user
func (c *Client) ListRuns(ctx context.Context, q models.RunsQuery) (*models.RunsPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.SortOrder != "" {
		params.Set("sort_order", q.SortOrder)
	}

	var page models.RunsPage
	if err := c.doGetRequest(ctx, "/runs", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRun retrieves a specific run by ID
func (c *Client) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	path := fmt.Sprintf("/runs/%s", url.PathEscape(id))
	if err := c.doGetRequest(ctx, path, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
