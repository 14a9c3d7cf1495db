package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"scrapi-go/pkg/models"
)

// ListActors retrieves the actors visible to the authenticated user
func (c *Client) ListActors(ctx context.Context) ([]models.Actor, error) {
	var actors []models.Actor
	if err := c.doGetRequest(ctx, "/actors", nil, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

// GetActor retrieves a specific actor by ID
func (c *Client) GetActor(ctx context.Context, id string) (*models.Actor, error) {
	var actor models.Actor
	path := fmt.Sprintf("/actors/%s", url.PathEscape(id))
	if err := c.doGetRequest(ctx, path, nil, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

// CreateActor creates a new actor
func (c *Client) CreateActor(ctx context.Context, draft models.ActorCreate) (*models.Actor, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, fmt.Errorf("actor name is required")
	}
	var created models.Actor
	if err := c.doJSONRequest(ctx, http.MethodPost, "/actors", nil, draft, &created); err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}
	return &created, nil
}

// ForkActor clones a public actor into the user's account
func (c *Client) ForkActor(ctx context.Context, id string) (*models.Actor, error) {
	var forked models.Actor
	path := fmt.Sprintf("/actors/%s/fork", url.PathEscape(id))
	if err := c.doJSONRequest(ctx, http.MethodPost, path, nil, nil, &forked); err != nil {
		return nil, fmt.Errorf("failed to fork actor: %w", err)
	}
	return &forked, nil
}

// Marketplace lists public actors, optionally filtered
func (c *Client) Marketplace(ctx context.Context, q models.MarketplaceQuery) ([]models.Actor, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Featured {
		params.Set("featured", "true")
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var actors []models.Actor
	if err := c.doGetRequest(ctx, "/marketplace", params, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}
