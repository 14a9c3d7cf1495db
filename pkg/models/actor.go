package models

import "time"

// Actor is a scraper definition owned by a user and publishable to the marketplace.
type Actor struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon,omitempty"`
	Category    string         `json:"category"`
	Type        string         `json:"type,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
	IsPublic    bool           `json:"is_public"`
	IsStarred   bool           `json:"is_starred"`
	RunsCount   int            `json:"runs_count"`
	Status      string         `json:"status,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Readme      *string        `json:"readme,omitempty"`
	Version     string         `json:"version,omitempty"`
	AuthorName  *string        `json:"author_name,omitempty"`
	Rating      float64        `json:"rating"`
	RatingCount int            `json:"rating_count"`
	IsFeatured  bool           `json:"is_featured"`
	IsVerified  bool           `json:"is_verified"`
	ForkFrom    *string        `json:"fork_from,omitempty"`
	Visibility  string         `json:"visibility,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Field implements table.Row.
func (a Actor) Field(name string) any {
	switch name {
	case "id":
		return a.ID
	case "name":
		return a.Name
	case "description":
		return a.Description
	case "category":
		return a.Category
	case "runs_count":
		return a.RunsCount
	case "rating":
		return a.Rating
	case "status":
		return a.Status
	case "visibility":
		return a.Visibility
	case "created_at":
		return a.CreatedAt
	case "updated_at":
		return a.UpdatedAt
	}
	return nil
}

// ActorCreate is the draft posted to POST /actors.
type ActorCreate struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Icon         string         `json:"icon,omitempty"`
	Category     string         `json:"category,omitempty"`
	Type         string         `json:"type,omitempty"`
	InputSchema  map[string]any `json:"input_schema,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Readme       *string        `json:"readme,omitempty"`
	TemplateType *string        `json:"template_type,omitempty"`
	Visibility   string         `json:"visibility,omitempty"`
}

// MarketplaceQuery filters GET /marketplace.
type MarketplaceQuery struct {
	Category string
	Featured bool
	Search   string
}
