package models

import (
	"fmt"
	"strings"
	"time"
)

// Run statuses reported by the backend.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
	RunStatusAborted   = "aborted"
)

// Run is one execution of an actor.
type Run struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id,omitempty"`
	ActorID         string         `json:"actor_id"`
	ActorName       string         `json:"actor_name"`
	Status          string         `json:"status"`
	InputData       map[string]any `json:"input_data,omitempty"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
	DurationSeconds *int           `json:"duration_seconds,omitempty"`
	ResultsCount    int            `json:"results_count"`
	DatasetID       *string        `json:"dataset_id,omitempty"`
	ErrorMessage    *string        `json:"error_message,omitempty"`
	Cost            float64        `json:"cost"`
	CreatedAt       time.Time      `json:"created_at"`
}

// HasResults reports whether the run finished with a dataset worth opening.
func (r Run) HasResults() bool {
	return r.Status == RunStatusSucceeded && r.ResultsCount > 0
}

// Task summarizes the run input as "terms in location (max N)".
func (r Run) Task() string {
	terms := "N/A"
	if raw, ok := r.InputData["search_terms"].([]any); ok && len(raw) > 0 {
		parts := make([]string, 0, len(raw))
		for _, t := range raw {
			parts = append(parts, fmt.Sprint(t))
		}
		terms = strings.Join(parts, ", ")
	}

	task := terms
	if loc, ok := r.InputData["location"].(string); ok && loc != "" {
		task += " in " + loc
	}
	if maxResults, ok := r.InputData["max_results"]; ok && maxResults != nil {
		task += fmt.Sprintf(" (max %v)", maxResults)
	}
	return task
}

// Field implements table.Row.
func (r Run) Field(name string) any {
	switch name {
	case "id":
		return r.ID
	case "actor_id":
		return r.ActorID
	case "actor_name":
		return r.ActorName
	case "status":
		return r.Status
	case "started_at":
		return r.StartedAt
	case "finished_at":
		return r.FinishedAt
	case "duration_seconds":
		return r.DurationSeconds
	case "results_count":
		return r.ResultsCount
	case "cost":
		return r.Cost
	case "created_at":
		return r.CreatedAt
	}
	return nil
}

// RunsQuery holds the list parameters for GET /runs.
type RunsQuery struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	SortBy    string
	SortOrder string
}

// RunsPage is the paginated response of GET /runs.
type RunsPage struct {
	Runs       []Run `json:"runs"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
