// Package store is the in-memory persistence behind the mock backend.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"scrapi-go/pkg/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
)

// Store keeps every collection behind one mutex.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*models.User // by API key
	actors     []models.Actor
	runs       []models.Run
	items      []models.DatasetItem
	globalChat map[string][]models.ChatMessage // by user id
	leadChat   map[string][]models.ChatMessage // by user id + lead id

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		globalChat: make(map[string][]models.ChatMessage),
		leadChat:   make(map[string][]models.ChatMessage),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AddUser registers a user with apiKey and returns it.
func (s *Store) AddUser(email, apiKey string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.NewString(), Email: email, APIKey: apiKey, CreatedAt: s.now()}
	s.users[apiKey] = u
	return u
}

// GetUserByAPIKey retrieves a user by their API key
func (s *Store) GetUserByAPIKey(apiKey string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[apiKey]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// AddActor inserts an actor, assigning an id when missing.
func (s *Store) AddActor(a models.Actor) models.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	s.actors = append(s.actors, a)
	return a
}

// ListActors returns the user's own actors followed by public ones.
func (s *Store) ListActors(userID string) []models.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Actor{}
	for _, a := range s.actors {
		if a.UserID == userID || a.IsPublic {
			out = append(out, a)
		}
	}
	return out
}

// GetActor returns an actor visible to userID.
func (s *Store) GetActor(userID, id string) (models.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.actors {
		if a.ID == id {
			if a.UserID != userID && !a.IsPublic {
				return models.Actor{}, ErrAccessDenied
			}
			return a, nil
		}
	}
	return models.Actor{}, ErrNotFound
}

// CreateActor stores a draft owned by userID.
func (s *Store) CreateActor(userID string, draft models.ActorCreate) models.Actor {
	visibility := draft.Visibility
	if visibility == "" {
		visibility = "private"
	}
	category := draft.Category
	if category == "" {
		category = "Other"
	}
	return s.AddActor(models.Actor{
		UserID:      userID,
		Name:        draft.Name,
		Description: draft.Description,
		Icon:        draft.Icon,
		Category:    category,
		Type:        draft.Type,
		InputSchema: draft.InputSchema,
		Tags:        draft.Tags,
		Readme:      draft.Readme,
		Status:      "draft",
		Visibility:  visibility,
		IsPublic:    visibility == "public",
		Version:     "1.0.0",
	})
}

// ForkActor clones a public actor into userID's account as a private draft.
func (s *Store) ForkActor(userID, id string) (models.Actor, error) {
	src, err := s.GetActor(userID, id)
	if err != nil {
		return models.Actor{}, err
	}
	if !src.IsPublic {
		return models.Actor{}, ErrAccessDenied
	}
	from := src.ID
	fork := src
	fork.ID = ""
	fork.UserID = userID
	fork.Name = src.Name + " (Forked)"
	fork.IsPublic = false
	fork.IsFeatured = false
	fork.IsVerified = false
	fork.RunsCount = 0
	fork.Status = "draft"
	fork.Visibility = "private"
	fork.ForkFrom = &from
	fork.CreatedAt = time.Time{}
	fork.UpdatedAt = time.Time{}
	return s.AddActor(fork), nil
}

// Marketplace lists public actors matching q.
func (s *Store) Marketplace(q models.MarketplaceQuery) []models.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(q.Search)
	out := []models.Actor{}
	for _, a := range s.actors {
		if !a.IsPublic {
			continue
		}
		if q.Category != "" && !strings.EqualFold(a.Category, q.Category) {
			continue
		}
		if q.Featured && !a.IsFeatured {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RunsCount > out[j].RunsCount })
	return out
}

// AddRun inserts a run, assigning an id when missing.
func (s *Store) AddRun(r models.Run) models.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.runs = append(s.runs, r)
	return r
}

// ListRuns filters, sorts and paginates the user's runs the way GET /runs does.
func (s *Store) ListRuns(userID string, q models.RunsQuery) models.RunsPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Search)
	matched := []models.Run{}
	for _, r := range s.runs {
		if r.UserID != userID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.ID), needle) {
			continue
		}
		if q.Status != "" && q.Status != "all" && r.Status != q.Status {
			continue
		}
		matched = append(matched, r)
	}

	less := runLess(q.SortBy)
	desc := q.SortOrder != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(matched)
	start := (page - 1) * limit
	var runs []models.Run
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		runs = matched[start:end]
	}
	if runs == nil {
		runs = []models.Run{}
	}
	return models.RunsPage{
		Runs:       runs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

func runLess(sortBy string) func(a, b models.Run) bool {
	switch sortBy {
	case "status":
		return func(a, b models.Run) bool { return a.Status < b.Status }
	case "actor_name":
		return func(a, b models.Run) bool { return a.ActorName < b.ActorName }
	case "results_count":
		return func(a, b models.Run) bool { return a.ResultsCount < b.ResultsCount }
	case "cost":
		return func(a, b models.Run) bool { return a.Cost < b.Cost }
	case "duration_seconds":
		return func(a, b models.Run) bool { return intOrZero(a.DurationSeconds) < intOrZero(b.DurationSeconds) }
	case "started_at":
		return func(a, b models.Run) bool { return timeOrZero(a.StartedAt).Before(timeOrZero(b.StartedAt)) }
	default:
		return func(a, b models.Run) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func timeOrZero(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

// GetRun returns one of the user's runs.
func (s *Store) GetRun(userID, id string) (models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.runs {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return models.Run{}, ErrNotFound
}

// UpdateRun applies fn to the run with id under the write lock.
func (s *Store) UpdateRun(id string, fn func(*models.Run)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == id {
			fn(&s.runs[i])
			return nil
		}
	}
	return ErrNotFound
}

// AddItems stores dataset items for a run and updates its results count.
func (s *Store) AddItems(runID string, data []map[string]any) []models.DatasetItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]models.DatasetItem, 0, len(data))
	for _, d := range data {
		it := models.DatasetItem{ID: uuid.NewString(), RunID: runID, Data: d, CreatedAt: s.now()}
		s.items = append(s.items, it)
		added = append(added, it)
	}
	for i := range s.runs {
		if s.runs[i].ID == runID {
			s.runs[i].ResultsCount += len(added)
		}
	}
	return added
}

// DatasetItems returns the items of one of the user's runs.
func (s *Store) DatasetItems(userID, runID string) ([]models.DatasetItem, error) {
	if _, err := s.GetRun(userID, runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.DatasetItem{}
	for _, it := range s.items {
		if it.RunID == runID {
			out = append(out, it)
		}
	}
	return out, nil
}

// Lead returns a dataset item the user may access.
func (s *Store) Lead(userID, leadID string) (models.DatasetItem, error) {
	s.mu.RLock()
	var lead *models.DatasetItem
	for i := range s.items {
		if s.items[i].ID == leadID {
			it := s.items[i]
			lead = &it
			break
		}
	}
	s.mu.RUnlock()
	if lead == nil {
		return models.DatasetItem{}, ErrNotFound
	}
	if _, err := s.GetRun(userID, lead.RunID); err != nil {
		return models.DatasetItem{}, ErrAccessDenied
	}
	return *lead, nil
}

// AppendGlobalChat records a global chat message.
func (s *Store) AppendGlobalChat(userID, role, content string) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := models.ChatMessage{ID: uuid.NewString(), Role: role, Content: content, CreatedAt: s.now()}
	s.globalChat[userID] = append(s.globalChat[userID], m)
	return m
}

// GlobalChatHistory returns the last limit messages, oldest first.
func (s *Store) GlobalChatHistory(userID string, limit int) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.globalChat[userID]
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	return append([]models.ChatMessage{}, h...)
}

// ClearGlobalChat deletes the user's global chat history and returns the count.
func (s *Store) ClearGlobalChat(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.globalChat[userID])
	delete(s.globalChat, userID)
	return n
}

// AppendLeadChat records a lead chat message.
func (s *Store) AppendLeadChat(userID, leadID, role, content string) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "/" + leadID
	m := models.ChatMessage{ID: uuid.NewString(), Role: role, Content: content, CreatedAt: s.now()}
	s.leadChat[key] = append(s.leadChat[key], m)
	return m
}

// LeadChatHistory returns the lead transcript, oldest first.
func (s *Store) LeadChatHistory(userID, leadID string) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChatMessage{}, s.leadChat[userID+"/"+leadID]...)
}

// LatestSucceededRun returns the user's newest run with results.
func (s *Store) LatestSucceededRun(userID string) (models.Run, bool) {
	page := s.ListRuns(userID, models.RunsQuery{Page: 1, Limit: 1, Status: models.RunStatusSucceeded})
	if len(page.Runs) == 0 {
		return models.Run{}, false
	}
	return page.Runs[0], true
}

// FindActorByName returns the first visible actor whose name contains name.
func (s *Store) FindActorByName(userID, name string) (models.Actor, bool) {
	needle := strings.ToLower(name)
	for _, a := range s.ListActors(userID) {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			return a, true
		}
	}
	return models.Actor{}, false
}
