package store

import (
	"fmt"
	"time"

	"scrapi-go/pkg/models"
)

// DemoToken is the API key of the seeded demo user.
const DemoToken = "demo-token"

// Seed fills the store with a demo user, marketplace actors, runs and leads.
// It returns the demo user.
func Seed(s *Store) *models.User {
	u := s.AddUser("demo@scrapi.local", DemoToken)
	author := "Scrapi"

	maps := s.AddActor(models.Actor{
		Name:        "Google Maps Scraper V2",
		Description: "Extract businesses, phone numbers, emails and reviews from Google Maps.",
		Icon:        "🗺️",
		Category:    "Maps & Location",
		Type:        "prebuilt",
		IsPublic:    true,
		IsFeatured:  true,
		IsVerified:  true,
		RunsCount:   1520,
		Rating:      4.8,
		RatingCount: 212,
		Status:      "published",
		Visibility:  "public",
		AuthorName:  &author,
		Version:     "2.1.0",
		Tags:        []string{"google-maps", "leads"},
	})
	s.AddActor(models.Actor{
		Name:        "LinkedIn Company Scraper",
		Description: "Collect company profiles and headcounts from LinkedIn.",
		Icon:        "💼",
		Category:    "Lead generation",
		IsPublic:    true,
		IsFeatured:  true,
		RunsCount:   870,
		Rating:      4.5,
		RatingCount: 98,
		Status:      "published",
		Visibility:  "public",
		AuthorName:  &author,
		Version:     "1.3.0",
	})
	s.AddActor(models.Actor{
		Name:        "Amazon Product Scraper",
		Description: "Prices, ratings and sellers for Amazon product listings.",
		Icon:        "🛒",
		Category:    "E-commerce",
		IsPublic:    true,
		RunsCount:   640,
		Rating:      4.2,
		RatingCount: 51,
		Status:      "published",
		Visibility:  "public",
		AuthorName:  &author,
		Version:     "1.0.4",
	})
	s.AddActor(models.Actor{
		UserID:      u.ID,
		Name:        "My Dentist Finder",
		Description: "Private copy tuned for dental clinics.",
		Category:    "Maps & Location",
		Status:      "draft",
		Visibility:  "private",
		Version:     "0.1.0",
	})

	base := time.Now().UTC().Add(-48 * time.Hour)
	cities := []string{"Austin, TX", "Denver, CO", "Portland, OR", "Miami, FL", "Boston, MA"}
	statuses := []string{
		models.RunStatusSucceeded, models.RunStatusSucceeded, models.RunStatusFailed,
		models.RunStatusSucceeded, models.RunStatusRunning,
	}
	for i := 0; i < 12; i++ {
		started := base.Add(time.Duration(i) * 3 * time.Hour)
		status := statuses[i%len(statuses)]
		run := models.Run{
			UserID:    u.ID,
			ActorID:   maps.ID,
			ActorName: maps.Name,
			Status:    status,
			InputData: map[string]any{
				"search_terms": []any{"coffee shop"},
				"location":     cities[i%len(cities)],
				"max_results":  10,
			},
			StartedAt: &started,
			CreatedAt: started,
			Cost:      0.05 * float64(i+1),
		}
		if status != models.RunStatusRunning {
			finished := started.Add(time.Duration(30+i*7) * time.Second)
			dur := int(finished.Sub(started).Seconds())
			run.FinishedAt = &finished
			run.DurationSeconds = &dur
		}
		if status == models.RunStatusFailed {
			msg := "navigation timeout"
			run.ErrorMessage = &msg
		}
		run = s.AddRun(run)
		if status == models.RunStatusSucceeded {
			s.AddItems(run.ID, DemoLeads("Coffee House", cities[i%len(cities)], 3+i%4))
		}
	}
	return u
}

// DemoLeads fabricates n business listings named after name in city.
func DemoLeads(name, city string, n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]any{
			"title":        fmt.Sprintf("%s %d", name, i),
			"address":      fmt.Sprintf("%d Main St, %s", 100+i, city),
			"phone":        fmt.Sprintf("+1 555 010%d", i),
			"email":        fmt.Sprintf("hello%d@coffeehouse.example", i),
			"website":      fmt.Sprintf("https://coffeehouse%d.example", i),
			"rating":       4.0 + float64(i%10)/10,
			"reviewsCount": 20 * i,
			"category":     "Coffee shop",
		})
	}
	return out
}
