// Package assistant is the canned, keyword driven responder that stands in
// for the AI services in the mock backend.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/scraper"
	"scrapi-go/pkg/utils"
)

// Reply is an assistant answer plus the flattened action fields the real
// backend merges into its response.
type Reply struct {
	Response string
	Action   map[string]any
	// Job is set when the reply started a run that still has to execute.
	Job *scraper.Job
}

const fillAndRunMaxResults = 20

var (
	pageNames = []string{"dashboard", "actors", "runs", "datasets", "leads", "proxies", "marketplace"}
	scrapeRe  = regexp.MustCompile(`(?i)scrape\s+(.+?)\s+in\s+(.+)$`)
)

// Global answers a global chat message for userID.
func Global(st *store.Store, userID, message string) Reply {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "export"):
		run, ok := st.LatestSucceededRun(userID)
		if !ok {
			return Reply{Response: "You don't have any finished runs to export yet."}
		}
		format := "json"
		if strings.Contains(lower, "csv") {
			format = "csv"
		}
		return Reply{
			Response: fmt.Sprintf("Exporting **%d results** from run `%s` as %s.", run.ResultsCount, utils.ShortID(run.ID), strings.ToUpper(format)),
			Action: map[string]any{
				"action":  "export",
				"run_id":  run.ID,
				"format":  format,
				"message": fmt.Sprintf("Exporting dataset as %s...", strings.ToUpper(format)),
			},
		}

	case scrapeRe.MatchString(message):
		m := scrapeRe.FindStringSubmatch(message)
		actor, ok := st.FindActorByName(userID, "google maps")
		if !ok {
			return Reply{Response: "No scraper is available to start that run."}
		}
		term, location := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		run := st.AddRun(models.Run{
			UserID:    userID,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Status:    models.RunStatusQueued,
			InputData: map[string]any{
				"search_terms": []any{term},
				"location":     location,
				"max_results":  fillAndRunMaxResults,
			},
		})
		return Reply{
			Response: fmt.Sprintf("Started **%s** for *%s* in *%s*.", actor.Name, m[1], m[2]),
			Action: map[string]any{
				"action":  "fill_and_run",
				"run_id":  run.ID,
				"message": "Starting scraper...",
			},
			Job: &scraper.Job{
				RunID:       run.ID,
				UserID:      userID,
				SearchTerms: []string{term},
				Location:    location,
				MaxResults:  fillAndRunMaxResults,
			},
		}

	case strings.Contains(lower, "open") && strings.Contains(lower, "actor"):
		rest := lower[strings.Index(lower, "actor")+len("actor"):]
		name := strings.TrimSpace(rest)
		if name == "" || strings.HasPrefix(rest, "s") {
			// "open actors" is a page, not an actor name.
			break
		}
		actor, ok := st.FindActorByName(userID, name)
		if !ok {
			return Reply{Response: fmt.Sprintf("I couldn't find an actor called %q.", name)}
		}
		return Reply{
			Response: fmt.Sprintf("Opening **%s**.", actor.Name),
			Action:   map[string]any{"action": "open_actor", "actor_id": actor.ID},
		}
	}

	if page := mentionedPage(lower); page != "" && (strings.Contains(lower, "go to") ||
		strings.Contains(lower, "show") || strings.Contains(lower, "open") || strings.Contains(lower, "navigate")) {
		return Reply{
			Response: fmt.Sprintf("Taking you to **%s**.", page),
			Action: map[string]any{
				"action":  "navigate",
				"page":    page,
				"message": fmt.Sprintf("Navigating to %s...", page),
			},
		}
	}

	page := st.ListRuns(userID, models.RunsQuery{Page: 1, Limit: 1})
	return Reply{Response: fmt.Sprintf(
		"I can navigate, export datasets and start scrapers for you.\n\n- You have **%d runs**.\n- Try: *show my runs*, *export csv*, or *scrape coffee shops in Austin*.",
		page.Total,
	)}
}

func mentionedPage(lower string) string {
	for _, p := range pageNames {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

// LeadAdvice answers a question about one lead.
func LeadAdvice(lead models.DatasetItem, message string) string {
	return fmt.Sprintf(
		"**About %s**\n\nYou asked: _%s_\n\n- Open with a compliment on their %v reviews.\n- Mention a concrete benefit for a %v.",
		lead.Title(), message, lead.Data["reviewsCount"], lead.Data["category"],
	)
}

// OutreachTemplate drafts an outreach message for channel.
func OutreachTemplate(lead models.DatasetItem, channel string) string {
	if channel == "phone" {
		return fmt.Sprintf("Hi, is this %s? I'm calling because we help local businesses like yours get more customers...", lead.Title())
	}
	return fmt.Sprintf("Subject: Quick idea for %s\n\nHi there,\n\nI came across %s and loved what you're doing.", lead.Title(), lead.Title())
}
