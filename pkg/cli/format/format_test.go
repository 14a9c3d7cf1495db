package format

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"scrapi-go/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "short", in: "cafe", width: 10, want: "cafe"},
		{name: "cut", in: "coffee shops in Austin", width: 10, want: "coffee ..."},
		{name: "newlines flattened", in: "a\nb", width: 10, want: "a b"},
		{name: "wide runes", in: "日本語テキスト", width: 8, want: "日本..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, "-", Date(nil))
	assert.Equal(t, "-", Date(&time.Time{}))
	secs := 42
	assert.Equal(t, "42s", Duration(&secs))
	assert.Equal(t, "-", Duration(nil))
	assert.Equal(t, "$0.0500", Cost(0.05))
	assert.Equal(t, "✓ succeeded", Status(models.RunStatusSucceeded))
	assert.Equal(t, "queued", Status(models.RunStatusQueued))
	assert.Equal(t, "-", Rating(models.Actor{}))
	assert.Equal(t, "4.8 (212)", Rating(models.Actor{Rating: 4.8, RatingCount: 212}))
}

func TestRuns(t *testing.T) {
	var buf bytes.Buffer
	Runs(&buf, &models.RunsPage{})
	assert.Contains(t, buf.String(), "No runs found.")

	buf.Reset()
	Runs(&buf, &models.RunsPage{
		Runs: []models.Run{{
			ID:           "0123456789abcdef",
			Status:       models.RunStatusSucceeded,
			ResultsCount: 7,
			Cost:         0.1,
			InputData:    map[string]any{"search_terms": []any{"dentist"}, "location": "Austin"},
		}},
		Total: 1, Page: 1, TotalPages: 1,
	})
	out := buf.String()
	assert.Contains(t, out, "01234567...")
	assert.Contains(t, out, "dentist in Austin")
	assert.Contains(t, out, "Page 1 of 1 (1 runs)")
}

func TestItems(t *testing.T) {
	var buf bytes.Buffer
	Items(&buf, []models.DatasetItem{
		{ID: "1", Data: map[string]any{"title": "Cafe", "phone": nil}},
		{ID: "2", Data: map[string]any{"title": "Bar", "rating": 4.5}},
	})
	out := buf.String()
	assert.Contains(t, out, "phone")
	assert.Contains(t, out, "rating")
	assert.NotContains(t, out, "PHONE", "data keys keep their case")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "(2 items)")
}

func TestActorsAndChat(t *testing.T) {
	var buf bytes.Buffer
	Actors(&buf, []models.Actor{{ID: "a1", Name: "Maps", Category: "Maps & Location", IsFeatured: true}})
	assert.Contains(t, buf.String(), "★")

	buf.Reset()
	ChatHistory(&buf, []models.ChatMessage{{Role: "assistant", Content: "Hello"}})
	assert.Contains(t, buf.String(), "Assistant:\nHello")

	assert.Equal(t, "❌ Error: boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "✓ Forked 2", SuccessMessage("Forked %d", 2))
}
