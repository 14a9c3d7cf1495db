package scraper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapi-go/pkg/models"
)

type fakeStore struct {
	mu    sync.Mutex
	runs  map[string]*models.Run
	items map[string][]map[string]any
}

func newFakeStore(ids ...string) *fakeStore {
	fs := &fakeStore{runs: map[string]*models.Run{}, items: map[string][]map[string]any{}}
	for _, id := range ids {
		fs.runs[id] = &models.Run{ID: id, Status: models.RunStatusQueued}
	}
	return fs
}

func (f *fakeStore) UpdateRun(id string, fn func(*models.Run)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.runs[id]
	if !ok {
		return errors.New("not found")
	}
	fn(r)
	return nil
}

func (f *fakeStore) AddItems(runID string, data []map[string]any) []models.DatasetItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[runID] = append(f.items[runID], data...)
	f.runs[runID].ResultsCount += len(data)
	out := make([]models.DatasetItem, len(data))
	for i, d := range data {
		out[i] = models.DatasetItem{RunID: runID, Data: d}
	}
	return out
}

func (f *fakeStore) run(id string) models.Run {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.runs[id]
}

func rows(n int) Generator {
	return func(Job) ([]map[string]any, error) {
		out := make([]map[string]any, n)
		for i := range out {
			out[i] = map[string]any{"title": "row"}
		}
		return out, nil
	}
}

func TestRun_Succeeds(t *testing.T) {
	st := newFakeStore("r1")
	r := NewRunner(st, rows(5), WithStepDelay(time.Millisecond))

	var stages []Stage
	err := r.Run(context.Background(), Job{RunID: "r1", MaxResults: 3}, func(s Stage, _ string) {
		stages = append(stages, s)
	})
	require.NoError(t, err)

	assert.Equal(t, []Stage{StageQueued, StageFetching, StageExtracting, StageComplete}, stages)
	run := st.run("r1")
	assert.Equal(t, models.RunStatusSucceeded, run.Status)
	assert.Equal(t, 3, run.ResultsCount)
	require.NotNil(t, run.StartedAt)
	require.NotNil(t, run.FinishedAt)
	require.NotNil(t, run.DurationSeconds)
	assert.InDelta(t, 3*costPerResult, run.Cost, 1e-9)
	assert.True(t, run.HasResults())
}

func TestRun_GeneratorFailureMarksFailed(t *testing.T) {
	st := newFakeStore("r1")
	r := NewRunner(st, func(Job) ([]map[string]any, error) {
		return nil, errors.New("captcha wall")
	}, WithStepDelay(time.Millisecond))

	err := r.Run(context.Background(), Job{RunID: "r1"}, nil)

	var se *ScraperError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrorTypeExtraction, se.Type)
	assert.False(t, se.IsRetryable())
	run := st.run("r1")
	assert.Equal(t, models.RunStatusFailed, run.Status)
	require.NotNil(t, run.ErrorMessage)
	assert.Contains(t, *run.ErrorMessage, "captcha wall")
}

func TestRun_CancelMarksAborted(t *testing.T) {
	st := newFakeStore("r1")
	r := NewRunner(st, rows(1), WithStepDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, Job{RunID: "r1"}, nil)

	var se *ScraperError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrorTypeCancelled, se.Type)
	run := st.run("r1")
	assert.Equal(t, models.RunStatusAborted, run.Status)
	assert.Equal(t, "Run was aborted.", *run.ErrorMessage)
}

func TestRun_TimeoutIsRetryable(t *testing.T) {
	st := newFakeStore("r1")
	r := NewRunner(st, rows(1), WithStepDelay(time.Hour), WithTimeout(time.Millisecond))

	err := r.Run(context.Background(), Job{RunID: "r1"}, nil)

	var se *ScraperError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.IsRetryable())
	assert.Equal(t, models.RunStatusFailed, st.run("r1").Status)
}

func TestRun_UnknownRun(t *testing.T) {
	r := NewRunner(newFakeStore(), rows(1), WithStepDelay(time.Millisecond))
	err := r.Run(context.Background(), Job{RunID: "missing"}, nil)

	var se *ScraperError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrorTypeStore, se.Type)
}

func TestRunner_CloseAbortsBackgroundRuns(t *testing.T) {
	st := newFakeStore("r1")
	r := NewRunner(st, rows(1), WithStepDelay(time.Hour))

	r.Start(Job{RunID: "r1"})
	require.Eventually(t, func() bool {
		return st.run("r1").Status == models.RunStatusRunning
	}, time.Second, 5*time.Millisecond)

	r.Close()
	assert.Equal(t, models.RunStatusAborted, st.run("r1").Status)
}
