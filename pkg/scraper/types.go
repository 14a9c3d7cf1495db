// Package scraper executes scraping runs for the mock backend. A run moves
// through fixed stages, reporting progress as it goes, and ends with a
// dataset or an error recorded on the run.
package scraper

// Job describes one run to execute.
type Job struct {
	RunID       string
	UserID      string
	SearchTerms []string
	Location    string
	MaxResults  int
}

// Stage represents the current stage of a run
type Stage string

const (
	StageQueued     Stage = "queued"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageComplete   Stage = "complete"
)

// ProgressCallback is called to report progress during a run
// stage: The current stage of the run
// message: A human-readable message describing the current progress
type ProgressCallback func(stage Stage, message string)

// Generator produces the dataset rows for a job.
type Generator func(job Job) ([]map[string]any, error)
