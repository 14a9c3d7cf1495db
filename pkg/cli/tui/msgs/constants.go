package msgs

// DefaultWidth is the default terminal width fallback
const DefaultWidth = 80

// DefaultHeight is the default terminal height fallback
const DefaultHeight = 24

// Step constants for the dataset page state machine
const (
	StepBrowse = iota
	StepColumns
	StepLeadChat
)

// Step constants for the actors page
const (
	StepActorList = iota
	StepActorCreate
)
