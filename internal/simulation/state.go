package simulation

// State is the branching engine's position in a scenario run.
type State int

const (
	NotStarted State = iota
	InProgress
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// StepResult records one choice. The log is append-only for a run.
type StepResult struct {
	StepIndex int
	Question  string
	Chosen    int
	IsCorrect bool
	Feedback  string
	XPGained  int
}
