package workflow

type State int

const (
	Idle State = iota
	Analyzing
	AnalysisFailed
	Ready
	Submitting
	Submitted
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Analyzing:
		return "analyzing"
	case AnalysisFailed:
		return "analysis_failed"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case SubmitFailed:
		return "submit_failed"
	}
	return "unknown"
}

// busy reports whether a request is in flight or the order is already done;
// inputs are frozen in those states.
func (s State) busy() bool {
	return s == Analyzing || s == Submitting || s == Submitted
}
