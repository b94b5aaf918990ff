package monitor

// State identifies where a monitoring run is in its lifecycle.
//
// A run moves strictly forward through the states; there are no backward
// transitions and Done is terminal:
//
//	Init -> BaselineCaptured -> Sampling -> FinalSummary -> Done
type State uint8

const (
	// StateInit means the run has not captured any data yet.
	StateInit State = iota
	// StateBaselineCaptured means the baseline snapshot is recorded.
	StateBaselineCaptured
	// StateSampling means the interval loop is running.
	StateSampling
	// StateFinalSummary means the loop has ended and the final ranking is
	// being produced.
	StateFinalSummary
	// StateDone means the run finished and printed its final summary.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateBaselineCaptured:
		return "BaselineCaptured"
	case StateSampling:
		return "Sampling"
	case StateFinalSummary:
		return "FinalSummary"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
