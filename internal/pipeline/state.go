package pipeline

// State is a step of the conversion state machine.
type State int

const (
	StateInit State = iota
	StateReading
	StateSkipping
	StateParsing
	StateValidating
	StateBuffering
	StateDraining
	StateReporting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:       "init",
	StateReading:    "reading",
	StateSkipping:   "skipping",
	StateParsing:    "parsing",
	StateValidating: "validating",
	StateBuffering:  "buffering",
	StateDraining:   "draining",
	StateReporting:  "reporting",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
