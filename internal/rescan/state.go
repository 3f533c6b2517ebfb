package rescan

// State is one phase of a reconciliation pass.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateReconciling State = "reconciling"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
	StateSkipped     State = "skipped"
	StateFailed      State = "failed"
)

// Terminal reports whether the state ends a pass.
func (s State) Terminal() bool {
	return s == StateDone || s == StateSkipped || s == StateFailed
}

// Outcome is the terminal result of one reconciliation pass.
type Outcome struct {
	State  State
	Reason string
	Err    error
}

func done() Outcome {
	return Outcome{State: StateDone}
}

func skipped(reason string) Outcome {
	return Outcome{State: StateSkipped, Reason: reason}
}

func failed(err error) Outcome {
	return Outcome{State: StateFailed, Err: err}
}
