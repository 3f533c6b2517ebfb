package services

// Outcome is the tri-state result of a pipeline operation. Skips are explicit
// so callers never have to infer "nothing happened" from a nil error.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeError
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeError:
		return "error"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result carries an operation outcome together with a human-readable reason
// and the underlying error when the outcome is OutcomeError.
type Result struct {
	Outcome Outcome
	Reason  string
	Err     error
}

// Ok returns a successful result.
func Ok() Result {
	return Result{Outcome: OutcomeOk}
}

// Skipped returns a result indicating the operation intentionally did nothing.
func Skipped(reason string) Result {
	return Result{Outcome: OutcomeSkipped, Reason: reason}
}

// Failed returns an error result. The reason defaults to the error text.
func Failed(err error) Result {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return Result{Outcome: OutcomeError, Reason: reason, Err: err}
}

// IsOk reports whether the operation completed successfully.
func (r Result) IsOk() bool { return r.Outcome == OutcomeOk }

// IsSkipped reports whether the operation was intentionally skipped.
func (r Result) IsSkipped() bool { return r.Outcome == OutcomeSkipped }
