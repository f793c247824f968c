package events

import "time"

// ParseOutcome classifies how a document parse ended.
type ParseOutcome string

const (
	ParseOK     ParseOutcome = "ok"
	ParseFailed ParseOutcome = "syntax_error"
	ParseEmpty  ParseOutcome = "empty"
	ParseDefect ParseOutcome = "defect"
)

// ParseStart is emitted before a document is parsed.
type ParseStart struct {
	Source string
}

// ParseFinish is emitted after a document has been parsed and normalized.
// Definitions is zero unless Outcome is ParseOK.
type ParseFinish struct {
	Source      string
	Outcome     ParseOutcome
	Definitions int
	Err         error
	Duration    time.Duration
}
