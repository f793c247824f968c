package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when the parse endpoint receives a request.
// The accompanying context carries the request ID.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the response has been written. Documents is
// the number of documents parsed for the request (batches count each one).
type HTTPFinish struct {
	Request   *http.Request
	Status    int
	Documents int
	Duration  time.Duration
}
