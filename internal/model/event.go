package model

import "time"

// JST is the fixed UTC+9 offset every stored timestamp carries. The log is
// written and read on the same machine, so a fixed zone beats a tzdata lookup.
var JST = time.FixedZone("JST", 9*60*60)

// Event is one durable record of a named supporter granting points.
type Event struct {
	Name      string    `json:"name"`
	Points    int       `json:"pt"`
	Timestamp time.Time `json:"ts"`
}

// Valid reports whether the event satisfies the log invariant: a non-empty
// name and strictly positive points.
func (e Event) Valid() bool {
	return e.Name != "" && e.Points > 0
}

// Total is one row of a derived ranking: a name and its summed points over
// some window of the log.
type Total struct {
	Name   string `json:"name"`
	Points int    `json:"pt"`
}
