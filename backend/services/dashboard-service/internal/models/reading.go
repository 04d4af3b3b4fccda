package models

import "time"

// Reading is a single sensor measurement pulled from the readings store.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Voltage   float64   `json:"voltage"`
}

// Table is an ordered batch of readings, chronological unless stated otherwise.
type Table []Reading

// LastTimestamp returns the timestamp of the final row. The second return is
// false for an empty table.
func (t Table) LastTimestamp() (time.Time, bool) {
	if len(t) == 0 {
		return time.Time{}, false
	}
	return t[len(t)-1].Timestamp, true
}

// Reverse flips the table in place. Used to turn a newest-first query result
// into chronological order.
func (t Table) Reverse() {
	for i, j := 0, len(t)-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
}
