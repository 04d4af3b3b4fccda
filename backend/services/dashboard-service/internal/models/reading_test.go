package models

import (
	"testing"
	"time"
)

func TestTableReverse(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := Table{
		{Timestamp: base.Add(2 * time.Second), Voltage: 3},
		{Timestamp: base.Add(time.Second), Voltage: 2},
		{Timestamp: base, Voltage: 1},
	}

	table.Reverse()

	for i := 1; i < len(table); i++ {
		if table[i].Timestamp.Before(table[i-1].Timestamp) {
			t.Fatalf("table not chronological after reverse at index %d", i)
		}
	}
	if table[0].Voltage != 1 || table[2].Voltage != 3 {
		t.Fatalf("rows scrambled by reverse: %+v", table)
	}
}

func TestLastTimestamp(t *testing.T) {
	if _, ok := (Table{}).LastTimestamp(); ok {
		t.Fatal("empty table must report no last timestamp")
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := Table{{Timestamp: base}, {Timestamp: base.Add(time.Minute)}}
	last, ok := table.LastTimestamp()
	if !ok || !last.Equal(base.Add(time.Minute)) {
		t.Fatalf("expected last timestamp %v, got %v (ok=%v)", base.Add(time.Minute), last, ok)
	}
}
