package gameweek

import (
	"testing"
	"time"
)

func TestGameweek_IsOpen(t *testing.T) {
	deadline := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	gw := Gameweek{ID: 4, DeadlineAt: deadline}

	if !gw.IsOpen(deadline.Add(-time.Minute)) {
		t.Fatalf("expected open before deadline")
	}
	if gw.IsOpen(deadline) {
		t.Fatalf("expected closed at deadline")
	}
	if (Gameweek{ID: 5}).IsOpen(deadline) {
		t.Fatalf("expected gameweek without deadline to be closed")
	}
}
