package transport

import "testing"

func TestPriorityOrder(t *testing.T) {
	levels := []Priority{
		PriorityExceptional, PriorityImmediate, PriorityFast, PriorityHigh,
		PriorityNominal, PriorityLow, PrioritySlow, PriorityOptional,
	}
	if len(levels) != PriorityLevels {
		t.Fatalf("priority cardinality = %d, want %d", len(levels), PriorityLevels)
	}
	for i := 1; i < len(levels); i++ {
		if !levels[i-1].MoreUrgent(levels[i]) {
			t.Fatalf("%s must outrank %s", levels[i-1], levels[i])
		}
		if levels[i].MoreUrgent(levels[i-1]) {
			t.Fatalf("%s must not outrank %s", levels[i], levels[i-1])
		}
		if levels[i-1].Compare(levels[i]) >= 0 {
			t.Fatalf("compare(%s, %s) must be negative", levels[i-1], levels[i])
		}
	}
	if PriorityNominal.Compare(PriorityNominal) != 0 {
		t.Fatalf("priority must compare equal to itself")
	}
}

func TestPriorityValid(t *testing.T) {
	for p := PriorityExceptional; p <= PriorityOptional; p++ {
		if !p.Valid() {
			t.Fatalf("%s must be valid", p)
		}
		if p.String() == "invalid" {
			t.Fatalf("level %d has no name", p)
		}
	}
	if Priority(8).Valid() {
		t.Fatalf("level 8 must be invalid")
	}
}
