package audit

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	vs := []Violation{
		Boundary{Building: 3},
		Collision{A: 1, B: 3},
		Proximity{A: 2, B: 5, Distance: 4.25},
		Proximity{A: 1, B: 2, Distance: 7},
	}
	r := Summarize(vs)

	if r.Valid {
		t.Error("Valid = true, want false")
	}
	if r.Total != 4 {
		t.Errorf("Total = %d, want 4", r.Total)
	}
	if r.Counts[KindProximity] != 2 || r.Counts[KindCollision] != 1 || r.Counts[KindBoundary] != 1 {
		t.Errorf("Counts = %v", r.Counts)
	}
	if want := []int{1, 2, 3, 5}; !reflect.DeepEqual(r.Offenders, want) {
		t.Errorf("Offenders = %v, want %v", r.Offenders, want)
	}
	if !r.Offends(5) || r.Offends(4) {
		t.Error("Offends() disagrees with Offenders")
	}
	if want := "4 violations: 1 boundary, 1 collision, 2 proximity"; r.Summary != want {
		t.Errorf("Summary = %q, want %q", r.Summary, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	r := Summarize(nil)
	if !r.Valid || r.Total != 0 || r.Summary != "valid" {
		t.Errorf("Summarize(nil) = %+v", r)
	}
}

func TestViolationStrings(t *testing.T) {
	tests := []struct {
		v    Violation
		want string
	}{
		{Boundary{Building: 1}, "boundary(#1)"},
		{PlazaOverlap{Building: 2}, "plaza_overlap(#2)"},
		{Collision{A: 1, B: 2}, "collision(#1, #2)"},
		{Proximity{A: 3, B: 4, Distance: 12.346}, "proximity(#3, #4, 12.35)"},
		{NeighborMissing{Building: 7}, "neighbor_missing(#7)"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
