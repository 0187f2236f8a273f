package audit

import (
	"reflect"
	"testing"

	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

func newLayout(bs ...layout.Building) layout.Layout {
	var l layout.Layout
	for _, b := range bs {
		l.Add(b)
	}
	return l
}

func countKind(vs []Violation, k Kind) int {
	n := 0
	for _, v := range vs {
		if v.Kind() == k {
			n++
		}
	}
	return n
}

func TestSingleTypeAMissesNeighbor(t *testing.T) {
	l := newLayout(layout.Building{X: 50, Y: 50, Width: 30, Height: 20, Type: layout.TypeA})

	got := Audit(l, site.Default())
	want := []Violation{NeighborMissing{Building: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Audit() = %v, want %v", got, want)
	}
}

func TestSharedEdgeIsCollisionNotProximity(t *testing.T) {
	l := newLayout(
		layout.Building{X: 0, Y: 0, Width: 10, Height: 10, Type: layout.TypeB},
		layout.Building{X: 10, Y: 0, Width: 10, Height: 10, Type: layout.TypeB},
	)

	got := Audit(l, site.Default())
	if n := countKind(got, KindCollision); n != 1 {
		t.Errorf("collisions = %d, want 1 (%v)", n, got)
	}
	if n := countKind(got, KindProximity); n != 0 {
		t.Errorf("proximity = %d, want 0 (%v)", n, got)
	}
}

func TestSelfOverlapIsCollision(t *testing.T) {
	b := layout.Building{X: 30, Y: 30, Width: 20, Height: 20, Type: layout.TypeB}
	got := Audit(newLayout(b, b), site.Default())
	want := []Violation{Collision{A: 1, B: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Audit() = %v, want %v", got, want)
	}
}

func TestPlazaOverlap(t *testing.T) {
	l := newLayout(layout.Building{X: 85, Y: 65, Width: 30, Height: 20, Type: layout.TypeB})

	got := Audit(l, site.Default())
	want := []Violation{PlazaOverlap{Building: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Audit() = %v, want %v", got, want)
	}
}

func TestPlazaTouchingIsAllowed(t *testing.T) {
	// Right edge sits exactly on the plaza's left edge at x=80.
	l := newLayout(layout.Building{X: 60, Y: 60, Width: 20, Height: 20, Type: layout.TypeB})
	if got := Audit(l, site.Default()); len(got) != 0 {
		t.Errorf("Audit() = %v, want none", got)
	}
}

func TestProximityBoundaryIsStrict(t *testing.T) {
	const eps = 1e-9
	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"exactly min gap", site.DefaultMinGap, 0},
		{"just under min gap", site.DefaultMinGap - eps, 1},
		{"well over min gap", 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(
				layout.Building{X: 20, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
				layout.Building{X: 40 + tt.gap, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
			)
			got := Audit(l, site.Default())
			if n := countKind(got, KindProximity); n != tt.want {
				t.Errorf("proximity = %d, want %d (%v)", n, tt.want, got)
			}
			if n := countKind(got, KindCollision); n != 0 {
				t.Errorf("collision = %d, want 0", n)
			}
		})
	}
}

func TestProximityCarriesDistance(t *testing.T) {
	l := newLayout(
		layout.Building{X: 20, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
		layout.Building{X: 45, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
	)
	got := Audit(l, site.Default())
	want := []Violation{Proximity{A: 1, B: 2, Distance: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Audit() = %v, want %v", got, want)
	}
}

func TestBoundaryEdges(t *testing.T) {
	const eps = 1e-6
	inside := layout.Building{X: 10, Y: 10, Width: 30, Height: 20, Type: layout.TypeB}

	if got := Audit(newLayout(inside), site.Default()); countKind(got, KindBoundary) != 0 {
		t.Errorf("building on the setback line flagged: %v", got)
	}

	shifts := map[string]func(*layout.Building){
		"left":   func(b *layout.Building) { b.X -= eps },
		"bottom": func(b *layout.Building) { b.Y -= eps },
		"right":  func(b *layout.Building) { b.X = 190 - b.Width + eps },
		"top":    func(b *layout.Building) { b.Y = 130 - b.Height + eps },
	}
	for name, shift := range shifts {
		t.Run(name, func(t *testing.T) {
			b := inside
			shift(&b)
			got := Audit(newLayout(b), site.Default())
			if n := countKind(got, KindBoundary); n != 1 {
				t.Errorf("boundary = %d, want exactly 1 (%v)", n, got)
			}
		})
	}
}

func TestNeighborMix(t *testing.T) {
	cfg := site.Default()
	a := layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA}

	t.Run("B within radius", func(t *testing.T) {
		b := layout.Building{X: 50 + cfg.NeighborRadius, Y: 20, Width: 20, Height: 20, Type: layout.TypeB}
		if got := Audit(newLayout(a, b), cfg); countKind(got, KindNeighborMissing) != 0 {
			t.Errorf("A at exactly the radius should be satisfied: %v", got)
		}
	})

	t.Run("B beyond radius", func(t *testing.T) {
		b := layout.Building{X: 50 + cfg.NeighborRadius + 0.5, Y: 20, Width: 20, Height: 20, Type: layout.TypeB}
		got := Audit(newLayout(a, b), cfg)
		if n := countKind(got, KindNeighborMissing); n != 1 {
			t.Errorf("neighbor_missing = %d, want 1 (%v)", n, got)
		}
	})

	t.Run("another A does not count", func(t *testing.T) {
		a2 := layout.Building{X: 70, Y: 20, Width: 30, Height: 20, Type: layout.TypeA}
		got := Audit(newLayout(a, a2), cfg)
		if n := countKind(got, KindNeighborMissing); n != 2 {
			t.Errorf("neighbor_missing = %d, want 2 (%v)", n, got)
		}
	})

	t.Run("B is never checked", func(t *testing.T) {
		b := layout.Building{X: 20, Y: 20, Width: 20, Height: 20, Type: layout.TypeB}
		if got := Audit(newLayout(b), cfg); len(got) != 0 {
			t.Errorf("lone B flagged: %v", got)
		}
	})
}

func TestAuditOrderAndDeterminism(t *testing.T) {
	l := newLayout(
		layout.Building{X: 0, Y: 0, Width: 30, Height: 20, Type: layout.TypeA},     // boundary, collision, neighbor missing
		layout.Building{X: 85, Y: 65, Width: 30, Height: 20, Type: layout.TypeA},   // plaza (type B #4 is within reach)
		layout.Building{X: 20, Y: 15, Width: 20, Height: 20, Type: layout.TypeA},   // collision with #1, neighbor missing
		layout.Building{X: 150, Y: 100, Width: 20, Height: 20, Type: layout.TypeB}, // proximity with #5
		layout.Building{X: 175, Y: 100, Width: 20, Height: 20, Type: layout.TypeB}, // boundary, proximity
	)
	cfg := site.Default()

	first := Audit(l, cfg)
	second := Audit(l, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("audit not deterministic:\n%v\n%v", first, second)
	}

	var kinds []Kind
	for _, v := range first {
		kinds = append(kinds, v.Kind())
	}
	want := []Kind{
		KindBoundary, KindBoundary,
		KindPlazaOverlap,
		KindCollision, KindProximity,
		KindNeighborMissing, KindNeighborMissing,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestEmptyLayout(t *testing.T) {
	if got := Audit(layout.Layout{}, site.Default()); len(got) != 0 {
		t.Errorf("Audit(empty) = %v", got)
	}
}
