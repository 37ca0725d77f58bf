package shape

import (
	"errors"
	"math"
	"testing"
)

// clockwise 10x10 square
func square(x, y, size float64) []PointD {
	return []PointD{{x, y}, {x, y + size}, {x + size, y + size}, {x + size, y}}
}

func ccw(ring []PointD) []PointD {
	r := copyRing(ring)
	reverseRing(r)
	return r
}

func checkConsistent(t *testing.T, s *PolygonShape) {
	t.Helper()
	total, rings := 0, 0
	for _, p := range s.polygons {
		for _, r := range p.Rings() {
			total += len(r)
			rings++
		}
	}
	if got := len(s.Points()); got != total {
		t.Fatalf("flat points %d, ring sum %d", got, total)
	}
	parts := s.Parts()
	if len(parts) != rings {
		t.Fatalf("parts %d, rings %d", len(parts), rings)
	}
	if rings > 0 {
		if err := validateParts(parts, total, MinRingPoints); err != nil {
			t.Fatalf("parts invalid: %v", err)
		}
	}
	// flat view must reproduce the rings bit for bit
	i := 0
	pts := s.Points()
	for _, p := range s.polygons {
		for _, r := range p.Rings() {
			for _, pt := range r {
				if pts[i] != pt {
					t.Fatalf("flat point %d = %v, ring has %v", i, pts[i], pt)
				}
				i++
			}
		}
	}
}

func TestIsClockwise(t *testing.T) {
	if !IsClockwise(square(0, 0, 10)) {
		t.Error("square should be clockwise")
	}
	if IsClockwise(ccw(square(0, 0, 10))) {
		t.Error("reversed square should be counter-clockwise")
	}
	if got := RingArea(square(0, 0, 10)); got != 100 {
		t.Errorf("area = %v", got)
	}
}

func TestSetPointsClassifiesRings(t *testing.T) {
	var pts []PointD
	pts = append(pts, square(0, 0, 10)...)
	pts = append(pts, ccw(square(2, 2, 2))...)
	pts = append(pts, square(20, 0, 5)...)
	s, err := NewPolygonShapeFromPoints(pts, []int{0, 4, 8})
	if err != nil {
		t.Fatal(err)
	}
	if s.NumPolygons() != 2 {
		t.Fatalf("polygons = %d", s.NumPolygons())
	}
	if len(s.Polygon(0).Holes) != 1 || s.Polygon(1).HasHoles() {
		t.Fatal("hole assigned to wrong polygon")
	}
	if got := s.Area(); got != 100-4+25 {
		t.Errorf("area = %v", got)
	}
	if e := s.Extent(); e != (Extent{0, 0, 25, 10}) {
		t.Errorf("extent = %+v", e)
	}
	checkConsistent(t, s)
}

func TestSetPointsReversesFirstRing(t *testing.T) {
	s, err := NewPolygonShapeFromPoints(ccw(square(0, 0, 1)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumPolygons() != 1 || !IsClockwise(s.Polygon(0).Outline) {
		t.Fatal("first ring should become a clockwise outer ring")
	}
	if !IsClockwise(s.Points()) {
		t.Error("flat view not rebuilt after reversal")
	}
}

func TestSetPointsValidation(t *testing.T) {
	pts := append(square(0, 0, 10), square(20, 0, 10)...)
	cases := []struct {
		name  string
		pts   []PointD
		parts []int
	}{
		{"first part not zero", pts, []int{1, 4}},
		{"not increasing", pts, []int{0, 4, 4}},
		{"decreasing", pts, []int{0, 5, 3}},
		{"short ring", pts, []int{0, 2}},
		{"beyond count", pts, []int{0, 9}},
		{"empty parts", pts, []int{}},
		{"zero area", []PointD{{0, 0}, {1, 1}, {2, 2}}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewPolygonShape()
			err := s.SetPoints(c.pts, c.parts)
			var ie *InvariantError
			if !errors.As(err, &ie) || !errors.Is(err, ErrInvariant) {
				t.Fatalf("want InvariantError, got %v", err)
			}
			if !s.IsEmpty() {
				t.Error("failed SetPoints mutated the shape")
			}
		})
	}
}

func TestRingConsistencyAcrossMutations(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 100))
	s := NewPolygonShape(outer)
	checkConsistent(t, s)
	steps := []func() error{
		func() error { return s.AddHole(square(10, 10, 5), 0) },
		func() error { return s.AddHole(ccw(square(30, 30, 5)), 0) },
		func() error { return s.AddHole(square(50, 50, 5), 0) },
		func() error { return s.RemoveHole(0, 1) },
		func() error { s.AddPolygon(Polygon{Outline: square(200, 0, 10)}); return nil },
		func() error { return s.AddHole(square(202, 2, 2), 1) },
		func() error { return s.RemoveHole(0, 0) },
		func() error { return s.SetPoints(s.Points(), s.Parts()) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		checkConsistent(t, s)
	}
	if s.NumPolygons() != 2 || len(s.Polygon(0).Holes) != 1 || len(s.Polygon(1).Holes) != 1 {
		t.Fatalf("unexpected structure: %d polygons", s.NumPolygons())
	}
}

func TestAddHoleWinding(t *testing.T) {
	for _, hole := range [][]PointD{square(1, 1, 2), ccw(square(1, 1, 2))} {
		outer, _ := NewPolygon(square(0, 0, 10))
		s := NewPolygonShape(outer)
		if err := s.AddHole(hole, 0); err != nil {
			t.Fatal(err)
		}
		p := s.Polygon(0)
		if IsClockwise(p.Holes[0]) == IsClockwise(p.Outline) {
			t.Error("hole winding matches outer ring")
		}
	}
}

func TestAddHoleErrors(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 10))
	s := NewPolygonShape(outer)
	if err := s.AddHole(square(1, 1, 1), 3); !errors.Is(err, ErrInvariant) {
		t.Errorf("bad polygon index: %v", err)
	}
	if err := s.AddHole([]PointD{{1, 1}, {2, 2}}, 0); !errors.Is(err, ErrInvariant) {
		t.Errorf("short hole: %v", err)
	}
	if err := s.RemoveHole(0, 0); !errors.Is(err, ErrInvariant) {
		t.Errorf("missing hole: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	ring := square(0, 0, 10)
	outer, _ := NewPolygon(ring)
	s := NewPolygonShape(outer)
	s.Value = 3
	ring[0] = PointD{-5, -5}
	c := s.Clone().(*PolygonShape)
	if err := c.AddHole(square(1, 1, 1), 0); err != nil {
		t.Fatal(err)
	}
	if s.HasHoles() {
		t.Error("clone shares polygons with original")
	}
	if s.Points()[0] == (PointD{-5, -5}) {
		t.Error("shape aliases caller ring")
	}
	if c.Value != 3 {
		t.Error("attributes not cloned")
	}
}

func TestDifferenceFastPath(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 10))
	a := NewPolygonShape(outer)
	inner, _ := NewPolygon(square(2, 2, 3))
	b := NewPolygonShape(inner)

	if !a.Contains(b) {
		t.Fatal("a should contain b")
	}
	got, ok := a.DifferenceFastPath(b)
	if !ok {
		t.Fatal("fast path not taken")
	}
	want := a.Clone().(*PolygonShape)
	if err := want.AddHole(b.Polygon(0).Outline, 0); err != nil {
		t.Fatal(err)
	}
	gp, wp := got.Points(), want.Points()
	if len(gp) != len(wp) {
		t.Fatalf("points %d vs %d", len(gp), len(wp))
	}
	for i := range gp {
		if gp[i] != wp[i] {
			t.Fatalf("point %d: %v vs %v", i, gp[i], wp[i])
		}
	}
	if a.HasHoles() {
		t.Error("fast path mutated the receiver")
	}
	if math.Abs(got.Area()-91) > 1e-9 {
		t.Errorf("area = %v", got.Area())
	}
}

func TestDifferenceFastPathDeclines(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 10))
	a := NewPolygonShape(outer)
	cases := map[string][]PointD{
		"overlapping": square(5, 5, 10),
		"touching":    square(0, 2, 3),
		"outside":     square(20, 20, 1),
	}
	for name, ring := range cases {
		p, _ := NewPolygon(ring)
		if _, ok := a.DifferenceFastPath(NewPolygonShape(p)); ok {
			t.Errorf("%s: fast path should decline", name)
		}
	}
	// b around an existing hole of a is not contained
	_ = a.AddHole(square(4, 4, 1), 0)
	p, _ := NewPolygon(square(3, 3, 3))
	if a.Contains(NewPolygonShape(p)) {
		t.Error("polygon covering a hole reported as contained")
	}
}

func TestContainsPoint(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 10), square(4, 4, 2))
	s := NewPolygonShape(outer)
	if !s.ContainsPoint(PointD{1, 1}) {
		t.Error("inside point")
	}
	if s.ContainsPoint(PointD{5, 5}) {
		t.Error("point in hole")
	}
	if s.ContainsPoint(PointD{11, 5}) {
		t.Error("outside point")
	}
}

func TestPathsTouch(t *testing.T) {
	ring := closedRing(square(0, 0, 10))
	cases := []struct {
		name string
		path []PointD
		want bool
	}{
		{"crossing", []PointD{{5, 5}, {15, 5}}, true},
		{"vertex on edge", []PointD{{5, 5}, {10, 5}}, true},
		{"collinear overlap", []PointD{{2, 0}, {8, 0}}, true},
		{"corner", []PointD{{10, 10}, {12, 12}}, true},
		{"inside", []PointD{{2, 2}, {8, 8}}, false},
		{"outside", []PointD{{11, 0}, {11, 10}}, false},
	}
	for _, c := range cases {
		if got := pathsTouch(c.path, ring); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestContainsPolyline(t *testing.T) {
	outer, _ := NewPolygon(square(0, 0, 10))
	s := NewPolygonShape(outer)
	in, _ := NewPolylineShape([]PointD{{1, 1}, {9, 9}}, nil)
	if !s.Contains(in) {
		t.Error("inner line not contained")
	}
	edge, _ := NewPolylineShape([]PointD{{1, 1}, {10, 1}}, nil)
	if s.Contains(edge) {
		t.Error("line reaching the outline reported as contained")
	}
}
