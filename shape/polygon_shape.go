package shape

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-geom"
)

// 多边形形状：以多边形列表为准，点数组和parts（第i个环的起点）由其派生，每次修改后重建
type PolygonShape struct {
	Attrs
	polygons []Polygon
	points   []PointD
	parts    []int
	extent   Extent
}

func NewPolygonShape(polys ...Polygon) *PolygonShape {
	s := &PolygonShape{}
	s.SetPolygons(polys)
	return s
}

func NewPolygonShapeFromPoints(points []PointD, parts []int) (*PolygonShape, error) {
	s := &PolygonShape{}
	if err := s.SetPoints(points, parts); err != nil {
		return nil, err
	}
	return s, nil
}

// 按parts拆分环：顺时针环开始新多边形，逆时针环为前一多边形的洞，首环逆时针时反转作外环。出错时形状不变
func (s *PolygonShape) SetPoints(points []PointD, parts []int) error {
	if parts == nil {
		parts = []int{0}
	}
	if err := validateParts(parts, len(points), MinRingPoints); err != nil {
		return err
	}
	var polys []Polygon
	for i, ring := range splitParts(points, parts) {
		a := doubleArea(ring)
		switch {
		case a == 0:
			return &InvariantError{Reason: "zero area ring", Index: i}
		case i == 0 && a > 0:
			reverseRing(ring)
			polys = append(polys, Polygon{Outline: ring})
		case a < 0:
			polys = append(polys, Polygon{Outline: ring})
		default:
			last := &polys[len(polys)-1]
			last.Holes = append(last.Holes, ring)
		}
	}
	s.polygons = polys
	s.rebuild()
	return nil
}

func (s *PolygonShape) SetPolygons(polys []Polygon) {
	s.polygons = make([]Polygon, 0, len(polys))
	for _, p := range polys {
		s.polygons = append(s.polygons, normalized(p))
	}
	s.rebuild()
}

func normalized(p Polygon) Polygon {
	c := Polygon{Outline: orientedCopy(p.Outline, true)}
	for _, h := range p.Holes {
		c.addHole(h)
	}
	return c
}

func (s *PolygonShape) AddPolygon(p Polygon) {
	s.polygons = append(s.polygons, normalized(p))
	s.rebuild()
}

// 为第polyIdx个多边形加洞，顺时针时反转
func (s *PolygonShape) AddHole(ring []PointD, polyIdx int) error {
	if polyIdx < 0 || polyIdx >= len(s.polygons) {
		return &InvariantError{Reason: "polygon index out of range", Index: polyIdx}
	}
	if len(ring) < MinRingPoints {
		return &InvariantError{Reason: "hole has too few points", Index: len(s.polygons[polyIdx].Holes)}
	}
	if doubleArea(ring) == 0 {
		return &InvariantError{Reason: "zero area ring", Index: len(s.polygons[polyIdx].Holes)}
	}
	s.polygons[polyIdx].addHole(ring)
	s.rebuild()
	return nil
}

func (s *PolygonShape) RemoveHole(polyIdx, holeIdx int) error {
	if polyIdx < 0 || polyIdx >= len(s.polygons) {
		return &InvariantError{Reason: "polygon index out of range", Index: polyIdx}
	}
	p := &s.polygons[polyIdx]
	if holeIdx < 0 || holeIdx >= len(p.Holes) {
		return &InvariantError{Reason: "hole index out of range", Index: holeIdx}
	}
	p.Holes = append(p.Holes[:holeIdx], p.Holes[holeIdx+1:]...)
	s.rebuild()
	return nil
}

func (s *PolygonShape) rebuild() {
	n, rings := 0, 0
	for _, p := range s.polygons {
		n += p.NumPoints()
		rings += 1 + len(p.Holes)
	}
	s.points = make([]PointD, 0, n)
	s.parts = make([]int, 0, rings)
	for i, p := range s.polygons {
		for _, r := range p.Rings() {
			s.parts = append(s.parts, len(s.points))
			s.points = append(s.points, r...)
		}
		if i == 0 {
			s.extent = p.Extent()
		} else {
			s.extent = s.extent.Union(p.Extent())
		}
	}
	if len(s.polygons) == 0 {
		s.extent = Extent{}
	}
}

func (s *PolygonShape) Type() ShapeType { return TypePolygon }

func (s *PolygonShape) Extent() Extent { return s.extent }

func (s *PolygonShape) Points() []PointD { return copyRing(s.points) }

func (s *PolygonShape) Parts() []int { return append([]int(nil), s.parts...) }

func (s *PolygonShape) NumPoints() int { return len(s.points) }

func (s *PolygonShape) NumParts() int { return len(s.parts) }

func (s *PolygonShape) NumPolygons() int { return len(s.polygons) }

func (s *PolygonShape) Polygon(i int) Polygon { return s.polygons[i].clone() }

func (s *PolygonShape) Polygons() []Polygon {
	out := make([]Polygon, len(s.polygons))
	for i, p := range s.polygons {
		out[i] = p.clone()
	}
	return out
}

func (s *PolygonShape) HasHoles() bool {
	for _, p := range s.polygons {
		if p.HasHoles() {
			return true
		}
	}
	return false
}

func (s *PolygonShape) Area() (a float64) {
	for _, p := range s.polygons {
		a += p.Area()
	}
	return
}

func (s *PolygonShape) IsEmpty() bool { return len(s.polygons) == 0 }

// 深拷贝
func (s *PolygonShape) Clone() Shape { return s.clone() }

func (s *PolygonShape) clone() *PolygonShape {
	c := &PolygonShape{Attrs: s.Attrs, polygons: make([]Polygon, len(s.polygons))}
	for i, p := range s.polygons {
		c.polygons[i] = p.clone()
	}
	c.rebuild()
	return c
}

func (s *PolygonShape) ContainsPoint(pt PointD) bool {
	if !s.extent.ContainsPoint(pt) {
		return false
	}
	for _, p := range s.polygons {
		if p.ContainsPoint(pt) {
			return true
		}
	}
	return false
}

// 单个多边形输出 Polygon，否则 MultiPolygon，环均闭合
func (s *PolygonShape) Geom() geom.T {
	if len(s.polygons) == 1 {
		flat, ends := polygonFlat(s.polygons[0], 0)
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	}
	var (
		flat  []float64
		endss [][]int
	)
	for _, p := range s.polygons {
		f, ends := polygonFlat(p, len(flat))
		flat = append(flat, f...)
		endss = append(endss, ends)
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}

func (s *PolygonShape) Orb() orb.Geometry {
	if len(s.polygons) == 1 {
		return s.polygons[0].orb()
	}
	mp := make(orb.MultiPolygon, len(s.polygons))
	for i, p := range s.polygons {
		mp[i] = p.orb()
	}
	return mp
}
