package shape

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

var segmentStrategy = &lineintersector.RobustLineIntersector{}

// other完全位于s内部：顶点均在内，边与s的环不相交不接触，s的洞不落在other内
func (s *PolygonShape) Contains(other Shape) bool {
	return s.containingPolygon(other) >= 0
}

// 包含other的多边形下标，没有时为-1
func (s *PolygonShape) containingPolygon(other Shape) int {
	if other == nil || !s.extent.Covers(other.Extent()) {
		return -1
	}
	for i, p := range s.polygons {
		if p.contains(other) {
			return i
		}
	}
	return -1
}

func (p Polygon) contains(other Shape) bool {
	pts := other.Points()
	if len(pts) == 0 {
		return false
	}
	for _, pt := range pts {
		if !p.ContainsPoint(pt) {
			return false
		}
	}
	var paths [][]PointD
	switch o := other.(type) {
	case *PolylineShape:
		paths = o.Lines()
	case *PolygonShape:
		for _, op := range o.polygons {
			paths = append(paths, closedRing(op.Outline))
			for _, h := range p.Holes {
				if op.ContainsPoint(h[0]) {
					return false
				}
			}
		}
	}
	for _, path := range paths {
		for _, ring := range p.Rings() {
			if pathsTouch(path, closedRing(ring)) {
				return false
			}
		}
	}
	return true
}

// other为无洞单多边形且位于s某个多边形内时，差集即在s副本中加洞；ok为false时需走几何引擎
func (s *PolygonShape) DifferenceFastPath(other Shape) (ret *PolygonShape, ok bool) {
	o, isPoly := other.(*PolygonShape)
	if !isPoly || len(o.polygons) != 1 || o.polygons[0].HasHoles() {
		return
	}
	idx := s.containingPolygon(o)
	if idx < 0 {
		return
	}
	ret = s.clone()
	if err := ret.AddHole(o.polygons[0].Outline, idx); err != nil {
		return nil, false
	}
	return ret, true
}

func closedRing(r []PointD) []PointD {
	if isClosed(r) {
		return r
	}
	return append(copyRing(r), r[0])
}

// 任一线段相交或接触即为true
func pathsTouch(a, b []PointD) bool {
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			r := lineintersector.LineIntersectsLine(segmentStrategy,
				coord(a[i-1]), coord(a[i]), coord(b[j-1]), coord(b[j]))
			if r.HasIntersection() {
				return true
			}
		}
	}
	return false
}

func coord(p PointD) geom.Coord { return geom.Coord{p.X, p.Y} }
