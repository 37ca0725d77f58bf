package shape

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// 多边形：顺时针外环加逆时针洞，环均为自有副本
type Polygon struct {
	Outline []PointD
	Holes   [][]PointD
}

// 复制外环并调整为顺时针
func NewPolygon(outline []PointD, holes ...[]PointD) (Polygon, error) {
	if len(outline) < MinRingPoints {
		return Polygon{}, &InvariantError{Reason: "outer ring has too few points", Index: 0}
	}
	if doubleArea(outline) == 0 {
		return Polygon{}, &InvariantError{Reason: "degenerate outer ring", Index: 0}
	}
	p := Polygon{Outline: orientedCopy(outline, true)}
	for i, h := range holes {
		if len(h) < MinRingPoints {
			return Polygon{}, &InvariantError{Reason: "hole has too few points", Index: i}
		}
		p.addHole(h)
	}
	return p, nil
}

func (p *Polygon) addHole(ring []PointD) {
	p.Holes = append(p.Holes, orientedCopy(ring, false))
}

func (p Polygon) HasHoles() bool { return len(p.Holes) > 0 }

func (p Polygon) Rings() [][]PointD {
	return append([][]PointD{p.Outline}, p.Holes...)
}

func (p Polygon) NumPoints() int {
	n := len(p.Outline)
	for _, h := range p.Holes {
		n += len(h)
	}
	return n
}

// 外环面积减去洞面积
func (p Polygon) Area() float64 {
	a := RingArea(p.Outline)
	for _, h := range p.Holes {
		a -= RingArea(h)
	}
	return a
}

func (p Polygon) Extent() Extent { return pointsExtent(p.Outline) }

func (p Polygon) clone() Polygon {
	c := Polygon{Outline: copyRing(p.Outline)}
	if len(p.Holes) > 0 {
		c.Holes = make([][]PointD, len(p.Holes))
		for i, h := range p.Holes {
			c.Holes[i] = copyRing(h)
		}
	}
	return c
}

func (p Polygon) orb() orb.Polygon {
	op := make(orb.Polygon, 0, 1+len(p.Holes))
	for _, r := range p.Rings() {
		op = append(op, orbRing(r))
	}
	return op
}

// 在外环内且不在任何洞内
func (p Polygon) ContainsPoint(pt PointD) bool {
	return planar.PolygonContains(p.orb(), orb.Point{pt.X, pt.Y})
}
