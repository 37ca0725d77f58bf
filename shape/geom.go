package shape

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func flatCoords(pts []PointD) []float64 {
	flat := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}

func polygonFlat(p Polygon, base int) (flat []float64, ends []int) {
	for _, r := range p.Rings() {
		flat = append(flat, flatCoords(r)...)
		if !isClosed(r) {
			flat = append(flat, r[0].X, r[0].Y)
		}
		ends = append(ends, base+len(flat))
	}
	return
}

func orbLine(pts []PointD) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{p.X, p.Y}
	}
	return ls
}

func orbRing(pts []PointD) orb.Ring {
	r := orb.Ring(orbLine(pts))
	if !isClosed(pts) {
		r = append(r, r[0])
	}
	return r
}

func pointsFromFlat(flat []float64, stride int) []PointD {
	pts := make([]PointD, len(flat)/stride)
	for i := range pts {
		pts[i] = PointD{X: flat[i*stride], Y: flat[i*stride+1]}
	}
	return pts
}

func polygonFromGeom(flat []float64, offset int, ends []int, stride int) (p Polygon, err error) {
	for i, end := range ends {
		ring := pointsFromFlat(flat[offset:end], stride)
		offset = end
		if len(ring) < MinRingPoints {
			err = &InvariantError{Reason: "ring has too few points", Index: i}
			return
		}
		if i == 0 {
			p.Outline = orientedCopy(ring, true)
			continue
		}
		p.addHole(ring)
	}
	return
}

// go-geom 几何转形状，不支持多点和几何集合
func FromGeom(g geom.T) (Shape, error) {
	stride := g.Stride()
	switch t := g.(type) {
	case *geom.Point:
		c := t.FlatCoords()
		if len(c) < 2 {
			return nil, &InvariantError{Reason: "empty point", Index: 0}
		}
		return NewPointShape(PointD{X: c[0], Y: c[1]}), nil
	case *geom.LineString:
		return NewPolylineShape(pointsFromFlat(t.FlatCoords(), stride), nil)
	case *geom.MultiLineString:
		var parts []int
		offset := 0
		for _, end := range t.Ends() {
			parts = append(parts, offset/stride)
			offset = end
		}
		return NewPolylineShape(pointsFromFlat(t.FlatCoords(), stride), parts)
	case *geom.Polygon:
		p, err := polygonFromGeom(t.FlatCoords(), 0, t.Ends(), stride)
		if err != nil {
			return nil, err
		}
		return NewPolygonShape(p), nil
	case *geom.MultiPolygon:
		s := &PolygonShape{}
		offset := 0
		for _, ends := range t.Endss() {
			if len(ends) == 0 {
				continue
			}
			p, err := polygonFromGeom(t.FlatCoords(), offset, ends, stride)
			if err != nil {
				return nil, err
			}
			s.polygons = append(s.polygons, p)
			offset = ends[len(ends)-1]
		}
		s.rebuild()
		return s, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeom, g)
}

// 小端WKB
func MarshalWKB(s Shape) ([]byte, error) {
	return wkb.Marshal(s.Geom(), wkb.NDR)
}

func UnmarshalWKB(b []byte) (Shape, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	return FromGeom(g)
}

func pointsFromOrb(ls []orb.Point) []PointD {
	pts := make([]PointD, len(ls))
	for i, p := range ls {
		pts[i] = PointD{X: p[0], Y: p[1]}
	}
	return pts
}

func polygonFromOrb(op orb.Polygon) (p Polygon, err error) {
	if len(op) == 0 {
		err = &InvariantError{Reason: "polygon without rings", Index: 0}
		return
	}
	holes := make([][]PointD, 0, len(op)-1)
	for _, r := range op[1:] {
		holes = append(holes, pointsFromOrb(r))
	}
	return NewPolygon(pointsFromOrb(op[0]), holes...)
}

// orb 几何（GeoJSON解码所得）转形状
func FromOrb(g orb.Geometry) (Shape, error) {
	switch t := g.(type) {
	case orb.Point:
		return NewPointShape(PointD{X: t[0], Y: t[1]}), nil
	case orb.LineString:
		return NewPolylineShape(pointsFromOrb(t), nil)
	case orb.MultiLineString:
		var (
			pts   []PointD
			parts []int
		)
		for _, l := range t {
			parts = append(parts, len(pts))
			pts = append(pts, pointsFromOrb(l)...)
		}
		return NewPolylineShape(pts, parts)
	case orb.Ring:
		p, err := NewPolygon(pointsFromOrb(t))
		if err != nil {
			return nil, err
		}
		return NewPolygonShape(p), nil
	case orb.Polygon:
		p, err := polygonFromOrb(t)
		if err != nil {
			return nil, err
		}
		return NewPolygonShape(p), nil
	case orb.MultiPolygon:
		polys := make([]Polygon, 0, len(t))
		for _, op := range t {
			p, err := polygonFromOrb(op)
			if err != nil {
				return nil, err
			}
			polys = append(polys, p)
		}
		return NewPolygonShape(polys...), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeom, g)
}
