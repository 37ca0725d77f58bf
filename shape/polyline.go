package shape

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geom"
)

const minLinePoints = 2

// 折线形状，可含多段
type PolylineShape struct {
	Attrs
	points []PointD
	parts  []int
	extent Extent
}

// parts为nil时为单段
func NewPolylineShape(points []PointD, parts []int) (*PolylineShape, error) {
	s := &PolylineShape{}
	if err := s.SetPoints(points, parts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PolylineShape) SetPoints(points []PointD, parts []int) error {
	if parts == nil {
		parts = []int{0}
	}
	if err := validateParts(parts, len(points), minLinePoints); err != nil {
		return err
	}
	s.points = copyRing(points)
	s.parts = append([]int(nil), parts...)
	s.extent = pointsExtent(s.points)
	return nil
}

func (s *PolylineShape) Type() ShapeType { return TypePolyline }

func (s *PolylineShape) Extent() Extent { return s.extent }

func (s *PolylineShape) Points() []PointD { return copyRing(s.points) }

func (s *PolylineShape) Parts() []int { return append([]int(nil), s.parts...) }

func (s *PolylineShape) NumParts() int { return len(s.parts) }

func (s *PolylineShape) Lines() [][]PointD {
	return splitParts(s.points, s.parts)
}

// 各段平面长度之和
func (s *PolylineShape) Length() float64 {
	return planar.Length(s.Orb())
}

func (s *PolylineShape) Clone() Shape {
	return &PolylineShape{
		Attrs:  s.Attrs,
		points: copyRing(s.points),
		parts:  append([]int(nil), s.parts...),
		extent: s.extent,
	}
}

func (s *PolylineShape) Geom() geom.T {
	flat := flatCoords(s.points)
	if len(s.parts) == 1 {
		return geom.NewLineStringFlat(geom.XY, flat)
	}
	ends := make([]int, len(s.parts))
	for i := range s.parts {
		end := len(s.points)
		if i+1 < len(s.parts) {
			end = s.parts[i+1]
		}
		ends[i] = 2 * end
	}
	return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
}

func (s *PolylineShape) Orb() orb.Geometry {
	lines := s.Lines()
	if len(lines) == 1 {
		return orbLine(lines[0])
	}
	ml := make(orb.MultiLineString, len(lines))
	for i, l := range lines {
		ml[i] = orbLine(l)
	}
	return ml
}
