package shape

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-geom"
)

type ShapeType int

const (
	TypePoint ShapeType = iota + 1
	TypePolyline
	TypePolygon
)

func (t ShapeType) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypePolyline:
		return "Polyline"
	case TypePolygon:
		return "Polygon"
	}
	return "Unknown"
}

// 形状的名称和分级值
type Attrs struct {
	Name  string
	Value float64
}

func (a Attrs) Attributes() Attrs { return a }

func (a *Attrs) SetAttributes(v Attrs) { *a = v }

type Shape interface {
	Type() ShapeType
	Extent() Extent
	Points() []PointD
	Attributes() Attrs
	SetAttributes(Attrs)
	Clone() Shape
	Geom() geom.T
	Orb() orb.Geometry
}

type PointShape struct {
	Attrs
	Point PointD
}

func NewPointShape(p PointD) *PointShape {
	return &PointShape{Point: p}
}

func (s *PointShape) Type() ShapeType { return TypePoint }

func (s *PointShape) Extent() Extent {
	return Extent{MinX: s.Point.X, MinY: s.Point.Y, MaxX: s.Point.X, MaxY: s.Point.Y}
}

func (s *PointShape) Points() []PointD { return []PointD{s.Point} }

func (s *PointShape) Clone() Shape {
	c := *s
	return &c
}

func (s *PointShape) Geom() geom.T {
	return geom.NewPointFlat(geom.XY, []float64{s.Point.X, s.Point.Y})
}

func (s *PointShape) Orb() orb.Geometry { return orb.Point{s.Point.X, s.Point.Y} }
