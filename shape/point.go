package shape

import (
	"math"

	"github.com/wgdzlh/meteolib/utils"
)

type PointD struct {
	X, Y float64
}

// 外包矩形，零值为原点处的空范围
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

func NewExtent(x1, y1, x2, y2 float64) Extent {
	x1, x2 = utils.MinMax(x1, x2)
	y1, y2 = utils.MinMax(y1, y2)
	return Extent{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

func (e Extent) Width() float64 { return e.MaxX - e.MinX }

func (e Extent) Height() float64 { return e.MaxY - e.MinY }

func (e Extent) Center() PointD {
	return PointD{X: (e.MinX + e.MaxX) / 2, Y: (e.MinY + e.MaxY) / 2}
}

func (e Extent) Union(o Extent) Extent {
	return Extent{
		MinX: math.Min(e.MinX, o.MinX),
		MinY: math.Min(e.MinY, o.MinY),
		MaxX: math.Max(e.MaxX, o.MaxX),
		MaxY: math.Max(e.MaxY, o.MaxY),
	}
}

func (e Extent) Intersects(o Extent) bool {
	return e.MinX <= o.MaxX && o.MinX <= e.MaxX && e.MinY <= o.MaxY && o.MinY <= e.MaxY
}

// o位于e内，含边界
func (e Extent) Covers(o Extent) bool {
	return o.MinX >= e.MinX && o.MaxX <= e.MaxX && o.MinY >= e.MinY && o.MaxY <= e.MaxY
}

func (e Extent) ContainsPoint(p PointD) bool {
	return p.X >= e.MinX && p.X <= e.MaxX && p.Y >= e.MinY && p.Y <= e.MaxY
}

// 顺时针闭合角点
func (e Extent) Ring() []PointD {
	return []PointD{
		{e.MinX, e.MinY}, {e.MinX, e.MaxY}, {e.MaxX, e.MaxY}, {e.MaxX, e.MinY}, {e.MinX, e.MinY},
	}
}

func pointsExtent(pts []PointD) (e Extent) {
	if len(pts) == 0 {
		return
	}
	e = Extent{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		e.MinX = math.Min(e.MinX, p.X)
		e.MinY = math.Min(e.MinY, p.Y)
		e.MaxX = math.Max(e.MaxX, p.X)
		e.MaxY = math.Max(e.MaxY, p.Y)
	}
	return
}
