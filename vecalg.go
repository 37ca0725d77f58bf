package meteolib

import (
	"github.com/wgdzlh/meteolib/graphic"
	"github.com/wgdzlh/meteolib/shape"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

type geoOp func(a, b gdal.Geometry) gdal.Geometry

// binaryOp runs op on the OGR forms of a and b. The result carries the
// attributes of a.
func (g *GeoToolbox) binaryOp(name string, a, b shape.Shape, op geoOp) (ret shape.Shape, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geoA, err := g.toOGR(a, ref)
	if err != nil {
		return
	}
	defer geoA.Destroy()
	geoB, err := g.toOGR(b, ref)
	if err != nil {
		return
	}
	defer geoB.Destroy()
	res := op(geoA, geoB)
	defer res.Destroy()
	if ret, err = g.fromOGR(res); err != nil {
		return
	}
	ret.SetAttributes(a.Attributes())
	g.logger.Debug(g.logTag+"set operation done", zap.String("op", name),
		zap.Stringer("a", a.Type()), zap.Stringer("b", b.Type()), zap.Stringer("ret", ret.Type()))
	return
}

// unaryOp is binaryOp for single-operand operations.
func (g *GeoToolbox) unaryOp(name string, s shape.Shape, op func(gdal.Geometry) gdal.Geometry) (ret shape.Shape, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geo, err := g.toOGR(s, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	res := op(geo)
	defer res.Destroy()
	if ret, err = g.fromOGR(res); err != nil {
		return
	}
	ret.SetAttributes(s.Attributes())
	g.logger.Debug(g.logTag+"geometry operation done", zap.String("op", name), zap.Stringer("ret", ret.Type()))
	return
}

// 求两个形状公共区
func (g *GeoToolbox) Intersection(a, b shape.Shape) (shape.Shape, error) {
	return g.binaryOp("intersection", a, b, gdal.Geometry.Intersection)
}

// 合并两个形状
func (g *GeoToolbox) Union(a, b shape.Shape) (shape.Shape, error) {
	return g.binaryOp("union", a, b, gdal.Geometry.Union)
}

// 求两个形状之差。b完全位于a的某个多边形内部时直接作为洞加入，不经过几何引擎
func (g *GeoToolbox) Difference(a, b shape.Shape) (shape.Shape, error) {
	if p, ok := a.(*shape.PolygonShape); ok {
		if ret, fast := p.DifferenceFastPath(b); fast {
			g.logger.Debug(g.logTag+"difference via hole insertion", zap.Int("polygons", ret.NumPolygons()))
			return ret, nil
		}
	}
	return g.binaryOp("difference", a, b, gdal.Geometry.Difference)
}

func (g *GeoToolbox) SymDifference(a, b shape.Shape) (shape.Shape, error) {
	return g.binaryOp("symdifference", a, b, gdal.Geometry.SymmetricDifference)
}

// 缓冲区，分段数取配置值
func (g *GeoToolbox) Buffer(s shape.Shape, dist float64) (shape.Shape, error) {
	return g.unaryOp("buffer", s, func(geo gdal.Geometry) gdal.Geometry {
		return geo.Buffer(dist, g.segments)
	})
}

func (g *GeoToolbox) ConvexHull(s shape.Shape) (shape.Shape, error) {
	return g.unaryOp("convexhull", s, gdal.Geometry.ConvexHull)
}

// 保持拓扑的简化，t<=0时使用默认容差
func (g *GeoToolbox) Simplify(s shape.Shape, t float64) (shape.Shape, error) {
	if t <= 0 {
		t = SimplifyT
	}
	return g.unaryOp("simplify", s, func(geo gdal.Geometry) gdal.Geometry {
		return geo.SimplifyPreservingTopology(t)
	})
}

// 按矩形范围裁剪
func (g *GeoToolbox) ClipByExtent(s shape.Shape, e shape.Extent) (ret shape.Shape, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	clip, err := gdal.CreateFromWKT(extentToWkt(e), ref)
	if err != nil {
		g.logger.Error(g.logTag+"build clip extent failed", zap.Any("extent", e), zap.Error(err))
		return
	}
	defer clip.Destroy()
	return g.unaryOp("clip", s, func(geo gdal.Geometry) gdal.Geometry {
		return geo.Intersection(clip)
	})
}

// 用裁剪形状裁剪图形集合，结果为空的图形被丢弃，图例、ID保持不变
func (g *GeoToolbox) ClipCollection(c *graphic.GraphicCollection, clip shape.Shape) (out *graphic.GraphicCollection, err error) {
	out = graphic.NewGraphicCollection()
	var (
		ret     shape.Shape
		dropped int
	)
	for _, gr := range c.SelectByExtent(clip.Extent()) {
		if ret, err = g.Intersection(gr.Shape, clip); err != nil {
			return
		}
		if isEmptyShape(ret) {
			dropped++
			continue
		}
		out.AddGraphic(&graphic.Graphic{ID: gr.ID, Shape: ret, Legend: gr.Legend})
	}
	g.logger.Info(g.logTag+"clip collection done", zap.Int("total", c.Len()), zap.Int("kept", out.Len()), zap.Int("dropped", dropped))
	return
}

func isEmptyShape(s shape.Shape) bool {
	if p, ok := s.(*shape.PolygonShape); ok {
		return p.IsEmpty()
	}
	return len(s.Points()) == 0
}

// 合并多个形状
func (g *GeoToolbox) UnionAll(ss ...shape.Shape) (ret shape.Shape, err error) {
	if len(ss) == 0 {
		err = ErrEmptyShape
		return
	}
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	var (
		geo      gdal.Geometry
		unionGeo = gdal.Create(gdal.GT_Polygon)
		gc       = []destroyable{unionGeo}
	)
	defer func() { destroyAll(gc) }()
	for _, s := range ss {
		if geo, err = g.toOGR(s, ref); err != nil {
			return
		}
		gc = append(gc, geo)
		unionGeo = unionGeo.Union(geo)
		gc = append(gc, unionGeo)
	}
	if ret, err = g.fromOGR(unionGeo); err == nil {
		ret.SetAttributes(ss[0].Attributes())
	}
	return
}

// 用折线切分多边形，返回切分后的各个多边形；不相交时返回原多边形的副本
func (g *GeoToolbox) Split(s *shape.PolygonShape, line *shape.PolylineShape) (out []*shape.PolygonShape, err error) {
	if len(line.Points()) < 2 {
		err = ErrNotEnoughLinePoints
		return
	}
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geo, err := g.toOGR(s, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	st, err := g.toOGR(line, ref)
	if err != nil {
		return
	}
	defer st.Destroy()
	if !geo.Intersects(st) {
		out = []*shape.PolygonShape{s.Clone().(*shape.PolygonShape)}
		return
	}
	buffedLine := st.Buffer(SplitLineBuffDist, 1)
	defer buffedLine.Destroy()
	diff := geo.Difference(buffedLine)
	defer diff.Destroy()
	ret, err := g.fromOGR(diff)
	if err != nil {
		return
	}
	ps, ok := ret.(*shape.PolygonShape)
	if !ok {
		err = ErrGdalWrongGeoType
		return
	}
	for _, p := range ps.Polygons() {
		piece := shape.NewPolygonShape(p)
		piece.SetAttributes(s.Attributes())
		out = append(out, piece)
	}
	g.logger.Info(g.logTag+"split polygon done", zap.Int("pieces", len(out)))
	return
}
