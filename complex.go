package meteolib

import (
	"github.com/wgdzlh/meteolib/graphic"
	"github.com/wgdzlh/meteolib/shape"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

const CoverageThreshold = 0.9999

// 对各多边形分别求凸包并缓冲dist后合并，再次求凸包，得到落区的概括范围
func (g *GeoToolbox) MergeZone(s shape.Shape, dist float64) (ret shape.Shape, err error) {
	g.logger.Info(g.logTag+"start merge zone", zap.Stringer("type", s.Type()), zap.Float64("dist", dist))
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geo, err := g.toOGR(s, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	// 缓冲 + 合并
	unionGeo := g.splitAndHullBuff(geo, dist)
	defer unionGeo.Destroy()
	// 再次拆分 + 凸包
	zoneGeo := g.splitAndHullBuff(unionGeo, 0)
	defer zoneGeo.Destroy()
	if ret, err = g.fromOGR(zoneGeo); err == nil {
		ret.SetAttributes(s.Attributes())
	}
	return
}

func (g *GeoToolbox) splitAndHullBuff(geo gdal.Geometry, dist float64) (rGeo gdal.Geometry) {
	var gc []destroyable
	defer func() { destroyAll(gc) }()
	if geo.Type() != gdal.GT_MultiPolygon && geo.Type() != gdal.GT_GeometryCollection {
		rGeo = geo.ConvexHull()
		if dist > 0 {
			gc = append(gc, rGeo)
			rGeo = rGeo.Buffer(dist, g.segments)
		}
		return
	}
	rGeo = gdal.Create(gdal.GT_Polygon)
	geoCount := geo.GeometryCount()
	for i := 0; i < geoCount; i++ {
		subGeo := geo.Geometry(i)
		if subGeo.Type() != gdal.GT_Polygon {
			g.logger.Warn(g.logTag+"skip non polygon member", zap.Uint("type", uint(subGeo.Type())))
			continue
		}
		subGeo = subGeo.ConvexHull()
		gc = append(gc, subGeo)
		if dist > 0 {
			subGeo = subGeo.Buffer(dist, g.segments)
			gc = append(gc, subGeo)
		}
		gc = append(gc, rGeo)
		rGeo = rGeo.Union(subGeo)
	}
	return
}

// 多个形状的合集在目标区域中的覆盖率
func (g *GeoToolbox) CoverageRatio(zone shape.Shape, covers ...shape.Shape) (ratio float64, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	district, err := g.toOGR(zone, ref)
	if err != nil {
		return
	}
	var (
		unionGeo = gdal.Create(gdal.GT_Polygon)
		subGeo   gdal.Geometry
		gc       = []destroyable{district, unionGeo}
	)
	defer func() { destroyAll(gc) }()
	for _, c := range covers {
		if subGeo, err = g.toOGR(c, ref); err != nil {
			return
		}
		gc = append(gc, subGeo)
		unionGeo = unionGeo.Union(subGeo)
		gc = append(gc, unionGeo)
	}
	districtArea := district.Area()
	if districtArea <= 0 {
		err = ErrEmptyShape
		return
	}
	inter := district.Intersection(unionGeo)
	gc = append(gc, inter)
	ratio = inter.Area() / districtArea
	g.logger.Info(g.logTag+"got coverage ratio", zap.Float64("ratio", ratio), zap.Int("covers", len(covers)))
	return
}

// 图例分级落区：将集合中匹配某一图例的多边形合并，得到该等级的覆盖范围和未覆盖区域
func (g *GeoToolbox) LegendCoverage(c *graphic.GraphicCollection, lb *graphic.LegendBreak, zone shape.Shape) (ratio float64, uncovered shape.Shape, err error) {
	var covers []shape.Shape
	for _, gr := range c.Graphics() {
		if gr.Legend != nil && gr.Legend.Caption == lb.Caption && gr.Shape.Type() == shape.TypePolygon {
			covers = append(covers, gr.Shape)
		}
	}
	if ratio, err = g.CoverageRatio(zone, covers...); err != nil {
		return
	}
	uncovered = zone.Clone()
	if ratio >= CoverageThreshold {
		uncovered = shape.NewPolygonShape()
		return
	}
	for _, cv := range covers {
		if uncovered, err = g.Difference(uncovered, cv); err != nil {
			return
		}
	}
	return
}
