// Package meteolib carries the OGR/GDAL backed toolbox used on top of the
// micaps decoders and the shape model: boolean set operations, shapefile
// I/O of graphic collections and GeoTIFF export of decoded grids.
package meteolib

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/wgdzlh/meteolib/config"
	"github.com/wgdzlh/meteolib/log"
	"github.com/wgdzlh/meteolib/shape"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

type GeoToolbox struct {
	refMap   map[string]gdal.SpatialReference
	rLock    sync.Mutex
	tmpDir   string
	segments int
	srid     int
	logger   *zap.Logger
	logTag   string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

func destroyAll(gc []destroyable) {
	for _, v := range gc {
		v.Destroy()
	}
}

// 初始化工具箱，未配置临时目录时使用当前目录
func NewGeoToolbox(opts ...Option) *GeoToolbox {
	g := &GeoToolbox{
		refMap:   map[string]gdal.SpatialReference{},
		segments: config.DefaultBufferSegments,
		srid:     config.DefaultSrid,
		logger:   log.Nop(),
		logTag:   "GeoToolbox:",
	}
	for _, fn := range opts {
		fn(g)
	}
	return g
}

func (g *GeoToolbox) Srid() int { return g.srid }

// 获取srid对应的坐标系（缓存复用，无需回收）
func (g *GeoToolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	key := "epsg:" + strconv.Itoa(srid)
	return g.cachedRef(key, func(ref gdal.SpatialReference) error { return ref.FromEPSG(srid) })
}

// 由proj4定义获取坐标系，用于第13类等投影格点
func (g *GeoToolbox) getProj4Ref(def string) (ref gdal.SpatialReference, err error) {
	return g.cachedRef(def, func(ref gdal.SpatialReference) error { return ref.FromProj4(def) })
}

func (g *GeoToolbox) cachedRef(key string, set func(gdal.SpatialReference) error) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[key]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = set(ref); err != nil {
		g.logger.Error(g.logTag+"set spatial ref failed", zap.String("ref", key), zap.Error(err))
		ref.Destroy()
		return
	}
	// 固定(经度,纬度)轴序，避免新版GDAL按CRS定义倒置坐标
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[key] = ref
	return
}

func (g *GeoToolbox) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	wkt, _ := sp.ToWKT()
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		if strings.Contains(wkt, "CGCS_2000") {
			rawId = "4490"
		} else {
			err = ErrVoidSrid
			return
		}
	}
	srid, err = strconv.Atoi(rawId)
	g.logger.Debug(g.logTag+"got srid from spatial ref", zap.String("id", rawId))
	return
}

// toOGR converts s through WKB into an OGR geometry the caller must destroy.
func (g *GeoToolbox) toOGR(s shape.Shape, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	wkb, err := shape.MarshalWKB(s)
	if err != nil {
		g.logger.Error(g.logTag+"marshal shape wkb failed", zap.Stringer("type", s.Type()), zap.Error(err))
		return
	}
	ret, err = gdal.CreateFromWKB(wkb, ref, len(wkb))
	if err != nil {
		g.logger.Error(g.logTag+"parse wkb failed", zap.Error(err))
	}
	return
}

// fromOGR converts an OGR result back into a shape. Empty results become an
// empty polygon shape; collections keep only their polygonal members.
func (g *GeoToolbox) fromOGR(geo gdal.Geometry) (s shape.Shape, err error) {
	if geo.IsEmpty() {
		s = shape.NewPolygonShape()
		return
	}
	if geo.Type() == gdal.GT_GeometryCollection {
		ps := shape.NewPolygonShape()
		for i := 0; i < geo.GeometryCount(); i++ {
			var sub shape.Shape
			if sub, err = g.fromOGR(geo.Geometry(i)); err != nil {
				return
			}
			if p, ok := sub.(*shape.PolygonShape); ok {
				for _, poly := range p.Polygons() {
					ps.AddPolygon(poly)
				}
			}
		}
		s = ps
		return
	}
	wkb, err := geo.ToWKB()
	if err != nil {
		g.logger.Error(g.logTag+"export wkb failed", zap.Error(err))
		return
	}
	if s, err = shape.UnmarshalWKB(wkb); err != nil {
		g.logger.Error(g.logTag+"unmarshal result wkb failed", zap.Error(err))
	}
	return
}

// 形状转WKT
func (g *GeoToolbox) ShapeToWkt(s shape.Shape) (wkt string, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geo, err := g.toOGR(s, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	wkt, err = geo.ToWKT()
	return
}

// WKT转形状
func (g *GeoToolbox) WktToShape(wkt string) (s shape.Shape, err error) {
	ref, err := g.getSridRef(g.srid)
	if err != nil {
		return
	}
	geo, err := gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		g.logger.Error(g.logTag+"parse wkt failed", zap.Error(err))
		return
	}
	defer geo.Destroy()
	s, err = g.fromOGR(geo)
	return
}

// 转换形状坐标系，属性保持不变
func (g *GeoToolbox) Transform(s shape.Shape, srid, tSrid int) (ret shape.Shape, err error) {
	if srid == tSrid {
		ret = s.Clone()
		return
	}
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	tRef, err := g.getSridRef(tSrid)
	if err != nil {
		return
	}
	geo, err := g.toOGR(s, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if err = geo.TransformTo(tRef); err != nil {
		g.logger.Error(g.logTag+"geo transform failed", zap.Int("srid", srid), zap.Int("tSrid", tSrid), zap.Error(err))
		return
	}
	if ret, err = g.fromOGR(geo); err == nil {
		ret.SetAttributes(s.Attributes())
	}
	return
}

func extentToWkt(e shape.Extent) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))",
		e.MinX, e.MaxX, e.MinY, e.MaxY)
}
