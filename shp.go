package meteolib

import (
	"sync"

	"github.com/wgdzlh/meteolib/graphic"
	"github.com/wgdzlh/meteolib/micaps"
	"github.com/wgdzlh/meteolib/shape"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// SHAPE_ENCODING为进程级配置项，读取GBK文件期间独占
var encLock sync.Mutex

// 获取shp的srid
func (g *GeoToolbox) GetSridOfShapefile(shp string) (srid int, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	return g.getSrid(layer.SpatialReference())
}

func (g *GeoToolbox) createShpLayer(shp string, srid int) (ds gdal.DataSource, ref gdal.SpatialReference, layer gdal.Layer, err error) {
	g.logger.Info(g.logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	if ref, err = g.getSridRef(srid); err != nil {
		return
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	layer = ds.CreateLayer("", ref, gdal.GT_Unknown, []string{ENCODING_OPTION})
	return
}

// 图形属性字段：uid、名称、值、图例标题、图例颜色
func (g *GeoToolbox) initShpLayer(layer gdal.Layer) (err error) {
	fields := []struct {
		name  string
		ft    gdal.FieldType
		width int
	}{
		{SHP_FIELD_UID, gdal.FT_String, 36},
		{SHP_FIELD_NAME, gdal.FT_String, 64},
		{SHP_FIELD_VALUE, gdal.FT_Real, 0},
		{SHP_FIELD_CAPTION, gdal.FT_String, 64},
		{SHP_FIELD_COLOR, gdal.FT_String, 16},
	}
	for _, f := range fields {
		fd := gdal.CreateFieldDefinition(f.name, f.ft)
		if f.width > 0 {
			fd.SetWidth(f.width)
		}
		err = layer.CreateField(fd, false)
		fd.Destroy()
		if err != nil {
			g.logger.Error(g.logTag+"create shp field failed", zap.String("field", f.name), zap.Error(err))
			return
		}
	}
	return
}

// 将图形集合写入shp，每个图形一个要素
func (g *GeoToolbox) WriteShapefile(shp string, c *graphic.GraphicCollection) (err error) {
	ds, ref, layer, err := g.createShpLayer(shp, g.srid)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	if err = g.initShpLayer(layer); err != nil {
		return
	}
	var (
		def      = layer.Definition()
		uidIdx   = def.FieldIndex(SHP_FIELD_UID)
		nameIdx  = def.FieldIndex(SHP_FIELD_NAME)
		valueIdx = def.FieldIndex(SHP_FIELD_VALUE)
		capIdx   = def.FieldIndex(SHP_FIELD_CAPTION)
		colorIdx = def.FieldIndex(SHP_FIELD_COLOR)
		feature  gdal.Feature
		geo      gdal.Geometry
		cnt      int
		e        error
		gs       = c.Graphics()
		gc       = make([]destroyable, 0, len(gs))
	)
	defer func() { destroyAll(gc) }()
	for i, gr := range gs {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			g.logger.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		a := gr.Shape.Attributes()
		feature.SetFieldString(uidIdx, gr.ID.String())
		feature.SetFieldString(nameIdx, a.Name)
		feature.SetFieldFloat64(valueIdx, a.Value)
		if gr.Legend != nil {
			feature.SetFieldString(capIdx, gr.Legend.Caption)
			feature.SetFieldString(colorIdx, gr.Legend.Color)
		}
		if geo, e = g.toOGR(gr.Shape, ref); e != nil {
			continue
		}
		if e = feature.SetGeometryDirectly(geo); e != nil {
			g.logger.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			geo.Destroy()
			continue
		}
		if e = layer.Create(feature); e != nil {
			g.logger.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		cnt++
	}
	g.logger.Info(g.logTag+"shp files created", zap.String("shp", shp), zap.Int("total", len(gs)), zap.Int("valid", cnt))
	return
}

// 读取shp为图形集合；图例由调用方通过Classify重新分配。
// gbk为true时忽略.cpg，按GBK解码属性表（MICAPS配套的旧shp多为GBK）
func (g *GeoToolbox) ReadShapefile(shp string, gbk bool) (c *graphic.GraphicCollection, err error) {
	if gbk {
		encLock.Lock()
		prev := gdal.CPLGetConfigOption(SHAPE_ENCODING_KEY, "")
		gdal.CPLSetConfigOption(SHAPE_ENCODING_KEY, GBK_CODEPAGE)
		defer func() {
			gdal.CPLSetConfigOption(SHAPE_ENCODING_KEY, prev)
			encLock.Unlock()
		}()
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	sds, ok := driver.Open(shp, 0)
	if !ok {
		g.logger.Error(g.logTag+"open shp error", zap.String("shp", shp))
		err = ErrGdalDriverOpen
		return
	}
	defer sds.Destroy()
	layer := sds.LayerByIndex(0)
	def := layer.Definition()
	var (
		uidIdx   = def.FieldIndex(SHP_FIELD_UID)
		nameIdx  = def.FieldIndex(SHP_FIELD_NAME)
		valueIdx = def.FieldIndex(SHP_FIELD_VALUE)
		feature  *gdal.Feature
		s        shape.Shape
		skipped  int
		e        error
		gc       []destroyable
	)
	defer func() { destroyAll(gc) }()
	c = graphic.NewGraphicCollection()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		if s, e = g.fromOGR(feature.Geometry()); e != nil {
			skipped++
			continue
		}
		var a shape.Attrs
		if nameIdx >= 0 {
			a.Name = feature.FieldAsString(nameIdx)
		}
		if valueIdx >= 0 {
			a.Value = feature.FieldAsFloat64(valueIdx)
		}
		s.SetAttributes(a)
		gr := graphic.NewGraphic(s, nil)
		if uidIdx >= 0 {
			if id, e := uuid.Parse(feature.FieldAsString(uidIdx)); e == nil {
				gr.ID = id
			}
		}
		c.AddGraphic(gr)
	}
	g.logger.Info(g.logTag+"read shp done", zap.String("shp", shp), zap.Int("graphics", c.Len()), zap.Int("skipped", skipped))
	return
}

// 站点要素转为带图例的点图形集合，缺测站点不输出
func StationCollection(ds *micaps.Dataset, variable string, ls *graphic.LegendScheme) (c *graphic.GraphicCollection, err error) {
	pts, err := ds.StationPoints(variable)
	if err != nil {
		return
	}
	c = graphic.NewGraphicCollection()
	for _, p := range pts {
		c.Add(p, nil)
	}
	if ls != nil {
		c.Classify(ls)
	}
	return
}

// 台风路径转为折线图形集合，不足两个位置的路径跳过
func (g *GeoToolbox) TrajectoryCollection(ds *micaps.Dataset) *graphic.GraphicCollection {
	c := graphic.NewGraphicCollection()
	trs := ds.Trajectories()
	for i := range trs {
		pl, err := trs[i].Polyline()
		if err != nil {
			g.logger.Warn(g.logTag+"skip short trajectory", zap.String("name", trs[i].Name),
				zap.Int("points", len(trs[i].Points)), zap.Error(err))
			continue
		}
		c.Add(pl, nil)
	}
	return c
}
