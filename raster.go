package meteolib

import (
	"fmt"
	"path/filepath"

	"github.com/wgdzlh/meteolib/micaps"
	"github.com/wgdzlh/meteolib/utils"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 格点坐标为像元中心，不足两点的轴取单位步长
func axisStep(vs []float64) float64 {
	if len(vs) < 2 {
		return 1
	}
	return vs[1] - vs[0]
}

func (g *GeoToolbox) gridProjection(gd *micaps.GridData) (wkt string, err error) {
	var ref gdal.SpatialReference
	if gd.Projection != "" {
		ref, err = g.getProj4Ref(gd.Projection)
	} else {
		ref, err = g.getSridRef(g.srid)
	}
	if err != nil {
		return
	}
	return ref.ToWKT()
}

// 将一层格点写为单波段Float32 GeoTIFF，北侧行在前，缺测值作为NoData
func (g *GeoToolbox) WriteGeoTIFF(tif string, gd *micaps.GridData) (err error) {
	nx, ny := gd.XNum(), gd.YNum()
	if nx == 0 || ny == 0 {
		err = ErrEmptyGrid
		return
	}
	proj, err := g.gridProjection(gd)
	if err != nil {
		return
	}
	driver, err := gdal.GetDriverByName(TIF_DRIVER_NAME)
	if err != nil {
		g.logger.Error(g.logTag+"get tif driver failed", zap.Error(err))
		return
	}
	ds := driver.Create(tif, nx, ny, 1, gdal.Float32, []string{COMPRESS_OPTION})
	defer ds.Close()
	dx, dy := axisStep(gd.X), axisStep(gd.Y)
	gt := [6]float64{gd.X[0] - dx/2, dx, 0, gd.Y[ny-1] + dy/2, 0, -dy}
	if err = ds.SetGeoTransform(gt); err != nil {
		return
	}
	if err = ds.SetProjection(proj); err != nil {
		return
	}
	band := ds.RasterBand(1)
	if err = band.SetNoDataValue(gd.MissingValue); err != nil {
		return
	}
	buf := make([]float32, nx*ny)
	for r := 0; r < ny; r++ {
		row := gd.Data[ny-1-r]
		for c := 0; c < nx; c++ {
			buf[r*nx+c] = float32(row[c])
		}
	}
	if err = band.IO(gdal.Write, 0, 0, nx, ny, buf, nx, ny, 0, 0); err != nil {
		g.logger.Error(g.logTag+"write tif band failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	g.logger.Info(g.logTag+"grid tif written", zap.String("tif", tif), zap.Int("width", nx), zap.Int("height", ny))
	return
}

// 写入临时目录下以uuid命名的子目录，返回tif路径
func (g *GeoToolbox) ExportGrid(gd *micaps.GridData) (out string, err error) {
	dir, err := utils.GetUniqSubDir(g.tmpDir)
	if err != nil {
		g.logger.Error(g.logTag+"create scratch dir failed", zap.String("tmpDir", g.tmpDir), zap.Error(err))
		return
	}
	out = filepath.Join(dir, fmt.Sprintf(TMP_TIF, uuid.NewString())+utils.FILE_EXT_TIF)
	err = g.WriteGeoTIFF(out, gd)
	return
}

// 读取单波段tif为格点，行按纬度升序
func (g *GeoToolbox) ReadGeoTIFF(tif string) (gd *micaps.GridData, err error) {
	ds, err := gdal.Open(tif, gdal.ReadOnly)
	if err != nil {
		g.logger.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	defer ds.Close()
	nx, ny := ds.RasterXSize(), ds.RasterYSize()
	if nx == 0 || ny == 0 {
		err = ErrEmptyGrid
		return
	}
	gt := ds.GeoTransform()
	band := ds.RasterBand(1)
	buf := make([]float32, nx*ny)
	if err = band.IO(gdal.Read, 0, 0, nx, ny, buf, nx, ny, 0, 0); err != nil {
		g.logger.Error(g.logTag+"read tif band failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	gd = &micaps.GridData{
		Data: make([][]float64, ny),
		X:    make([]float64, nx),
		Y:    make([]float64, ny),
	}
	if nd, ok := band.NoDataValue(); ok {
		gd.MissingValue = nd
	}
	for c := range gd.X {
		gd.X[c] = gt[0] + (float64(c)+0.5)*gt[1]
	}
	northUp := gt[5] < 0
	for r := 0; r < ny; r++ {
		j := r
		if northUp {
			j = ny - 1 - r
		}
		gd.Y[j] = gt[3] + (float64(r)+0.5)*gt[5]
		row := make([]float64, nx)
		for c := range row {
			row[c] = float64(buf[r*nx+c])
		}
		gd.Data[j] = row
	}
	return
}
