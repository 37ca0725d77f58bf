package micaps

import (
	"os"
	"strconv"
	"strings"
)

const (
	micaps131HeaderSize = 1024
	micaps131MaxRadars  = 20
	micaps131MaxLevels  = 40
	varValue            = "Value"
)

// 拼图头中的雷达站
type Radar struct {
	Name     string
	Lon, Lat float64
	Altitude float64
}

// SWAN 拼图固定1024字节头
type micaps131Header struct {
	zonName   string
	dataName  string
	flag      string
	version   string
	year      int
	month     int
	day       int
	hour      int
	minute    int
	interval  int
	xNum      int
	yNum      int
	zNum      int
	startLon  float64
	startLat  float64
	centerLon float64
	centerLat float64
	xReso     float64
	yReso     float64
	heights   []float64
	radars    []Radar
	depth     int
}

func readMicaps131Header(br *binReader, size int64) (h micaps131Header, err error) {
	h.zonName = br.String(12, "ZonName")
	h.dataName = br.String(38, "DataName")
	h.flag = br.String(8, "Flag")
	h.version = br.String(8, "Version")
	h.year = int(br.Uint16("year"))
	h.month = int(br.Uint16("month"))
	h.day = int(br.Uint16("day"))
	h.hour = int(br.Uint16("hour"))
	h.minute = int(br.Uint16("minute"))
	h.interval = int(br.Uint16("interval"))
	h.xNum = int(br.Uint16("XNumGrids"))
	h.yNum = int(br.Uint16("YNumGrids"))
	h.zNum = int(br.Uint16("ZNumGrids"))
	radarCount := int(br.Int32("RadarCount"))
	h.startLon = float64(br.Float32("StartLon"))
	h.startLat = float64(br.Float32("StartLat"))
	h.centerLon = float64(br.Float32("CenterLon"))
	h.centerLat = float64(br.Float32("CenterLat"))
	h.xReso = float64(br.Float32("XReso"))
	h.yReso = float64(br.Float32("YReso"))
	zh := br.Float32s(micaps131MaxLevels, "ZhighGrids")
	names := make([]string, micaps131MaxRadars)
	for i := range names {
		names[i] = br.String(16, "RadarStationName")
	}
	lons := br.Float32s(micaps131MaxRadars, "RadarLongitude")
	lats := br.Float32s(micaps131MaxRadars, "RadarLatitude")
	alts := br.Float32s(micaps131MaxRadars, "RadarAltitude")
	if err = br.Err(); err != nil {
		return
	}
	if err = checkGridSize(br.path, 0, h.xNum, h.yNum); err != nil {
		return
	}
	if h.zNum < 1 || h.zNum > micaps131MaxLevels {
		err = &StructuralError{Path: br.path, Expected: micaps131MaxLevels, Found: h.zNum, Reason: "level count out of range"}
		return
	}
	h.heights = make([]float64, h.zNum)
	for i := range h.heights {
		h.heights[i] = float64(zh[i])
	}
	if radarCount > micaps131MaxRadars {
		radarCount = micaps131MaxRadars
	}
	for i := 0; i < radarCount; i++ {
		h.radars = append(h.radars, Radar{Name: names[i], Lon: float64(lons[i]), Lat: float64(lats[i]), Altitude: float64(alts[i])})
	}
	cells := int64(h.xNum * h.yNum)
	h.depth = 1
	if h.zNum == 1 && (size-micaps131HeaderSize)/cells >= 2 {
		h.depth = 2
	}
	if need := micaps131HeaderSize + cells*int64(h.zNum*h.depth); size < need {
		err = &StructuralError{Path: br.path, Expected: int(need), Found: int(size), Reason: "mosaic payload truncated"}
	}
	return
}

func (h micaps131Header) axes() gridAxes {
	yMin := h.startLat - float64(h.yNum-1)*h.yReso
	a := buildAxes(h.startLon, h.xReso, h.xNum, yMin, h.startLat, h.yReso, h.yNum)
	// 自北向南存储，与 yDelta 符号无关
	a.YReversed = true
	return a
}

// SWAN 组合反射率：1字节 (raw-66)/2，2字节 int16/10，原始值0为缺测
func micaps131Cell(missing float64) func([]byte) float64 {
	return func(raw []byte) float64 {
		if len(raw) == 2 {
			v := int16(uint16(raw[0]) | uint16(raw[1])<<8)
			if v == 0 {
				return missing
			}
			return float64(v) / 10
		}
		if raw[0] == 0 {
			return missing
		}
		return (float64(raw[0]) - 66) / 2
	}
}

// MICAPS 第131类：SWAN 雷达拼图二进制格点
func decodeMicaps131(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		fi, e := f.Stat()
		if e != nil {
			return &IOError{Path: dc.path, Op: "stat", Err: e}
		}
		br := newBinReader(f, dc.path, dc.opts.gbk)
		h, e := readMicaps131Header(br, fi.Size())
		if e != nil {
			return
		}
		dc.parsed()
		a := h.axes()
		t := reftime(h.year, h.month, h.day, h.hour, h.minute)
		names := make([]string, len(h.radars))
		for i, r := range h.radars {
			names[i] = r.Name
		}
		hd := &DatasetHeader{
			Kind:        KindMicaps131,
			Description: h.dataName,
			Time:        t,
			Dimensions:  append([]Dimension{timeDimension(t), levelDimension(h.heights...)}, a.dimensions()...),
			Attributes: map[string]string{
				"flag":       h.flag,
				"version":    h.version,
				"interval":   strconv.Itoa(h.interval),
				"bytes_cell": strconv.Itoa(h.depth),
				"radars":     strings.Join(names, ","),
				"center_lon": strconv.FormatFloat(h.centerLon, 'f', -1, 64),
				"center_lat": strconv.FormatFloat(h.centerLat, 'f', -1, 64),
			},
		}
		hd.Attributes["zone"] = h.zonName
		hd.Variables = []Variable{{
			Name: varValue, Type: Float32, Dimensions: []string{DimNameLevel, DimNameY, DimNameX}, FillValue: dc.opts.missing,
		}}
		ds = newGridDataset(dc, hd, a, h.zNum)
		ds.grid.loaders[varValue] = byteGridLoader(dc, micaps131HeaderSize, h.xNum, h.yNum, h.depth, micaps131Cell(dc.opts.missing))
		ds.radars = h.radars
		return
	})
	return
}
