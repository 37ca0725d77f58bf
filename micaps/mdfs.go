package micaps

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const mdfsGridHeader = 278

// MDFS 数据类型
const (
	mdfsStation     = 1
	mdfsStationPlus = 2
	mdfsGridScalar  = 4
	mdfsGridVector  = 11
)

// 站点要素值类型
const (
	mdfsByte = iota + 1
	mdfsShort
	mdfsInt
	mdfsLong
	mdfsFloat
	mdfsDouble
	mdfsString
)

type mdfsGridHeaderInfo struct {
	dataType    int
	modelName   string
	element     string
	description string
	level       float64
	year        int
	month       int
	day         int
	hour        int
	timezone    int
	period      int
	axes        gridAxes
	isoline     [3]float64
}

func readMdfsGridHeader(br *binReader, dataType int) (h mdfsGridHeaderInfo, err error) {
	h.dataType = dataType
	h.modelName = br.String(20, "modelName")
	h.element = br.String(50, "element")
	h.description = br.String(30, "description")
	h.level = float64(br.Float32("level"))
	h.year = int(br.Int32("year"))
	h.month = int(br.Int32("month"))
	h.day = int(br.Int32("day"))
	h.hour = int(br.Int32("hour"))
	h.timezone = int(br.Int32("timezone"))
	h.period = int(br.Int32("period"))
	startLon := float64(br.Float32("startLon"))
	_ = br.Float32("endLon")
	lonInterval := float64(br.Float32("lonInterval"))
	lonCount := int(br.Int32("lonCount"))
	startLat := float64(br.Float32("startLat"))
	endLat := float64(br.Float32("endLat"))
	latInterval := float64(br.Float32("latInterval"))
	latCount := int(br.Int32("latCount"))
	for i := range h.isoline {
		h.isoline[i] = float64(br.Float32("isoline"))
	}
	br.Skip(100)
	if err = br.Err(); err != nil {
		return
	}
	if err = checkGridSize(br.path, 0, lonCount, latCount); err != nil {
		return
	}
	h.axes = buildAxes(startLon, lonInterval, lonCount, startLat, endLat, latInterval, latCount)
	return
}

// MDFS：MICAPS4 二进制格式，按类型区分站点与格点
func decodeMDFS(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		br := newBinReader(f, dc.path, dc.opts.gbk)
		magic := br.String(4, "magic")
		dataType := int(br.Int16("type"))
		if e = br.Err(); e != nil {
			return
		}
		if !strings.EqualFold(magic, mdfsMagic) {
			return fmt.Errorf("%w: magic %q", ErrUnknownFormat, magic)
		}
		switch dataType {
		case mdfsStation, mdfsStationPlus:
			ds, e = decodeMdfsStation(dc, br, dataType)
		default:
			ds, e = decodeMdfsGrid(dc, br, dataType)
		}
		return
	})
	return
}

func decodeMdfsGrid(dc *decodeContext, br *binReader, dataType int) (ds *Dataset, err error) {
	h, err := readMdfsGridHeader(br, dataType)
	if err != nil {
		return
	}
	dc.parsed()
	t := reftime(h.year, h.month, h.day, h.hour, 0)
	valid := t.Add(time.Duration(h.period) * time.Hour)
	hd := &DatasetHeader{
		Kind:        KindMDFS,
		Description: h.description,
		Time:        t,
		Dimensions:  append([]Dimension{timeDimension(valid), levelDimension(h.level)}, h.axes.dimensions()...),
		Attributes: map[string]string{
			"model":          h.modelName,
			"element":        h.element,
			"type":           strconv.Itoa(h.dataType),
			"timezone":       strconv.Itoa(h.timezone),
			AttrForecastHour: strconv.Itoa(h.period),
		},
	}
	hd.Variables = []Variable{{
		Name: varGrid, Type: Float32, Dimensions: []string{DimNameY, DimNameX}, FillValue: dc.opts.missing,
	}}
	ds = newGridDataset(dc, hd, h.axes, 1)
	numX, numY := len(h.axes.X), len(h.axes.Y)
	switch dataType {
	case mdfsGridScalar:
		hd.Attributes[AttrPayload] = "float32"
		ds.grid.loaders[varGrid] = byteGridLoader(dc, mdfsGridHeader, numX, numY, 4, float32Cell)
	default:
		// 类型11的载荷只声明了长度，不做解码
		hd.Attributes[AttrPayload] = "float64"
		dc.logger.Warn(logTag+"mdfs payload not decodable", zap.String("path", dc.path), zap.Int("type", dataType))
		ds.grid.loaders[varGrid] = func(_, _, _ int) ([]float64, error) {
			return nil, fmt.Errorf("%w: mdfs grid type %d", ErrUnsupportedVariant, dataType)
		}
	}
	return
}

func float32Cell(raw []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
}

type mdfsElement struct {
	id, typ int
}

func decodeMdfsStation(dc *decodeContext, br *binReader, dataType int) (ds *Dataset, err error) {
	desc := br.String(100, "description")
	level := float64(br.Float32("level"))
	levelDesc := br.String(50, "levelDescription")
	var tv [6]int
	for i := range tv {
		tv[i] = int(br.Int32("datetime"))
	}
	timezone := int(br.Int32("timezone"))
	br.Skip(100)
	stationNum := int(br.Int32("stationNum"))
	idNum := int(br.Int16("idNum"))
	if err = br.Err(); err != nil {
		return
	}
	if stationNum < 0 || idNum < 0 {
		err = &StructuralError{Path: dc.path, Expected: 0, Found: min(stationNum, idNum), Reason: "negative mdfs counts"}
		return
	}
	elems := make([]mdfsElement, idNum)
	column := make(map[int]int, idNum)
	for i := range elems {
		elems[i].id = int(br.Int16("elementId"))
		elems[i].typ = int(br.Int16("elementType"))
		column[elems[i].id] = 3 + i
	}
	if err = br.Err(); err != nil {
		return
	}
	dc.parsed()
	types := make(map[int]int, idNum)
	for _, el := range elems {
		types[el.id] = el.typ
	}
	rows := make([][]string, 0, stationNum)
	for s := 0; s < stationNum; s++ {
		row := make([]string, 3+idNum)
		row[0] = strconv.Itoa(int(br.Int32("stationId")))
		row[1] = strconv.FormatFloat(float64(br.Float32("lon")), 'f', -1, 32)
		row[2] = strconv.FormatFloat(float64(br.Float32("lat")), 'f', -1, 32)
		n := int(br.Int16("elementCount"))
		for k := 0; k < n && br.Err() == nil; k++ {
			id := int(br.Int16("elementId"))
			typ, ok := types[id]
			if !ok {
				err = &StructuralError{Path: dc.path, Expected: idNum, Found: id, Reason: "undeclared mdfs element id"}
				return
			}
			v, e := readMdfsValue(br, typ)
			if e != nil {
				err = &StructuralError{Path: dc.path, Expected: mdfsString, Found: typ, Reason: e.Error()}
				return
			}
			row[column[id]] = v
		}
		if err = br.Err(); err != nil {
			return
		}
		rows = append(rows, row)
	}
	fields := stationFields(dc.opts.missing)
	for i, el := range elems {
		ft := Float32
		switch el.typ {
		case mdfsString:
			ft = String
		case mdfsByte, mdfsShort, mdfsInt, mdfsLong:
			ft = Int32
		}
		fields = append(fields, FieldSpec{Name: mdfsElementName(el.id), Type: ft, Column: 3 + i, Missing: dc.opts.missing})
	}
	t := reftime(tv[0], tv[1], tv[2], tv[3], tv[4]).Add(time.Duration(tv[5]) * time.Second)
	hd := stationHeader(KindMDFS, desc, t, level)
	hd.Attributes["level_description"] = levelDesc
	hd.Attributes["type"] = strconv.Itoa(dataType)
	hd.Attributes["timezone"] = strconv.Itoa(timezone)
	ds = newTableDataset(dc, hd, DimNameStation, &StationTable{Fields: fields, Rows: rows})
	return
}

func readMdfsValue(br *binReader, typ int) (string, error) {
	switch typ {
	case mdfsByte:
		return strconv.Itoa(int(int8(br.Uint8("byte")))), nil
	case mdfsShort:
		return strconv.Itoa(int(br.Int16("short"))), nil
	case mdfsInt:
		return strconv.Itoa(int(br.Int32("int"))), nil
	case mdfsLong:
		return strconv.FormatInt(br.Int64("long"), 10), nil
	case mdfsFloat:
		return strconv.FormatFloat(float64(br.Float32("float")), 'f', -1, 32), nil
	case mdfsDouble:
		return strconv.FormatFloat(br.Float64("double"), 'f', -1, 64), nil
	case mdfsString:
		n := int(br.Int16("stringLength"))
		if n < 0 {
			return "", fmt.Errorf("negative string length %d", n)
		}
		return br.String(n, "string"), nil
	}
	return "", fmt.Errorf("unknown element type %d", typ)
}

func mdfsElementName(id int) string {
	return "E" + strconv.Itoa(id)
}
