package micaps

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	micaps4HeaderLen  = 19
	micaps11HeaderLen = 14
	varGrid           = "Var"
	varU              = "U"
	varV              = "V"
)

// 第4、11类共用：年 月 日 时 时效 层次 经距 纬距 起止经度 起止纬度 经纬向格点数
type textGridHeader struct {
	desc         string
	t            time.Time
	forecastHour int
	level        float64
	axes         gridAxes
	extra        []string // 14.. for format 4 (contour settings)
	headerLen    int
}

func parseTextGridHeader(tk *tokenizer, headerLen int) (h textGridHeader, err error) {
	if h.desc, err = readTitle(tk); err != nil {
		return
	}
	toks, err := takeHeader(tk, headerLen)
	if err != nil {
		return
	}
	p := newHeaderParser(toks, tk.path, tk.Line())
	year := expandYear(p.int(0, "year"))
	month := p.int(1, "month")
	day := p.int(2, "day")
	hour := p.int(3, "hour")
	h.forecastHour = p.int(4, "forecastHour")
	h.level = p.float(5, "level")
	xDelta := p.float(6, "xDelta")
	yDelta := p.float(7, "yDelta")
	xMin := p.float(8, "xMin")
	_ = p.float(9, "xMax")
	yMin := p.float(10, "yMin")
	yMax := p.float(11, "yMax")
	xNum := p.int(12, "xNum")
	yNum := p.int(13, "yNum")
	for i := 14; i < headerLen; i++ {
		p.float(i, "contour")
	}
	if err = p.err; err != nil {
		return
	}
	if err = checkGridSize(tk.path, tk.Line(), xNum, yNum); err != nil {
		return
	}
	h.t = reftime(year, month, day, hour, 0)
	h.axes = buildAxes(xMin, xDelta, xNum, yMin, yMax, yDelta, yNum)
	h.extra = toks[14:]
	h.headerLen = headerLen
	return
}

func (h textGridHeader) datasetHeader(kind DataKind) *DatasetHeader {
	valid := h.t.Add(time.Duration(h.forecastHour) * time.Hour)
	hd := &DatasetHeader{
		Kind:        kind,
		Description: h.desc,
		Time:        h.t,
		Dimensions:  append([]Dimension{timeDimension(valid), levelDimension(h.level)}, h.axes.dimensions()...),
		Attributes:  map[string]string{AttrForecastHour: strconv.Itoa(h.forecastHour)},
	}
	return hd
}

// 每次重新读文件，跳过文件头后取第block块 xNum*yNum 个值
func textGridLoader(dc *decodeContext, h textGridHeader, block int) gridLoader {
	numX, numY := len(h.axes.X), len(h.axes.Y)
	n := numX * numY
	return func(_, r0, r1 int) (rows []float64, err error) {
		err = openFile(dc.path, func(f *os.File) error {
			tk := newTokenizer(f, dc.path, dc.opts.gbk)
			if _, e := readTitle(tk); e != nil {
				return e
			}
			if _, e := takeHeader(tk, h.headerLen); e != nil {
				return e
			}
			if tk.SkipNonNumericLine(0) {
				dc.logger.Warn(logTag+"skipped non-numeric line after header", zap.String("path", dc.path), zap.Int("line", tk.Line()))
			}
			for b := 0; b <= block; b++ {
				ok := tk.Ensure(n)
				if e := tk.Err(); e != nil {
					return e
				}
				if !ok {
					return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: n, Found: tk.Len(),
						Reason: "grid block " + strconv.Itoa(b) + " truncated"}
				}
				toks := tk.Take(n)
				if b == block {
					rows = parseCells(toks[r0*numX:r1*numX], dc.opts.missing)
				}
			}
			return nil
		})
		return
	}
}

// MICAPS 第4类：格点数据
func decodeMicaps4(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseTextGridHeader(tk, micaps4HeaderLen)
		if e != nil {
			return
		}
		dc.parsed()
		hd := h.datasetHeader(KindMicaps4)
		hd.Attributes["contour_delta"] = h.extra[0]
		hd.Attributes["contour_min"] = h.extra[1]
		hd.Attributes["contour_max"] = h.extra[2]
		hd.Attributes["smooth"] = h.extra[3]
		hd.Attributes["bold"] = h.extra[4]
		hd.Variables = []Variable{{
			Name: varGrid, Type: Float32, Dimensions: []string{DimNameY, DimNameX}, FillValue: dc.opts.missing,
		}}
		ds = newGridDataset(dc, hd, h.axes, 1)
		ds.grid.loaders[varGrid] = textGridLoader(dc, h, 0)
		return
	})
	return
}

// MICAPS 第11类：U、V 两个变量共用格点，依次各占 xNum*yNum 个值
func decodeMicaps11(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseTextGridHeader(tk, micaps11HeaderLen)
		if e != nil {
			return
		}
		dc.parsed()
		hd := h.datasetHeader(KindMicaps11)
		for _, name := range []string{varU, varV} {
			hd.Variables = append(hd.Variables, Variable{
				Name: name, Type: Float32, Dimensions: []string{DimNameY, DimNameX}, FillValue: dc.opts.missing,
			})
		}
		ds = newGridDataset(dc, hd, h.axes, 1)
		ds.grid.loaders[varU] = textGridLoader(dc, h, 0)
		ds.grid.loaders[varV] = textGridLoader(dc, h, 1)
		return
	})
	return
}

func newGridDataset(dc *decodeContext, hd *DatasetHeader, a gridAxes, numZ int) *Dataset {
	return &Dataset{
		path:   dc.path,
		header: hd,
		opts:   dc.opts,
		grid:   newGridSource(a, numZ),
	}
}
