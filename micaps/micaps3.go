package micaps

import (
	"os"
	"strconv"

	"go.uber.org/zap"
)

// 第3类变长文件头：时间、层次、等值线、平滑加粗、剪切区域、变量数和站数
type micaps3Header struct {
	stationTextHeader
	contours []string
	points   int
	varNum   int
}

func takeCount(tk *tokenizer, name string) (n int, err error) {
	toks, err := takeHeader(tk, 1)
	if err != nil {
		return
	}
	p := newHeaderParser(toks, tk.path, tk.Line())
	n = p.int(0, name)
	if err = p.err; err == nil && n < 0 {
		err = &StructuralError{Path: tk.path, Line: tk.Line(), Expected: 0, Found: n, Reason: "negative " + name}
	}
	return
}

func parseMicaps3Header(tk *tokenizer) (h micaps3Header, err error) {
	if h.desc, err = readTitle(tk); err != nil {
		return
	}
	toks, err := takeHeader(tk, 5)
	if err != nil {
		return
	}
	p := newHeaderParser(toks, tk.path, tk.Line())
	h.year = expandYear(p.int(0, "year"))
	h.month = p.int(1, "month")
	h.day = p.int(2, "day")
	h.hour = p.int(3, "hour")
	h.level = p.float(4, "level")
	h.hasLevel = true
	if err = p.err; err != nil {
		return
	}
	cn, err := takeCount(tk, "contourNum")
	if err != nil {
		return
	}
	if h.contours, err = takeHeader(tk, cn); err != nil {
		return
	}
	// smooth, bold
	if _, err = takeHeader(tk, 2); err != nil {
		return
	}
	// 剪切区域边缘点数，每点两个值
	if h.points, err = takeCount(tk, "pointNum"); err != nil {
		return
	}
	if _, err = takeHeader(tk, h.points*2); err != nil {
		return
	}
	if h.varNum, err = takeCount(tk, "varNum"); err != nil {
		return
	}
	h.count, err = takeCount(tk, "stationNum")
	return
}

// MICAPS 第3类：通用填图和离散点等值线数据
func decodeMicaps3(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseMicaps3Header(tk)
		if e != nil {
			return
		}
		dc.parsed()
		recLen := 4 + h.varNum
		skipStationRemark(dc, tk)
		var rows [][]string
		for tk.Ensure(recLen) {
			rows = append(rows, tk.Take(recLen))
		}
		if e = tk.Err(); e != nil {
			return
		}
		if len(rows) != h.count {
			return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: h.count, Found: len(rows),
				Reason: "station count does not match header"}
		}
		if extra := tk.Len(); extra > 0 {
			dc.logger.Warn(logTag+"trailing tokens after station records", zap.String("path", dc.path), zap.Int("tokens", extra))
		}
		names := []string{"Altitude"}
		for i := 1; i <= h.varNum; i++ {
			names = append(names, "Var"+strconv.Itoa(i))
		}
		hd := h.datasetHeader(KindMicaps3)
		hd.Attributes["contour_num"] = strconv.Itoa(len(h.contours))
		table := &StationTable{Fields: stationFields(dc.opts.missing, names...), Rows: rows}
		ds = newTableDataset(dc, hd, DimNameStation, table)
		return
	})
	return
}
