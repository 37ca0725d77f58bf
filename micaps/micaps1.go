package micaps

import (
	"os"
	"strconv"
)

const (
	micaps1RecordLen = 24
	micaps1FlagCol   = 23
)

var micaps1Fields = []string{
	"Altitude", "Grade", "CloudCover", "WindDirection", "WindSpeed",
	"Pressure", "PressureChange3h", "PastWeather1", "PastWeather2", "Precipitation6h",
	"LowCloudShape", "LowCloudAmount", "LowCloudHeight", "DewPoint", "Visibility",
	"Weather", "Temperature", "MiddleCloudShape", "HighCloudShape",
}

// 第二个标志为2时，记录后附加24小时变温、变压
var micaps1Extra = []string{"TempChange24h", "PressureChange24h"}

// 三位数气压还原为百帕
func decodePressure(v float64) float64 {
	if v == rawMissing {
		return v
	}
	if v > 800 {
		return v/10 + 900
	}
	return v/10 + 1000
}

// 标题行后：年 月 日 时 [层次] 站数
type stationTextHeader struct {
	desc     string
	year     int
	month    int
	day      int
	hour     int
	level    float64
	hasLevel bool
	count    int
}

func parseStationTextHeader(tk *tokenizer, withLevel bool) (h stationTextHeader, err error) {
	if h.desc, err = readTitle(tk); err != nil {
		return
	}
	n := 5
	if withLevel {
		n = 6
	}
	toks, err := takeHeader(tk, n)
	if err != nil {
		return
	}
	p := newHeaderParser(toks, tk.path, tk.Line())
	h.year = expandYear(p.int(0, "year"))
	h.month = p.int(1, "month")
	h.day = p.int(2, "day")
	h.hour = p.int(3, "hour")
	if withLevel {
		h.level = p.float(4, "level")
		h.hasLevel = true
	}
	h.count = p.int(n-1, "stationNum")
	err = p.err
	return
}

func (h stationTextHeader) datasetHeader(kind DataKind) *DatasetHeader {
	t := reftime(h.year, h.month, h.day, h.hour, 0)
	if h.hasLevel {
		return stationHeader(kind, h.desc, t, h.level)
	}
	return stationHeader(kind, h.desc, t)
}

// MICAPS 第1类：地面全要素填图数据
func decodeMicaps1(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseStationTextHeader(tk, false)
		if e != nil {
			return
		}
		dc.parsed()
		rows, e := readStationRows(dc, tk, h.count, micaps1RecordLen, func(rec []string) int {
			if flag, _ := strconv.Atoi(rec[micaps1FlagCol]); flag == 2 {
				return len(micaps1Extra)
			}
			return 0
		})
		if e != nil {
			return
		}
		fields := stationFields(dc.opts.missing, micaps1Fields...)
		for i := range fields {
			if fields[i].Name == "Pressure" {
				fields[i].decode = decodePressure
			}
		}
		for i, n := range micaps1Extra {
			fields = append(fields, FieldSpec{Name: n, Type: Float32, Column: micaps1RecordLen + i, Missing: dc.opts.missing})
		}
		ds = newTableDataset(dc, h.datasetHeader(KindMicaps1), DimNameStation, &StationTable{Fields: fields, Rows: rows})
		return
	})
	return
}
