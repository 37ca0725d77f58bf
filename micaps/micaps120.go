package micaps

import "os"

const micaps120RecordLen = 12

var micaps120Fields = []string{"AQI", "Grade", "PM2.5", "PM10", "CO", "NO2", "O3", "O3_8H", "SO2"}

// MICAPS 第120类：空气质量站点数据
func decodeMicaps120(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseStationTextHeader(tk, false)
		if e != nil {
			return
		}
		dc.parsed()
		rows, e := readStationRows(dc, tk, h.count, micaps120RecordLen, nil)
		if e != nil {
			return
		}
		// 文件中纬度在前、经度在后
		for _, r := range rows {
			r[1], r[2] = r[2], r[1]
		}
		table := &StationTable{Fields: stationFields(dc.opts.missing, micaps120Fields...), Rows: rows}
		ds = newTableDataset(dc, h.datasetHeader(KindMicaps120), DimNameStation, table)
		return
	})
	return
}
