package micaps

import "os"

const micaps2RecordLen = 10

var micaps2Fields = []string{
	"Altitude", "Grade", "Height", "Temperature", "DewPointDepression", "WindDirection", "WindSpeed",
}

// MICAPS 第2类：高空全要素填图数据
func decodeMicaps2(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseStationTextHeader(tk, true)
		if e != nil {
			return
		}
		dc.parsed()
		rows, e := readStationRows(dc, tk, h.count, micaps2RecordLen, nil)
		if e != nil {
			return
		}
		table := &StationTable{Fields: stationFields(dc.opts.missing, micaps2Fields...), Rows: rows}
		ds = newTableDataset(dc, h.datasetHeader(KindMicaps2), DimNameStation, table)
		return
	})
	return
}
