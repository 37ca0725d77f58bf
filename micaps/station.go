package micaps

import (
	"fmt"
	"math"
	"time"

	"github.com/wgdzlh/meteolib/shape"
	"github.com/wgdzlh/meteolib/utils"

	"go.uber.org/zap"
)

// 原始文件中的缺测值
const rawMissing = 9999

// 字段与记录列的对应
type FieldSpec struct {
	Name    string
	Type    DataType
	Column  int
	Missing float64
	decode  func(float64) float64
}

// 记录保存原始字符串，读取时转换；行长度可与字段不一致
type StationTable struct {
	Fields []FieldSpec
	Rows   [][]string
}

func (t *StationTable) Len() int { return len(t.Rows) }

func (t *StationTable) Field(name string) (*FieldSpec, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

func (t *StationTable) Text(row int, f *FieldSpec) string {
	r := t.Rows[row]
	if f.Column >= len(r) {
		return ""
	}
	return r[f.Column]
}

// 短行或无法解析的值返回 f.Missing
func (t *StationTable) Float(row int, f *FieldSpec) float64 {
	v, ok := utils.ParseNumber[float64](t.Text(row, f))
	if !ok || v == rawMissing {
		return f.Missing
	}
	if f.decode != nil {
		v = f.decode(v)
	}
	return v
}

func (t *StationTable) read(v *Variable, w window) (*Array, error) {
	f, ok := t.Field(v.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, v.Name)
	}
	out := newArray(v.Type, append([]int(nil), w.size...))
	w.each(func(o int, idx []int) {
		if v.Type == String {
			out.String[o] = t.Text(idx[0], f)
			return
		}
		out.set(o, t.Float(idx[0], f))
	})
	return out, nil
}

func stationFields(missing float64, names ...string) []FieldSpec {
	fs := []FieldSpec{
		{Name: VarStid, Type: String, Column: 0},
		{Name: VarLon, Type: Float32, Column: 1, Missing: missing},
		{Name: VarLat, Type: Float32, Column: 2, Missing: missing},
	}
	for i, n := range names {
		fs = append(fs, FieldSpec{Name: n, Type: Float32, Column: 3 + i, Missing: missing})
	}
	return fs
}

func newTableDataset(dc *decodeContext, hd *DatasetHeader, dim string, table *StationTable) *Dataset {
	hd.Dimensions = append(hd.Dimensions, indexDimension(dim, table.Len()))
	for i := range table.Fields {
		// 整型字段无法表示NaN，缺测仍用原始缺测值
		if f := &table.Fields[i]; f.Type == Int32 && math.IsNaN(f.Missing) {
			f.Missing = rawMissing
		}
	}
	for _, f := range table.Fields {
		hd.Variables = append(hd.Variables, Variable{
			Name: f.Name, Type: f.Type, Dimensions: []string{dim}, FillValue: f.Missing,
		})
	}
	return &Dataset{path: dc.path, header: hd, opts: dc.opts, table: table}
}

func stationHeader(kind DataKind, desc string, t time.Time, levels ...float64) *DatasetHeader {
	hd := &DatasetHeader{
		Kind:        kind,
		Description: desc,
		Time:        t,
		Dimensions:  []Dimension{timeDimension(t)},
		Attributes:  map[string]string{},
	}
	if len(levels) > 0 {
		hd.Dimensions = append(hd.Dimensions, levelDimension(levels...))
	}
	return hd
}

// 站点记录第二列（经度或纬度）必为数值，据此识别表头后插入的说明行
const stationProbeCol = 1

func skipStationRemark(dc *decodeContext, tk *tokenizer) {
	if tk.SkipNonNumericLine(stationProbeCol) {
		dc.logger.Warn(logTag+"skipped non-numeric line after header", zap.String("path", dc.path), zap.Int("line", tk.Line()))
	}
}

// 读取 declared 条记录，每条 recLen 个字段；more 返回该记录固定部分之后还需的字段数
func readStationRows(dc *decodeContext, tk *tokenizer, declared, recLen int, more func(rec []string) int) (rows [][]string, err error) {
	skipStationRemark(dc, tk)
	rows = make([][]string, 0, declared)
	for len(rows) < declared {
		ok := tk.Ensure(recLen)
		if err = tk.Err(); err != nil {
			return
		}
		if !ok {
			break
		}
		rec := tk.Take(recLen)
		if more != nil {
			if n := more(rec); n > 0 {
				tk.Ensure(n)
				rec = append(rec, tk.Take(n)...)
			}
		}
		rows = append(rows, rec)
	}
	if len(rows) != declared {
		err = &StructuralError{Path: tk.path, Line: tk.Line(), Expected: declared, Found: len(rows),
			Reason: "station count does not match header"}
	}
	return
}

// 单一要素的站点数据
type StationData struct {
	Stids        []string
	X, Y         []float64
	Values       []float64
	MissingValue float64
}

func (s *StationData) Len() int { return len(s.Values) }

func (s *StationData) Extent() (e shape.Extent) {
	for i := range s.X {
		p := shape.NewExtent(s.X[i], s.Y[i], s.X[i], s.Y[i])
		if i == 0 {
			e = p
			continue
		}
		e = e.Union(p)
	}
	return
}

func (d *Dataset) StationData(name string) (*StationData, error) {
	if d.table == nil || d.header.Kind == KindMicaps7 {
		return nil, ErrNotStation
	}
	f, ok := d.table.Field(name)
	if !ok || f.Type == String {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, name)
	}
	sid, _ := d.table.Field(VarStid)
	lon, _ := d.table.Field(VarLon)
	lat, _ := d.table.Field(VarLat)
	n := d.table.Len()
	sd := &StationData{
		Stids:        make([]string, n),
		X:            make([]float64, n),
		Y:            make([]float64, n),
		Values:       make([]float64, n),
		MissingValue: f.Missing,
	}
	for i := 0; i < n; i++ {
		sd.Stids[i] = d.table.Text(i, sid)
		sd.X[i] = d.table.Float(i, lon)
		sd.Y[i] = d.table.Float(i, lat)
		sd.Values[i] = d.table.Float(i, f)
	}
	return sd, nil
}

// 站点转为带值的点，缺测站点跳过
func (d *Dataset) StationPoints(name string) ([]*shape.PointShape, error) {
	sd, err := d.StationData(name)
	if err != nil {
		return nil, err
	}
	pts := make([]*shape.PointShape, 0, sd.Len())
	for i, v := range sd.Values {
		if isMissing(v, sd.MissingValue) {
			continue
		}
		p := shape.NewPointShape(shape.PointD{X: sd.X[i], Y: sd.Y[i]})
		p.Value = v
		p.Name = sd.Stids[i]
		pts = append(pts, p)
	}
	return pts, nil
}

func isMissing(v, missing float64) bool {
	if math.IsNaN(missing) {
		return math.IsNaN(v)
	}
	return v == missing
}
