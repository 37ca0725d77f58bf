package micaps

import (
	"time"
)

type DimensionKind int

const (
	DimTime DimensionKind = iota
	DimLevel
	DimY
	DimX
	DimOther
)

func (k DimensionKind) String() string {
	switch k {
	case DimTime:
		return "Time"
	case DimLevel:
		return "Level"
	case DimY:
		return "Y"
	case DimX:
		return "X"
	}
	return "Other"
}

// 维度及其坐标值
type Dimension struct {
	Name   string
	Kind   DimensionKind
	Values []float64
}

func (d *Dimension) Len() int { return len(d.Values) }

type DataType int

const (
	Float32 DataType = iota
	Int32
	String
)

func (t DataType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	}
	return "string"
}

// 维度按变化由慢到快排列，与文件中的存储顺序一致
type Variable struct {
	Name       string
	Type       DataType
	Dimensions []string
	FillValue  float64
	Attributes map[string]string
}

// 文件头，解析后不再修改
type DatasetHeader struct {
	Kind        DataKind
	Description string
	Time        time.Time // 资料时间（不含时区）
	Dimensions  []Dimension
	Variables   []Variable
	Attributes  map[string]string
}

func (h *DatasetHeader) Dimension(name string) (*Dimension, bool) {
	for i := range h.Dimensions {
		if h.Dimensions[i].Name == name {
			return &h.Dimensions[i], true
		}
	}
	return nil, false
}

func (h *DatasetHeader) Variable(name string) (*Variable, bool) {
	for i := range h.Variables {
		if h.Variables[i].Name == name {
			return &h.Variables[i], true
		}
	}
	return nil, false
}

func (h *DatasetHeader) VariableNames() []string {
	names := make([]string, len(h.Variables))
	for i, v := range h.Variables {
		names[i] = v.Name
	}
	return names
}

func (h *DatasetHeader) Shape(v *Variable) []int {
	shape := make([]int, len(v.Dimensions))
	for i, name := range v.Dimensions {
		if d, ok := h.Dimension(name); ok {
			shape[i] = d.Len()
		}
	}
	return shape
}

// 时间维转为时间值
func (h *DatasetHeader) Times() (ts []time.Time) {
	d, ok := h.Dimension(DimNameTime)
	if !ok {
		return
	}
	ts = make([]time.Time, d.Len())
	for i, v := range d.Values {
		ts[i] = time.Unix(int64(v), 0).UTC()
	}
	return
}

const (
	DimNameTime    = "time"
	DimNameLevel   = "level"
	DimNameY       = "lat"
	DimNameX       = "lon"
	DimNameStation = "station"
	DimNameRecord  = "record"

	VarStid = "Stid"
	VarLon  = "Lon"
	VarLat  = "Lat"

	AttrProjection   = "projection"
	AttrForecastHour = "forecast_hour"
	AttrPayload      = "payload"
)

func timeDimension(t time.Time) Dimension {
	return Dimension{Name: DimNameTime, Kind: DimTime, Values: []float64{float64(t.Unix())}}
}

func levelDimension(levels ...float64) Dimension {
	return Dimension{Name: DimNameLevel, Kind: DimLevel, Values: levels}
}

func indexDimension(name string, n int) Dimension {
	d := Dimension{Name: name, Kind: DimOther, Values: make([]float64, n)}
	for i := range d.Values {
		d.Values[i] = float64(i)
	}
	return d
}

func reftime(year, month, day, hour, minute int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}
