package micaps

import (
	"os"
	"strconv"
	"time"

	"github.com/wgdzlh/meteolib/shape"
	"github.com/wgdzlh/meteolib/utils"
)

const (
	micaps7HeadLen  = 4
	micaps7PointLen = 13
	varTrack        = "Track"
)

var micaps7Fields = []string{
	"Year", "Month", "Day", "Hour", "ForecastHour", VarLon, VarLat,
	"MaxWind", "Pressure", "Radius7", "Radius10", "MoveDirection", "MoveSpeed",
}

type TrajectoryPoint struct {
	Time         time.Time
	ForecastHour int
	Lon, Lat     float64
	MaxWind      float64
	Pressure     float64
	Radius7      float64
	Radius10     float64
	Direction    float64
	Speed        float64
}

// 一条台风路径
type Trajectory struct {
	Name   string
	Number string
	Code   string
	Points []TrajectoryPoint
}

// 路径转为以台风名命名的单段折线，不足两个位置时返回错误
func (t *Trajectory) Polyline() (pl *shape.PolylineShape, err error) {
	pts := make([]shape.PointD, len(t.Points))
	for i, p := range t.Points {
		pts[i] = shape.PointD{X: p.Lon, Y: p.Lat}
	}
	if pl, err = shape.NewPolylineShape(pts, nil); err != nil {
		return
	}
	pl.Name = t.Name
	return
}

func parseTrajectoryPoint(toks []string, missing float64) TrajectoryPoint {
	vs := parseCells(toks, missing)
	return TrajectoryPoint{
		Time:         reftime(expandYear(int(vs[0])), int(vs[1]), int(vs[2]), int(vs[3]), 0),
		ForecastHour: int(vs[4]),
		Lon:          vs[5],
		Lat:          vs[6],
		MaxWind:      vs[7],
		Pressure:     vs[8],
		Radius7:      vs[9],
		Radius10:     vs[10],
		Direction:    vs[11],
		Speed:        vs[12],
	}
}

// MICAPS 第7类：台风路径数据。轨迹头4个字段，位置行13个字段，仅以字段数区分。
func decodeMicaps7(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		desc, e := readTitle(tk)
		if e != nil {
			return
		}
		dc.parsed()
		var (
			tracks []Trajectory
			rows   [][]string
			expect int
		)
		for {
			toks, ok := tk.NextLine()
			if !ok {
				break
			}
			switch len(toks) {
			case micaps7HeadLen:
				if len(tracks) > 0 && len(tracks[len(tracks)-1].Points) != expect {
					return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: expect,
						Found: len(tracks[len(tracks)-1].Points), Reason: "trajectory point count"}
				}
				n, cnt := utils.ParseNumber[int](toks[3])
				if !cnt || n < 0 {
					return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: 0, Found: n,
						Reason: "trajectory point count is not a number"}
				}
				expect = n
				tracks = append(tracks, Trajectory{Name: toks[0], Number: toks[1], Code: toks[2]})
			case micaps7PointLen:
				if len(tracks) == 0 {
					return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: micaps7HeadLen,
						Found: micaps7PointLen, Reason: "position line before trajectory header"}
				}
				tr := &tracks[len(tracks)-1]
				tr.Points = append(tr.Points, parseTrajectoryPoint(toks, dc.opts.missing))
				rows = append(rows, append([]string{strconv.Itoa(len(tracks) - 1)}, toks...))
			default:
				return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: micaps7PointLen,
					Found: len(toks), Reason: "unexpected trajectory line"}
			}
		}
		if e = tk.Err(); e != nil {
			return
		}
		if len(tracks) > 0 && len(tracks[len(tracks)-1].Points) != expect {
			return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: expect,
				Found: len(tracks[len(tracks)-1].Points), Reason: "trajectory point count"}
		}
		t := time.Time{}
		if len(tracks) > 0 && len(tracks[0].Points) > 0 {
			t = tracks[0].Points[0].Time
		}
		fields := []FieldSpec{{Name: varTrack, Type: Int32, Column: 0, Missing: dc.opts.missing}}
		for i, n := range micaps7Fields {
			fields = append(fields, FieldSpec{Name: n, Type: Float32, Column: 1 + i, Missing: dc.opts.missing})
		}
		hd := stationHeader(KindMicaps7, desc, t)
		hd.Attributes["trajectories"] = strconv.Itoa(len(tracks))
		ds = newTableDataset(dc, hd, DimNameRecord, &StationTable{Fields: fields, Rows: rows})
		ds.trajectories = tracks
		return
	})
	return
}
