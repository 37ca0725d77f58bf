package micaps

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const micaps1Body = "diamond 1 20年03月15日08时地面填图\n" +
	"20 3 15 8 2\n" +
	"54511 116.47 39.80 31 1 8 90 4 125 -5 1 2 0 9999 3 1500 -10 20 0 5 1 2 1 2\n" +
	"3 -2\n" +
	"58367 121.43 31.17 4 1 6 180 2 9999 3 1 2 0 1 2 800 8 10 0 12 1 2 1 0\n"

func TestMicaps1(t *testing.T) {
	ds := mustOpen(t, KindMicaps1, writeGBK(t, "surf.000", micaps1Body))
	hd := ds.Header()
	if !hd.Time.Equal(time.Date(2020, 3, 15, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("time = %v", hd.Time)
	}
	if _, ok := hd.Dimension(DimNameLevel); ok {
		t.Error("format 1 has no level")
	}
	st, _ := hd.Dimension(DimNameStation)
	if st.Len() != 2 {
		t.Fatalf("stations = %d", st.Len())
	}
	ids := mustRead(t, ds, VarStid)
	if strings.Join(ids.String, ",") != "54511,58367" {
		t.Errorf("ids = %v", ids.String)
	}
	if p := floats(mustRead(t, ds, "Pressure")); !equalFloats(p, []float64{1012.5, 9999}) {
		t.Errorf("pressure = %v", p)
	}
	if v := floats(mustRead(t, ds, "LowCloudShape")); v[0] != 9999 {
		t.Errorf("raw missing = %v", v)
	}
	tc := floats(mustRead(t, ds, "TempChange24h"))
	if tc[0] != 3 || tc[1] != 9999 {
		t.Errorf("24h temperature change = %v", tc)
	}
	if pc := floats(mustRead(t, ds, "PressureChange24h")); pc[0] != -2 {
		t.Errorf("24h pressure change = %v", pc)
	}
	a, err := ds.ReadWindow("Temperature", []int{1}, []int{1}, nil)
	if err != nil || a.Float64(0) != 12 {
		t.Errorf("window = %v, %v", a, err)
	}
}

func TestMicaps1CountMismatch(t *testing.T) {
	body := strings.Replace(micaps1Body, "20 3 15 8 2", "20 3 15 8 3", 1)
	d := NewDecoder(KindMicaps1)
	err := d.ReadDataInfo(writeGBK(t, "bad.000", body))
	var se *StructuralError
	if !errors.As(err, &se) || se.Expected != 3 || se.Found != 2 {
		t.Fatalf("err = %v", err)
	}
	if d.State() != StateFailed || d.Dataset() != nil {
		t.Errorf("state = %s", d.State())
	}
}

func TestStationRemarkLineSkipped(t *testing.T) {
	cases := map[string]struct {
		kind DataKind
		body string
		n    int
	}{
		"micaps1": {KindMicaps1, strings.Replace(micaps1Body, "20 3 15 8 2\n", "20 3 15 8 2\n资料说明 仅供参考\n", 1), 2},
		"micaps3": {KindMicaps3, "diamond 3 t\n20 3 15 8 0\n0\n0 0\n0\n1 1\n# 站号 经度 纬度\n54511 116.47 39.80 31 1\n", 1},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			ds := mustOpen(t, c.kind, writeGBK(t, "remark.000", c.body))
			ids := mustRead(t, ds, VarStid)
			if len(ids.String) != c.n || ids.String[0] != "54511" {
				t.Errorf("stations = %v", ids.String)
			}
		})
	}
}

func TestStationData(t *testing.T) {
	ds := mustOpen(t, KindMicaps1, writeGBK(t, "surf.000", micaps1Body))
	sd, err := ds.StationData("Pressure")
	if err != nil {
		t.Fatal(err)
	}
	if sd.Len() != 2 || sd.Stids[1] != "58367" || sd.X[0] != 116.47 || sd.Y[1] != 31.17 {
		t.Errorf("station data = %+v", sd)
	}
	e := sd.Extent()
	if e.MinX != 116.47 || e.MaxX != 121.43 || e.MinY != 31.17 || e.MaxY != 39.8 {
		t.Errorf("extent = %+v", e)
	}
	pts, err := ds.StationPoints("Pressure")
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 1 || pts[0].Name != "54511" || pts[0].Value != 1012.5 {
		t.Errorf("points = %+v", pts)
	}
	if _, err := ds.StationData(VarStid); !errors.Is(err, ErrNoVariable) {
		t.Errorf("string field: %v", err)
	}
	if _, err := ds.GridData("Pressure", 0); !errors.Is(err, ErrNotGrid) {
		t.Errorf("grid on station data: %v", err)
	}
}

func TestMicaps2(t *testing.T) {
	body := "diamond 2 500hPa高空填图\n" +
		"20 3 15 8 500 2\n" +
		"54511 116.47 39.80 31 1 584 -12 3 270 20\n" +
		"58367 121.43 31.17 4 1 9999 -8 x 250 15\n"
	ds := mustOpen(t, KindMicaps2, writeGBK(t, "high.000", body))
	lv, ok := ds.Header().Dimension(DimNameLevel)
	if !ok || !equalFloats(lv.Values, []float64{500}) {
		t.Errorf("level = %v", lv)
	}
	if h := floats(mustRead(t, ds, "Height")); !equalFloats(h, []float64{584, 9999}) {
		t.Errorf("height = %v", h)
	}
	if d := floats(mustRead(t, ds, "DewPointDepression")); d[1] != 9999 {
		t.Errorf("unparsable cell = %v", d)
	}
	if w := floats(mustRead(t, ds, "WindSpeed")); !equalFloats(w, []float64{20, 15}) {
		t.Errorf("wind speed = %v", w)
	}
}

func TestMicaps3(t *testing.T) {
	body := "diamond 3 24小时降水\n" +
		"20 3 15 8 -1\n" +
		"3 0.1 10 25\n" +
		"1 0\n" +
		"2 100 30 120 30\n" +
		"2 3\n" +
		"54511 116.47 39.80 31 0.5 9999\n" +
		"58367 121.43 31.17 4 12\n3\n" +
		"59287 113.30 23.17 41 x 7\n"
	ds := mustOpen(t, KindMicaps3, writeGBK(t, "rain.000", body))
	hd := ds.Header()
	if hd.Description != "24小时降水" || hd.Attributes["contour_num"] != "3" {
		t.Errorf("header = %q %v", hd.Description, hd.Attributes)
	}
	if names := strings.Join(hd.VariableNames(), ","); names != "Stid,Lon,Lat,Altitude,Var1,Var2" {
		t.Errorf("variables = %s", names)
	}
	if v := floats(mustRead(t, ds, "Var1")); !equalFloats(v, []float64{0.5, 12, 9999}) {
		t.Errorf("Var1 = %v", v)
	}
	if v := floats(mustRead(t, ds, "Var2")); !equalFloats(v, []float64{9999, 3, 7}) {
		t.Errorf("Var2 = %v", v)
	}
}

func TestMicaps3CountMismatch(t *testing.T) {
	body := "diamond 3 t\n20 3 15 8 0\n0\n0 0\n0\n1 3\n54511 116.47 39.80 31 1\n"
	d := NewDecoder(KindMicaps3)
	var se *StructuralError
	if err := d.ReadDataInfo(writeGBK(t, "short.000", body)); !errors.As(err, &se) || se.Found != 1 {
		t.Fatalf("err = %v", err)
	}
	if d.State() != StateFailed {
		t.Errorf("state = %s", d.State())
	}
}

func TestMicaps120SwapsLatLon(t *testing.T) {
	body := "diamond 120 空气质量\n20 3 15 8 1\n" +
		"1001A 39.93 116.40 85 2 60 80 0.9 40 120 100 9\n"
	ds := mustOpen(t, KindMicaps120, writeGBK(t, "aqi.000", body))
	sd, err := ds.StationData("PM2.5")
	if err != nil {
		t.Fatal(err)
	}
	if sd.X[0] != 116.40 || sd.Y[0] != 39.93 || sd.Values[0] != 60 {
		t.Errorf("station = %+v", sd)
	}
	if v := floats(mustRead(t, ds, "SO2")); v[0] != 9 {
		t.Errorf("SO2 = %v", v)
	}
}
