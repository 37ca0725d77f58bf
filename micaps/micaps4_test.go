package micaps

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/wgdzlh/meteolib/config"
)

// micaps4File writes a 6x6 grid whose physical row r, column c holds r*10+c,
// wrapped four values per line.
func micaps4File(t *testing.T, extra string) string {
	var sb strings.Builder
	sb.WriteString("diamond 4 500hPa高度场\n")
	sb.WriteString("20 3 15 12 3 500 2 -2 100 110 40 30 6 6 4 0 100 1 0\n")
	sb.WriteString(extra)
	n := 0
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			fmt.Fprintf(&sb, "%d", r*10+c)
			if n++; n%4 == 0 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
	}
	sb.WriteString("\n")
	return writeGBK(t, "grid.m4", sb.String())
}

func TestMicaps4Header(t *testing.T) {
	ds := mustOpen(t, KindMicaps4, micaps4File(t, ""))
	hd := ds.Header()
	if hd.Description != "500hPa高度场" {
		t.Errorf("description = %q", hd.Description)
	}
	if want := time.Date(2020, 3, 15, 12, 0, 0, 0, time.UTC); !hd.Time.Equal(want) {
		t.Errorf("time = %v", hd.Time)
	}
	if ts := hd.Times(); len(ts) != 1 || !ts[0].Equal(time.Date(2020, 3, 15, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("valid time = %v", ts)
	}
	x, _ := hd.Dimension(DimNameX)
	if !equalFloats(x.Values, []float64{100, 102, 104, 106, 108, 110}) {
		t.Errorf("x = %v", x.Values)
	}
	y, _ := hd.Dimension(DimNameY)
	if !equalFloats(y.Values, []float64{30, 32, 34, 36, 38, 40}) {
		t.Errorf("y = %v", y.Values)
	}
	if !ds.grid.yReversed {
		t.Error("negative y delta must set yReversed")
	}
	if hd.Attributes["contour_max"] != "100" || hd.Attributes[AttrForecastHour] != "3" {
		t.Errorf("attributes = %v", hd.Attributes)
	}
	v, ok := hd.Variable(varGrid)
	if !ok || strings.Join(v.Dimensions, ",") != "lat,lon" {
		t.Fatalf("variable = %+v", v)
	}
}

func TestMicaps4RowOrdering(t *testing.T) {
	ds := mustOpen(t, KindMicaps4, micaps4File(t, ""))
	gd, err := ds.GridData(varGrid, 0)
	if err != nil {
		t.Fatal(err)
	}
	if gd.XNum() != 6 || gd.YNum() != 6 {
		t.Fatalf("size %dx%d", gd.XNum(), gd.YNum())
	}
	for i := 0; i < 6; i++ {
		phys := 5 - i
		for c := 0; c < 6; c++ {
			if got, want := gd.Value(c, i), float64(phys*10+c); got != want {
				t.Fatalf("row %d col %d = %v, want %v", i, c, got, want)
			}
		}
	}
	if e := gd.Extent(); e.MinX != 100 || e.MaxY != 40 {
		t.Errorf("extent = %+v", e)
	}
}

func TestMicaps4Window(t *testing.T) {
	ds := mustOpen(t, KindMicaps4, micaps4File(t, ""))
	a, err := ds.ReadWindow(varGrid, []int{1, 2}, []int{2, 2}, []int{2, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !equalFloats(floats(a), []float64{42, 43, 22, 23}) {
		t.Errorf("window = %v", floats(a))
	}
	if a.Shape[0] != 2 || a.Shape[1] != 2 {
		t.Errorf("shape = %v", a.Shape)
	}
	// every read re-opens the file and yields the same values
	b, _ := ds.ReadWindow(varGrid, []int{1, 2}, []int{2, 2}, []int{2, 1})
	if !equalFloats(floats(a), floats(b)) {
		t.Error("repeated read differs")
	}
	bad := [][3][]int{
		{{0}, {1}, nil},
		{{0, 5}, {1, 2}, nil},
		{{0, 0}, {0, 1}, nil},
		{{0, 0}, {4, 1}, {2, 1}},
		{{-1, 0}, {1, 1}, nil},
	}
	for _, w := range bad {
		if _, err := ds.ReadWindow(varGrid, w[0], w[1], w[2]); !errors.Is(err, ErrWindow) {
			t.Errorf("window %v: %v", w, err)
		}
	}
	if _, err := ds.Read("nope"); !errors.Is(err, ErrNoVariable) {
		t.Errorf("unknown variable: %v", err)
	}
}

func TestMicaps4SkipsInjectedLine(t *testing.T) {
	ds := mustOpen(t, KindMicaps4, micaps4File(t, "exported by tool\n"))
	a := mustRead(t, ds, varGrid)
	// logical row 0 is physical row 5
	if a.Float64(0) != 50 || a.Float64(35) != 5 {
		t.Errorf("values = %v", floats(a))
	}
}

func TestMicaps4MissingValue(t *testing.T) {
	body := "diamond 4 t\n20 3 15 12 0 0 1 1 0 1 0 1 2 2 1 0 1 0 0\n1 9999\nx 4\n"
	p := writeGBK(t, "miss.m4", body)
	ds := mustOpen(t, KindMicaps4, p, WithConfig(config.MicapsConfig{NaNMissing: true}))
	vs := floats(mustRead(t, ds, varGrid))
	if vs[0] != 1 || !math.IsNaN(vs[1]) || !math.IsNaN(vs[2]) || vs[3] != 4 {
		t.Errorf("values = %v", vs)
	}
	if !math.IsNaN(ds.MissingValue()) {
		t.Error("missing value should be NaN")
	}
}

func TestMicaps4Truncated(t *testing.T) {
	p := writeGBK(t, "short.m4", "diamond 4 t\n20 3 15 12 0 0 1 1 0 1 0 1 2 2 1 0 1 0 0\n1 2 3\n")
	ds := mustOpen(t, KindMicaps4, p)
	var se *StructuralError
	if _, err := ds.Read(varGrid); !errors.As(err, &se) || se.Expected != 4 || se.Found != 3 {
		t.Errorf("truncated payload: %v", err)
	}
	p = writeGBK(t, "hdr.m4", "diamond 4 t\n20 3 15 12 0\n")
	d := NewDecoder(KindMicaps4)
	if err := d.ReadDataInfo(p); !errors.As(err, &se) {
		t.Errorf("truncated header: %v", err)
	}
	if d.State() != StateFailed || d.Dataset() != nil || d.Header() != nil {
		t.Error("failed decode must leave no dataset")
	}
}

func TestMicaps11VBlock(t *testing.T) {
	body := "diamond 11 850hPa wind\n" +
		"20 3 15 12 0 850 1 1 110 112 30 31 3 2\n" +
		"1 2 3 4\n5 6 11 12\n13 14 15 16\n"
	ds := mustOpen(t, KindMicaps11, writeGBK(t, "wind.m11", body))
	if ds.grid.yReversed {
		t.Error("positive y delta must not reverse rows")
	}
	u := floats(mustRead(t, ds, varU))
	v := floats(mustRead(t, ds, varV))
	if !equalFloats(u, []float64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("U = %v", u)
	}
	if !equalFloats(v, []float64{11, 12, 13, 14, 15, 16}) {
		t.Errorf("V = %v", v)
	}
	gd, err := ds.GridData(varV, 0)
	if err != nil {
		t.Fatal(err)
	}
	if gd.Value(0, 1) != 14 {
		t.Errorf("V(0,1) = %v", gd.Value(0, 1))
	}
}
