package micaps

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wgdzlh/meteolib/utils"
)

func micaps13File(t *testing.T, header string, payload []byte) string {
	t.Helper()
	raw, err := utils.Utf8ToGbk([]byte("diamond 13 红外云图\n" + header + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	return writeRaw(t, "cloud.000", append(raw, payload...))
}

func TestMicaps13Mercator(t *testing.T) {
	p := micaps13File(t, "51 6 1 0 2 3 2 100 0 110 10 0 0", []byte{1, 2, 3, 4, 5, 6})
	ds := mustOpen(t, KindMicaps13, p)
	hd := ds.Header()
	if !hd.Time.Equal(time.Date(1951, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("time = %v", hd.Time)
	}
	if !strings.HasPrefix(hd.Attributes[AttrProjection], "+proj=merc") || hd.Attributes["projection_code"] != "2" {
		t.Errorf("attributes = %v", hd.Attributes)
	}
	x, _ := hd.Dimension(DimNameX)
	if len(x.Values) != 3 || x.Values[1] != 0 || x.Values[0] != -x.Values[2] || x.Values[0] >= 0 {
		t.Errorf("x = %v", x.Values)
	}
	y, _ := hd.Dimension(DimNameY)
	if len(y.Values) != 2 || y.Values[0] >= y.Values[1] {
		t.Errorf("y = %v", y.Values)
	}
	gd, err := ds.GridData(varImage, 0)
	if err != nil {
		t.Fatal(err)
	}
	// image rows run top down
	if !equalFloats(gd.Data[0], []float64{4, 5, 6}) || !equalFloats(gd.Data[1], []float64{1, 2, 3}) {
		t.Errorf("data = %v", gd.Data)
	}
	if gd.Projection == "" {
		t.Error("grid data should carry the projection")
	}
	a := mustRead(t, ds, varImage)
	if a.Type != Int32 || a.Int32[0] != 4 {
		t.Errorf("array = %+v", a)
	}
}

func TestMicaps13YearPivot(t *testing.T) {
	ds := mustOpen(t, KindMicaps13, micaps13File(t, "20 6 1 0 1 1 1 100 20 110 30 30 60", []byte{9}))
	if ds.Header().Time.Year() != 2020 {
		t.Errorf("year = %d", ds.Header().Time.Year())
	}
	if !strings.HasPrefix(ds.Header().Attributes[AttrProjection], "+proj=lcc") {
		t.Errorf("projection = %s", ds.Header().Attributes[AttrProjection])
	}
}

func TestMicaps13Errors(t *testing.T) {
	var se *StructuralError
	d := NewDecoder(KindMicaps13)
	if err := d.ReadDataInfo(micaps13File(t, "20 6 1 0 2 3 2 100 0 110 10 0 0", []byte{1, 2})); !errors.As(err, &se) {
		t.Errorf("truncated image: %v", err)
	}
	d = NewDecoder(KindMicaps13)
	if err := d.ReadDataInfo(micaps13File(t, "20 6 1 0 9 1 1 100 0 110 10 0 0", []byte{1})); !errors.Is(err, ErrUnsupportedVariant) {
		t.Errorf("unknown projection: %v", err)
	}
}

func TestProjectors(t *testing.T) {
	st, _ := newProjector(projStereoN, 110, 90, 60, 60)
	x, y := st.Forward(110, 90)
	if abs(x) > 1e-6 || abs(y) > 1e-6 {
		t.Errorf("pole = %v %v", x, y)
	}
	if _, y := st.Forward(110, 60); y >= 0 {
		t.Errorf("south of pole along lon0 should be negative y, got %v", y)
	}
	lc, _ := newProjector(projLambert, 110, 30, 30, 60)
	if x, y := lc.Forward(110, 30); abs(x) > 1e-6 || abs(y) > 1e-6 {
		t.Errorf("lambert origin = %v %v", x, y)
	}
	if x, _ := lc.Forward(120, 30); x <= 0 {
		t.Errorf("east of lon0 = %v", x)
	}
	if normLon(350) != -10 || normLon(-190) != 170 {
		t.Error("normLon")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
