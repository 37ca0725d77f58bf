package micaps

import (
	"errors"
	"testing"
	"time"
)

// micaps131File writes a SWAN mosaic header for a nx*ny*nz grid starting at
// 110E 40N with 0.5 degree cells, followed by payload.
func micaps131File(t *testing.T, nx, ny, nz int, payload []byte) string {
	t.Helper()
	var b binBuf
	b.str("华北", 12).str("组合反射率", 38).str("swan", 8).str("1.0", 8)
	b.put(uint16(2021), uint16(7), uint16(20), uint16(8), uint16(6), uint16(6))
	b.put(uint16(nx), uint16(ny), uint16(nz))
	b.put(int32(2))
	b.put(float32(110), float32(40), float32(111), float32(39.5), float32(0.5), float32(0.5))
	hs := make([]float32, micaps131MaxLevels)
	for i := range hs {
		hs[i] = float32(500 * (i + 1))
	}
	b.put(hs)
	names := []string{"北京", "天津"}
	for i := 0; i < micaps131MaxRadars; i++ {
		n := ""
		if i < len(names) {
			n = names[i]
		}
		b.str(n, 16)
	}
	lons := make([]float32, micaps131MaxRadars)
	lats := make([]float32, micaps131MaxRadars)
	alts := make([]float32, micaps131MaxRadars)
	lons[0], lats[0], alts[0] = 116.5, 40, 90
	lons[1], lats[1], alts[1] = 117, 39, 20
	b.put(lons, lats, alts)
	b.pad(micaps131HeaderSize - b.Len())
	b.Write(payload)
	return writeRaw(t, "swan.bin", b.Bytes())
}

func TestMicaps131TwoByteCells(t *testing.T) {
	le := func(v int16) []byte { return []byte{byte(uint16(v)), byte(uint16(v) >> 8)} }
	var payload []byte
	for _, v := range []int16{100, 0, -50, 200, 300, 400} {
		payload = append(payload, le(v)...)
	}
	ds := mustOpen(t, KindMicaps131, micaps131File(t, 3, 2, 1, payload))
	hd := ds.Header()
	if hd.Attributes["bytes_cell"] != "2" || hd.Attributes["radars"] != "北京,天津" || hd.Attributes["zone"] != "华北" {
		t.Errorf("attributes = %v", hd.Attributes)
	}
	if hd.Description != "组合反射率" || !hd.Time.Equal(time.Date(2021, 7, 20, 8, 6, 0, 0, time.UTC)) {
		t.Errorf("header = %q %v", hd.Description, hd.Time)
	}
	y, _ := hd.Dimension(DimNameY)
	if !equalFloats(y.Values, []float64{39.5, 40}) {
		t.Errorf("y = %v", y.Values)
	}
	lv, _ := hd.Dimension(DimNameLevel)
	if !equalFloats(lv.Values, []float64{500}) {
		t.Errorf("levels = %v", lv.Values)
	}
	if v := floats(mustRead(t, ds, varValue)); !equalFloats(v, []float64{20, 30, 40, 10, 9999, -5}) {
		t.Errorf("values = %v", v)
	}
	rs := ds.Radars()
	if len(rs) != 2 || rs[1].Name != "天津" || rs[0].Lon != 116.5 || rs[1].Altitude != 20 {
		t.Errorf("radars = %+v", rs)
	}
}

func TestMicaps131OneByteLevels(t *testing.T) {
	payload := []byte{
		66, 66, 66, 66,
		66, 86, 0, 76,
	}
	ds := mustOpen(t, KindMicaps131, micaps131File(t, 2, 2, 2, payload))
	if ds.Header().Attributes["bytes_cell"] != "1" {
		t.Errorf("bytes_cell = %s", ds.Header().Attributes["bytes_cell"])
	}
	gd, err := ds.GridData(varValue, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !equalFloats(gd.Data[0], []float64{9999, 5}) || !equalFloats(gd.Data[1], []float64{0, 10}) {
		t.Errorf("level 1 = %v", gd.Data)
	}
	if _, err := ds.GridData(varValue, 2); !errors.Is(err, ErrWindow) {
		t.Errorf("level out of range: %v", err)
	}
	a, err := ds.ReadWindow(varValue, []int{1, 1, 0}, []int{1, 1, 2}, nil)
	if err != nil || !equalFloats(floats(a), []float64{0, 10}) {
		t.Errorf("window = %v, %v", a, err)
	}
}

func TestMicaps131Truncated(t *testing.T) {
	d := NewDecoder(KindMicaps131)
	var se *StructuralError
	if err := d.ReadDataInfo(micaps131File(t, 2, 2, 2, []byte{1, 2, 3, 4, 5})); !errors.As(err, &se) {
		t.Errorf("err = %v", err)
	}
	d = NewDecoder(KindMicaps131)
	if err := d.ReadDataInfo(writeRaw(t, "tiny.bin", []byte("diamond 131"))); err == nil {
		t.Error("short header should fail")
	}
}

func TestMicaps131Cell(t *testing.T) {
	cell := micaps131Cell(-1)
	cases := []struct {
		raw  []byte
		want float64
	}{
		{[]byte{0}, -1},
		{[]byte{66}, 0},
		{[]byte{136}, 35},
		{[]byte{0, 0}, -1},
		{[]byte{0x5e, 0x01}, 35},
		{[]byte{0xce, 0xff}, -5},
	}
	for _, c := range cases {
		if got := cell(c.raw); got != c.want {
			t.Errorf("cell(%v) = %v, want %v", c.raw, got, c.want)
		}
	}
}
