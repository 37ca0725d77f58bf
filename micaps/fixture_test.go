package micaps

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/meteolib/utils"
)

// writeGBK writes body GBK-encoded, the way MICAPS producers emit text.
func writeGBK(t *testing.T, name, body string) string {
	t.Helper()
	raw, err := utils.Utf8ToGbk([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return writeRaw(t, name, raw)
}

func writeRaw(t *testing.T, name string, raw []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// binBuf builds little-endian binary fixtures.
type binBuf struct {
	bytes.Buffer
}

func (b *binBuf) put(vs ...any) *binBuf {
	for _, v := range vs {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return b
}

// str writes s GBK-encoded into a NUL padded field of n bytes.
func (b *binBuf) str(s string, n int) *binBuf {
	raw, err := utils.Utf8ToGbk([]byte(s))
	if err != nil {
		panic(err)
	}
	field := make([]byte, n)
	copy(field, raw)
	b.Write(field)
	return b
}

func (b *binBuf) pad(n int) *binBuf {
	b.Write(make([]byte, n))
	return b
}

func mustOpen(t *testing.T, kind DataKind, path string, opts ...Option) *Dataset {
	t.Helper()
	d := NewDecoder(kind, opts...)
	if err := d.ReadDataInfo(path); err != nil {
		t.Fatalf("ReadDataInfo: %v", err)
	}
	if d.State() != StateReady {
		t.Fatalf("state = %s", d.State())
	}
	return d.Dataset()
}

func mustRead(t *testing.T, ds *Dataset, name string) *Array {
	t.Helper()
	a, err := ds.Read(name)
	if err != nil {
		t.Fatalf("Read(%s): %v", name, err)
	}
	return a
}

func floats(a *Array) []float64 {
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = a.Float64(i)
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
