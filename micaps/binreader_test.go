package micaps

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBinReaderFields(t *testing.T) {
	var b binBuf
	b.str("雷达", 8).put(int16(-2), uint16(65000), int32(-70000), float32(1.5), float64(-2.25), int64(1)<<40)
	br := newBinReader(bytes.NewReader(b.Bytes()), "mem", true)
	if s := br.String(8, "name"); s != "雷达" {
		t.Errorf("string = %q", s)
	}
	if v := br.Int16("i16"); v != -2 {
		t.Errorf("int16 = %d", v)
	}
	if v := br.Uint16("u16"); v != 65000 {
		t.Errorf("uint16 = %d", v)
	}
	if v := br.Int32("i32"); v != -70000 {
		t.Errorf("int32 = %d", v)
	}
	if v := br.Float32("f32"); v != 1.5 {
		t.Errorf("float32 = %v", v)
	}
	if v := br.Float64("f64"); v != -2.25 {
		t.Errorf("float64 = %v", v)
	}
	if v := br.Int64("i64"); v != 1<<40 {
		t.Errorf("int64 = %d", v)
	}
	if br.Err() != nil || br.Offset() != 36 {
		t.Errorf("err %v offset %d", br.Err(), br.Offset())
	}
}

func TestBinReaderShortRead(t *testing.T) {
	br := newBinReader(bytes.NewReader([]byte{1, 2, 3}), "short.bin", false)
	br.Uint16("a")
	if v := br.Int32("b"); v != 0 {
		t.Errorf("short read value = %d", v)
	}
	var ioErr *IOError
	if !errors.As(br.Err(), &ioErr) || !errors.Is(br.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v", br.Err())
	}
	if ioErr.Path != "short.bin" || ioErr.Offset != 2 {
		t.Errorf("context = %+v", ioErr)
	}
	// sticky
	br.Seek(0)
	if br.Uint8("c") != 0 || br.Err() != ioErr {
		t.Error("reader recovered after failure")
	}
}

func TestBinReaderSkipAndSeek(t *testing.T) {
	br := newBinReader(bytes.NewReader([]byte{0, 0, 0, 7, 0, 9}), "mem", false)
	br.Skip(3)
	if v := br.Uint8("x"); v != 7 {
		t.Errorf("after skip = %d", v)
	}
	br.Seek(5)
	if v := br.Uint8("y"); v != 9 {
		t.Errorf("after seek = %d", v)
	}
}
