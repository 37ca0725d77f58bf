package micaps

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/wgdzlh/meteolib/utils"
)

// 小端定长字段读取，首个错误保留，之后的调用均返回零值
type binReader struct {
	r    io.ReadSeeker
	path string
	off  int64
	gbk  bool
	err  error
	buf  [8]byte
}

func newBinReader(r io.ReadSeeker, path string, gbk bool) *binReader {
	return &binReader{r: r, path: path, gbk: gbk}
}

func (b *binReader) Err() error { return b.err }

func (b *binReader) Offset() int64 { return b.off }

func (b *binReader) fail(op string, err error) {
	if b.err == nil {
		b.err = &IOError{Path: b.path, Offset: b.off, Op: op, Err: err}
	}
}

func (b *binReader) fill(p []byte, field string) bool {
	if b.err != nil {
		return false
	}
	n, err := io.ReadFull(b.r, p)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		b.fail(fmt.Sprintf("read %s (%d of %d bytes)", field, n, len(p)), err)
		b.off += int64(n)
		return false
	}
	b.off += int64(n)
	return true
}

func (b *binReader) Seek(off int64) {
	if b.err != nil {
		return
	}
	if _, err := b.r.Seek(off, io.SeekStart); err != nil {
		b.fail("seek", err)
		return
	}
	b.off = off
}

func (b *binReader) Skip(n int) {
	b.Seek(b.off + int64(n))
}

func (b *binReader) Uint8(field string) uint8 {
	if !b.fill(b.buf[:1], field) {
		return 0
	}
	return b.buf[0]
}

func (b *binReader) Int16(field string) int16 {
	return int16(b.Uint16(field))
}

func (b *binReader) Uint16(field string) uint16 {
	if !b.fill(b.buf[:2], field) {
		return 0
	}
	return binary.LittleEndian.Uint16(b.buf[:2])
}

func (b *binReader) Int32(field string) int32 {
	if !b.fill(b.buf[:4], field) {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b.buf[:4]))
}

func (b *binReader) Int64(field string) int64 {
	if !b.fill(b.buf[:8], field) {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b.buf[:8]))
}

func (b *binReader) Float32(field string) float32 {
	if !b.fill(b.buf[:4], field) {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b.buf[:4]))
}

func (b *binReader) Float64(field string) float64 {
	if !b.fill(b.buf[:8], field) {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b.buf[:8]))
}

func (b *binReader) Float32s(n int, field string) []float32 {
	raw := make([]byte, 4*n)
	if !b.fill(raw, field) {
		return nil
	}
	vs := make([]float32, n)
	for i := range vs {
		vs[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vs
}

func (b *binReader) Bytes(n int, field string) []byte {
	raw := make([]byte, n)
	if !b.fill(raw, field) {
		return nil
	}
	return raw
}

// 定长文本字段：解码后去掉NUL及尾部空白
func (b *binReader) String(n int, field string) string {
	raw := make([]byte, n)
	if !b.fill(raw, field) {
		return ""
	}
	return b.decodeText(raw, field)
}

func (b *binReader) decodeText(raw []byte, field string) string {
	s := utils.TrimCString(string(raw))
	if !b.gbk || s == "" {
		return utils.PurifyForUtf8(s)
	}
	d, err := utils.GbkToUtf8([]byte(s))
	if err != nil {
		b.fail("decode "+field, err)
		return ""
	}
	return utils.PurifyForUtf8(string(d))
}
