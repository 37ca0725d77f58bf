package micaps

import (
	"bufio"
	"io"
	"strings"

	"github.com/wgdzlh/meteolib/utils"
)

// 按空白分隔的字段缓冲，按需读入新行，空行跳过
type tokenizer struct {
	br     *bufio.Reader
	path   string
	gbk    bool
	buf    []string
	line   int   // physical lines consumed
	offset int64 // bytes consumed by those lines
	eof    bool
	err    error
}

func newTokenizer(r io.Reader, path string, gbk bool) *tokenizer {
	return &tokenizer{br: bufio.NewReader(r), path: path, gbk: gbk}
}

func (t *tokenizer) Err() error { return t.err }

func (t *tokenizer) Line() int { return t.line }

// 已读行之后的字节偏移
func (t *tokenizer) Offset() int64 { return t.offset }

func (t *tokenizer) Len() int { return len(t.buf) }

func (t *tokenizer) readLine() (s string, ok bool) {
	if t.eof || t.err != nil {
		return
	}
	raw, err := t.br.ReadBytes('\n')
	if err != nil {
		if err != io.EOF {
			t.err = &IOError{Path: t.path, Offset: t.offset, Op: "read line", Err: err}
			return
		}
		t.eof = true
		if len(raw) == 0 {
			return
		}
	}
	t.offset += int64(len(raw))
	t.line++
	if t.gbk {
		d, e := utils.GbkToUtf8(raw)
		if e != nil {
			t.err = &IOError{Path: t.path, Offset: t.offset, Op: "decode line", Err: e}
			return
		}
		raw = d
	}
	return strings.TrimRight(string(raw), "\r\n"), true
}

// 下一非空行的字段，不经过缓冲
func (t *tokenizer) NextLine() (tokens []string, ok bool) {
	for {
		s, more := t.readLine()
		if !more {
			return
		}
		if tokens = strings.Fields(s); len(tokens) > 0 {
			ok = true
			return
		}
	}
}

// 读入直到缓冲至少n个字段；文件结束时返回false，已读字段保留
func (t *tokenizer) Ensure(n int) bool {
	for len(t.buf) < n {
		s, ok := t.readLine()
		if !ok {
			return false
		}
		t.buf = append(t.buf, strings.Fields(s)...)
	}
	return true
}

func (t *tokenizer) Take(n int) []string {
	if n > len(t.buf) {
		n = len(t.buf)
	}
	out := make([]string, n)
	copy(out, t.buf[:n])
	rest := copy(t.buf, t.buf[n:])
	t.buf = t.buf[:rest]
	return out
}

func (t *tokenizer) Peek(i int) (s string, ok bool) {
	if !t.Ensure(i + 1) {
		return
	}
	return t.buf[i], true
}

func (t *tokenizer) Discard() {
	t.buf = t.buf[:0]
}

// 表头之后若插入了说明行则丢弃：仅在缓冲为空即位于行首时判断，col 列不是数值时整行丢弃
func (t *tokenizer) SkipNonNumericLine(col int) bool {
	if len(t.buf) > 0 || !t.Ensure(1) {
		return false
	}
	if col < len(t.buf) && utils.IsNumeric(t.buf[col]) {
		return false
	}
	t.Discard()
	return true
}
