package micaps

import (
	"fmt"
	"strings"

	"github.com/wgdzlh/meteolib/utils"
)

// 两位年份展开：<50 为 20xx，否则 19xx
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// 第13类的阈值与其他格式相反（>50 为 19xx），保持原样
func expandYear13(y int) int {
	if y >= 100 {
		return y
	}
	if y > 50 {
		return 1900 + y
	}
	return 2000 + y
}

// 读取 "diamond N 说明" 行
func readTitle(tk *tokenizer) (desc string, err error) {
	toks, ok := tk.NextLine()
	if err = tk.Err(); err != nil {
		return
	}
	if !ok || len(toks) < 2 {
		err = &StructuralError{Path: tk.path, Line: tk.Line(), Expected: 2, Found: len(toks), Reason: "missing title line"}
		return
	}
	desc = strings.Join(toks[2:], " ")
	return
}

func takeHeader(tk *tokenizer, n int) (toks []string, err error) {
	ok := tk.Ensure(n)
	if err = tk.Err(); err != nil {
		return
	}
	if !ok {
		err = &StructuralError{Path: tk.path, Line: tk.Line(), Expected: n, Found: tk.Len(), Reason: "truncated header"}
		return
	}
	toks = tk.Take(n)
	return
}

// 转换文件头字段，保留首个错误
type headerParser struct {
	toks []string
	path string
	line int
	err  error
}

func newHeaderParser(toks []string, path string, line int) *headerParser {
	return &headerParser{toks: toks, path: path, line: line}
}

func (p *headerParser) fail(i int, name string) {
	if p.err == nil {
		p.err = fmt.Errorf("micaps: %s line %d: header field %s (#%d) = %q is not numeric",
			p.path, p.line, name, i, p.toks[i])
	}
}

func (p *headerParser) int(i int, name string) int {
	v, ok := utils.ParseNumber[int](p.toks[i])
	if !ok {
		p.fail(i, name)
	}
	return v
}

func (p *headerParser) float(i int, name string) float64 {
	v, ok := utils.ParseNumber[float64](p.toks[i])
	if !ok {
		p.fail(i, name)
	}
	return v
}

// 无法解析或为9999的值替换为缺测值
func parseCells(toks []string, missing float64) []float64 {
	vs := make([]float64, len(toks))
	for i, s := range toks {
		v, ok := utils.ParseNumber[float64](s)
		if !ok || v == rawMissing {
			v = missing
		}
		vs[i] = v
	}
	return vs
}

func checkGridSize(path string, line, xNum, yNum int) error {
	if xNum <= 0 || yNum <= 0 {
		return &StructuralError{Path: path, Line: line, Expected: 1, Found: xNum * yNum,
			Reason: fmt.Sprintf("grid size %dx%d", xNum, yNum)}
	}
	return nil
}
