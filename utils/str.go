package utils

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// 解析数值文本，失败时ok为false
func ParseNumber[T Number](s string) (v T, ok bool) {
	var t T
	switch any(t).(type) {
	case float32, float64:
		f, e := strconv.ParseFloat(s, 64)
		if e != nil {
			return
		}
		v, ok = T(f), true
	default:
		i, e := strconv.ParseInt(s, 10, 64)
		if e != nil {
			// 部分文件把整数写成 12.0
			f, fe := strconv.ParseFloat(s, 64)
			if fe != nil {
				return
			}
			i = int64(f)
		}
		v, ok = T(i), true
	}
	return
}

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := ParseNumber[int](s)
	return i
}

func StrToFloat(s string) float64 {
	f, _ := ParseNumber[float64](s)
	return f
}

// 是否为可解析的数值
func IsNumeric(s string) bool {
	_, ok := ParseNumber[float64](s)
	return ok
}

func MinMax[T constraints.Ordered](a, b T) (T, T) {
	if a <= b {
		return a, b
	}
	return b, a
}

// 截掉定长字段中首个NUL之后的内容，并去除尾部空白
func TrimCString(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " \t\r\n")
}

// GBK 转 UTF-8
func GbkToUtf8(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewDecoder())
	d, e = io.ReadAll(reader)
	return
}

// UTF-8 转 GBK
func Utf8ToGbk(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewEncoder())
	d, e = io.ReadAll(reader)
	return
}

// UTF-8 string 转 GBK
func Utf8StrToGbk(s string) (d string, e error) {
	reader := transform.NewReader(strings.NewReader(s), simplifiedchinese.GBK.NewEncoder())
	t, e := io.ReadAll(reader)
	if e != nil {
		return
	}
	d = string(t)
	return
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}
