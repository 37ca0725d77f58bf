package micaps

import (
	"bytes"
	"io"
	"os"
	"strings"
)

const (
	detectHeaderLen = 1024
	mdfsMagic       = "mdfs"
	diamondTag      = "diamond"
)

// 首行前两个字段（小写）到数据类型的映射
var signatures = map[string]DataKind{
	"diamond 1":   KindMicaps1,
	"diamond 2":   KindMicaps2,
	"diamond 3":   KindMicaps3,
	"diamond 4":   KindMicaps4,
	"diamond 7":   KindMicaps7,
	"diamond 11":  KindMicaps11,
	"diamond 13":  KindMicaps13,
	"diamond 120": KindMicaps120,
	"diamond 131": KindMicaps131,
}

// 根据文件头判断格式，无法识别时返回 KindUnknown
func Detect(r io.Reader) DataKind {
	head := make([]byte, detectHeaderLen)
	n, _ := io.ReadFull(r, head)
	return detectBytes(head[:n])
}

func detectBytes(head []byte) DataKind {
	if len(head) >= len(mdfsMagic) && strings.EqualFold(string(head[:len(mdfsMagic)]), mdfsMagic) {
		return KindMDFS
	}
	// 二进制头（如131）中的文本段以NUL结束
	if i := bytes.IndexAny(head, "\n\x00"); i >= 0 {
		head = head[:i]
	}
	fields := strings.Fields(strings.ToLower(string(head)))
	if len(fields) < 2 {
		return KindUnknown
	}
	if k, ok := signatures[fields[0]+" "+fields[1]]; ok {
		return k
	}
	// 容忍前导杂字符，如BOM或 "ddiamond"
	if strings.HasSuffix(fields[0], diamondTag[1:]) {
		if k, ok := signatures[diamondTag+" "+fields[1]]; ok {
			return k
		}
	}
	return KindUnknown
}

// 无法识别时返回 ErrUnknownFormat
func DetectFile(path string) (kind DataKind, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = &IOError{Path: path, Op: "open", Err: err}
		return
	}
	defer f.Close()
	if kind = Detect(f); kind == KindUnknown {
		err = ErrUnknownFormat
	}
	return
}
