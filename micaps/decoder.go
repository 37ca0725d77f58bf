package micaps

import (
	"fmt"
	"math"
	"os"

	"github.com/wgdzlh/meteolib/config"
	"github.com/wgdzlh/meteolib/log"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const logTag = "MicapsDecoder:"

type State int

const (
	StateUnopened State = iota
	StateHeaderParsed
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "Unopened"
	case StateHeaderParsed:
		return "HeaderParsed"
	case StateReady:
		return "Ready"
	}
	return "Failed"
}

type options struct {
	logger  *zap.Logger
	gbk     bool
	missing float64
}

type Option func(*options)

func defaultOptions() *options {
	return &options{logger: log.Nop(), gbk: true, missing: config.DefaultMissingValue}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = log.OrNop(l) }
}

// 应用编码和缺测值配置
func WithConfig(c config.MicapsConfig) Option {
	return func(o *options) {
		o.gbk = c.Encoding != config.ENC_UTF8
		o.missing = c.MissingValue
		if c.NaNMissing {
			o.missing = math.NaN()
		}
	}
}

func WithMissingValue(v float64) Option {
	return func(o *options) { o.missing = v }
}

type decodeContext struct {
	path   string
	kind   DataKind
	opts   *options
	logger *zap.Logger
	state  *State
}

func (dc *decodeContext) parsed() {
	if dc.state != nil {
		*dc.state = StateHeaderParsed
	}
}

type decodeFunc func(dc *decodeContext) (*Dataset, error)

var decoders map[DataKind]decodeFunc

func init() {
	decoders = map[DataKind]decodeFunc{
		KindMicaps1:   decodeMicaps1,
		KindMicaps2:   decodeMicaps2,
		KindMicaps3:   decodeMicaps3,
		KindMicaps4:   decodeMicaps4,
		KindMicaps7:   decodeMicaps7,
		KindMicaps11:  decodeMicaps11,
		KindMicaps13:  decodeMicaps13,
		KindMicaps120: decodeMicaps120,
		KindMicaps131: decodeMicaps131,
		KindMDFS:      decodeMDFS,
	}
}

// 单个文件的解码器，只能使用一次，不可并发调用
type Decoder struct {
	kind  DataKind
	opts  *options
	state State
	ds    *Dataset
}

func NewDecoder(kind DataKind, opts ...Option) *Decoder {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	return &Decoder{kind: kind, opts: o}
}

func (d *Decoder) Kind() DataKind { return d.kind }

func (d *Decoder) State() State { return d.state }

// 解析文件头；失败时进入 StateFailed，不保留头信息
func (d *Decoder) ReadDataInfo(path string) (err error) {
	if d.state != StateUnopened {
		return fmt.Errorf("%w: %s", ErrDecoderState, d.state)
	}
	fn, ok := decoders[d.kind]
	if !ok {
		d.state = StateFailed
		return fmt.Errorf("%w: kind %s", ErrUnknownFormat, d.kind)
	}
	logger := d.opts.logger
	dc := &decodeContext{path: path, kind: d.kind, opts: d.opts, logger: logger, state: &d.state}
	ds, err := fn(dc)
	if err != nil {
		d.state = StateFailed
		logger.Error(logTag+"read data info failed", zap.String("path", path), zap.Stringer("kind", d.kind), zap.Error(err))
		return
	}
	d.ds = ds
	d.state = StateReady
	logger.Info(logTag+"data info ready", zap.String("path", path), zap.Stringer("kind", d.kind),
		zap.Int("variables", len(ds.header.Variables)))
	return
}

// 仅在 StateReady 时非nil
func (d *Decoder) Dataset() *Dataset {
	if d.state != StateReady {
		return nil
	}
	return d.ds
}

func (d *Decoder) Header() *DatasetHeader {
	if ds := d.Dataset(); ds != nil {
		return ds.header
	}
	return nil
}

// 识别格式并解析文件头
func Open(path string, opts ...Option) (ds *Dataset, err error) {
	kind, err := DetectFile(path)
	if err != nil {
		return
	}
	d := NewDecoder(kind, opts...)
	if err = d.ReadDataInfo(path); err != nil {
		return
	}
	ds = d.Dataset()
	return
}

// 打开文件执行fn，合并关闭时的错误
func openFile(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Path: path, Op: "open", Err: err}
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return fn(f)
}
