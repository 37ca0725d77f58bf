package micaps

import (
	"fmt"

	"go.uber.org/zap"
)

// 解码后的数据集：格点类持有格点源，站点和路径类持有记录表
type Dataset struct {
	path         string
	header       *DatasetHeader
	opts         *options
	grid         *gridSource
	table        *StationTable
	trajectories []Trajectory
	radars       []Radar
}

func (d *Dataset) Path() string { return d.path }

func (d *Dataset) Kind() DataKind { return d.header.Kind }

// 返回共享的头信息，调用方不可修改
func (d *Dataset) Header() *DatasetHeader { return d.header }

func (d *Dataset) MissingValue() float64 { return d.opts.missing }

// 读取变量全部数据
func (d *Dataset) Read(name string) (*Array, error) {
	v, ok := d.header.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, name)
	}
	return d.readWindow(v, fullWindow(d.header.Shape(v)))
}

// 按 origin/size/stride 读取子集，stride 为 nil 时各维步长为1
func (d *Dataset) ReadWindow(name string, origin, size, stride []int) (*Array, error) {
	v, ok := d.header.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, name)
	}
	w, err := newWindow(d.header.Shape(v), origin, size, stride)
	if err != nil {
		return nil, err
	}
	return d.readWindow(v, w)
}

func (d *Dataset) readWindow(v *Variable, w window) (a *Array, err error) {
	switch {
	case d.grid != nil:
		a, err = d.grid.read(v, w)
	case d.table != nil:
		a, err = d.table.read(v, w)
	default:
		err = fmt.Errorf("%w: %s", ErrNoVariable, v.Name)
	}
	if err != nil {
		d.opts.logger.Error(logTag+"read variable failed", zap.String("path", d.path),
			zap.String("var", v.Name), zap.Ints("origin", w.origin), zap.Ints("size", w.size), zap.Error(err))
	}
	return
}

func (d *Dataset) Trajectories() []Trajectory {
	return d.trajectories
}

// 参与拼图的雷达站
func (d *Dataset) Radars() []Radar {
	return d.radars
}
