package micaps

import (
	"fmt"
	"math"
)

// 读取结果：按行主序存放，仅与Type对应的切片有值
type Array struct {
	Type    DataType
	Shape   []int
	Float32 []float32
	Int32   []int32
	String  []string
}

func newArray(t DataType, shape []int) *Array {
	a := &Array{Type: t, Shape: shape}
	n := product(shape)
	switch t {
	case Float32:
		a.Float32 = make([]float32, n)
	case Int32:
		a.Int32 = make([]int32, n)
	default:
		a.String = make([]string, n)
	}
	return a
}

func (a *Array) Len() int { return product(a.Shape) }

// 字符串数组返回0
func (a *Array) Float64(i int) float64 {
	switch a.Type {
	case Float32:
		return float64(a.Float32[i])
	case Int32:
		return float64(a.Int32[i])
	}
	return 0
}

func (a *Array) set(i int, v float64) {
	switch a.Type {
	case Float32:
		a.Float32[i] = float32(v)
	case Int32:
		if math.IsNaN(v) {
			v = rawMissing
		}
		a.Int32[i] = int32(v)
	}
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

type window struct {
	origin, size, stride []int
}

func fullWindow(shape []int) window {
	w := window{
		origin: make([]int, len(shape)),
		size:   append([]int(nil), shape...),
		stride: make([]int, len(shape)),
	}
	for i := range w.stride {
		w.stride[i] = 1
	}
	return w
}

func newWindow(shape, origin, size, stride []int) (w window, err error) {
	rank := len(shape)
	if len(origin) != rank || len(size) != rank {
		err = fmt.Errorf("%w: rank %d, origin %v, size %v", ErrWindow, rank, origin, size)
		return
	}
	if stride == nil {
		stride = make([]int, rank)
		for i := range stride {
			stride[i] = 1
		}
	}
	if len(stride) != rank {
		err = fmt.Errorf("%w: rank %d, stride %v", ErrWindow, rank, stride)
		return
	}
	for i := 0; i < rank; i++ {
		if origin[i] < 0 || size[i] < 1 || stride[i] < 1 ||
			origin[i]+(size[i]-1)*stride[i] >= shape[i] {
			err = fmt.Errorf("%w: dim %d origin %d size %d stride %d exceeds length %d",
				ErrWindow, i, origin[i], size[i], stride[i], shape[i])
			return
		}
	}
	w = window{
		origin: append([]int(nil), origin...),
		size:   append([]int(nil), size...),
		stride: append([]int(nil), stride...),
	}
	return
}

// 按行主序遍历窗口，回调参数为输出位置和各维源下标
func (w window) each(fn func(out int, idx []int)) {
	rank := len(w.size)
	idx := make([]int, rank)
	cnt := make([]int, rank)
	copy(idx, w.origin)
	total := product(w.size)
	for out := 0; out < total; out++ {
		fn(out, idx)
		for d := rank - 1; d >= 0; d-- {
			cnt[d]++
			if cnt[d] < w.size[d] {
				idx[d] += w.stride[d]
				break
			}
			cnt[d] = 0
			idx[d] = w.origin[d]
		}
	}
}

// 第d维涉及的首末源下标
func (w window) span(d int) (lo, hi int) {
	lo = w.origin[d]
	hi = lo + (w.size[d]-1)*w.stride[d]
	return
}
