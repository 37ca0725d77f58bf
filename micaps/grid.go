package micaps

import (
	"fmt"

	"github.com/wgdzlh/meteolib/shape"
	"github.com/wgdzlh/meteolib/utils"
)

// 归一化后的坐标轴，Y始终升序；YReversed 表示文件中的行为降序
type gridAxes struct {
	X, Y      []float64
	YReversed bool
}

// y步长为负时置 YReversed，步长取反并交换起止纬度
func buildAxes(xMin, xDelta float64, xNum int, yMin, yMax, yDelta float64, yNum int) (a gridAxes) {
	a.X = make([]float64, xNum)
	for i := range a.X {
		a.X[i] = xMin + float64(i)*xDelta
	}
	if yDelta < 0 {
		a.YReversed = true
		yDelta = -yDelta
		yMin, yMax = utils.MinMax(yMin, yMax)
	}
	a.Y = make([]float64, yNum)
	for i := range a.Y {
		a.Y[i] = yMin + float64(i)*yDelta
	}
	return
}

func (a gridAxes) dimensions() []Dimension {
	return []Dimension{
		{Name: DimNameY, Kind: DimY, Values: a.Y},
		{Name: DimNameX, Kind: DimX, Values: a.X},
	}
}

// 返回第z层物理行 [r0, r1)
type gridLoader func(z, r0, r1 int) ([]float64, error)

type gridSource struct {
	numX, numY, numZ int
	yReversed        bool
	loaders          map[string]gridLoader
}

func newGridSource(a gridAxes, numZ int) *gridSource {
	return &gridSource{
		numX:      len(a.X),
		numY:      len(a.Y),
		numZ:      numZ,
		yReversed: a.YReversed,
		loaders:   map[string]gridLoader{},
	}
}

// 逻辑行（升序）对应的文件行
func (g *gridSource) physRow(y int) int {
	if g.yReversed {
		return g.numY - y - 1
	}
	return y
}

func (g *gridSource) index(y, x int) int {
	return g.physRow(y)*g.numX + x
}

func (g *gridSource) read(v *Variable, w window) (*Array, error) {
	load, ok := g.loaders[v.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, v.Name)
	}
	rank := len(w.size)
	if rank < 2 {
		return nil, fmt.Errorf("%w: grid variable %s has rank %d", ErrWindow, v.Name, rank)
	}
	yd, xd := rank-2, rank-1
	yLo, yHi := w.span(yd)
	pLo, pHi := g.physRow(yLo), g.physRow(yHi)
	if pLo > pHi {
		pLo, pHi = pHi, pLo
	}
	var (
		out    = newArray(v.Type, append([]int(nil), w.size...))
		blocks = map[int][]float64{}
		err    error
	)
	w.each(func(o int, idx []int) {
		if err != nil {
			return
		}
		z := 0
		if rank > 2 {
			z = idx[0]
		}
		rows, ok := blocks[z]
		if !ok {
			if rows, err = load(z, pLo, pHi+1); err != nil {
				return
			}
			blocks[z] = rows
		}
		out.set(o, rows[g.index(idx[yd], idx[xd])-pLo*g.numX])
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// 单层格点场，行按纬度升序
type GridData struct {
	Data         [][]float64 // [y][x], y ascending
	X, Y         []float64
	MissingValue float64
	Projection   string // proj4 definition, empty for lon/lat grids
}

func (g *GridData) XNum() int { return len(g.X) }

func (g *GridData) YNum() int { return len(g.Y) }

func (g *GridData) Value(x, y int) float64 { return g.Data[y][x] }

func (g *GridData) Extent() shape.Extent {
	if len(g.X) == 0 || len(g.Y) == 0 {
		return shape.Extent{}
	}
	return shape.NewExtent(g.X[0], g.Y[0], g.X[len(g.X)-1], g.Y[len(g.Y)-1])
}

// 读取格点变量的一层
func (d *Dataset) GridData(name string, level int) (*GridData, error) {
	if d.grid == nil {
		return nil, ErrNotGrid
	}
	v, ok := d.header.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, name)
	}
	shp := d.header.Shape(v)
	w := fullWindow(shp)
	if len(shp) > 2 {
		if level < 0 || level >= shp[0] {
			return nil, fmt.Errorf("%w: level %d of %d", ErrWindow, level, shp[0])
		}
		w.origin[0], w.size[0] = level, 1
	}
	a, err := d.readWindow(v, w)
	if err != nil {
		return nil, err
	}
	xd, _ := d.header.Dimension(DimNameX)
	yd, _ := d.header.Dimension(DimNameY)
	gd := &GridData{
		Data:         make([][]float64, d.grid.numY),
		X:            append([]float64(nil), xd.Values...),
		Y:            append([]float64(nil), yd.Values...),
		MissingValue: v.FillValue,
		Projection:   d.header.Attributes[AttrProjection],
	}
	for y := range gd.Data {
		row := make([]float64, d.grid.numX)
		for x := range row {
			row[x] = a.Float64(y*d.grid.numX + x)
		}
		gd.Data[y] = row
	}
	return gd, nil
}
