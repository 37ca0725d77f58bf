package graphic

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/wgdzlh/meteolib/shape"
)

// 零宽高的外包矩形在索引中的最小边长
const minRectSide = 1e-9

// 图形：形状及其图例
type Graphic struct {
	ID     uuid.UUID
	Shape  shape.Shape
	Legend *LegendBreak
	bounds rtreego.Rect // 插入索引时的外包矩形
}

func NewGraphic(s shape.Shape, lb *LegendBreak) *Graphic {
	return &Graphic{ID: uuid.New(), Shape: s, Legend: lb}
}

// Bounds 返回入索引时记录的矩形，形状原地修改后由 UpdateExtent 刷新
func (g *Graphic) Bounds() rtreego.Rect {
	return g.bounds
}

func (g *Graphic) refreshBounds() {
	g.bounds = extentRect(g.Shape.Extent())
}

func extentRect(e shape.Extent) rtreego.Rect {
	r, _ := rtreego.NewRect(rtreego.Point{e.MinX, e.MinY},
		[]float64{math.Max(e.Width(), minRectSide), math.Max(e.Height(), minRectSide)})
	return r
}

// 图形集合：按插入顺序保存，外包矩形建R树索引；不支持并发修改
type GraphicCollection struct {
	graphics []*Graphic
	index    map[uuid.UUID]int
	tree     *rtreego.Rtree
	extent   shape.Extent
}

func NewGraphicCollection() *GraphicCollection {
	return &GraphicCollection{
		index: map[uuid.UUID]int{},
		tree:  rtreego.NewTree(2, 25, 50),
	}
}

func (c *GraphicCollection) Len() int { return len(c.graphics) }

func (c *GraphicCollection) Graphics() []*Graphic {
	return append([]*Graphic(nil), c.graphics...)
}

func (c *GraphicCollection) Get(id uuid.UUID) (*Graphic, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.graphics[i], true
}

// Add wraps s in a new graphic.
func (c *GraphicCollection) Add(s shape.Shape, lb *LegendBreak) *Graphic {
	g := NewGraphic(s, lb)
	c.AddGraphic(g)
	return g
}

// 追加图形，ID已存在时替换
func (c *GraphicCollection) AddGraphic(g *Graphic) {
	if _, ok := c.index[g.ID]; ok {
		c.Remove(g.ID)
	}
	c.index[g.ID] = len(c.graphics)
	c.graphics = append(c.graphics, g)
	g.refreshBounds()
	c.tree.Insert(g)
	if len(c.graphics) == 1 {
		c.extent = g.Shape.Extent()
	} else {
		c.extent = c.extent.Union(g.Shape.Extent())
	}
}

func (c *GraphicCollection) Remove(id uuid.UUID) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.tree.Delete(c.graphics[i])
	c.graphics = append(c.graphics[:i], c.graphics[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.graphics); j++ {
		c.index[c.graphics[j].ID] = j
	}
	c.recomputeExtent()
	return true
}

func (c *GraphicCollection) Clear() {
	c.graphics = nil
	c.index = map[uuid.UUID]int{}
	c.tree = rtreego.NewTree(2, 25, 50)
	c.extent = shape.Extent{}
}

func (c *GraphicCollection) Extent() shape.Extent { return c.extent }

// 形状原地修改后调用：重建空间索引并重新计算范围
func (c *GraphicCollection) UpdateExtent() {
	objs := make([]rtreego.Spatial, len(c.graphics))
	for i, g := range c.graphics {
		g.refreshBounds()
		objs[i] = g
	}
	c.tree = rtreego.NewTree(2, 25, 50, objs...)
	c.recomputeExtent()
}

func (c *GraphicCollection) recomputeExtent() {
	c.extent = shape.Extent{}
	for i, g := range c.graphics {
		if i == 0 {
			c.extent = g.Shape.Extent()
			continue
		}
		c.extent = c.extent.Union(g.Shape.Extent())
	}
}

func (c *GraphicCollection) search(e shape.Extent) []*Graphic {
	hits := c.tree.SearchIntersect(extentRect(e))
	pos := make([]int, 0, len(hits))
	for _, h := range hits {
		pos = append(pos, c.index[h.(*Graphic).ID])
	}
	sort.Ints(pos)
	out := make([]*Graphic, len(pos))
	for i, p := range pos {
		out[i] = c.graphics[p]
	}
	return out
}

// 外包矩形与e相交的图形，按插入顺序
func (c *GraphicCollection) SelectByExtent(e shape.Extent) []*Graphic {
	return c.search(e)
}

// 包含p的多边形，以及在容差范围内的点和线
func (c *GraphicCollection) SelectByPoint(p shape.PointD, tolerance float64) (out []*Graphic) {
	e := shape.NewExtent(p.X-tolerance, p.Y-tolerance, p.X+tolerance, p.Y+tolerance)
	for _, g := range c.search(e) {
		if ps, ok := g.Shape.(*shape.PolygonShape); ok && !ps.ContainsPoint(p) {
			continue
		}
		out = append(out, g)
	}
	return
}

// 按形状值分配图例，返回未匹配的图形数
func (c *GraphicCollection) Classify(ls *LegendScheme) (unmatched int) {
	for _, g := range c.graphics {
		if g.Legend = ls.FindBreak(g.Shape.Attributes().Value); g.Legend == nil {
			unmatched++
		}
	}
	return
}
