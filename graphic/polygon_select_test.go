package graphic

import (
	"testing"

	"github.com/wgdzlh/meteolib/shape"
)

func TestSelectByPointSkipsHoles(t *testing.T) {
	c := NewGraphicCollection()
	poly := box(0, 0, 10)
	if err := poly.AddHole([]shape.PointD{{4, 4}, {4, 6}, {6, 6}, {6, 4}}, 0); err != nil {
		t.Fatal(err)
	}
	c.Add(poly, nil)
	if got := c.SelectByPoint(shape.PointD{X: 5, Y: 5}, 0); len(got) != 0 {
		t.Errorf("point in hole selected %d graphics", len(got))
	}
	if got := c.SelectByPoint(shape.PointD{X: 1, Y: 1}, 0); len(got) != 1 {
		t.Errorf("point in polygon selected %d graphics", len(got))
	}
}
