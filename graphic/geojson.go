package graphic

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/wgdzlh/meteolib/shape"
)

const (
	PropID      = "id"
	PropName    = "name"
	PropValue   = "value"
	PropCaption = "caption"
	PropColor   = "color"
)

// 转为GeoJSON要素，属性含ID、名称、值及图例
func (c *GraphicCollection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range c.graphics {
		f := geojson.NewFeature(g.Shape.Orb())
		f.ID = g.ID.String()
		a := g.Shape.Attributes()
		f.Properties[PropID] = g.ID.String()
		f.Properties[PropName] = a.Name
		f.Properties[PropValue] = a.Value
		if g.Legend != nil {
			f.Properties[PropCaption] = g.Legend.Caption
			f.Properties[PropColor] = g.Legend.Color
		}
		fc.Append(f)
	}
	return fc
}

func (c *GraphicCollection) MarshalGeoJSON() ([]byte, error) {
	return c.FeatureCollection().MarshalJSON()
}

// 由GeoJSON构建集合，图例为空，需调用Classify
func ReadGeoJSON(data []byte) (*GraphicCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	c := NewGraphicCollection()
	for i, f := range fc.Features {
		s, err := shape.FromOrb(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		s.SetAttributes(shape.Attrs{
			Name:  f.Properties.MustString(PropName, ""),
			Value: f.Properties.MustFloat64(PropValue, 0),
		})
		g := NewGraphic(s, nil)
		if id, e := uuid.Parse(f.Properties.MustString(PropID, "")); e == nil {
			g.ID = id
		}
		c.AddGraphic(g)
	}
	return c, nil
}
