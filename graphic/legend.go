package graphic

import "math"

// 图例分级 [StartValue, EndValue)，起止相等时只匹配该值
type LegendBreak struct {
	Caption    string  `json:"caption" yaml:"caption"`
	StartValue float64 `json:"start" yaml:"start"`
	EndValue   float64 `json:"end" yaml:"end"`
	Color      string  `json:"color" yaml:"color"` // #RRGGBB
	NoData     bool    `json:"noData,omitempty" yaml:"no_data"`
}

func (b *LegendBreak) Match(v float64) bool {
	if b.StartValue == b.EndValue {
		return v == b.StartValue
	}
	return v >= b.StartValue && v < b.EndValue
}

// LegendScheme is an ordered list of breaks plus the missing value they skip.
type LegendScheme struct {
	Breaks       []LegendBreak `json:"breaks" yaml:"breaks"`
	MissingValue float64       `json:"missing" yaml:"missing"`
}

// 最后一级含上界；缺测值对应NoData分级
func (s *LegendScheme) FindBreak(v float64) *LegendBreak {
	missing := v == s.MissingValue || math.IsNaN(v)
	for i := range s.Breaks {
		b := &s.Breaks[i]
		if b.NoData {
			if missing {
				return b
			}
			continue
		}
		if !missing && b.Match(v) {
			return b
		}
	}
	if missing {
		return nil
	}
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if b := &s.Breaks[i]; !b.NoData {
			if v == b.EndValue {
				return b
			}
			break
		}
	}
	return nil
}

func (s *LegendScheme) Len() int { return len(s.Breaks) }
