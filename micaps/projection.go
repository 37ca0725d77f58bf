package micaps

import (
	"fmt"
	"math"
)

const earthRadius = 6371229.0

// 第13类投影代码
const (
	projLambert  = 1
	projMercator = 2
	projStereoN  = 3
)

// 经纬度（度）到球面投影平面（米）
type projector interface {
	Forward(lon, lat float64) (x, y float64)
	Proj4() string
}

func newProjector(code int, lon0, lat0, lat1, lat2 float64) (projector, error) {
	switch code {
	case projLambert:
		return newLambert(lon0, lat0, lat1, lat2), nil
	case projMercator:
		return mercator{lon0: lon0, latTs: lat1}, nil
	case projStereoN:
		return stereographic{lon0: lon0, latTs: lat1}, nil
	}
	return nil, fmt.Errorf("%w: projection code %d", ErrUnsupportedVariant, code)
}

func toRad(d float64) float64 { return d * math.Pi / 180 }

func normLon(d float64) float64 {
	for d >= 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

type lambert struct {
	lon0, lat0, lat1, lat2 float64
	n, f, rho0             float64
}

func newLambert(lon0, lat0, lat1, lat2 float64) *lambert {
	l := &lambert{lon0: lon0, lat0: lat0, lat1: lat1, lat2: lat2}
	φ1, φ2 := toRad(lat1), toRad(lat2)
	if lat1 == lat2 {
		l.n = math.Sin(φ1)
	} else {
		l.n = math.Log(math.Cos(φ1)/math.Cos(φ2)) /
			math.Log(math.Tan(math.Pi/4+φ2/2)/math.Tan(math.Pi/4+φ1/2))
	}
	l.f = math.Cos(φ1) * math.Pow(math.Tan(math.Pi/4+φ1/2), l.n) / l.n
	l.rho0 = l.rho(lat0)
	return l
}

func (l *lambert) rho(lat float64) float64 {
	return earthRadius * l.f / math.Pow(math.Tan(math.Pi/4+toRad(lat)/2), l.n)
}

func (l *lambert) Forward(lon, lat float64) (x, y float64) {
	ρ := l.rho(lat)
	θ := l.n * toRad(normLon(lon-l.lon0))
	x = ρ * math.Sin(θ)
	y = l.rho0 - ρ*math.Cos(θ)
	return
}

func (l *lambert) Proj4() string {
	return fmt.Sprintf("+proj=lcc +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +a=%g +b=%g +units=m +no_defs",
		l.lat1, l.lat2, l.lat0, l.lon0, earthRadius, earthRadius)
}

type mercator struct {
	lon0, latTs float64
}

func (m mercator) Forward(lon, lat float64) (x, y float64) {
	k := math.Cos(toRad(m.latTs))
	x = earthRadius * k * toRad(normLon(lon-m.lon0))
	y = earthRadius * k * math.Log(math.Tan(math.Pi/4+toRad(lat)/2))
	return
}

func (m mercator) Proj4() string {
	return fmt.Sprintf("+proj=merc +lon_0=%g +lat_ts=%g +a=%g +b=%g +units=m +no_defs",
		m.lon0, m.latTs, earthRadius, earthRadius)
}

// 北极极射赤面投影
type stereographic struct {
	lon0, latTs float64
}

func (s stereographic) Forward(lon, lat float64) (x, y float64) {
	ρ := earthRadius * (1 + math.Sin(toRad(s.latTs))) * math.Tan(math.Pi/4-toRad(lat)/2)
	θ := toRad(normLon(lon - s.lon0))
	x = ρ * math.Sin(θ)
	y = -ρ * math.Cos(θ)
	return
}

func (s stereographic) Proj4() string {
	return fmt.Sprintf("+proj=stere +lat_0=90 +lat_ts=%g +lon_0=%g +a=%g +b=%g +units=m +no_defs",
		s.latTs, s.lon0, earthRadius, earthRadius)
}
