package meteolib

import "errors"

var (
	ErrGdalDriverCreate    = errors.New("gdal driver create err")
	ErrGdalDriverOpen      = errors.New("gdal driver open err")
	ErrVoidSrid            = errors.New("gdal shp with void srid")
	ErrGdalWrongGeoType    = errors.New("gdal wrong geo type")
	ErrNotEnoughLinePoints = errors.New("not enough line points")
	ErrEmptyGrid           = errors.New("empty grid")
	ErrEmptyShape          = errors.New("empty shape")
)
