package meteolib

const (
	SHAPE_ENCODING     = "UTF-8"
	SHP_DRIVER_NAME    = "ESRI Shapefile"
	TIF_DRIVER_NAME    = "GTiff"
	ENCODING_OPTION    = "ENCODING=" + SHAPE_ENCODING
	SHAPE_ENCODING_KEY = "SHAPE_ENCODING"
	GBK_CODEPAGE       = "CP936"
	COMPRESS_OPTION    = "COMPRESS=LZW"
	UNIVERSAL_SRID     = 4326

	SplitLineBuffDist = 0.0001
	SimplifyT         = 0.01

	SHP_FIELD_UID     = "uid"
	SHP_FIELD_NAME    = "name"
	SHP_FIELD_VALUE   = "value"
	SHP_FIELD_CAPTION = "caption"
	SHP_FIELD_COLOR   = "color"

	TMP_TIF = "grid_%s"
)
