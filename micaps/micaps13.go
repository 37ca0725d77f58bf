package micaps

import (
	"os"
	"strconv"
)

const (
	micaps13HeaderLen = 13
	varImage          = "Image"
)

type micaps13Header struct {
	desc          string
	year          int
	month, day    int
	hour          int
	projCode      int
	width, height int
	lonLB, latLB  float64
	lonC, latC    float64
	lat1, lat2    float64
	dataOffset    int64
}

func parseMicaps13Header(tk *tokenizer) (h micaps13Header, err error) {
	if h.desc, err = readTitle(tk); err != nil {
		return
	}
	toks, err := takeHeader(tk, micaps13HeaderLen)
	if err != nil {
		return
	}
	p := newHeaderParser(toks, tk.path, tk.Line())
	h.year = expandYear13(p.int(0, "year"))
	h.month = p.int(1, "month")
	h.day = p.int(2, "day")
	h.hour = p.int(3, "hour")
	h.projCode = p.int(4, "projection")
	h.width = p.int(5, "width")
	h.height = p.int(6, "height")
	h.lonLB = p.float(7, "lowerLeftLon")
	h.latLB = p.float(8, "lowerLeftLat")
	h.lonC = p.float(9, "centerLon")
	h.latC = p.float(10, "centerLat")
	h.lat1 = p.float(11, "trueLat1")
	h.lat2 = p.float(12, "trueLat2")
	if err = p.err; err != nil {
		return
	}
	if err = checkGridSize(tk.path, tk.Line(), h.width, h.height); err != nil {
		return
	}
	h.dataOffset = tk.Offset()
	return
}

// 投影左下角和中心点，以中心点对称得到右上角
func (h micaps13Header) axes(pj projector) gridAxes {
	xMin, yMin := pj.Forward(h.lonLB, h.latLB)
	xC, yC := pj.Forward(h.lonC, h.latC)
	xMax := xC + (xC - xMin)
	yMax := yC + (yC - yMin)
	var xDelta, yDelta float64
	if h.width > 1 {
		xDelta = (xMax - xMin) / float64(h.width-1)
	}
	if h.height > 1 {
		yDelta = (yMax - yMin) / float64(h.height-1)
	}
	a := buildAxes(xMin, xDelta, h.width, yMin, yMax, yDelta, h.height)
	// 图像行自上而下存储
	a.YReversed = true
	return a
}

// MICAPS 第13类：图像数据，文本头后紧跟 width*height 字节灰度值
func decodeMicaps13(dc *decodeContext) (ds *Dataset, err error) {
	err = openFile(dc.path, func(f *os.File) (e error) {
		tk := newTokenizer(f, dc.path, dc.opts.gbk)
		h, e := parseMicaps13Header(tk)
		if e != nil {
			return
		}
		pj, e := newProjector(h.projCode, h.lonC, h.latC, h.lat1, h.lat2)
		if e != nil {
			return
		}
		fi, e := f.Stat()
		if e != nil {
			return &IOError{Path: dc.path, Op: "stat", Err: e}
		}
		need := h.dataOffset + int64(h.width*h.height)
		if fi.Size() < need {
			return &StructuralError{Path: dc.path, Line: tk.Line(), Expected: int(need), Found: int(fi.Size()),
				Reason: "image payload truncated"}
		}
		dc.parsed()
		a := h.axes(pj)
		t := reftime(h.year, h.month, h.day, h.hour, 0)
		hd := &DatasetHeader{
			Kind:        KindMicaps13,
			Description: h.desc,
			Time:        t,
			Dimensions:  append([]Dimension{timeDimension(t)}, a.dimensions()...),
			Attributes:  map[string]string{AttrProjection: pj.Proj4()},
		}
		hd.Variables = []Variable{{
			Name: varImage, Type: Int32, Dimensions: []string{DimNameY, DimNameX}, FillValue: dc.opts.missing,
		}}
		hd.Attributes["projection_code"] = strconv.Itoa(h.projCode)
		ds = newGridDataset(dc, hd, a, 1)
		ds.grid.loaders[varImage] = byteGridLoader(dc, h.dataOffset, h.width, h.height, 1, func(raw []byte) float64 {
			return float64(raw[0])
		})
		return
	})
	return
}

// 从offset起按层依次存放的定长格点
func byteGridLoader(dc *decodeContext, offset int64, numX, numY, depth int, cell func([]byte) float64) gridLoader {
	rowBytes := numX * depth
	return func(z, r0, r1 int) (rows []float64, err error) {
		err = openFile(dc.path, func(f *os.File) error {
			br := newBinReader(f, dc.path, dc.opts.gbk)
			br.Seek(offset + int64(z*numY*rowBytes+r0*rowBytes))
			raw := br.Bytes((r1-r0)*rowBytes, "grid rows")
			if e := br.Err(); e != nil {
				return e
			}
			rows = make([]float64, (r1-r0)*numX)
			for i := range rows {
				rows[i] = cell(raw[i*depth : (i+1)*depth])
			}
			return nil
		})
		return
	}
}
