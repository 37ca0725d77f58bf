package meteolib

import (
	"github.com/wgdzlh/meteolib/config"
	"github.com/wgdzlh/meteolib/log"

	"go.uber.org/zap"
)

type Option func(*GeoToolbox)

func WithLogger(l *zap.Logger) Option {
	return func(g *GeoToolbox) { g.logger = log.OrNop(l) }
}

// WithConfig sets the scratch directory, buffer segments and default srid.
// Zero fields keep their defaults.
func WithConfig(c config.ToolboxConfig) Option {
	return func(g *GeoToolbox) {
		if c.TmpDir != "" {
			g.tmpDir = c.TmpDir
		}
		if c.BufferSegments > 0 {
			g.segments = c.BufferSegments
		}
		if c.Srid > 0 {
			g.srid = c.Srid
		}
	}
}
