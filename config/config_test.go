package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "meteolib.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeConfig(t, `
log:
  level: debug
micaps:
  nan_missing: true
toolbox:
  tmp_dir: /tmp/meteo
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Micaps.Encoding != ENC_GBK {
		t.Errorf("encoding default lost: %q", cfg.Micaps.Encoding)
	}
	if !cfg.Micaps.NaNMissing || cfg.Micaps.MissingValue != DefaultMissingValue {
		t.Errorf("micaps = %+v", cfg.Micaps)
	}
	if cfg.Toolbox.TmpDir != "/tmp/meteo" || cfg.Toolbox.BufferSegments != DefaultBufferSegments {
		t.Errorf("toolbox = %+v", cfg.Toolbox)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"encoding", "micaps:\n  encoding: BIG5\n"},
		{"segments", "toolbox:\n  buffer_segments: 0\n"},
		{"syntax", "micaps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
