package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xstream/tunbridge/internal/config"
)

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expCfg config.Settings
		expErr bool
		errMsg string
	}{
		"Full settings should load successfully": {
			fs: fstest.MapFS{
				"tunbridge.yaml": &fstest.MapFile{
					Data: []byte(`library:
  name: /opt/engine/libgo_native_bridge.so
  retry_unavailable: true
tunnel:
  engine_config: engine.json
  device: tun7
log:
  debug: true
  format: json
`),
				},
			},
			path: "tunbridge.yaml",
			expCfg: config.Settings{
				Library: config.LibrarySettings{
					Name:             "/opt/engine/libgo_native_bridge.so",
					RetryUnavailable: true,
				},
				Tunnel: config.TunnelSettings{
					EngineConfig: "engine.json",
					Device:       "tun7",
				},
				Log: config.LogSettings{Debug: true, Format: "json"},
			},
		},
		"Empty settings should load successfully": {
			fs: fstest.MapFS{
				"empty.yaml": &fstest.MapFile{Data: []byte("---\n")},
			},
			path:   "empty.yaml",
			expCfg: config.Settings{},
		},
		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading settings file",
		},
		"Invalid YAML should return error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{Data: []byte(`invalid: yaml: content: {}`)},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
		"Negative fd should return error": {
			fs: fstest.MapFS{
				"s.yaml": &fstest.MapFile{Data: []byte("tunnel:\n  fd: -1\n")},
			},
			path:   "s.yaml",
			expErr: true,
			errMsg: "fd must not be negative",
		},
		"Fd and device together should return error": {
			fs: fstest.MapFS{
				"s.yaml": &fstest.MapFile{Data: []byte("tunnel:\n  fd: 5\n  device: tun0\n")},
			},
			path:   "s.yaml",
			expErr: true,
			errMsg: "mutually exclusive",
		},
		"Library name with process search should return error": {
			fs: fstest.MapFS{
				"s.yaml": &fstest.MapFile{Data: []byte("library:\n  name: libx.so\n  search_process: true\n")},
			},
			path:   "s.yaml",
			expErr: true,
			errMsg: "mutually exclusive",
		},
		"Unknown log format should return error": {
			fs: fstest.MapFS{
				"s.yaml": &fstest.MapFile{Data: []byte("log:\n  format: xml\n")},
			},
			path:   "s.yaml",
			expErr: true,
			errMsg: "unknown format",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			cfg, err := config.Load(test.fs, test.path)
			if test.expErr {
				require.Error(err)
				assert.Contains(err.Error(), test.errMsg)
				return
			}
			require.NoError(err)
			assert.Equal(test.expCfg, cfg)
		})
	}
}

func TestReadEngineConfig(t *testing.T) {
	fsys := fstest.MapFS{
		"engine.json": &fstest.MapFile{Data: []byte(`{"outbounds":[{"protocol":"freedom"}]}`)},
		"blank.json":  &fstest.MapFile{Data: []byte(" \n\t")},
	}

	got, err := config.ReadEngineConfig(fsys, "engine.json")
	require.NoError(t, err)
	assert.Equal(t, `{"outbounds":[{"protocol":"freedom"}]}`, got)

	_, err = config.ReadEngineConfig(fsys, "blank.json")
	assert.ErrorContains(t, err, "engine configuration is empty")

	_, err = config.ReadEngineConfig(fsys, "missing.json")
	assert.ErrorContains(t, err, "reading engine config")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tunnel:\n  fd: 9\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int32(9), cfg.Tunnel.FD)

	enginePath := filepath.Join(dir, "engine.json")
	require.NoError(t, os.WriteFile(enginePath, []byte("{}"), 0o600))
	doc, err := config.ReadEngineConfigFile(enginePath)
	require.NoError(t, err)
	assert.Equal(t, "{}", doc)
}
