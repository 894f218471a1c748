package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xstream/tunbridge/internal/config"
)

func TestRootCommandLoadSettings(t *testing.T) {
	settings := `library:
  name: libfrom-file.so
tunnel:
  engine_config: engine.json
  device: tun3
log:
  format: json
`
	path := filepath.Join(t.TempDir(), "tunbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o600))

	tests := map[string]struct {
		root   RootCommand
		expCfg config.Settings
		expErr bool
	}{
		"No settings file should use defaults": {
			root: RootCommand{},
			expCfg: config.Settings{
				Log: config.LogSettings{Format: LoggerTypeDefault},
			},
		},
		"Settings file should be used as is": {
			root: RootCommand{SettingsPath: path},
			expCfg: config.Settings{
				Library: config.LibrarySettings{Name: "libfrom-file.so"},
				Tunnel:  config.TunnelSettings{EngineConfig: "engine.json", Device: "tun3"},
				Log:     config.LogSettings{Format: LoggerTypeJSON},
			},
		},
		"Flags should override the settings file": {
			root: RootCommand{
				SettingsPath:     path,
				SearchProcess:    true,
				RetryUnavailable: true,
				Debug:            true,
				LoggerType:       LoggerTypeZap,
			},
			expCfg: config.Settings{
				Library: config.LibrarySettings{SearchProcess: true, RetryUnavailable: true},
				Tunnel:  config.TunnelSettings{EngineConfig: "engine.json", Device: "tun3"},
				Log:     config.LogSettings{Debug: true, Format: LoggerTypeZap},
			},
		},
		"Missing settings file should fail": {
			root:   RootCommand{SettingsPath: filepath.Join(t.TempDir(), "missing.yaml")},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			root := test.root
			err := root.LoadSettings()
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expCfg, root.Settings)
		})
	}
}

func TestRootCommandNewBridge(t *testing.T) {
	root := RootCommand{LibraryName: "libtunbridge_missing.so"}
	require.NoError(t, root.LoadSettings())

	report := root.NewBridge().Probe()
	assert.Equal(t, "libtunbridge_missing.so", report.Library)
	assert.False(t, report.Available)
}
