package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/cockpitbridge/internal/panel"
	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCLI carries the shared flags the way the real root command does.
type testCLI struct {
	Globals `embed:""`

	Run        Bridge     `cmd:"" default:"withargs"`
	Monitor    Monitor    `cmd:""`
	ShowConfig ShowConfig `cmd:"" name:"show-config"`
}

func customGlobals() *Globals {
	return &Globals{
		Panel: PanelFlags{VendorID: 0x1111, ProductID: 0x2222, Serial: "MCP-7", Path: "/dev/hidraw3"},
		Sim:   SimFlags{Listen: ":9999", Target: "10.0.0.2:49000", PollTimeout: 2 * time.Millisecond},
	}
}

func parseWithConfig(t *testing.T, loader kong.ConfigurationLoader, file string, args ...string) *testCLI {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(loader, file))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestShowConfigLoadsBack(t *testing.T) {
	type testCase struct {
		format string
		loader kong.ConfigurationLoader
	}
	cases := []testCase{
		{format: "yaml", loader: kongyaml.Loader},
		{format: "toml", loader: kongtoml.Loader},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			want := customGlobals()
			rendered, err := (&ShowConfig{Format: tc.format}).render(want)
			require.NoError(t, err)

			file := filepath.Join(t.TempDir(), "cockpitbridge."+tc.format)
			require.NoError(t, os.WriteFile(file, rendered, 0o644))

			for _, args := range [][]string{{"monitor"}, {"show-config"}, {}} {
				cli := parseWithConfig(t, tc.loader, file, args...)
				assert.Equal(t, *want, cli.Globals, "args %v", args)
			}
		})
	}
}

func TestShowConfigDefaultsLoadBack(t *testing.T) {
	defaults := parseWithConfig(t, kongyaml.Loader, filepath.Join(t.TempDir(), "missing.yaml"), "show-config")
	assert.Equal(t, panel.DefaultVendorID, defaults.Panel.VendorID)

	rendered, err := (&ShowConfig{Format: "toml"}).render(&defaults.Globals)
	require.NoError(t, err)
	assert.NotContains(t, string(rendered), "serial", "empty settings are omitted")

	file := filepath.Join(t.TempDir(), "cockpitbridge.toml")
	require.NoError(t, os.WriteFile(file, rendered, 0o644))
	cli := parseWithConfig(t, kongtoml.Loader, file, "run")
	assert.Equal(t, defaults.Globals, cli.Globals)
}

func TestShowConfigLayout(t *testing.T) {
	rendered, err := (&ShowConfig{Format: "yaml"}).render(customGlobals())
	require.NoError(t, err)
	out := string(rendered)

	assert.True(t, strings.HasPrefix(out, "panel:\n    vid: \"0x1111\"\n    pid: \"0x2222\"\n"), out)
	assert.Contains(t, out, "sim:\n")
	assert.Contains(t, out, "    poll-timeout: 2ms\n")
}

func TestShowConfigFlagsOverrideFile(t *testing.T) {
	rendered, err := (&ShowConfig{Format: "yaml"}).render(customGlobals())
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "cockpitbridge.yaml")
	require.NoError(t, os.WriteFile(file, rendered, 0o644))

	cli := parseWithConfig(t, kongyaml.Loader, file, "--panel-vid", "0x0042", "monitor")
	assert.Equal(t, panel.ID(0x0042), cli.Panel.VendorID)
	assert.Equal(t, panel.ID(0x2222), cli.Panel.ProductID)
}
