package configpaths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigCandidatePathsUser(t *testing.T) {
	j, y, tm := ConfigCandidatePaths("/etc/panel.toml")
	assert.Empty(t, j)
	assert.Empty(t, y)
	assert.Equal(t, []string{"/etc/panel.toml"}, tm)

	j, y, tm = ConfigCandidatePaths("panel.JSON")
	assert.Equal(t, []string{"panel.JSON"}, j)
	assert.Empty(t, y)
	assert.Empty(t, tm)

	j, y, tm = ConfigCandidatePaths("panel.conf")
	assert.Empty(t, j)
	assert.Equal(t, []string{"panel.conf"}, y)
	assert.Empty(t, tm)
}

func TestConfigCandidatePathsDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	j, y, tm := ConfigCandidatePaths("")
	assert.Equal(t, filepath.Join(".", "cockpitbridge.json"), j[0])
	assert.Equal(t, filepath.Join(".", "cockpitbridge.yaml"), y[0])
	assert.Equal(t, filepath.Join(".", "cockpitbridge.toml"), tm[0])

	dir, err := DefaultConfigDir()
	if err != nil {
		return
	}
	assert.Contains(t, y, filepath.Join(dir, "config.yml"))
	assert.Contains(t, tm, filepath.Join(dir, "config.toml"))
}
