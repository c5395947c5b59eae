// Package configpaths decides where configuration files are looked up.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory and file base name used for configuration.
const AppName = "cockpitbridge"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ConfigCandidatePaths returns configuration file candidates per format, in
// priority order. An explicit user path is the only candidate for its format;
// otherwise the working directory wins over the user config dir. Missing files
// are skipped by the loader.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".json":
			return []string{userCfg}, nil, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		default:
			return nil, []string{userCfg}, nil
		}
	}

	dirs := []string{"."}
	if dir, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, d := range dirs {
		base := filepath.Join(d, AppName)
		if d != "." {
			base = filepath.Join(d, "config")
		}
		jsonPaths = append(jsonPaths, base+".json")
		yamlPaths = append(yamlPaths, base+".yaml", base+".yml")
		tomlPaths = append(tomlPaths, base+".toml")
	}
	return jsonPaths, yamlPaths, tomlPaths
}
