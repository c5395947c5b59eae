// Package config defines the CLI structure and configuration for cockpitbridge.
//
// Flag prefixes end in '-' so that config files can group settings the way
// kong's YAML and TOML loaders look them up:
//
//	log:
//	  level: debug
//	panel:
//	  vid: "0x03eb"
//	sim:
//	  poll-timeout: 1ms
package config

import (
	"github.com/Alia5/cockpitbridge/internal/cmd"

	"github.com/alecthomas/kong"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"COCKPITBRIDGE_LOG_LEVEL"`
	File    string `help:"Log file path, rotated at 10 MB (default: none; logs only to console)" env:"COCKPITBRIDGE_LOG_FILE"`
	RawFile string `help:"Raw record log file path (default: none)" env:"COCKPITBRIDGE_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Config  string           `help:"Config file (JSON, YAML or TOML)" type:"path" env:"COCKPITBRIDGE_CONFIG"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Log         `embed:"" prefix:"log-"`
	cmd.Globals `embed:""`

	Run        cmd.Bridge     `cmd:"" default:"withargs" help:"Bridge the panel and the simulator (default)"`
	List       cmd.List       `cmd:"" help:"List attached HID devices"`
	Monitor    cmd.Monitor    `cmd:"" help:"Print panel state changes"`
	Lamptest   cmd.Lamptest   `cmd:"" help:"Light every panel lamp in turn"`
	Descriptor cmd.Descriptor `cmd:"" help:"Print the expected HID report descriptor, or check the panel's"`
	ShowConfig cmd.ShowConfig `cmd:"" name:"show-config" help:"Print the effective panel and simulator settings as a config file"`
}
