package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/cockpitbridge/internal/panel"
	"github.com/Alia5/cockpitbridge/internal/simlink"
)

// Globals are the flags every command shares. The prefixes double as config
// file sections: kong's YAML and TOML loaders split flag names on '-', so
// "panel-vid" is read from vid under panel.
type Globals struct {
	Panel PanelFlags `embed:"" prefix:"panel-"`
	Sim   SimFlags   `embed:"" prefix:"sim-"`
}

// PanelFlags selects the HID device.
type PanelFlags struct {
	VendorID  panel.ID `name:"vid" help:"Panel USB vendor id" default:"0x03eb" env:"COCKPITBRIDGE_PANEL_VID"`
	ProductID panel.ID `name:"pid" help:"Panel USB product id" default:"0x2043" env:"COCKPITBRIDGE_PANEL_PID"`
	Serial    string   `help:"Only open the panel with this serial number" env:"COCKPITBRIDGE_PANEL_SERIAL"`
	Path      string   `help:"Open the panel by hidapi device path instead of ids" env:"COCKPITBRIDGE_PANEL_PATH"`
}

func (f PanelFlags) config() panel.Config {
	return panel.Config{
		VendorID:  f.VendorID,
		ProductID: f.ProductID,
		Serial:    f.Serial,
		Path:      f.Path,
	}
}

// open initializes hidapi and opens the panel. The returned func closes the
// panel and releases hidapi.
func (f PanelFlags) open(logger *slog.Logger) (*panel.Panel, func(), error) {
	if err := panel.Init(); err != nil {
		return nil, nil, fmt.Errorf("init hidapi: %w", err)
	}
	p, err := panel.Open(f.config())
	if err != nil {
		_ = panel.Exit()
		return nil, nil, err
	}
	info := p.Info()
	logger.Info("Panel connected",
		"vid", info.VendorID,
		"pid", info.ProductID,
		"product", info.Product,
		"serial", info.Serial,
		"path", info.Path,
	)
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("Closing panel failed", "error", err)
		}
		_ = panel.Exit()
	}, nil
}

// SimFlags configures the simulator link.
type SimFlags struct {
	Listen      string        `help:"Address to receive simulator lines on" default:":9210" env:"COCKPITBRIDGE_SIM_LISTEN"`
	Target      string        `help:"Simulator address panel lines are sent to" default:"127.0.0.1:9209" env:"COCKPITBRIDGE_SIM_TARGET"`
	PollTimeout time.Duration `help:"Longest wait for a simulator line per loop iteration" default:"0s" env:"COCKPITBRIDGE_SIM_POLL_TIMEOUT"`
}

func (f SimFlags) config() simlink.Config {
	return simlink.Config{Listen: f.Listen, Target: f.Target}
}
