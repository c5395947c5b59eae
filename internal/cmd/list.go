package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/cockpitbridge/internal/panel"
)

// List prints attached HID devices.
type List struct {
	All bool `help:"List every HID device, ignoring --panel-vid/--panel-pid"`

	out io.Writer
}

// Run is called by Kong when the list command is executed.
func (c *List) Run(g *Globals, logger *slog.Logger) error {
	if err := panel.Init(); err != nil {
		return fmt.Errorf("init hidapi: %w", err)
	}
	defer panel.Exit()

	vid, pid := g.Panel.VendorID, g.Panel.ProductID
	if c.All {
		vid, pid = 0, 0
	}
	devs, err := panel.List(vid, pid)
	if errors.Is(err, panel.ErrNotFound) {
		logger.Warn("No matching HID device", "vid", vid, "pid", pid)
		return nil
	}
	if err != nil {
		return err
	}
	return printDevices(c.writer(), devs)
}

func (c *List) writer() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func printDevices(w io.Writer, devs []panel.Info) error {
	for _, d := range devs {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
