package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/internal/bridge"
	"github.com/Alia5/cockpitbridge/internal/log"
	"golang.org/x/term"
)

// Monitor polls the panel and prints every change of its state, without
// talking to the simulator.
type Monitor struct {
	Interval time.Duration `help:"Delay between panel reads" default:"50ms" env:"COCKPITBRIDGE_MONITOR_INTERVAL"`

	out io.Writer
}

// Run is called by Kong when the monitor command is executed.
func (c *Monitor) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, closePanel, err := g.Panel.open(logger)
	if err != nil {
		return err
	}
	defer closePanel()

	w := c.out
	tty := false
	if w == nil {
		w = os.Stdout
		tty = term.IsTerminal(int(os.Stdout.Fd()))
	}
	err = watch(ctx, dev, c.Interval, w, tty, rawLogger)
	if tty {
		fmt.Fprintln(w)
	}
	return err
}

// watch prints a line whenever the panel snapshot changes. On a terminal the
// line is redrawn in place.
func watch(ctx context.Context, dev bridge.Device, interval time.Duration, w io.Writer, tty bool, rawLogger log.RawLogger) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last  cockpit.DeviceToHost
		first = true
		buf   [cockpit.ReportLength]byte
	)
	for {
		buf = [cockpit.ReportLength]byte{cockpit.ReportID}
		n, err := dev.GetFeatureReport(buf[:])
		if err != nil {
			return &bridge.TransportError{Op: "get feature report", Err: err}
		}
		rawLogger.Log(log.DirFromDevice, buf[:n])

		var m cockpit.DeviceToHost
		if err := m.UnmarshalBinary(buf[:n]); err != nil {
			return &bridge.TransportError{Op: "get feature report", Err: err}
		}
		if first || m != last {
			first = false
			last = m
			line := describe(m)
			if tty {
				fmt.Fprintf(w, "\r\033[K%s", line)
			} else {
				fmt.Fprintln(w, line)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// describe renders a snapshot as one line: axes, raw button bytes, then the
// names of pressed buttons.
func describe(m cockpit.DeviceToHost) string {
	var b strings.Builder
	b.WriteString("axes")
	for _, v := range m.Axes {
		fmt.Fprintf(&b, " %6d", v)
	}
	b.WriteString(" | buttons")
	for _, v := range m.Buttons {
		fmt.Fprintf(&b, " %02X", v)
	}
	b.WriteString(" |")

	pressed := 0
	for i := range cockpit.NumButtons {
		if !m.Buttons.Get(i) {
			continue
		}
		pressed++
		b.WriteString(" ")
		b.WriteString(cockpit.Button(i).String())
	}
	if pressed == 0 {
		b.WriteString(" -")
	}
	return b.String()
}
