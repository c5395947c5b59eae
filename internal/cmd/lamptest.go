package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/internal/bridge"
	"github.com/Alia5/cockpitbridge/internal/log"
)

// Lamptest lights every indicator in turn, then all together, so the panel
// wiring can be checked without a simulator.
type Lamptest struct {
	Step   time.Duration `help:"How long each lamp stays lit" default:"300ms"`
	Rounds int           `help:"Number of passes over all lamps" default:"1"`
}

// Run is called by Kong when the lamptest command is executed.
func (c *Lamptest) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, closePanel, err := g.Panel.open(logger)
	if err != nil {
		return err
	}
	defer closePanel()

	return lampTest(ctx, dev, c.Step, c.Rounds, logger, rawLogger)
}

func lampTest(ctx context.Context, dev bridge.Device, step time.Duration, rounds int, logger *slog.Logger, rawLogger log.RawLogger) (err error) {
	send := func(b cockpit.Buttons) error {
		rec := cockpit.HostToDevice{Buttons: b}.Record()
		rawLogger.Log(log.DirToDevice, rec[:])
		if _, err := dev.SendFeatureReport(rec[:]); err != nil {
			return &bridge.TransportError{Op: "send feature report", Err: err}
		}
		return nil
	}
	wait := func() bool {
		if step <= 0 {
			return ctx.Err() == nil
		}
		t := time.NewTimer(step)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			return true
		}
	}

	// Always leave the panel dark, also when interrupted.
	defer func() {
		if offErr := send(cockpit.Buttons{}); err == nil {
			err = offErr
		}
	}()

	var all cockpit.Buttons
	for r := 0; r < rounds; r++ {
		for _, led := range cockpit.LEDs() {
			logger.Info("Lamp on", "lamp", led.String(), "bit", int(led), "round", r+1)
			if err := send(cockpit.Buttons{}.Set(int(led))); err != nil {
				return err
			}
			if !wait() {
				return nil
			}
			all = all.Set(int(led))
		}
	}
	if rounds > 0 {
		logger.Info("All lamps on")
		if err := send(all); err != nil {
			return err
		}
		wait()
	}
	logger.Info("Lamp test done", "lamps", len(cockpit.LEDs()), "rounds", rounds)
	return nil
}
