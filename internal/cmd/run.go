package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/cockpitbridge/internal/bridge"
	"github.com/Alia5/cockpitbridge/internal/log"
	"github.com/Alia5/cockpitbridge/internal/panel"
	"github.com/Alia5/cockpitbridge/internal/simlink"
)

var (
	_ bridge.Device    = (*panel.Panel)(nil)
	_ bridge.Simulator = (*simlink.Conn)(nil)
)

// Bridge runs the panel <-> simulator translation loop.
type Bridge struct{}

// Run is called by Kong when the run command is executed.
func (c *Bridge) Run(g *Globals, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, closePanel, err := g.Panel.open(logger)
	if err != nil {
		return err
	}
	defer closePanel()

	link, err := simlink.Open(g.Sim.config())
	if err != nil {
		return err
	}
	defer link.Close()
	logger.Info("Simulator link open", "listen", link.LocalAddr().String(), "target", link.Target().String())

	b := bridge.New(dev, link, bridge.Config{PollTimeout: g.Sim.PollTimeout}, logger, rawLogger)
	err = b.Run(ctx)

	var te *bridge.TransportError
	if errors.As(err, &te) {
		logger.Error("Bridge stopped on transport error", "op", te.Op, "error", te.Err)
	}
	return err
}
