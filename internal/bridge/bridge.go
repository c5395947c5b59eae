// Package bridge runs the translation loop between a cockpit panel and the
// simulator.
//
// Each iteration first drains at most one simulator line into a
// host-to-device feature record, then reads one device-to-host record from the
// panel and forwards it to the simulator as a line. The panel exchange is
// synchronous and paces the loop; the simulator check never blocks.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/internal/log"
	"github.com/Alia5/cockpitbridge/simulator/generic"
)

// Device is the panel side. *hid.Device from github.com/sstallion/go-hid
// satisfies it directly; p[0] carries the report id in both calls.
type Device interface {
	SendFeatureReport(p []byte) (int, error)
	GetFeatureReport(p []byte) (int, error)
}

// Simulator is the datagram side.
type Simulator interface {
	// Poll reports whether a datagram can be received without blocking.
	Poll(timeout time.Duration) (bool, error)
	Receive(p []byte) (int, error)
	Send(p []byte) (int, error)
}

// Config holds the loop tunables.
type Config struct {
	// PollTimeout bounds how long the simulator check may wait. Zero means
	// check and move on.
	PollTimeout time.Duration
}

// Stats counts what the loop has done so far.
type Stats struct {
	ToDevice    uint64
	ToSimulator uint64
	ParseErrors uint64
	SendErrors  uint64
}

// Bridge owns both channel handles and one buffer per direction for the
// lifetime of the process. It is not safe for concurrent use.
type Bridge struct {
	dev       Device
	sim       Simulator
	cfg       Config
	logger    *slog.Logger
	rawLogger log.RawLogger

	simBuf [generic.MaxLineLength]byte
	devBuf [cockpit.ReportLength]byte

	stats Stats
}

// New creates a bridge over an already opened panel and simulator link.
func New(dev Device, sim Simulator, cfg Config, logger *slog.Logger, rawLogger log.RawLogger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	return &Bridge{
		dev:       dev,
		sim:       sim,
		cfg:       cfg,
		logger:    logger,
		rawLogger: rawLogger,
	}
}

// Stats returns a copy of the loop counters.
func (b *Bridge) Stats() Stats { return b.stats }

// Run loops until ctx is cancelled or a transport fails. Cancellation is
// observed between iterations, so a pending panel exchange completes first.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("Bridge running", "pollTimeout", b.cfg.PollTimeout)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Bridge stopped",
				"toDevice", b.stats.ToDevice,
				"toSimulator", b.stats.ToSimulator,
				"parseErrors", b.stats.ParseErrors,
				"sendErrors", b.stats.SendErrors,
			)
			return nil
		default:
		}
		if err := b.Step(); err != nil {
			return err
		}
	}
}

// Step performs exactly one iteration: simulator to panel first, then panel
// to simulator. Only *TransportError is returned.
func (b *Bridge) Step() error {
	if err := b.fromSimulator(); err != nil {
		return err
	}
	return b.fromDevice()
}

func (b *Bridge) fromSimulator() error {
	ready, err := b.sim.Poll(b.cfg.PollTimeout)
	if err != nil {
		return &TransportError{Op: "poll simulator", Err: err}
	}
	if !ready {
		return nil
	}

	n, err := b.sim.Receive(b.simBuf[:])
	if err != nil {
		return &TransportError{Op: "receive from simulator", Err: err}
	}
	line := b.simBuf[:n]
	b.rawLogger.Log(log.DirFromSim, line)

	msg, err := generic.Parse(line)
	if err != nil {
		b.stats.ParseErrors++
		b.logger.Warn("Skipping simulator line", "error", err)
		return nil
	}

	rec := msg.Record()
	b.rawLogger.Log(log.DirToDevice, rec[:])
	n, err = b.dev.SendFeatureReport(rec[:])
	if err != nil {
		return &TransportError{Op: "send feature report", Err: err}
	}
	if n < len(rec) {
		return &TransportError{Op: "send feature report", Err: fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(rec))}
	}
	b.stats.ToDevice++
	b.logger.Log(context.Background(), log.LevelTrace, "Sent panel command",
		"fd", msg.Buttons.Get(int(cockpit.ButtonFD)),
		"altHold", msg.Axes[cockpit.AxisAltHold],
	)
	return nil
}

func (b *Bridge) fromDevice() error {
	b.devBuf = [cockpit.ReportLength]byte{}
	b.devBuf[0] = cockpit.ReportID

	n, err := b.dev.GetFeatureReport(b.devBuf[:])
	if err != nil {
		return &TransportError{Op: "get feature report", Err: err}
	}
	rec := b.devBuf[:n]
	b.rawLogger.Log(log.DirFromDevice, rec)

	var msg cockpit.DeviceToHost
	if err := msg.UnmarshalBinary(rec); err != nil {
		return &TransportError{Op: "get feature report", Err: fmt.Errorf("%w: got %d of %d bytes", err, n, cockpit.ReportLength)}
	}

	line, err := generic.Format(msg)
	if err != nil {
		b.logger.Error("Dropping panel snapshot", "error", err)
		return nil
	}
	b.rawLogger.Log(log.DirToSim, line)

	if _, err := b.sim.Send(line); err != nil {
		// The simulator may simply not be up yet.
		b.stats.SendErrors++
		b.logger.Debug("Simulator send failed", "error", err)
		return nil
	}
	b.stats.ToSimulator++
	return nil
}
