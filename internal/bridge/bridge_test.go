package bridge_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/internal/bridge"
	"github.com/Alia5/cockpitbridge/internal/log"
	th "github.com/Alia5/cockpitbridge/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBridge(t *testing.T, panel *th.FakePanel, sim *th.FakeSim) (*bridge.Bridge, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return bridge.New(panel, sim, bridge.Config{}, logger, log.NewRaw(nil)), &logs
}

func snapshot(fd bool, altHold int16) cockpit.DeviceToHost {
	var m cockpit.DeviceToHost
	m.Buttons = m.Buttons.Put(int(cockpit.ButtonFD), fd)
	m.Axes[cockpit.AxisAltHold] = altHold
	return m
}

func TestStep_DeviceToSimulator(t *testing.T) {
	panel := th.NewFakePanel()
	panel.Queue(snapshot(true, 1500))
	sim := &th.FakeSim{}
	b, _ := newBridge(t, panel, sim)

	require.NoError(t, b.Step())

	assert.Equal(t, []string{"1,1500\n"}, sim.SentLines())
	assert.Empty(t, panel.Sent)
	assert.Equal(t, bridge.Stats{ToSimulator: 1}, b.Stats())
}

func TestStep_SimulatorToDevice(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{}
	sim.Push("1,1500\n")
	b, _ := newBridge(t, panel, sim)

	require.NoError(t, b.Step())

	require.Len(t, panel.Sent, 1)
	assert.Equal(t, []byte{
		0x00,
		0x02, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xDC, 0x05, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, panel.Sent[0])
	assert.Equal(t, bridge.Stats{ToDevice: 1, ToSimulator: 1}, b.Stats())
}

func TestStep_SimulatorBranchRunsFirst(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{}
	sim.Push("0,-200\n")
	b, _ := newBridge(t, panel, sim)

	require.NoError(t, b.Step())
	require.NoError(t, b.Step())

	assert.Equal(t, []string{"send", "get", "get"}, panel.Calls())
	assert.Equal(t, []time.Duration{0, 0}, sim.Timeouts)

	cmds := panel.SentCommands()
	require.Len(t, cmds, 1)
	assert.False(t, cmds[0].Buttons.Get(int(cockpit.ButtonFD)))
	assert.Equal(t, int16(-200), cmds[0].Axes[cockpit.AxisAltHold])
}

func TestStep_OneDatagramPerIteration(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{}
	sim.Push("1,1\n", "1,2\n")
	b, _ := newBridge(t, panel, sim)

	require.NoError(t, b.Step())
	assert.Len(t, panel.Sent, 1)
	require.NoError(t, b.Step())
	assert.Len(t, panel.Sent, 2)
}

func TestStep_ParseErrorSkipsCycle(t *testing.T) {
	panel := th.NewFakePanel()
	panel.Queue(snapshot(false, 7))
	sim := &th.FakeSim{}
	sim.Push("garbage")
	b, logs := newBridge(t, panel, sim)

	require.NoError(t, b.Step())

	assert.Empty(t, panel.Sent)
	assert.Equal(t, []string{"0,7\n"}, sim.SentLines(), "device branch still runs")
	assert.Equal(t, uint64(1), b.Stats().ParseErrors)
	assert.Contains(t, logs.String(), "Skipping simulator line")
}

func TestStep_TransportErrorsAreFatal(t *testing.T) {
	boom := errors.New("device disconnected")

	type testCase struct {
		name  string
		setup func(p *th.FakePanel, s *th.FakeSim)
		op    string
		is    error
	}

	cases := []testCase{
		{
			name:  "get feature report",
			setup: func(p *th.FakePanel, s *th.FakeSim) { p.GetErr = boom },
			op:    "get feature report",
			is:    boom,
		},
		{
			name: "send feature report",
			setup: func(p *th.FakePanel, s *th.FakeSim) {
				p.SendErr = boom
				s.Push("1,1\n")
			},
			op: "send feature report",
			is: boom,
		},
		{
			name:  "short device record",
			setup: func(p *th.FakePanel, s *th.FakeSim) { p.ShortRead = 10 },
			op:    "get feature report",
			is:    io.ErrUnexpectedEOF,
		},
		{
			name:  "simulator poll",
			setup: func(p *th.FakePanel, s *th.FakeSim) { s.PollErr = boom },
			op:    "poll simulator",
			is:    boom,
		},
		{
			name: "simulator receive",
			setup: func(p *th.FakePanel, s *th.FakeSim) {
				s.Push("1,1\n")
				s.ReceiveErr = boom
			},
			op: "receive from simulator",
			is: boom,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			panel := th.NewFakePanel()
			sim := &th.FakeSim{}
			tc.setup(panel, sim)
			b, _ := newBridge(t, panel, sim)

			err := b.Step()
			var te *bridge.TransportError
			require.True(t, errors.As(err, &te), "expected TransportError, got %v", err)
			assert.Equal(t, tc.op, te.Op)
			assert.ErrorIs(t, err, tc.is)
			assert.Empty(t, sim.SentLines())
		})
	}
}

func TestStep_SimulatorSendFailureIsNotFatal(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{SendErr: errors.New("connection refused")}
	b, _ := newBridge(t, panel, sim)

	require.NoError(t, b.Step())
	require.NoError(t, b.Step())
	assert.Equal(t, uint64(2), b.Stats().SendErrors)
}

func TestRun_StopsOnCancel(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{}
	b, _ := newBridge(t, panel, sim)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sim.SentLines()) > 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ReturnsFatalError(t *testing.T) {
	panel := th.NewFakePanel()
	panel.GetErr = errors.New("unplugged")
	sim := &th.FakeSim{}
	b := bridge.New(panel, sim, bridge.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := b.Run(ctx)
	var te *bridge.TransportError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, 1, panel.Gets)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	panel := th.NewFakePanel()
	sim := &th.FakeSim{}
	b, _ := newBridge(t, panel, sim)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, b.Run(ctx))
	assert.Zero(t, panel.Gets)
}
