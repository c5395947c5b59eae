// Package testing holds in-memory stand-ins for the panel and the simulator
// link, shared by the bridge and command tests.
package testing

import (
	"errors"
	"sync"
	"time"

	"github.com/Alia5/cockpitbridge/device/cockpit"
)

// FakePanel implements bridge.Device. GetFeatureReport serves the queued
// snapshots in order and then keeps repeating the last one, the way a real
// panel keeps answering with its current state.
type FakePanel struct {
	mu sync.Mutex

	snapshots [][]byte
	last      []byte

	// ShortRead truncates GetFeatureReport results to this many bytes when > 0.
	ShortRead int
	GetErr    error
	SendErr   error

	Sent  [][]byte
	Gets  int
	calls []string
}

// NewFakePanel returns a panel that answers with a zeroed snapshot.
func NewFakePanel() *FakePanel {
	zero := cockpit.DeviceToHost{}.Record()
	return &FakePanel{last: zero[:]}
}

// Queue appends snapshots to be returned by subsequent GetFeatureReport calls.
func (p *FakePanel) Queue(msgs ...cockpit.DeviceToHost) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		rec := m.Record()
		p.snapshots = append(p.snapshots, rec[:])
	}
}

// QueueRaw appends a raw record to be returned verbatim.
func (p *FakePanel) QueueRaw(rec []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, append([]byte(nil), rec...))
}

func (p *FakePanel) SendFeatureReport(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "send")
	if p.SendErr != nil {
		return -1, p.SendErr
	}
	p.Sent = append(p.Sent, append([]byte(nil), b...))
	return len(b), nil
}

func (p *FakePanel) GetFeatureReport(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "get")
	p.Gets++
	if p.GetErr != nil {
		return -1, p.GetErr
	}
	if len(p.snapshots) > 0 {
		p.last = p.snapshots[0]
		p.snapshots = p.snapshots[1:]
	}
	n := copy(b, p.last)
	if p.ShortRead > 0 && n > p.ShortRead {
		n = p.ShortRead
	}
	return n, nil
}

// Calls returns the order of send/get calls seen so far.
func (p *FakePanel) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// SentCommands decodes every record written to the panel.
func (p *FakePanel) SentCommands() []cockpit.HostToDevice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]cockpit.HostToDevice, 0, len(p.Sent))
	for _, b := range p.Sent {
		var m cockpit.HostToDevice
		_ = m.UnmarshalBinary(b)
		out = append(out, m)
	}
	return out
}

// ErrNoDatagram is returned by FakeSim.Receive when nothing is queued.
var ErrNoDatagram = errors.New("fake sim: no datagram queued")

// FakeSim implements bridge.Simulator with an in-memory datagram queue.
type FakeSim struct {
	mu sync.Mutex

	inbound [][]byte

	PollErr    error
	ReceiveErr error
	SendErr    error

	Sent     []string
	Timeouts []time.Duration
}

// Push queues inbound datagrams.
func (s *FakeSim) Push(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lines {
		s.inbound = append(s.inbound, []byte(l))
	}
}

func (s *FakeSim) Poll(timeout time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Timeouts = append(s.Timeouts, timeout)
	if s.PollErr != nil {
		return false, s.PollErr
	}
	return len(s.inbound) > 0, nil
}

func (s *FakeSim) Receive(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReceiveErr != nil {
		return 0, s.ReceiveErr
	}
	if len(s.inbound) == 0 {
		return 0, ErrNoDatagram
	}
	d := s.inbound[0]
	s.inbound = s.inbound[1:]
	return copy(p, d), nil
}

func (s *FakeSim) Send(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return 0, s.SendErr
	}
	s.Sent = append(s.Sent, string(p))
	return len(p), nil
}

// SentLines returns a snapshot of the lines sent so far.
func (s *FakeSim) SentLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Sent...)
}
