// Package simlink owns the two UDP sockets used to talk to the simulator: one
// bound to the port the simulator sends to, and one unbound socket used to
// send to the port the simulator listens on.
package simlink

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Defaults match the simulator's generic protocol configuration.
const (
	DefaultListenAddr = ":9210"
	DefaultTargetAddr = "127.0.0.1:9209"
)

// Config selects the local listen address and the simulator's address.
type Config struct {
	Listen string
	Target string
}

// Conn is a pair of UDP sockets plus the simulator address. Inbound and
// outbound use separate sockets so the listen port never has to equal the
// simulator's port.
type Conn struct {
	in     *net.UDPConn
	out    *net.UDPConn
	target *net.UDPAddr

	// pending holds a datagram read by a deadline-based Poll until Receive
	// picks it up. Unused where the platform can poll the socket directly.
	pending    []byte
	hasPending bool
}

// Open binds the listen socket and resolves the simulator address.
func Open(cfg Config) (*Conn, error) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListenAddr
	}
	if cfg.Target == "" {
		cfg.Target = DefaultTargetAddr
	}

	laddr, err := net.ResolveUDPAddr("udp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("resolve listen addr: %w", err)
	}
	target, err := net.ResolveUDPAddr("udp", cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("resolve simulator addr: %w", err)
	}

	in, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("listen udp: %w", err)
	}
	out, err := net.ListenUDP("udp", nil)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("open send socket: %w", err)
	}

	return &Conn{in: in, out: out, target: target}, nil
}

// LocalAddr is the address the simulator should send lines to.
func (c *Conn) LocalAddr() *net.UDPAddr { return c.in.LocalAddr().(*net.UDPAddr) }

// Target is the simulator address lines are sent to.
func (c *Conn) Target() *net.UDPAddr { return c.target }

// Poll reports whether a datagram is waiting, waiting at most timeout.
func (c *Conn) Poll(timeout time.Duration) (bool, error) {
	if c.hasPending {
		return true, nil
	}
	return c.poll(timeout)
}

// Receive reads one datagram into p. It blocks if Poll has not reported one.
// A datagram longer than p is truncated.
func (c *Conn) Receive(p []byte) (int, error) {
	if c.hasPending {
		n := copy(p, c.pending)
		c.hasPending = false
		return n, nil
	}
	n, _, err := c.in.ReadFromUDP(p)
	return n, err
}

// Send writes p to the simulator as a single datagram.
func (c *Conn) Send(p []byte) (int, error) {
	return c.SendTo(c.target, p)
}

// SendTo writes p to addr as a single datagram.
func (c *Conn) SendTo(addr *net.UDPAddr, p []byte) (int, error) {
	return c.out.WriteToUDP(p, addr)
}

// Close closes both sockets.
func (c *Conn) Close() error {
	return errors.Join(c.in.Close(), c.out.Close())
}
