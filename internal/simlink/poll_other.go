//go:build !unix

package simlink

import (
	"errors"
	"os"
	"time"
)

// minPollWait keeps the read deadline in the future; an already expired
// deadline fails the read without looking at the socket.
const minPollWait = time.Millisecond

// poll reads with a short deadline and parks the datagram for Receive.
func (c *Conn) poll(timeout time.Duration) (bool, error) {
	if timeout < minPollWait {
		timeout = minPollWait
	}
	if err := c.in.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, err
	}
	defer c.in.SetReadDeadline(time.Time{})

	if cap(c.pending) < 65535 {
		c.pending = make([]byte, 65535)
	}
	n, _, err := c.in.ReadFromUDP(c.pending[:cap(c.pending)])
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.pending = c.pending[:n]
	c.hasPending = true
	return true, nil
}
