//go:build unix

package simlink

import (
	"time"

	"golang.org/x/sys/unix"
)

// poll asks the kernel whether the listen socket is readable without
// consuming anything.
func (c *Conn) poll(timeout time.Duration) (bool, error) {
	rc, err := c.in.SyscallConn()
	if err != nil {
		return false, err
	}

	ms := int(timeout / time.Millisecond)
	var (
		ready   bool
		pollErr error
	)
	err = rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(fds, ms)
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				pollErr = err
				return
			}
			ready = n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLERR) != 0
			return
		}
	})
	if err != nil {
		return false, err
	}
	return ready, pollErr
}
