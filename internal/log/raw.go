package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Direction tags for raw records.
const (
	DirToDevice   = "host->dev"
	DirFromDevice = "dev->host"
	DirFromSim    = "sim->host"
	DirToSim      = "host->sim"
)

// RawLogger dumps every record exchanged with the panel or the simulator,
// byte for byte. It is meant for debugging firmware and protocol mismatches
// and is far too verbose for normal logging.
type RawLogger interface {
	Log(dir string, data []byte)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing to w, or a no-op logger when w is nil.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w}
}

func (l *rawLogger) Log(dir string, data []byte) {
	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000000"))
	fmt.Fprintf(&b, " %s len=%d", dir, len(data))
	for _, c := range data {
		fmt.Fprintf(&b, " %02X", c)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, b.String())
}

type nopRaw struct{}

func (nopRaw) Log(string, []byte) {}
