// Package generic implements the line protocol spoken with the simulator's
// generic I/O protocol: one datagram per line, fields separated by commas.
//
// The field order mirrors the simulator-side protocol definition files and
// must not change without changing those:
//
//	inbound  (simulator -> bridge): <fdFlag>,<altHold>\n
//	outbound (bridge -> simulator): <fdState>,<altHold>\n
package generic

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/Alia5/cockpitbridge/device/cockpit"
)

// MaxLineLength is the largest line either side will exchange.
const MaxLineLength = 1024

// ErrLineTooLong is returned by Format when the encoded line does not fit in
// MaxLineLength bytes.
var ErrLineTooLong = errors.New("generic: line exceeds maximum length")

// ParseError describes a simulator line that does not match the protocol.
type ParseError struct {
	Line  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("generic: malformed line %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("generic: malformed line %q: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissingSeparator = errors.New("missing ',' separator")

// Parse decodes an inbound simulator line into a host-to-device command.
// The flight director flag drives the FD button bit and the ALT HOLD value
// goes to its axis; every other field of the command stays zero.
func Parse(line []byte) (cockpit.HostToDevice, error) {
	var m cockpit.HostToDevice

	fd, alt, ok := bytes.Cut(line, []byte{','})
	if !ok {
		return m, &ParseError{Line: string(line), Err: errMissingSeparator}
	}

	flag, err := strconv.Atoi(string(bytes.TrimSpace(fd)))
	if err != nil {
		return m, &ParseError{Line: string(line), Field: "fd", Err: numError(err)}
	}
	altHold, err := strconv.ParseInt(string(bytes.TrimSpace(alt)), 10, 16)
	if err != nil {
		return m, &ParseError{Line: string(line), Field: "altHold", Err: numError(err)}
	}

	m.Buttons = m.Buttons.Put(int(cockpit.ButtonFD), flag != 0)
	m.Axes[cockpit.AxisAltHold] = int16(altHold)
	return m, nil
}

// Format encodes a panel snapshot as an outbound simulator line, trailing
// newline included.
func Format(m cockpit.DeviceToHost) ([]byte, error) {
	b := make([]byte, 0, 16)
	if m.Buttons.Get(int(cockpit.ButtonFD)) {
		b = append(b, '1')
	} else {
		b = append(b, '0')
	}
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(m.Axes[cockpit.AxisAltHold]), 10)
	b = append(b, '\n')

	if len(b) > MaxLineLength {
		return nil, ErrLineTooLong
	}
	return b, nil
}

// numError drops strconv's own function/input prefix; ParseError already
// carries the line.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
