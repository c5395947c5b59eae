package cockpit

import (
	"encoding/binary"
	"io"
)

// Axes holds the absolute position of every panel axis, in firmware order.
type Axes [NumAxes]int16

// DeviceToHost is the panel snapshot returned by a GET_FEATURE request.
//
// Wire format: fixed 22 bytes, little-endian.
//
//	0:     report id
//	1-16:  axis 0..7 (LE int16)
//	17-21: button mask
type DeviceToHost struct {
	Axes    Axes
	Buttons Buttons
}

// HostToDevice is the command sent to the panel with SET_FEATURE. The field
// order is mirrored compared to DeviceToHost; the firmware expects it this way.
//
// Wire format: fixed 22 bytes, little-endian.
//
//	0:     report id
//	1-5:   button mask
//	6-21:  axis 0..7 (LE int16)
type HostToDevice struct {
	Buttons Buttons
	Axes    Axes
}

// Record is one feature report as exchanged with the panel, report id first.
type Record [ReportLength]byte

const (
	deviceAxesOff    = 1
	deviceButtonsOff = deviceAxesOff + 2*NumAxes
	hostButtonsOff   = 1
	hostAxesOff      = hostButtonsOff + ButtonBytes
)

// Record encodes the snapshot in the device-to-host layout.
func (m DeviceToHost) Record() Record {
	var r Record
	r[0] = ReportID
	putAxes(r[deviceAxesOff:deviceButtonsOff], m.Axes)
	copy(r[deviceButtonsOff:], m.Buttons[:])
	return r
}

// MarshalBinary implements encoding.BinaryMarshaler on top of Record.
func (m DeviceToHost) MarshalBinary() ([]byte, error) {
	r := m.Record()
	return r[:], nil
}

// UnmarshalBinary decodes a device-to-host record. The report id is ignored.
func (m *DeviceToHost) UnmarshalBinary(data []byte) error {
	if len(data) < ReportLength {
		return io.ErrUnexpectedEOF
	}
	m.Axes = getAxes(data[deviceAxesOff:deviceButtonsOff])
	copy(m.Buttons[:], data[deviceButtonsOff:ReportLength])
	return nil
}

// Record encodes the command in the host-to-device layout.
func (m HostToDevice) Record() Record {
	var r Record
	r[0] = ReportID
	copy(r[hostButtonsOff:hostAxesOff], m.Buttons[:])
	putAxes(r[hostAxesOff:], m.Axes)
	return r
}

// MarshalBinary implements encoding.BinaryMarshaler on top of Record.
func (m HostToDevice) MarshalBinary() ([]byte, error) {
	r := m.Record()
	return r[:], nil
}

// UnmarshalBinary decodes a host-to-device record. The report id is ignored.
func (m *HostToDevice) UnmarshalBinary(data []byte) error {
	if len(data) < ReportLength {
		return io.ErrUnexpectedEOF
	}
	copy(m.Buttons[:], data[hostButtonsOff:hostAxesOff])
	m.Axes = getAxes(data[hostAxesOff:ReportLength])
	return nil
}

func putAxes(b []byte, a Axes) {
	for i, v := range a {
		binary.LittleEndian.PutUint16(b[2*i:2*i+2], uint16(v))
	}
}

func getAxes(b []byte) Axes {
	var a Axes
	for i := range a {
		a[i] = int16(binary.LittleEndian.Uint16(b[2*i : 2*i+2]))
	}
	return a
}
