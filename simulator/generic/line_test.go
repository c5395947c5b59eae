package generic_test

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/simulator/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		line    string
		fd      bool
		altHold int16
	}

	cases := []testCase{
		{name: "fd on", line: "1,1500\n", fd: true, altHold: 1500},
		{name: "fd off negative", line: "0,-200\n", fd: false, altHold: -200},
		{name: "nonzero flag is on", line: "7,0\n", fd: true, altHold: 0},
		{name: "no newline", line: "1,42", fd: true, altHold: 42},
		{name: "crlf and spaces", line: " 0 , 12 \r\n", fd: false, altHold: 12},
		{name: "int16 bounds", line: "1,-32768\n", fd: true, altHold: -32768},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := generic.Parse([]byte(tc.line))
			require.NoError(t, err)
			assert.Equal(t, tc.fd, m.Buttons.Get(int(cockpit.ButtonFD)))
			assert.Equal(t, tc.altHold, m.Axes[cockpit.AxisAltHold])

			// nothing else is touched
			want := cockpit.HostToDevice{}
			want.Buttons = want.Buttons.Put(int(cockpit.ButtonFD), tc.fd)
			want.Axes[cockpit.AxisAltHold] = tc.altHold
			assert.Equal(t, want, m)
		})
	}
}

func TestParseErrors(t *testing.T) {
	type testCase struct {
		name  string
		line  string
		field string
	}

	cases := []testCase{
		{name: "garbage", line: "garbage", field: ""},
		{name: "empty", line: "", field: ""},
		{name: "non numeric flag", line: "x,100\n", field: "fd"},
		{name: "empty flag", line: ",100\n", field: "fd"},
		{name: "non numeric alt", line: "1,abc\n", field: "altHold"},
		{name: "extra field", line: "1,2,3\n", field: "altHold"},
		{name: "alt overflows int16", line: "1,40000\n", field: "altHold"},
		{name: "float alt", line: "1,1500.0\n", field: "altHold"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := generic.Parse([]byte(tc.line))
			var pe *generic.ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, tc.line, pe.Line)
			assert.Equal(t, tc.field, pe.Field)
			assert.Contains(t, pe.Error(), "malformed line")
		})
	}
}

func TestParseRangeError(t *testing.T) {
	_, err := generic.Parse([]byte("1,99999\n"))
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestFormat(t *testing.T) {
	type testCase struct {
		name     string
		msg      cockpit.DeviceToHost
		expected string
	}

	var fd cockpit.Buttons
	fd = fd.Set(int(cockpit.ButtonFD))
	var others cockpit.Buttons
	others = others.Set(int(cockpit.ButtonAP)).Set(int(cockpit.ButtonALTHold)).Set(39)

	cases := []testCase{
		{name: "zero", msg: cockpit.DeviceToHost{}, expected: "0,0\n"},
		{name: "fd and alt", msg: cockpit.DeviceToHost{Buttons: fd, Axes: cockpit.Axes{0, 1500}}, expected: "1,1500\n"},
		{name: "negative", msg: cockpit.DeviceToHost{Axes: cockpit.Axes{0, -32768}}, expected: "0,-32768\n"},
		{name: "other buttons ignored", msg: cockpit.DeviceToHost{Buttons: others, Axes: cockpit.Axes{9, 7, 9}}, expected: "0,7\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := generic.Format(tc.msg)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(got))
			assert.Equal(t, 1, bytes.Count(got, []byte{','}))
			assert.Equal(t, 1, bytes.Count(got, []byte{'\n'}))
			assert.True(t, bytes.HasSuffix(got, []byte{'\n'}))
			assert.LessOrEqual(t, len(got), generic.MaxLineLength)
		})
	}
}

func TestFormatParsesBack(t *testing.T) {
	for _, v := range []int16{-32768, -200, 0, 1, 1500, 32767} {
		for _, on := range []bool{false, true} {
			var d cockpit.DeviceToHost
			d.Buttons = d.Buttons.Put(int(cockpit.ButtonFD), on)
			d.Axes[cockpit.AxisAltHold] = v

			line, err := generic.Format(d)
			require.NoError(t, err)
			h, err := generic.Parse(line)
			require.NoError(t, err)
			assert.Equal(t, on, h.Buttons.Get(int(cockpit.ButtonFD)))
			assert.Equal(t, v, h.Axes[cockpit.AxisAltHold])
		}
	}
}

func TestDeviceRecordToLine(t *testing.T) {
	rec := []byte{
		0x00,
		0x00, 0x00, 0xDC, 0x05, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x00,
	}

	var m cockpit.DeviceToHost
	require.NoError(t, m.UnmarshalBinary(rec))
	line, err := generic.Format(m)
	require.NoError(t, err)
	assert.Equal(t, "1,1500\n", string(line))
}
