package cockpit

import "fmt"

// Report geometry. These values are shared with the panel firmware.
const (
	NumAxes     = 8
	NumButtons  = 40
	ButtonBytes = (NumButtons + 7) / 8

	// ReportID is the leading byte of every feature record. The panel does not
	// use numbered reports, so it is always zero.
	ReportID byte = 0x00

	// ReportLength is the size of a feature record in either direction,
	// report id included.
	ReportLength = 1 + 2*NumAxes + ButtonBytes
)

// Button is a bit index into the button mask of a feature record.
type Button int

// Button bit positions, synchronized with the panel firmware.
const (
	ButtonAP          Button = 0
	ButtonFD          Button = 1
	ButtonAT          Button = 2
	ButtonLNAV        Button = 3
	ButtonVNAV        Button = 4
	ButtonFLCH        Button = 5
	ButtonHDGHold     Button = 6
	ButtonVSHold      Button = 7
	ButtonALTHold     Button = 8
	ButtonLOC         Button = 9
	ButtonAPP         Button = 10
	ButtonATDisengage Button = 11
)

// LED is a bit index into the button mask of a host-to-device record that the
// firmware maps onto an indicator lamp.
//
// The LED numbering follows the button numbering but is a separate contract:
// there is no FD lamp and no lamp for AT disengage.
type LED int

const (
	LedAP      LED = 0
	LedAT      LED = 2
	LedLNAV    LED = 3
	LedVNAV    LED = 4
	LedFLCH    LED = 5
	LedHDGHold LED = 6
	LedVSHold  LED = 7
	LedALTHold LED = 8
	LedLOC     LED = 9
	LedAPP     LED = 10
)

// Axis indices used by the simulator line protocol.
const (
	AxisAltHold = 1
)

var buttonNames = map[Button]string{
	ButtonAP:          "AP",
	ButtonFD:          "FD",
	ButtonAT:          "AT",
	ButtonLNAV:        "LNAV",
	ButtonVNAV:        "VNAV",
	ButtonFLCH:        "FLCH",
	ButtonHDGHold:     "HDG HOLD",
	ButtonVSHold:      "VS HOLD",
	ButtonALTHold:     "ALT HOLD",
	ButtonLOC:         "LOC",
	ButtonAPP:         "APP",
	ButtonATDisengage: "AT DISENGAGE",
}

var ledNames = map[LED]string{
	LedAP:      "AP",
	LedAT:      "AT",
	LedLNAV:    "LNAV",
	LedVNAV:    "VNAV",
	LedFLCH:    "FLCH",
	LedHDGHold: "HDG HOLD",
	LedVSHold:  "VS HOLD",
	LedALTHold: "ALT HOLD",
	LedLOC:     "LOC",
	LedAPP:     "APP",
}

// NamedButtons returns every button the firmware assigns, in bit order.
func NamedButtons() []Button {
	out := make([]Button, 0, len(buttonNames))
	for b := ButtonAP; b <= ButtonATDisengage; b++ {
		out = append(out, b)
	}
	return out
}

func (b Button) String() string {
	if n, ok := buttonNames[b]; ok {
		return n
	}
	return fmt.Sprintf("BTN%d", int(b))
}

// LEDs returns every indicator lamp in bit order.
func LEDs() []LED {
	return []LED{LedAP, LedAT, LedLNAV, LedVNAV, LedFLCH, LedHDGHold, LedVSHold, LedALTHold, LedLOC, LedAPP}
}

func (l LED) String() string {
	if n, ok := ledNames[l]; ok {
		return n
	}
	return "LED?"
}
