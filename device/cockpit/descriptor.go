package cockpit

import "github.com/Alia5/cockpitbridge/usb/hid"

// ReportDescriptor describes the panel's feature report as the firmware
// declares it: eight signed 16-bit axes followed by 40 one-bit buttons, no
// report id. It matches the device-to-host layout; the firmware reads the
// host-to-device record with the button mask first.
func ReportDescriptor() hid.Report {
	return hid.Report{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageJoystick},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.UsageMinimum{Min: hid.UsageX},
			hid.UsageMaximum{Max: hid.UsageDial},
			hid.LogicalMinimum{Min: -32768},
			hid.LogicalMaximum{Max: 32767},
			hid.ReportSize{Bits: 16},
			hid.ReportCount{Count: NumAxes},
			hid.Feature{Flags: hid.MainData | hid.MainVar | hid.MainAbs},

			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: NumButtons},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: NumButtons},
			hid.Feature{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
		}},
	}}
}
