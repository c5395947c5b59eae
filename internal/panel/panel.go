// Package panel opens the cockpit panel through hidapi.
package panel

import (
	"errors"
	"fmt"

	"github.com/sstallion/go-hid"
)

// Default USB ids of the panel firmware.
const (
	DefaultVendorID  ID = 0x03eb
	DefaultProductID ID = 0x2043
)

// Config selects which HID device to open. Path wins over the ids; Serial
// narrows the ids to one unit.
type Config struct {
	VendorID  ID
	ProductID ID
	Serial    string
	Path      string
}

// Info describes an attached HID device.
type Info struct {
	Path         string
	VendorID     ID
	ProductID    ID
	Serial       string
	Manufacturer string
	Product      string
	Interface    int
}

func (i Info) String() string {
	return fmt.Sprintf("%s: ID %04x:%04x %s %s serial=%q", i.Path, uint16(i.VendorID), uint16(i.ProductID), i.Manufacturer, i.Product, i.Serial)
}

func infoFrom(d *hid.DeviceInfo) Info {
	return Info{
		Path:         d.Path,
		VendorID:     ID(d.VendorID),
		ProductID:    ID(d.ProductID),
		Serial:       d.SerialNbr,
		Manufacturer: d.MfrStr,
		Product:      d.ProductStr,
		Interface:    d.InterfaceNbr,
	}
}

// Init initializes hidapi. Call Exit when done with every panel.
func Init() error { return hid.Init() }

// Exit releases hidapi.
func Exit() error { return hid.Exit() }

// Panel is an open panel. It satisfies bridge.Device.
type Panel struct {
	dev  *hid.Device
	info Info
}

// Open opens the panel selected by cfg.
func Open(cfg Config) (*Panel, error) {
	var (
		dev *hid.Device
		err error
	)
	switch {
	case cfg.Path != "":
		dev, err = hid.OpenPath(cfg.Path)
	case cfg.Serial != "":
		dev, err = hid.Open(uint16(cfg.VendorID), uint16(cfg.ProductID), cfg.Serial)
	default:
		dev, err = hid.OpenFirst(uint16(cfg.VendorID), uint16(cfg.ProductID))
	}
	if err != nil {
		return nil, fmt.Errorf("open panel %04x:%04x: %w", uint16(cfg.VendorID), uint16(cfg.ProductID), err)
	}

	p := &Panel{dev: dev, info: Info{Path: cfg.Path, VendorID: cfg.VendorID, ProductID: cfg.ProductID, Serial: cfg.Serial}}
	if di, err := dev.GetDeviceInfo(); err == nil {
		p.info = infoFrom(di)
	}
	return p, nil
}

// Info returns what hidapi reported about the panel when it was opened.
func (p *Panel) Info() Info { return p.info }

// SendFeatureReport sends a SET_FEATURE request. b[0] is the report id.
func (p *Panel) SendFeatureReport(b []byte) (int, error) {
	return p.dev.SendFeatureReport(b)
}

// GetFeatureReport issues a GET_FEATURE request for the report id in b[0]
// and fills b with the answer, report id included.
func (p *Panel) GetFeatureReport(b []byte) (int, error) {
	return p.dev.GetFeatureReport(b)
}

// maxReportDescriptorSize is hidapi's HID_API_MAX_REPORT_DESCRIPTOR_SIZE.
const maxReportDescriptorSize = 4096

// ReportDescriptor reads the HID report descriptor the panel firmware declares.
func (p *Panel) ReportDescriptor() ([]byte, error) {
	buf := make([]byte, maxReportDescriptorSize)
	n, err := p.dev.GetReportDescriptor(buf)
	if err != nil {
		return nil, fmt.Errorf("read report descriptor: %w", err)
	}
	return buf[:n], nil
}

// Close closes the device handle.
func (p *Panel) Close() error {
	return p.dev.Close()
}

// ErrNotFound is returned by List when no device matches.
var ErrNotFound = errors.New("panel: no matching HID device")

// List enumerates attached HID devices matching vid/pid. Zero ids match
// anything.
func List(vid, pid ID) ([]Info, error) {
	var out []Info
	err := hid.Enumerate(uint16(vid), uint16(pid), func(d *hid.DeviceInfo) error {
		out = append(out, infoFrom(d))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
