// Package hid provides a structured representation of HID report descriptors.
//
// A HID report descriptor is a byte-coded DSL. This package models the subset
// a feature-report-only panel needs as a tree of Go structs (including nested
// collections) and encodes it to the exact descriptor byte stream. It can also
// size the feature report, both for a Report built here and for raw
// descriptor bytes read back from a device, which is what the host side has to
// agree on with the firmware.
package hid

import (
	"errors"
	"fmt"
)

// Data is a strongly-typed byte slice used for HID report descriptor payloads.
type Data []uint8

// ItemType is the HID short item "type" field.
// HID 1.11 item types: Main=0, Global=1, Local=2, Reserved=3.
type ItemType uint8

const (
	ItemTypeMain     ItemType = 0
	ItemTypeGlobal   ItemType = 1
	ItemTypeLocal    ItemType = 2
	ItemTypeReserved ItemType = 3
)

// Short item tags, per item type.
const (
	tagFeature       uint8 = 0xB
	tagCollection    uint8 = 0xA
	tagEndCollection uint8 = 0xC

	tagUsagePage      uint8 = 0x0
	tagLogicalMinimum uint8 = 0x1
	tagLogicalMaximum uint8 = 0x2
	tagReportSize     uint8 = 0x7
	tagReportID       uint8 = 0x8
	tagReportCount    uint8 = 0x9
	tagPush           uint8 = 0xA
	tagPop            uint8 = 0xB

	tagUsage        uint8 = 0x0
	tagUsageMinimum uint8 = 0x1
	tagUsageMaximum uint8 = 0x2
)

// longItemPrefix marks a long item; its size and tag follow in two bytes.
const longItemPrefix = 0xFE

// Item is one node in a HID report descriptor.
type Item interface {
	encode(e *encoder) error
}

// Report is a complete HID report descriptor (type 0x22).
type Report struct {
	Items []Item
}

// Bytes encodes the report descriptor.
func (r Report) Bytes() (Data, error) {
	e := &encoder{}
	for _, it := range r.Items {
		if it == nil {
			return nil, fmt.Errorf("hid: nil item")
		}
		if err := it.encode(e); err != nil {
			return nil, err
		}
	}
	return Data(e.buf), nil
}

// FeatureBits returns the payload size in bits of the feature report declared
// by r, not counting a report id.
func (r Report) FeatureBits() int {
	m := &meter{}
	m.walk(r.Items)
	return m.feature
}

// UsagePage sets the current usage page (Global item).
type UsagePage struct{ Page uint16 }

func (u UsagePage) encode(e *encoder) error {
	return e.short(tagUsagePage, ItemTypeGlobal, dataU32(uint32(u.Page)))
}

// Usage sets the current usage (Local item).
type Usage struct{ Usage uint16 }

func (u Usage) encode(e *encoder) error {
	return e.short(tagUsage, ItemTypeLocal, dataU32(uint32(u.Usage)))
}

// Collection opens a collection and closes it after Items.
type Collection struct {
	Kind  CollectionKind
	Items []Item
}

func (c Collection) encode(e *encoder) error {
	if err := e.short(tagCollection, ItemTypeMain, Data{uint8(c.Kind)}); err != nil {
		return err
	}
	for _, it := range c.Items {
		if it == nil {
			return fmt.Errorf("hid: nil item in collection")
		}
		if err := it.encode(e); err != nil {
			return err
		}
	}
	return e.short(tagEndCollection, ItemTypeMain, nil)
}

// UsageMinimum and UsageMaximum assign a usage range to the fields of the
// next main item, one usage per field.
type UsageMinimum struct{ Min uint16 }

func (u UsageMinimum) encode(e *encoder) error {
	return e.short(tagUsageMinimum, ItemTypeLocal, dataU32(uint32(u.Min)))
}

type UsageMaximum struct{ Max uint16 }

func (u UsageMaximum) encode(e *encoder) error {
	return e.short(tagUsageMaximum, ItemTypeLocal, dataU32(uint32(u.Max)))
}

// LogicalMinimum is encoded signed, in the fewest bytes that hold it.
type LogicalMinimum struct{ Min int32 }

func (l LogicalMinimum) encode(e *encoder) error {
	return e.short(tagLogicalMinimum, ItemTypeGlobal, dataI32(l.Min))
}

type LogicalMaximum struct{ Max int32 }

func (l LogicalMaximum) encode(e *encoder) error {
	return e.short(tagLogicalMaximum, ItemTypeGlobal, dataI32(l.Max))
}

// ReportSize is the width of one field in bits.
type ReportSize struct{ Bits uint8 }

func (r ReportSize) encode(e *encoder) error {
	return e.short(tagReportSize, ItemTypeGlobal, Data{r.Bits})
}

// ReportCount is the number of fields the next main item declares.
type ReportCount struct{ Count uint16 }

func (r ReportCount) encode(e *encoder) error {
	return e.short(tagReportCount, ItemTypeGlobal, dataU32(uint32(r.Count)))
}

// Feature declares ReportCount fields of ReportSize bits in the feature
// report, exchanged with SET_FEATURE/GET_FEATURE.
type Feature struct{ Flags MainFlags }

func (f Feature) encode(e *encoder) error {
	return e.short(tagFeature, ItemTypeMain, Data{uint8(f.Flags)})
}

// meter tracks the global ReportSize/ReportCount state while walking items.
// Globals are not scoped by collections, so nested items share it.
type meter struct {
	size, count int
	feature     int
}

func (m *meter) walk(items []Item) {
	for _, it := range items {
		switch v := it.(type) {
		case ReportSize:
			m.size = int(v.Bits)
		case ReportCount:
			m.count = int(v.Count)
		case Feature:
			m.feature += m.size * m.count
		case Collection:
			m.walk(v.Items)
		}
	}
}

// ErrTruncated is returned by ScanFeatureBits when an item runs past the end
// of the descriptor.
var ErrTruncated = errors.New("hid: truncated report descriptor")

// ScanFeatureBits sizes the feature report declared by raw descriptor bytes,
// as read back from a device. usesReportIDs is true when the descriptor
// declares numbered reports, in which case bits is the sum over all of them.
func ScanFeatureBits(d Data) (bits int, usesReportIDs bool, err error) {
	var (
		m     meter
		stack []meter
	)
	for i := 0; i < len(d); {
		b := d[i]
		if b == longItemPrefix {
			if i+1 >= len(d) {
				return 0, false, ErrTruncated
			}
			i += 3 + int(d[i+1])
			if i > len(d) {
				return 0, false, ErrTruncated
			}
			continue
		}

		n := int(b & 0x3)
		if n == 3 {
			n = 4
		}
		if i+1+n > len(d) {
			return 0, false, ErrTruncated
		}
		var v int
		for k := n - 1; k >= 0; k-- {
			v = v<<8 | int(d[i+1+k])
		}
		i += 1 + n

		tag, typ := b>>4, ItemType(b>>2&0x3)
		switch {
		case typ == ItemTypeGlobal && tag == tagReportSize:
			m.size = v
		case typ == ItemTypeGlobal && tag == tagReportCount:
			m.count = v
		case typ == ItemTypeGlobal && tag == tagReportID:
			usesReportIDs = true
		case typ == ItemTypeGlobal && tag == tagPush:
			stack = append(stack, m)
		case typ == ItemTypeGlobal && tag == tagPop:
			if len(stack) == 0 {
				return 0, false, fmt.Errorf("hid: pop without push at offset %d", i-1-n)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m.size, m.count = top.size, top.count
		case typ == ItemTypeMain && tag == tagFeature:
			m.feature += m.size * m.count
		}
	}
	return m.feature, usesReportIDs, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) short(tag uint8, typ ItemType, data Data) error {
	n := len(data)
	var sizeCode uint8
	switch n {
	case 0:
		sizeCode = 0
	case 1:
		sizeCode = 1
	case 2:
		sizeCode = 2
	case 4:
		sizeCode = 3
	default:
		return fmt.Errorf("hid: short item data must be 0/1/2/4 bytes, got %d", n)
	}
	header := (tag << 4) | (uint8(typ) << 2) | sizeCode
	e.buf = append(e.buf, header)
	e.buf = append(e.buf, data...)
	return nil
}

func dataU32(v uint32) Data {
	if v <= 0xFF {
		return Data{uint8(v)}
	}
	if v <= 0xFFFF {
		return Data{uint8(v), uint8(v >> 8)}
	}
	return Data{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func dataI32(v int32) Data {
	if v >= -128 && v <= 127 {
		return Data{uint8(v)}
	}
	if v >= -32768 && v <= 32767 {
		uv := uint16(int16(v))
		return Data{uint8(uv), uint8(uv >> 8)}
	}
	uv := uint32(v)
	return Data{uint8(uv), uint8(uv >> 8), uint8(uv >> 16), uint8(uv >> 24)}
}
