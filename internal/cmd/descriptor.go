package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Alia5/cockpitbridge/device/cockpit"
	"github.com/Alia5/cockpitbridge/usb/hid"
)

// Descriptor prints the HID report descriptor the panel firmware is expected
// to declare, or with --read the one the attached panel actually declares,
// checked against the expected feature report.
type Descriptor struct {
	Read bool `help:"Read the descriptor from the attached panel and check it"`

	out io.Writer
}

// descriptorSource is the part of panel.Panel the descriptor check needs.
type descriptorSource interface {
	ReportDescriptor() ([]byte, error)
}

// Run is called by Kong when the descriptor command is executed.
func (c *Descriptor) Run(g *Globals, logger *slog.Logger) error {
	w := c.out
	if w == nil {
		w = os.Stdout
	}
	if !c.Read {
		want, err := cockpit.ReportDescriptor().Bytes()
		if err != nil {
			return err
		}
		return printDescriptor(w, want)
	}

	p, closePanel, err := g.Panel.open(logger)
	if err != nil {
		return err
	}
	defer closePanel()
	return checkDescriptor(p, w, logger)
}

var (
	errNumberedReports = errors.New("panel declares numbered reports, records carry report id 0")
	errFeatureSize     = errors.New("panel feature report size differs")
)

// checkDescriptor prints the panel's descriptor and fails unless it declares
// the feature report the bridge exchanges. Byte differences alone are only
// logged, since firmware may order items differently.
func checkDescriptor(src descriptorSource, w io.Writer, logger *slog.Logger) error {
	got, err := src.ReportDescriptor()
	if err != nil {
		return err
	}
	if err := printDescriptor(w, got); err != nil {
		return err
	}

	want := cockpit.ReportDescriptor()
	wantBytes, err := want.Bytes()
	if err != nil {
		return err
	}
	if bytes.Equal(got, wantBytes) {
		logger.Info("Panel descriptor matches")
		return nil
	}

	bits, ids, err := hid.ScanFeatureBits(got)
	if err != nil {
		return err
	}
	if ids {
		return errNumberedReports
	}
	if bits != want.FeatureBits() {
		return fmt.Errorf("%w: %d bits, want %d", errFeatureSize, bits, want.FeatureBits())
	}
	logger.Warn("Panel descriptor differs from the expected one but declares the same feature report",
		"bytes", len(got), "featureBits", bits)
	return nil
}

func printDescriptor(w io.Writer, b []byte) error {
	header := fmt.Sprintf("// %d bytes", len(b))
	if bits, ids, err := hid.ScanFeatureBits(b); err == nil && !ids {
		header += fmt.Sprintf(", feature report %d bytes + report id", bits/8)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for off := 0; off < len(b); off += 8 {
		end := min(off+8, len(b))
		row := make([]string, 0, end-off)
		for _, v := range b[off:end] {
			row = append(row, fmt.Sprintf("0x%02X,", v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, " ")); err != nil {
			return err
		}
	}
	return nil
}
