package panel

import (
	"fmt"
	"strconv"
)

// ID is a USB vendor or product id. It parses from hex with a 0x prefix or
// plain decimal, so both flags and config files can use the familiar form.
type ID uint16

func (i *ID) UnmarshalText(b []byte) error {
	v, err := strconv.ParseUint(string(b), 0, 16)
	if err != nil {
		return fmt.Errorf("invalid USB id %q: %w", b, err)
	}
	*i = ID(v)
	return nil
}

func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i ID) String() string {
	return fmt.Sprintf("0x%04x", uint16(i))
}
