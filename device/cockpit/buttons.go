package cockpit

import "fmt"

// Buttons is the packed button mask carried by both record layouts.
// Button i lives in byte i/8 at bit i%8, least significant bit first.
type Buttons [ButtonBytes]byte

// Set returns a copy of b with button i pressed.
func (b Buttons) Set(i int) Buttons {
	idx, mask := bitPos(i)
	b[idx] |= mask
	return b
}

// Clear returns a copy of b with button i released.
func (b Buttons) Clear(i int) Buttons {
	idx, mask := bitPos(i)
	b[idx] &^= mask
	return b
}

// Put sets or clears button i depending on on.
func (b Buttons) Put(i int, on bool) Buttons {
	if on {
		return b.Set(i)
	}
	return b.Clear(i)
}

// Get reports whether button i is pressed.
func (b Buttons) Get(i int) bool {
	idx, mask := bitPos(i)
	return b[idx]&mask != 0
}

// bitPos panics on an out of range index: a bad index is a bug in the
// caller, never something to clamp or wrap.
func bitPos(i int) (int, byte) {
	if i < 0 || i >= NumButtons {
		panic(fmt.Sprintf("cockpit: button index %d out of range [0,%d)", i, NumButtons))
	}
	return i / 8, 1 << uint(i%8)
}
