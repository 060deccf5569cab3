// Package joypad models the P1 button matrix. The register is active
// low: a zero bit means pressed, and bits 4-5 select which button group
// appears in the low nibble.
package joypad

// Button identifies one of the eight inputs. The first four form the
// direction group, the rest the action group.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

func (b Button) String() string {
	switch b {
	case Right:
		return "right"
	case Left:
		return "left"
	case Up:
		return "up"
	case Down:
		return "down"
	case A:
		return "a"
	case B:
		return "b"
	case Select:
		return "select"
	case Start:
		return "start"
	}
	return "unknown"
}

const (
	selectDirections = 0x10 // P1 bit 4, active low
	selectActions    = 0x20 // P1 bit 5, active low
)

// Joypad tracks the raw button states and the group selection.
type Joypad struct {
	p1      byte
	pressed [8]bool
}

// New returns a joypad with nothing pressed and no group selected.
func New() *Joypad {
	return &Joypad{p1: 0xFF}
}

// Write updates the group-select bits; the rest of P1 is not writable.
func (j *Joypad) Write(value byte) {
	j.p1 = (j.p1 &^ (selectDirections | selectActions)) | (value & (selectDirections | selectActions))
}

// Read returns P1 with the selected group's states in the low nibble,
// active low.
func (j *Joypad) Read() byte {
	result := j.p1 & 0xF0
	if j.p1&selectDirections == 0 {
		result |= j.groupNibble(Right)
	}
	if j.p1&selectActions == 0 {
		result |= j.groupNibble(A)
	}
	return result
}

// groupNibble packs four button states starting at first, active low.
func (j *Joypad) groupNibble(first Button) byte {
	nibble := byte(0x0F)
	for i := 0; i < 4; i++ {
		if j.pressed[first+Button(i)] {
			nibble &^= 1 << i
		}
	}
	return nibble
}

// SetButton records a button state change and reports whether a joypad
// interrupt should be requested: a fresh press while the button's group
// is selected.
func (j *Joypad) SetButton(b Button, pressed bool) bool {
	wasPressed := j.pressed[b]
	j.pressed[b] = pressed
	if wasPressed || !pressed {
		return false
	}
	if b <= Down {
		return j.p1&selectDirections == 0
	}
	return j.p1&selectActions == 0
}
