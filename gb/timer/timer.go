// Package timer models the DIV/TIMA timer unit.
package timer

import (
	"fmt"

	"github.com/Renz456/GameBoy/gb/addr"
)

// timaPeriods maps TAC bits 0-1 to the cycle count per TIMA increment.
var timaPeriods = [4]int{1024, 16, 64, 256}

const divPeriod = 256

// Timer counts elapsed CPU cycles into the DIV and TIMA registers.
type Timer struct {
	div  byte
	tima byte
	tma  byte
	tac  byte

	divClock  int
	timaClock int
}

func New() *Timer {
	return &Timer{}
}

// Read returns one of the four timer registers. Any other address is a
// routing bug in the caller.
func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	}
	panic(fmt.Sprintf("timer: read of non-timer address 0x%04X", address))
}

// Write stores a timer register. Writing DIV stores the value directly
// rather than resetting the counter.
func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.div = value
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value
	default:
		panic(fmt.Sprintf("timer: write of non-timer address 0x%04X", address))
	}
}

// enabled reports whether TIMA counting is on (TAC bit 2).
func (t *Timer) enabled() bool {
	return t.tac&0x04 != 0
}

// Tick advances the timer by the cycles the CPU just consumed and
// reports whether a timer interrupt should be requested. On TIMA
// overflow the counter reloads from TMA.
func (t *Timer) Tick(cycles int) bool {
	requested := false

	t.divClock += cycles
	for t.divClock >= divPeriod {
		t.div++
		t.divClock -= divPeriod
	}

	if !t.enabled() {
		return false
	}

	period := timaPeriods[t.tac&0x03]
	t.timaClock += cycles
	for t.timaClock >= period {
		t.timaClock -= period
		t.tima++
		if t.tima == 0 {
			t.tima = t.tma
			requested = true
		}
	}
	return requested
}
