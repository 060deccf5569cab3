// Package serial models the link-cable port. There is no cable on the
// other end: outgoing bytes are collected into lines and logged, which is
// how test ROMs report results.
package serial

import (
	"fmt"
	"log/slog"

	"github.com/Renz456/GameBoy/gb/addr"
)

// transferCycles is how long a started transfer takes to complete.
const transferCycles = 4096

// Port is the serial transfer unit (SB data, SC control).
type Port struct {
	sb byte
	sc byte

	clock  int
	active bool

	logger *slog.Logger
	line   []byte
}

func New() *Port {
	return &Port{logger: slog.Default()}
}

// Read returns SB or SC. Any other address is a routing bug in the caller.
func (p *Port) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return p.sb
	case addr.SC:
		return p.sc
	}
	panic(fmt.Sprintf("serial: read of non-serial address 0x%04X", address))
}

// Write stores SB or SC. Setting SC bit 7 starts a transfer of the byte
// currently in SB.
func (p *Port) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		p.sb = value
	case addr.SC:
		p.sc = value
		if value&0x80 != 0 {
			p.active = true
			p.clock = 0
			p.capture(p.sb)
		}
	default:
		panic(fmt.Sprintf("serial: write of non-serial address 0x%04X", address))
	}
}

// Tick advances an active transfer and reports whether it completed this
// step; completion clears SC bit 7 and requests the serial interrupt.
func (p *Port) Tick(cycles int) bool {
	if !p.active {
		return false
	}
	p.clock += cycles
	if p.clock < transferCycles {
		return false
	}
	p.active = false
	p.sc &^= 0x80
	return true
}

// capture buffers an outgoing byte and logs whole lines.
func (p *Port) capture(value byte) {
	if value == '\n' {
		p.flush()
		return
	}
	p.line = append(p.line, value)
}

func (p *Port) flush() {
	if len(p.line) == 0 {
		return
	}
	p.logger.Info("serial output", "line", string(p.line))
	p.line = p.line[:0]
}
