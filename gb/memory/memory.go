// Package memory provides the flat 64KB address space shared by the CPU
// and PPU. No region semantics are enforced here; which component owns a
// given address range is decided by the callers (see gb.GameBoy).
package memory

// Memory is a flat 64KB byte array addressed 0x0000-0xFFFF.
type Memory struct {
	data [0x10000]byte
}

// New returns zeroed memory, equivalent to the power-on state.
func New() *Memory {
	return &Memory{}
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m.data[address]
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address] = value
}

// SetBit sets a single bit of the byte at the given address.
func (m *Memory) SetBit(index uint8, address uint16) {
	m.data[address] |= 1 << index
}

// LoadAt copies data into memory starting at the given address. Data that
// would run past the end of the address space is truncated.
func (m *Memory) LoadAt(address uint16, data []byte) {
	copy(m.data[address:], data)
}
