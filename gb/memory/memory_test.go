package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteWholeRange(t *testing.T) {
	m := New()
	assert.Equal(t, uint8(0), m.Read(0x0000))

	m.Write(0x0000, 0x11)
	m.Write(0xFFFF, 0x22)
	assert.Equal(t, uint8(0x11), m.Read(0x0000))
	assert.Equal(t, uint8(0x22), m.Read(0xFFFF))
}

func TestSetBit(t *testing.T) {
	m := New()
	m.SetBit(0, 0xFF0F)
	m.SetBit(4, 0xFF0F)
	assert.Equal(t, uint8(0x11), m.Read(0xFF0F))
}

func TestLoadAt(t *testing.T) {
	m := New()
	m.LoadAt(0x0100, []byte{1, 2, 3})
	assert.Equal(t, uint8(1), m.Read(0x0100))
	assert.Equal(t, uint8(3), m.Read(0x0102))

	// data past the end of the address space is truncated
	m.LoadAt(0xFFFE, []byte{9, 9, 9, 9})
	assert.Equal(t, uint8(9), m.Read(0xFFFF))
}
