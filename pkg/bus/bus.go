// Package bus implements the address-decoding indirection between the CPU
// and the memory subsystem.
//
// Today a Bus routes every access to a single DRAM region. It is shaped,
// the way the teacher VM's own address accessor is shaped around a single
// memory array, so that additional address regions (MMIO devices) can be
// added here later without the CPU ever having to change: the CPU only
// ever talks to a Bus, never to Memory directly.
package bus

import (
	"fmt"

	"rv64iemu/pkg/memory"
)

// Bus routes loads and stores to the memory region(s) it owns.
//
// Bus owns its Memory exclusively; there is no aliasing and no shared
// access. A Bus is not goroutine safe, matching the single-hart,
// single-threaded execution model of the CPU that owns it.
type Bus struct {
	dram *memory.Memory
}

// New creates a Bus fronting the given Memory.
func New(dram *memory.Memory) *Bus {
	return &Bus{dram: dram}
}

// Load reads a size-bit value at addr, routing the request to whichever
// region covers addr. Fails if no region claims the address.
func (b *Bus) Load(addr, size uint64) (uint64, error) {
	if b.inDRAM(addr) {
		return b.dram.Load(addr, size)
	}
	return 0, fmt.Errorf("bus: no region claims address %#x", addr)
}

// Store writes the low size bits of value at addr, routing the request to
// whichever region covers addr. Fails if no region claims the address.
func (b *Bus) Store(addr, size, value uint64) error {
	if b.inDRAM(addr) {
		return b.dram.Store(addr, size, value)
	}
	return fmt.Errorf("bus: no region claims address %#x", addr)
}

func (b *Bus) inDRAM(addr uint64) bool {
	return addr >= b.dram.Base() && addr < b.dram.Base()+b.dram.Size()
}
