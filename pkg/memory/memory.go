// Package memory implements the emulator's simulated main memory (DRAM).
//
// A Memory is a contiguous byte array of fixed capacity mapped at a fixed
// base address. It exposes width-parameterised little-endian load and
// store, the same shape as the teacher VM's own address-space accessor,
// generalised from a single fixed-size word array to an arbitrary byte
// array addressed by width.
package memory

import "fmt"

const (
	// Base is the fixed address at which DRAM is mapped.
	Base = uint64(0x8000_0000)

	// Size is the DRAM capacity in bytes (128 MiB).
	Size = uint64(1024 * 1024 * 128)
)

// The following errors may be returned by Load and Store.
var (
	// ErrOutOfRange indicates that the requested address (or the range
	// covered by the requested width) falls outside the mapped region.
	ErrOutOfRange = fmt.Errorf("memory: address out of range")

	// ErrUnsupportedWidth indicates that the requested width is not one
	// of the supported 8/16/32/64 bit accesses. The decoder never issues
	// such a request; this check is defensive.
	ErrUnsupportedWidth = fmt.Errorf("memory: unsupported access width")
)

// Memory is a byte-addressable DRAM region of fixed size and base address.
//
// The zero value is not usable; construct with New. Memory is not
// goroutine safe -- a single CPU owns it via a Bus, single-threaded.
type Memory struct {
	base uint64
	data []byte
}

// New creates a Memory of the given base address and size, with the
// initial contents of image placed at offset 0 (i.e. at address base) and
// the remainder zeroed. It returns an error if image is larger than size.
func New(base, size uint64, image []byte) (*Memory, error) {
	if uint64(len(image)) > size {
		return nil, fmt.Errorf("memory: image of %d bytes exceeds capacity %d", len(image), size)
	}
	data := make([]byte, size)
	copy(data, image)
	return &Memory{base: base, data: data}, nil
}

// Base returns the memory's mapped base address.
func (m *Memory) Base() uint64 {
	return m.base
}

// Size returns the memory's capacity in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Contains reports whether the half-open byte range [addr, addr+width)
// falls entirely within the mapped region.
func (m *Memory) Contains(addr, width uint64) bool {
	if addr < m.base {
		return false
	}
	off := addr - m.base
	return width <= uint64(len(m.data)) && off <= uint64(len(m.data))-width
}

// Load reads a size-bit (size in {8,16,32,64}) little-endian value at addr
// and zero-extends it to 64 bits. Sign extension, if required by the
// caller's instruction semantics, is the CPU's responsibility, not
// Memory's.
func (m *Memory) Load(addr, size uint64) (uint64, error) {
	width, err := widthBytes(size)
	if err != nil {
		return 0, err
	}
	if !m.Contains(addr, width) {
		return 0, fmt.Errorf("%w: load addr=%#x size=%d", ErrOutOfRange, addr, size)
	}
	off := addr - m.base
	var value uint64
	for i := uint64(0); i < width; i++ {
		value |= uint64(m.data[off+i]) << (8 * i)
	}
	return value, nil
}

// Store writes the low size bits of value at addr in little-endian byte
// order. Unaligned addresses are supported by assembling the value
// byte-by-byte rather than issuing a host-width store at the guest
// address.
func (m *Memory) Store(addr, size, value uint64) error {
	width, err := widthBytes(size)
	if err != nil {
		return err
	}
	if !m.Contains(addr, width) {
		return fmt.Errorf("%w: store addr=%#x size=%d", ErrOutOfRange, addr, size)
	}
	off := addr - m.base
	for i := uint64(0); i < width; i++ {
		m.data[off+i] = byte(value >> (8 * i))
	}
	return nil
}

func widthBytes(size uint64) (uint64, error) {
	switch size {
	case 8:
		return 1, nil
	case 16:
		return 2, nil
	case 32:
		return 4, nil
	case 64:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedWidth, size)
	}
}
