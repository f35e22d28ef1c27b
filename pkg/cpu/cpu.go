// Package cpu implements the RV64I interpreter: architectural state (a
// 32-register file plus program counter) and the fetch/decode/execute
// loop that drives it.
package cpu

import (
	"fmt"

	"rv64iemu/pkg/bus"
	"rv64iemu/pkg/memory"
)

// Logger is the diagnostic sink the CPU reports unknown instructions and
// faults through. It mirrors master-g-childhood's mgnes Logger interface
// (package mgnes's Log(msg string) plus a no-op default), kept
// small enough that pkg/cpu never needs to import a logging library
// directly; internal/telemetry supplies the real implementation backed by
// zap.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

// CPU holds the architectural state of a single hart and owns a Bus.
//
// CPU is not goroutine safe; a single goroutine drives Run to completion,
// matching the emulator's strictly single-threaded execution model.
type CPU struct {
	regs    [NumRegisters]uint64
	pc      uint64
	bus     *bus.Bus
	log     Logger
	steps   uint64
	maxStep uint64 // 0 = unlimited
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithLogger attaches a diagnostic logger. Without this option, the CPU
// logs nothing.
func WithLogger(l Logger) Option {
	return func(c *CPU) { c.log = l }
}

// WithMaxSteps bounds the number of instructions Run will execute before
// stopping, a driver-level safety valve (e.g. for CI) that is not part of
// the CPU's own architectural terminal conditions. Zero (the default)
// means unlimited. Step on its own does not check this limit.
func WithMaxSteps(n uint64) Option {
	return func(c *CPU) { c.maxStep = n }
}

// New constructs a CPU with memory of memSize bytes at memBase, loaded
// with image at offset 0, and sp (x2) initialised to memBase+memSize per
// the architectural entry-point contract.
func New(memBase, memSize uint64, image []byte, opts ...Option) (*CPU, error) {
	mem, err := memory.New(memBase, memSize, image)
	if err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}
	c := &CPU{
		bus: bus.New(mem),
		pc:  memBase,
		log: nopLogger{},
	}
	c.regs[2] = memBase + memSize // sp
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch reads the 32-bit instruction word at PC without advancing PC.
func (c *CPU) Fetch() (uint32, error) {
	word, err := c.bus.Load(c.pc, 32)
	if err != nil {
		return 0, fmt.Errorf("%w at pc=%#x: %v", ErrFetchFault, c.pc, err)
	}
	return uint32(word), nil
}

// PeekMemory reads a size-bit (8/16/32/64) value at addr via the CPU's
// Bus without affecting architectural state, for diagnostic use (e.g.
// pkg/debugtui's memory view). It is a thin forward to Bus.Load, not an
// architectural instruction: faults are reported as plain errors, not
// wrapped in ErrMemFault.
func (c *CPU) PeekMemory(addr, size uint64) (uint64, error) {
	return c.bus.Load(addr, size)
}

// Step fetches, advances PC by 4, and executes a single instruction. It
// returns a non-nil error exactly when the run should halt: a fetch or
// execute fault, or PC becoming exactly zero after execution (the
// conventional "jump to zero" halt).
func (c *CPU) Step() error {
	inst, err := c.Fetch()
	if err != nil {
		c.log.Warnf("fetch fault at pc=%#x: %v", c.pc, err)
		return err
	}
	c.steps++
	c.pc += 4
	if err := c.execute(inst); err != nil {
		c.log.Warnf("execute fault at pc=%#x inst=%#08x: %v", c.pc-4, inst, err)
		return err
	}
	if c.pc == 0 {
		return fmt.Errorf("cpu: halted at pc=0")
	}
	return nil
}

// Run drives the fetch/execute loop to completion: any Step failure (a
// fetch fault, an execute fault, or PC reaching zero) is treated as a
// clean end of run, per spec.md §7's deliberate "ran off the end" vs.
// "faulted mid-stream" conflation. Run returns nil in all such cases; it
// only returns a non-nil error if maxStep is exceeded without a natural
// halt, since that is a driver-imposed condition, not an architectural
// one.
func (c *CPU) Run() error {
	for {
		if c.maxStep != 0 && c.steps >= c.maxStep {
			return fmt.Errorf("cpu: exceeded max-steps %d without halting", c.maxStep)
		}
		if err := c.Step(); err != nil {
			return nil
		}
	}
}

// Steps returns the number of instructions executed so far.
func (c *CPU) Steps() uint64 {
	return c.steps
}
