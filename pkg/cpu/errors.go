package cpu

import "errors"

// The following errors may be returned by CPU operations. They follow the
// teacher VM's sentinel-error-plus-wrapping style (pkg/vm.ErrHalted,
// ErrNotPermitted, ErrSIGSEGV): compare with errors.Is, never by string.
var (
	// ErrFetchFault indicates that reading the next instruction failed
	// because PC is not in mapped memory.
	ErrFetchFault = errors.New("cpu: fetch fault")

	// ErrMemFault indicates that a load or store issued by an
	// instruction referenced an unmapped address or unsupported width.
	ErrMemFault = errors.New("cpu: memory fault")

	// ErrUnknownInstruction indicates an opcode, or a known opcode with
	// an unhandled funct3/funct7 combination, that this core does not
	// implement. It is not a hard fault: execution continues as a
	// no-op beyond the implicit x0 = 0 write-back.
	ErrUnknownInstruction = errors.New("cpu: unknown instruction")
)
