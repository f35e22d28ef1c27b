package asmtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rv64iemu/pkg/encode"
)

func TestAssembleADDIChain(t *testing.T) {
	src := `
		# S1 -- addi chain
		addi x1, x0, 5
		addi x2, x1, 37
	`
	img, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, encode.Image(encode.ADDI(1, 0, 5), encode.ADDI(2, 1, 37)), img)
}

func TestAssembleResolvesLabels(t *testing.T) {
	src := `
		addi x2, x0, 1
	loop:
		addi x2, x2, 1
		bne x2, x0, loop
	`
	img, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, encode.Image(
		encode.ADDI(2, 0, 1),
		encode.ADDI(2, 2, 1),
		encode.BNE(2, 0, -4),
	), img)
}

func TestAssembleFill(t *testing.T) {
	img, err := Assemble(strings.NewReader(".fill 0xdeadbeef"))
	require.NoError(t, err)
	require.Equal(t, encode.Image(0xdeadbeef), img)
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := Assemble(strings.NewReader("frobnicate x1, x2, x3"))
	require.Error(t, err)
	var syntaxErr *ErrSyntax
	require.ErrorAs(t, err, &syntaxErr)
}

func TestAssembleMemoryOperand(t *testing.T) {
	img, err := Assemble(strings.NewReader("sd x7, -8(sp)"))
	require.NoError(t, err)
	require.Equal(t, encode.Image(encode.SD(2, 7, -8)), img)
}
