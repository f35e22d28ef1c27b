package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv64iemu/pkg/memory"
)

func TestRoutesIntoDRAM(t *testing.T) {
	dram, err := memory.New(memory.Base, 64, nil)
	require.NoError(t, err)
	b := New(dram)

	require.NoError(t, b.Store(memory.Base+4, 32, 0x11223344))
	v, err := b.Load(memory.Base+4, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0x11223344), v)
}

func TestRejectsUnclaimedAddress(t *testing.T) {
	dram, err := memory.New(memory.Base, 64, nil)
	require.NoError(t, err)
	b := New(dram)

	_, err = b.Load(0, 32)
	require.Error(t, err)

	err = b.Store(memory.Base+64, 32, 1)
	require.Error(t, err)
}
