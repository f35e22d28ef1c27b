package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsOversizeImage(t *testing.T) {
	_, err := New(Base, 4, make([]byte, 5))
	require.Error(t, err)
}

func TestLoadStoreRoundTrip(t *testing.T) {
	m, err := New(Base, 64, nil)
	require.NoError(t, err)

	require.NoError(t, m.Store(Base+8, 64, 0x0102030405060708))
	v, err := m.Load(Base+8, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v)
}

func TestLittleEndianByteWiseRoundTrip(t *testing.T) {
	m, err := New(Base, 64, nil)
	require.NoError(t, err)

	v := uint64(0x0102030405060708)
	require.NoError(t, m.Store(Base, 64, v))
	for i := uint64(0); i < 8; i++ {
		b, err := m.Load(Base+i, 8)
		require.NoError(t, err)
		require.Equal(t, (v>>(8*i))&0xff, b)
	}
}

func TestLoadOutOfRange(t *testing.T) {
	m, err := New(Base, 16, nil)
	require.NoError(t, err)

	_, err = m.Load(Base+16, 8)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = m.Load(Base-1, 8)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestUnsupportedWidth(t *testing.T) {
	m, err := New(Base, 16, nil)
	require.NoError(t, err)

	_, err = m.Load(Base, 24)
	require.ErrorIs(t, err, ErrUnsupportedWidth)
}

func TestUnalignedAccess(t *testing.T) {
	m, err := New(Base, 16, nil)
	require.NoError(t, err)

	require.NoError(t, m.Store(Base+1, 32, 0xdeadbeef))
	v, err := m.Load(Base+1, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), v)
}
