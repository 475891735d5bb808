package e2e

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-e2e/internal/binary"
)

func TestWalkDirectoriesDiscoveryOrder(t *testing.T) {
	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)

	// Chain: first.current -> d3 -> d2 -> d1 -> 0. Discovery order is
	// most-recently-chained first.
	d1, _ := b.directoryBlock(0, 0, 0)
	b.patchU32(d1+40, uint32(d1))
	d2, _ := b.directoryBlock(0, 0, uint32(d1))
	b.patchU32(d2+40, uint32(d2))
	d3, _ := b.directoryBlock(0, 0, uint32(d2))
	b.patchU32(d3+40, uint32(d3))
	b.patchU32(currentAt, uint32(d3))

	offsets, err := walkDirectories(binary.NewReader(b.reader()), DefaultMaxDirectoryBlocks)
	require.NoError(t, err)
	require.Equal(t, []int64{int64(d3), int64(d2), int64(d1)}, offsets)
}

func TestWalkDirectoriesEmptyChain(t *testing.T) {
	var b containerBuilder
	b.header()
	b.directoryBlock(0, 0, 0)

	offsets, err := walkDirectories(binary.NewReader(b.reader()), DefaultMaxDirectoryBlocks)
	require.NoError(t, err)
	require.Empty(t, offsets)
}

func TestWalkDirectoriesDetectsCycle(t *testing.T) {
	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)

	d1, _ := b.directoryBlock(0, 0, 0)
	d2, _ := b.directoryBlock(0, 0, uint32(d1))
	// d1 points back at d2, closing the loop.
	b.patchU32(d1+44, uint32(d2)) // prev field sits after the current field
	b.patchU32(currentAt, uint32(d2))

	_, err := walkDirectories(binary.NewReader(b.reader()), DefaultMaxDirectoryBlocks)
	require.ErrorIs(t, err, ErrDirectoryCycle)
}

func TestWalkDirectoriesRespectsCap(t *testing.T) {
	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)

	d1, _ := b.directoryBlock(0, 0, 0)
	d2, _ := b.directoryBlock(0, 0, uint32(d1))
	b.patchU32(currentAt, uint32(d2))

	_, err := walkDirectories(binary.NewReader(b.reader()), 1)
	require.ErrorIs(t, err, ErrTooManyDirectories)
}

func TestWalkDirectoriesTruncatedHeader(t *testing.T) {
	var b containerBuilder
	b.ascii("E2E", 12) // nothing after the magic

	_, err := walkDirectories(binary.NewReader(b.reader()), DefaultMaxDirectoryBlocks)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWalkDirectoriesTruncatedChain(t *testing.T) {
	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)
	b.patchU32(currentAt, uint32(b.pos())) // points at EOF

	_, err := walkDirectories(binary.NewReader(b.reader()), DefaultMaxDirectoryBlocks)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
