package e2e

import (
	"fmt"

	"github.com/robert-malhotra/go-e2e/internal/binary"
	"github.com/robert-malhotra/go-e2e/internal/record"
)

// walkDirectories resolves the backward-linked chain of directory
// blocks, returning their offsets in discovery order (most recently
// chained block first). The first block's own position is not part of
// the result; traversal starts at its current pointer and follows prev
// pointers until 0. A current pointer of 0 on the first block is a
// valid container with no secondary directories.
//
// Truncation here is fatal: a half-walked chain would corrupt all
// downstream indexing.
func walkDirectories(r *binary.Reader, maxBlocks int) ([]int64, error) {
	if _, err := record.ParseHeader(r); err != nil {
		return nil, fmt.Errorf("reading container header: %w", err)
	}
	first, err := record.ParseDirectoryBlock(r)
	if err != nil {
		return nil, fmt.Errorf("reading first directory block: %w", err)
	}

	var offsets []int64
	visited := make(map[uint32]bool)
	current := first.Current
	for current != 0 {
		if visited[current] {
			return nil, fmt.Errorf("directory block at %d revisited: %w", current, ErrDirectoryCycle)
		}
		if len(offsets) >= maxBlocks {
			return nil, fmt.Errorf("more than %d directory blocks: %w", maxBlocks, ErrTooManyDirectories)
		}
		visited[current] = true
		offsets = append(offsets, int64(current))

		block, err := record.ParseDirectoryBlock(r.At(int64(current)))
		if err != nil {
			return nil, fmt.Errorf("reading directory block at %d: %w", current, err)
		}
		current = block.Prev
	}
	return offsets, nil
}
