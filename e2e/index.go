package e2e

import (
	"fmt"

	"github.com/robert-malhotra/go-e2e/internal/record"
)

// chunkLocation points at one live chunk to be revisited by dispatch.
type chunkLocation struct {
	start int64
	size  uint32
}

// volumeIndex is the product of the first full pass over all directory
// entries: per-volume slot arrays pre-sized from the largest slice id
// seen, plus the locations of every live chunk in visit order. The
// index owns the slot arrays until assembly hands them to the Result.
type volumeIndex struct {
	order  []VolumeKey // first-seen order, keeps output deterministic
	counts map[VolumeKey]int32
	slots  map[VolumeKey][]Slice
	chunks []chunkLocation
}

// buildIndex re-reads every resolved directory block and scans its
// entries, sizing volumes and collecting live chunk locations.
// Truncation is still fatal at this stage.
func (d *decoder) buildIndex(offsets []int64) (*volumeIndex, error) {
	idx := &volumeIndex{
		counts: make(map[VolumeKey]int32),
		slots:  make(map[VolumeKey][]Slice),
	}

	for _, off := range offsets {
		rd := d.r.At(off)
		block, err := record.ParseDirectoryBlock(rd)
		if err != nil {
			return nil, fmt.Errorf("re-reading directory block at %d: %w", off, err)
		}

		for i := uint32(0); i < block.NumEntries; i++ {
			entryOff := rd.Pos()
			entry, err := record.ParseDirectoryEntry(rd)
			if err != nil {
				return nil, fmt.Errorf("reading directory entry %d of block at %d: %w", i, off, err)
			}

			key := VolumeKey{entry.PatientID, entry.StudyID, entry.SeriesID}

			if entry.SliceID%2 != 0 {
				d.warn(WarnMalformedSliceID, entryOff, key,
					fmt.Sprintf("slice id %d is odd", entry.SliceID))
			}

			// Fundus-autofluorescence containers carry one capture per
			// slice id, so the raw id sizes the volume; scan volumes
			// use the halved id.
			n := entry.SliceID / 2
			if d.opts.Mode == ModeFundusAutofluorescence {
				n = entry.SliceID
			}
			if cur, seen := idx.counts[key]; !seen {
				idx.order = append(idx.order, key)
				idx.counts[key] = n
			} else if n > cur {
				idx.counts[key] = n
			}

			if entry.Live() {
				idx.chunks = append(idx.chunks, chunkLocation{
					start: int64(entry.Start),
					size:  entry.Size,
				})
			}
		}
	}

	// Materialize the slot arrays. In fundus mode a count of zero
	// still gets one slot; scan volumes that never exceeded zero are
	// not created, and chunks referencing them surface later as
	// unknown-volume warnings.
	for _, key := range idx.order {
		n := idx.counts[key]
		if d.opts.Mode == ModeFundusAutofluorescence {
			if n < 1 {
				n = 1
			}
		} else if n <= 0 {
			continue
		}
		idx.slots[key] = make([]Slice, int(n))
	}

	return idx, nil
}
