package e2e

import (
	"fmt"

	"github.com/robert-malhotra/go-e2e/internal/binary"
	"github.com/robert-malhotra/go-e2e/internal/pixel"
	"github.com/robert-malhotra/go-e2e/internal/record"
)

// maxRasterPixels bounds the sample count an image header may declare.
// It keeps width*height inside int range on every platform and stops a
// hostile header from forcing an enormous allocation; real captures
// are orders of magnitude below it.
const maxRasterPixels = 1 << 28

// dispatchState is the accumulator threaded through the chunk loop:
// the laterality resolved by the most recent laterality record, and
// how many planar images have been seen (feeds the laterality policy).
type dispatchState struct {
	laterality Laterality
	fundusSeq  int
}

// dispatch revisits every live chunk location in index order. Chunk
// order has no semantic effect beyond overwrite sequencing: placement
// is keyed by slice index, and when two chunks collide on the same
// volume and slot the last one processed wins.
//
// Truncation mid-chunk is recoverable at this stage: dispatch stops,
// records a warning, and leaves whatever was assembled so far intact.
func (d *decoder) dispatch(idx *volumeIndex) {
	var st dispatchState
	for _, loc := range idx.chunks {
		if err := d.processChunk(idx, &st, loc); err != nil {
			d.warn(WarnTruncatedChunk, loc.start, VolumeKey{},
				fmt.Sprintf("chunk processing stopped: %v", err))
			d.res.Truncated = true
			return
		}
	}
}

// processChunk parses one chunk header and routes on its type and
// sub-kind. A returned error means the source ended mid-chunk; every
// other condition is recorded as a warning and the pass continues.
func (d *decoder) processChunk(idx *volumeIndex, st *dispatchState, loc chunkLocation) error {
	rd := d.r.At(loc.start)
	ch, err := record.ParseChunkHeader(rd)
	if err != nil {
		return err
	}
	key := VolumeKey{ch.PatientID, ch.StudyID, ch.SeriesID}

	switch {
	case d.opts.Mode == ModeFundusAutofluorescence && ch.Type == record.LateralityChunkType:
		d.processLaterality(st, rd, key, loc.start)
	case ch.Type == record.ImageChunkType:
		return d.processImage(idx, st, rd, ch, loc.start)
	}
	// Chunks of any other type are skipped without comment.
	return nil
}

// processLaterality updates the running laterality from a laterality
// record. Nothing here aborts the pass; a payload that cannot be
// decoded, or a byte that is neither 'R' nor 'L', leaves the
// accumulator as it was.
func (d *decoder) processLaterality(st *dispatchState, rd *binary.Reader, key VolumeKey, offset int64) {
	block, err := record.ParseLateralityBlock(rd)
	if err != nil {
		d.warn(WarnMalformedLaterality, offset, key, err.Error())
		return
	}
	l := lateralityFromByte(block.Laterality)
	if !l.Resolved() {
		d.warn(WarnMalformedLaterality, offset, key,
			fmt.Sprintf("laterality byte %d is neither 'R' nor 'L'", block.Laterality))
		return
	}
	st.laterality = l
}

// processImage decodes one image chunk and stores the raster. Only a
// short read propagates as an error.
func (d *decoder) processImage(idx *volumeIndex, st *dispatchState, rd *binary.Reader, ch *record.ChunkHeader, offset int64) error {
	hdr, err := record.ParseImageHeader(rd)
	if err != nil {
		return err
	}
	key := VolumeKey{ch.PatientID, ch.StudyID, ch.SeriesID}

	// A zero or outlandish dimension is a malformed header, not a
	// decodable raster; drop the chunk before sizing any buffer.
	if pixels := uint64(hdr.Width) * uint64(hdr.Height); pixels == 0 || pixels > maxRasterPixels {
		d.warn(WarnMalformedImage, offset, key,
			fmt.Sprintf("image dimensions %dx%d out of range", hdr.Width, hdr.Height))
		return nil
	}
	width, height := int(hdr.Width), int(hdr.Height)

	switch ch.Ind {
	case record.IndFundus:
		buf, err := rd.ReadBytes(pixel.GraySize(width, height))
		if err != nil {
			return err
		}
		raster, err := pixel.DecodeGray(buf, width, height)
		if err != nil {
			return fmt.Errorf("decoding planar raster: %w", err)
		}

		lat := st.laterality
		if d.opts.Mode == ModeFundusAutofluorescence && !lat.Resolved() {
			lat = d.opts.FundusLateralityPolicy(st.fundusSeq)
		}
		st.fundusSeq++

		if d.opts.Mode == ModeFundusAutofluorescence {
			d.res.FundusByVolume[key] = FundusImage{Laterality: lat, Image: raster}
			d.place(idx, key, ch.SliceID, Slice{Kind: SliceFundus, Laterality: lat, Fundus: raster}, offset)
		} else {
			d.res.Fundus = append(d.res.Fundus, FundusImage{Laterality: lat, Image: raster})
		}

	case record.IndScan:
		buf, err := rd.ReadBytes(pixel.ScanSize(width, height))
		if err != nil {
			return err
		}
		raster, err := pixel.DecodeScan(buf, width, height)
		if err != nil {
			return fmt.Errorf("decoding scan raster: %w", err)
		}
		d.place(idx, key, ch.SliceID, Slice{Kind: SliceScan, Scan: raster}, offset)

	default:
		d.warn(WarnUnrecognisedChunkSubtype, offset, key,
			fmt.Sprintf("unrecognised chunk: ind %d", ch.Ind))
	}
	return nil
}

// place stores a decoded slice at the array position derived from its
// slice id (slice id / 2, 1-based). Chunks referencing volumes the
// index never saw, or positions outside the volume, are dropped with a
// warning.
func (d *decoder) place(idx *volumeIndex, key VolumeKey, sliceID int32, s Slice, offset int64) {
	slots, ok := idx.slots[key]
	if !ok {
		d.warn(WarnUnknownVolumeKey, offset, key,
			fmt.Sprintf("failed to save image data for volume %s", key))
		return
	}
	i := int(sliceID/2) - 1
	if i < 0 || i >= len(slots) {
		d.warn(WarnMalformedSliceID, offset, key,
			fmt.Sprintf("slice id %d maps outside volume of %d slots", sliceID, len(slots)))
		return
	}
	slots[i] = s
}
