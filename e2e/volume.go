package e2e

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// VolumeKey identifies a volume by the (patient, study, series) triple
// carried on every directory entry and chunk header.
type VolumeKey struct {
	PatientID uint32
	StudyID   uint32
	SeriesID  uint32
}

// String renders the key in the composite form used as a patient
// identifier on output entities, e.g. "7_3_9".
func (k VolumeKey) String() string {
	return fmt.Sprintf("%d_%d_%d", k.PatientID, k.StudyID, k.SeriesID)
}

// SliceKind tags the content of a volume slot.
type SliceKind int

const (
	// SliceEmpty is the placeholder every slot starts as; it means no
	// chunk ever delivered data for that slice position.
	SliceEmpty SliceKind = iota
	// SliceFundus is a planar reference image with its laterality.
	SliceFundus
	// SliceScan is a decoded, gamma-corrected volumetric slice.
	SliceScan
)

// Slice is one slot of a volume: empty placeholder, planar image with
// laterality, or volumetric scan raster. Exactly the field matching
// Kind is set.
type Slice struct {
	Kind       SliceKind
	Laterality Laterality  // SliceFundus only
	Fundus     *image.Gray // SliceFundus only
	Scan       *mat.Dense  // SliceScan only; width rows by height cols
}

// Volume is one assembled output entity: an ordered sequence of slices
// plus identity and optional laterality. Slices are ordered by slice
// position (slice id / 2, 1-based on disk).
type Volume struct {
	Key        VolumeKey
	Laterality Laterality
	Slices     []Slice
}

// FundusImage is a planar reference image with its laterality tag.
type FundusImage struct {
	Laterality Laterality
	Image      *image.Gray
}

// Result is everything a decode pass produced. Warnings record the
// recoverable conditions hit along the way; Truncated reports that the
// source ended mid-chunk and the result covers only the chunks decoded
// before that point.
type Result struct {
	Volumes []Volume

	// Fundus accumulates every planar image in the order encountered.
	// Populated in ModeOCT.
	Fundus []FundusImage

	// FundusByVolume keeps the last planar image per volume key.
	// Populated in ModeFundusAutofluorescence.
	FundusByVolume map[VolumeKey]FundusImage

	Warnings  []Warning
	Truncated bool
}
