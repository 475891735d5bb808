package e2e

import "fmt"

// WarningCode classifies a recoverable decode condition.
type WarningCode int

const (
	// WarnMalformedLaterality: a laterality payload could not be
	// decoded, or its byte is neither 'R' nor 'L'.
	WarnMalformedLaterality WarningCode = iota + 1
	// WarnUnknownVolumeKey: a chunk references a (patient, study,
	// series) triple never seen during indexing; its data is dropped.
	WarnUnknownVolumeKey
	// WarnUnrecognisedChunkSubtype: an image chunk whose ind field is
	// neither planar nor volumetric.
	WarnUnrecognisedChunkSubtype
	// WarnMalformedSliceID: an odd slice id, or one whose derived
	// array index falls outside the volume.
	WarnMalformedSliceID
	// WarnEmptyVolumeSlot: a slot that never received image data,
	// found at assembly time and omitted from the output.
	WarnEmptyVolumeSlot
	// WarnTruncatedChunk: the source ended inside a chunk; dispatch
	// stopped and a partial result was returned.
	WarnTruncatedChunk
	// WarnMalformedImage: an image header declaring a zero or
	// implausibly large raster; the chunk is dropped.
	WarnMalformedImage
)

func (c WarningCode) String() string {
	switch c {
	case WarnMalformedLaterality:
		return "malformed laterality"
	case WarnUnknownVolumeKey:
		return "unknown volume key"
	case WarnUnrecognisedChunkSubtype:
		return "unrecognised chunk subtype"
	case WarnMalformedSliceID:
		return "malformed slice id"
	case WarnEmptyVolumeSlot:
		return "empty volume slot"
	case WarnTruncatedChunk:
		return "truncated chunk"
	case WarnMalformedImage:
		return "malformed image"
	default:
		return fmt.Sprintf("warning(%d)", int(c))
	}
}

// Warning records one recoverable condition encountered during a
// decode. Warnings never abort the pass; callers inspect them to tell
// a clean decode from a degraded one.
type Warning struct {
	Code    WarningCode
	Offset  int64 // container offset of the record involved, -1 if n/a
	Key     VolumeKey
	Message string
}

func (w Warning) String() string {
	s := w.Code.String()
	if w.Message != "" {
		s += ": " + w.Message
	}
	if w.Offset >= 0 {
		s += fmt.Sprintf(" (offset %d)", w.Offset)
	}
	return s
}
