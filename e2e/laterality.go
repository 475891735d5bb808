package e2e

// Laterality identifies which eye a volume or reference image belongs to.
type Laterality uint8

const (
	// LateralityUnknown marks data whose eye could not be resolved.
	LateralityUnknown Laterality = 0
	// LateralityRight is the right eye (OD).
	LateralityRight Laterality = 'R'
	// LateralityLeft is the left eye (OS).
	LateralityLeft Laterality = 'L'
)

// Resolved reports whether l carries an actual eye.
func (l Laterality) Resolved() bool {
	return l == LateralityRight || l == LateralityLeft
}

func (l Laterality) String() string {
	switch l {
	case LateralityRight:
		return "R"
	case LateralityLeft:
		return "L"
	default:
		return ""
	}
}

// lateralityFromByte maps the on-disk laterality byte to a Laterality.
// The field is ASCII-encoded; anything but 'R' or 'L' stays unknown.
func lateralityFromByte(b uint8) Laterality {
	switch b {
	case 'R':
		return LateralityRight
	case 'L':
		return LateralityLeft
	default:
		return LateralityUnknown
	}
}

// LateralityPolicy supplies a laterality for the n-th planar reference
// image (0-based) seen in a container when no laterality record has
// resolved one. The heuristic exists because some capture protocols
// write fundus images before any laterality record.
type LateralityPolicy func(n int) Laterality

// FirstTwoRightPolicy tags the first two planar images of a container
// as right eye and every later one as left eye. This mirrors the
// capture order observed in fundus-autofluorescence exports; it is not
// documented by the vendor, which is why it is a replaceable policy.
func FirstTwoRightPolicy(n int) Laterality {
	if n < 2 {
		return LateralityRight
	}
	return LateralityLeft
}

// DisabledLateralityPolicy never supplies a laterality, leaving images
// untagged unless a laterality record resolved one.
func DisabledLateralityPolicy(int) Laterality {
	return LateralityUnknown
}
