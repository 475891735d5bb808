package e2e

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Mode selects which of the two reading behaviors a decode applies.
// The two modes share one traversal; they differ only at the branch
// points below.
type Mode int

const (
	// ModeOCT reads volumetric scans. Slice counts track slice id / 2,
	// planar images accumulate into a flat list, laterality records
	// are ignored.
	ModeOCT Mode = iota

	// ModeFundusAutofluorescence reads planar fundus captures. Slice
	// counts track the raw slice id, laterality records are honored,
	// planar images are assigned to volumes and the assembler emits
	// one single-slice volume per populated slot.
	ModeFundusAutofluorescence
)

func (m Mode) String() string {
	switch m {
	case ModeOCT:
		return "oct"
	case ModeFundusAutofluorescence:
		return "faf"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name ("oct" or "faf") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "oct", "":
		return ModeOCT, nil
	case "faf":
		return ModeFundusAutofluorescence, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Options configures a decode pass.
type Options struct {
	// Mode selects the reading behavior. Defaults to ModeOCT.
	Mode Mode

	// MaxDirectoryBlocks caps the directory chain walk. Defaults to
	// DefaultMaxDirectoryBlocks when zero or negative.
	MaxDirectoryBlocks int

	// FundusLateralityPolicy supplies a laterality for planar images
	// when no laterality record resolved one. Only consulted in
	// ModeFundusAutofluorescence; nil selects FirstTwoRightPolicy.
	// Use DisabledLateralityPolicy to keep images untagged instead.
	FundusLateralityPolicy LateralityPolicy

	// Logger receives a Warn entry for every recorded Warning.
	// Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Mode:               ModeOCT,
		MaxDirectoryBlocks: DefaultMaxDirectoryBlocks,
	}
}

// normalized fills in defaults so the decode path never branches on
// missing configuration.
func (o Options) normalized() Options {
	if o.MaxDirectoryBlocks <= 0 {
		o.MaxDirectoryBlocks = DefaultMaxDirectoryBlocks
	}
	if o.FundusLateralityPolicy == nil {
		o.FundusLateralityPolicy = FirstTwoRightPolicy
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// optionsFile is the YAML shape of an options file.
type optionsFile struct {
	Mode                   string `yaml:"mode"`
	MaxDirectoryBlocks     int    `yaml:"maxDirectoryBlocks"`
	FundusLateralityPolicy string `yaml:"fundusLateralityPolicy"`
}

// LoadOptions overlays a YAML options file on DefaultOptions. A missing
// file is not an error; it yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("reading options file: %w", err)
	}

	var file optionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("parsing options file: %w", err)
	}

	if opts.Mode, err = ParseMode(file.Mode); err != nil {
		return opts, err
	}
	if file.MaxDirectoryBlocks > 0 {
		opts.MaxDirectoryBlocks = file.MaxDirectoryBlocks
	}
	switch file.FundusLateralityPolicy {
	case "", "firstTwoRight":
		opts.FundusLateralityPolicy = FirstTwoRightPolicy
	case "disabled":
		opts.FundusLateralityPolicy = DisabledLateralityPolicy
	default:
		return opts, fmt.Errorf("unknown fundus laterality policy %q", file.FundusLateralityPolicy)
	}

	return opts, nil
}
