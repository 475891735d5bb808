package e2e

import (
	"io"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-e2e/internal/binary"
)

// decoder carries the state of one decode pass.
type decoder struct {
	r    *binary.Reader
	opts Options
	res  *Result
}

// Decode runs one full pass over a container: walk the directory
// chain, index every entry, dispatch every live chunk and assemble the
// volumes. The pass is sequential and owns src's cursor positions for
// its duration; callers must not share src with a concurrent Decode.
//
// Truncation during the header and directory phases is fatal. Once
// dispatch begins, truncation stops the pass and Decode returns the
// partial result with Result.Truncated set instead of an error.
func Decode(src io.ReaderAt, opts Options) (*Result, error) {
	opts = opts.normalized()

	d := &decoder{
		r:    binary.NewReader(src),
		opts: opts,
		res:  &Result{},
	}
	if opts.Mode == ModeFundusAutofluorescence {
		d.res.FundusByVolume = make(map[VolumeKey]FundusImage)
	}

	offsets, err := walkDirectories(d.r, opts.MaxDirectoryBlocks)
	if err != nil {
		return nil, err
	}

	idx, err := d.buildIndex(offsets)
	if err != nil {
		return nil, err
	}

	d.dispatch(idx)
	d.assemble(idx)
	return d.res, nil
}

// warn records a recoverable condition and logs it.
func (d *decoder) warn(code WarningCode, offset int64, key VolumeKey, msg string) {
	d.res.Warnings = append(d.res.Warnings, Warning{
		Code:    code,
		Offset:  offset,
		Key:     key,
		Message: msg,
	})

	fields := []zap.Field{zap.Stringer("code", code)}
	if offset >= 0 {
		fields = append(fields, zap.Int64("offset", offset))
	}
	if key != (VolumeKey{}) {
		fields = append(fields, zap.Stringer("volume", key))
	}
	d.opts.Logger.Warn(msg, fields...)
}
