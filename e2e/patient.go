package e2e

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-e2e/internal/binary"
	"github.com/robert-malhotra/go-e2e/internal/record"
)

// PatientInfo is the demographics carried by a patient chunk.
// Birthdate and Sex are the raw device encodings, passed through.
type PatientInfo struct {
	Name      string
	Surname   string
	Birthdate uint32
	Sex       uint8
}

// Patients walks the directory chain and decodes every live patient
// demographics chunk. Chunks that cannot be decoded are skipped with a
// logged warning; only truncation during the directory phase is fatal.
func Patients(src io.ReaderAt, opts Options) ([]PatientInfo, error) {
	opts = opts.normalized()
	r := binary.NewReader(src)

	offsets, err := walkDirectories(r, opts.MaxDirectoryBlocks)
	if err != nil {
		return nil, err
	}

	var patients []PatientInfo
	for _, off := range offsets {
		rd := r.At(off)
		block, err := record.ParseDirectoryBlock(rd)
		if err != nil {
			return nil, fmt.Errorf("re-reading directory block at %d: %w", off, err)
		}

		for i := uint32(0); i < block.NumEntries; i++ {
			entry, err := record.ParseDirectoryEntry(rd)
			if err != nil {
				return nil, fmt.Errorf("reading directory entry %d of block at %d: %w", i, off, err)
			}
			if !entry.Live() || entry.Type != record.PatientInfoChunkType {
				continue
			}

			crd := r.At(int64(entry.Start))
			if _, err := record.ParseChunkHeader(crd); err != nil {
				opts.Logger.Warn("skipping unreadable patient chunk",
					zap.Int64("offset", int64(entry.Start)), zap.Error(err))
				continue
			}
			info, err := record.ParsePatientInfo(crd)
			if err != nil {
				opts.Logger.Warn("skipping undecodable patient payload",
					zap.Int64("offset", int64(entry.Start)), zap.Error(err))
				continue
			}
			patients = append(patients, PatientInfo{
				Name:      info.Name,
				Surname:   info.Surname,
				Birthdate: info.Birthdate,
				Sex:       info.Sex,
			})
		}
	}
	return patients, nil
}
