// Package record defines the fixed-layout records of the E2E container
// format: the file header, the backward-linked directory blocks and
// their entries, chunk headers, image headers and the small metadata
// payloads. Parsing is purely positional; magic fields are consumed
// but not validated, and fields whose meaning is unknown are discarded.
package record

import (
	"fmt"

	"github.com/robert-malhotra/go-e2e/internal/binary"
)

// Record sizes in bytes.
const (
	HeaderSize          = 36
	DirectoryBlockSize  = 52
	DirectoryEntrySize  = 44
	ChunkHeaderSize     = 60
	ImageHeaderSize     = 20
	LateralityBlockSize = 16
	PatientInfoSize     = 102
)

// Chunk type tags.
const (
	// ImageChunkType marks a chunk carrying an image header and a raw
	// pixel payload.
	ImageChunkType = 0x40000000

	// LateralityChunkType marks a laterality metadata chunk. Only
	// consulted in fundus-autofluorescence reading mode.
	LateralityChunkType = 11

	// PatientInfoChunkType marks a patient demographics chunk.
	PatientInfoChunkType = 9
)

// Chunk sub-kinds (the ind field of a chunk header).
const (
	IndFundus = 0 // planar reference image, 8-bit grayscale
	IndScan   = 1 // volumetric slice, 16-bit custom float
)

// Header is the 36-byte record at offset 0. It is consumed to position
// the reader; nothing in it is validated.
type Header struct {
	Magic   string
	Version uint32
}

// ParseHeader reads a container header at the reader's position.
func ParseHeader(r *binary.Reader) (*Header, error) {
	h := &Header{}
	var err error
	if h.Magic, err = r.ReadString(12); err != nil {
		return nil, fmt.Errorf("header magic: %w", err)
	}
	if h.Version, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("header version: %w", err)
	}
	if err = r.Discard(20); err != nil { // 10 reserved u16
		return nil, fmt.Errorf("header reserved: %w", err)
	}
	return h, nil
}

// DirectoryBlock is a 52-byte record enumerating NumEntries directory
// entries that immediately follow it. Blocks form a singly linked list:
// Current is the block's own offset and Prev points at the previously
// written block, 0 marking the end of the chain.
type DirectoryBlock struct {
	Magic      string
	Version    uint32
	NumEntries uint32
	Current    uint32
	Prev       uint32
}

// ParseDirectoryBlock reads a directory block at the reader's position.
func ParseDirectoryBlock(r *binary.Reader) (*DirectoryBlock, error) {
	b := &DirectoryBlock{}
	var err error
	if b.Magic, err = r.ReadString(12); err != nil {
		return nil, fmt.Errorf("directory block magic: %w", err)
	}
	if b.Version, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("directory block version: %w", err)
	}
	if err = r.Discard(20); err != nil { // 10 reserved u16
		return nil, fmt.Errorf("directory block reserved: %w", err)
	}
	if b.NumEntries, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("directory block num entries: %w", err)
	}
	if b.Current, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("directory block current: %w", err)
	}
	if b.Prev, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("directory block prev: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("directory block trailer: %w", err)
	}
	return b, nil
}

// DirectoryEntry is a 44-byte pointer record describing one chunk.
// SliceID is even in valid data; slice position in a volume is
// SliceID/2, 1-based.
type DirectoryEntry struct {
	Pos       uint32
	Start     uint32
	Size      uint32
	PatientID uint32
	StudyID   uint32
	SeriesID  uint32
	SliceID   int32
	Type      uint32
}

// Live reports whether the entry points at current data. Entries whose
// Start does not exceed Pos have been superseded and are skipped.
func (e *DirectoryEntry) Live() bool {
	return e.Start > e.Pos
}

// ParseDirectoryEntry reads a directory entry at the reader's position.
func ParseDirectoryEntry(r *binary.Reader) (*DirectoryEntry, error) {
	e := &DirectoryEntry{}
	var err error
	if e.Pos, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry pos: %w", err)
	}
	if e.Start, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry start: %w", err)
	}
	if e.Size, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry size: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("entry reserved: %w", err)
	}
	if e.PatientID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry patient id: %w", err)
	}
	if e.StudyID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry study id: %w", err)
	}
	if e.SeriesID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry series id: %w", err)
	}
	if e.SliceID, err = r.ReadInt32(); err != nil {
		return nil, fmt.Errorf("entry slice id: %w", err)
	}
	if err = r.Discard(4); err != nil { // 2 reserved u16
		return nil, fmt.Errorf("entry reserved: %w", err)
	}
	if e.Type, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("entry type: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("entry trailer: %w", err)
	}
	return e, nil
}

// ChunkHeader is the 60-byte record at the start of every chunk.
type ChunkHeader struct {
	Magic     string
	Pos       uint32
	Size      uint32
	PatientID uint32
	StudyID   uint32
	SeriesID  uint32
	SliceID   int32
	Ind       uint16
	Type      uint32
}

// ParseChunkHeader reads a chunk header at the reader's position.
func ParseChunkHeader(r *binary.Reader) (*ChunkHeader, error) {
	c := &ChunkHeader{}
	var err error
	if c.Magic, err = r.ReadString(12); err != nil {
		return nil, fmt.Errorf("chunk magic: %w", err)
	}
	if err = r.Discard(8); err != nil { // 2 reserved u32
		return nil, fmt.Errorf("chunk reserved: %w", err)
	}
	if c.Pos, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk pos: %w", err)
	}
	if c.Size, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("chunk reserved: %w", err)
	}
	if c.PatientID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk patient id: %w", err)
	}
	if c.StudyID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk study id: %w", err)
	}
	if c.SeriesID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk series id: %w", err)
	}
	if c.SliceID, err = r.ReadInt32(); err != nil {
		return nil, fmt.Errorf("chunk slice id: %w", err)
	}
	if c.Ind, err = r.ReadUint16(); err != nil {
		return nil, fmt.Errorf("chunk ind: %w", err)
	}
	if err = r.Discard(2); err != nil {
		return nil, fmt.Errorf("chunk reserved: %w", err)
	}
	if c.Type, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("chunk type: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("chunk trailer: %w", err)
	}
	return c, nil
}

// ImageHeader is the 20-byte record preceding raw pixel payload in an
// image chunk.
type ImageHeader struct {
	Size   uint32
	Type   uint32
	Width  uint32
	Height uint32
}

// ParseImageHeader reads an image header at the reader's position.
func ParseImageHeader(r *binary.Reader) (*ImageHeader, error) {
	h := &ImageHeader{}
	var err error
	if h.Size, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("image size: %w", err)
	}
	if h.Type, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("image type: %w", err)
	}
	if err = r.Discard(4); err != nil {
		return nil, fmt.Errorf("image reserved: %w", err)
	}
	if h.Width, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("image width: %w", err)
	}
	if h.Height, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("image height: %w", err)
	}
	return h, nil
}

// LateralityBlock is the 16-byte payload of a laterality chunk. The
// Laterality byte is the ASCII code for 'R' (82) or 'L' (76); anything
// else leaves laterality unresolved.
type LateralityBlock struct {
	Laterality uint8
}

// ParseLateralityBlock reads a laterality payload at the reader's position.
func ParseLateralityBlock(r *binary.Reader) (*LateralityBlock, error) {
	if err := r.Discard(14); err != nil {
		return nil, fmt.Errorf("laterality reserved: %w", err)
	}
	b := &LateralityBlock{}
	var err error
	if b.Laterality, err = r.ReadUint8(); err != nil {
		return nil, fmt.Errorf("laterality byte: %w", err)
	}
	if err = r.Discard(1); err != nil {
		return nil, fmt.Errorf("laterality trailer: %w", err)
	}
	return b, nil
}

// PatientInfo is the 102-byte demographics payload of a patient chunk.
// Birthdate and Sex are passed through raw.
type PatientInfo struct {
	Name      string
	Surname   string
	Birthdate uint32
	Sex       uint8
}

// ParsePatientInfo reads a patient demographics payload at the reader's
// position.
func ParsePatientInfo(r *binary.Reader) (*PatientInfo, error) {
	p := &PatientInfo{}
	var err error
	if p.Name, err = r.ReadString(31); err != nil {
		return nil, fmt.Errorf("patient name: %w", err)
	}
	if p.Surname, err = r.ReadString(66); err != nil {
		return nil, fmt.Errorf("patient surname: %w", err)
	}
	if p.Birthdate, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("patient birthdate: %w", err)
	}
	if p.Sex, err = r.ReadUint8(); err != nil {
		return nil, fmt.Errorf("patient sex: %w", err)
	}
	return p, nil
}
