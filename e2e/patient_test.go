package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-e2e/internal/record"
)

// patientChunk writes a patient demographics chunk, returning its offset.
func (b *containerBuilder) patientChunk(key VolumeKey, name, surname string, birthdate uint32, sex uint8) int {
	off := b.pos()
	b.chunkHeader(key, 0, 0, record.PatientInfoChunkType)
	b.ascii(name, 31)
	b.ascii(surname, 66)
	b.u32(birthdate)
	b.u8(sex)
	return off
}

func TestPatients(t *testing.T) {
	key := VolumeKey{PatientID: 7, StudyID: 1, SeriesID: 1}

	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)
	p1 := b.patientChunk(key, "Ada", "Lovelace", 18151210, 2)
	c1 := b.scanChunk(key, 2, 1, 1, 0, 63)
	singleBlock(&b, currentAt, func(b *containerBuilder) {
		b.entry(0, uint32(p1), 100, key, 0, record.PatientInfoChunkType)
		b.entry(0, uint32(c1), 100, key, 2, record.ImageChunkType)
	}, 2)

	patients, err := Patients(b.reader(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.Equal(t, "Ada", patients[0].Name)
	require.Equal(t, "Lovelace", patients[0].Surname)
	require.Equal(t, uint32(18151210), patients[0].Birthdate)
	require.Equal(t, uint8(2), patients[0].Sex)
}

func TestPatientsSkipsUndecodableChunk(t *testing.T) {
	key := VolumeKey{PatientID: 7, StudyID: 1, SeriesID: 1}

	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)
	dirOff, _ := b.directoryBlock(1, 0, 0)
	b.patchU32(dirOff+40, uint32(dirOff))
	// The patient chunk sits at the end of the file with its payload
	// cut short: it is skipped, not fatal.
	p1 := dirOff + record.DirectoryBlockSize + record.DirectoryEntrySize
	b.entry(0, uint32(p1), 100, key, 0, record.PatientInfoChunkType)
	b.chunkHeader(key, 0, 0, record.PatientInfoChunkType)
	b.pad(10)
	b.patchU32(currentAt, uint32(dirOff))

	patients, err := Patients(b.reader(), DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, patients)
}

func TestPatientsIgnoresOtherChunkTypes(t *testing.T) {
	key := VolumeKey{PatientID: 7, StudyID: 1, SeriesID: 1}

	var b containerBuilder
	b.header()
	_, currentAt := b.directoryBlock(0, 0, 0)
	c1 := b.scanChunk(key, 2, 1, 1, 0, 63)
	singleBlock(&b, currentAt, func(b *containerBuilder) {
		b.entry(0, uint32(c1), 100, key, 2, record.ImageChunkType)
	}, 1)

	patients, err := Patients(b.reader(), DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, patients)
}
