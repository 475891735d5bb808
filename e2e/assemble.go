package e2e

import "fmt"

// assemble collects the mutated slot arrays into the final output.
//
// Scan volumes come out whole: one Volume per key with the full
// ordered slice array, empty placeholders included. Fundus volumes are
// split per slot: each populated slot becomes a single-slice Volume
// carrying that slice's laterality, and slots that never received an
// image are skipped with a warning rather than failing the pass.
func (d *decoder) assemble(idx *volumeIndex) {
	for _, key := range idx.order {
		slots, ok := idx.slots[key]
		if !ok {
			continue
		}

		if d.opts.Mode != ModeFundusAutofluorescence {
			d.res.Volumes = append(d.res.Volumes, Volume{Key: key, Slices: slots})
			continue
		}

		for i, s := range slots {
			switch s.Kind {
			case SliceEmpty:
				d.warn(WarnEmptyVolumeSlot, -1, key,
					fmt.Sprintf("slot %d holds no image; entity skipped", i))
			case SliceFundus:
				d.res.Volumes = append(d.res.Volumes, Volume{
					Key:        key,
					Laterality: s.Laterality,
					Slices:     []Slice{s},
				})
			case SliceScan:
				d.res.Volumes = append(d.res.Volumes, Volume{
					Key:    key,
					Slices: []Slice{s},
				})
			}
		}
	}
}
