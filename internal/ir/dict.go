package ir

import (
	"curv/internal/source"
)

// Dictionary is an ordered name→slot table. Slots are assigned in
// insertion order, which makes it suitable both for module field
// tables and for nonlocal capture records.
type Dictionary struct {
	atoms []source.StringID
	index map[source.StringID]uint32
}

func NewDictionary() *Dictionary {
	return &Dictionary{
		atoms: make([]source.StringID, 0, 4),
		index: make(map[source.StringID]uint32),
	}
}

// Add assigns the next slot to atom and returns it. The atom must not
// be present yet.
func (d *Dictionary) Add(atom source.StringID) uint32 {
	slot := uint32(len(d.atoms))
	d.atoms = append(d.atoms, atom)
	d.index[atom] = slot
	return slot
}

// Slot returns the slot of atom.
func (d *Dictionary) Slot(atom source.StringID) (uint32, bool) {
	s, ok := d.index[atom]
	return s, ok
}

func (d *Dictionary) Has(atom source.StringID) bool {
	_, ok := d.index[atom]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.atoms)
}

// Atoms returns the atoms in slot order. Do not modify.
func (d *Dictionary) Atoms() []source.StringID {
	return d.atoms
}
