package source

// StringID is an interned identifier atom.
type StringID uint32

// NoStringID is the invalid atom; it maps to the empty string.
const NoStringID StringID = 0

// Interner deduplicates identifier spellings into small integer atoms.
// Atoms are stable for the lifetime of the Interner and are the keys of
// every scope dictionary in the analyzer.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the atom for s, creating one on first use.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	// Own copy, so the atom does not pin the caller's buffer.
	cpy := string([]byte(s))
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// InternBytes is Intern over a byte slice.
func (in *Interner) InternBytes(b []byte) StringID {
	return in.Intern(string(b))
}

// Lookup returns the spelling of id, or ("", false) for an unknown atom.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup returns the spelling of id and panics on an unknown atom.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (in *Interner) Len() int {
	return len(in.byID)
}
