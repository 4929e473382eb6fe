package source

// StringID is an interned identifier handle; 0 is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier text so names compare by id.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	in := &Interner{
		byID:  make([]string, 1, 64),
		index: make(map[string]StringID, 64),
	}
	in.index[""] = NoStringID
	return in
}

func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	id := StringID(len(in.byID))
	in.byID = append(in.byID, s)
	in.index[s] = id
	return id
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

func (in *Interner) Len() int {
	return len(in.byID)
}
