package ast

// NameID indexes a tree's name table; 0 is the empty name.
type NameID uint32

// Names stores each distinct identifier name of a tree once.
type Names struct {
	list []string
	ids  map[string]NameID
}

func NewNames() *Names {
	return &Names{list: []string{""}, ids: map[string]NameID{"": 0}}
}

// Intern returns the id of s, adding it on first sight. The decoder hands
// in substrings of the JSON buffer, so s is copied.
func (n *Names) Intern(s string) NameID {
	if id, ok := n.ids[s]; ok {
		return id
	}
	s = string([]byte(s))
	id := NameID(len(n.list)) // #nosec G115 -- bounded by node count
	n.list = append(n.list, s)
	n.ids[s] = id
	return id
}

// Get returns the name for id; unknown ids read as "".
func (n *Names) Get(id NameID) string {
	if uint64(id) >= uint64(len(n.list)) {
		return ""
	}
	return n.list[id]
}

// Len counts distinct names, the empty one included.
func (n *Names) Len() int {
	return len(n.list)
}
