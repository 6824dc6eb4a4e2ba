package extension

// Set is a fixed-size bitset over capability table indices.
type Set struct {
	bits [(Count + 63) / 64]uint64
}

func (s *Set) Add(index int) {
	s.bits[index/64] |= 1 << (index % 64)
}

func (s *Set) Remove(index int) {
	s.bits[index/64] &^= 1 << (index % 64)
}

func (s Set) Contains(index int) bool {
	return s.bits[index/64]&(1<<(index%64)) != 0
}

// Union returns the set of indices present in either set.
func (s Set) Union(other Set) Set {
	for i := range s.bits {
		s.bits[i] |= other.bits[i]
	}
	return s
}

// Indices returns the members in ascending table order.
func (s Set) Indices() []int {
	var out []int
	for i := 0; i < Count; i++ {
		if s.Contains(i) {
			out = append(out, i)
		}
	}
	return out
}

func (s Set) Len() int {
	return len(s.Indices())
}
