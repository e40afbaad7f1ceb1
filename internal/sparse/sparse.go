// Package sparse provides a sparse set of small unsigned integers.
//
// The set supports O(1) insertion and membership testing while keeping a
// dense list of its members in insertion order. It is used to track
// program counters during reachability walks over compiled programs, where the
// universe of values (the program length) is known up front.
package sparse

// Set is a set of uint32 values drawn from [0, capacity).
//
// The zero value is an empty set with capacity 0; use NewSet.
type Set struct {
	sparse []uint32 // value -> index into dense
	dense  []uint32 // members in insertion order
}

// NewSet creates an empty set able to hold values in [0, capacity).
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set.
// Returns true if the value was not already present.
// Values outside the capacity are rejected and reported as not inserted.
func (s *Set) Insert(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) || s.Contains(value) {
		return false
	}
	//nolint:gosec // G115: len(dense) < len(sparse), which was sized from an int capacity
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}
