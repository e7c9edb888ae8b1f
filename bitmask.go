package elisa

// bitmask256 represents a set of component types. Each bit corresponds to a
// ComponentType; a set bit means the entity has a component of that type.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component type.
func (m *bitmask256) set(bit ComponentType) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given component type.
func (m *bitmask256) unset(bit ComponentType) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// contains checks if all the bits set in the `sub` bitmask are also set in the
// receiver bitmask `m`. Filters use it to test whether an entity carries every
// requested component type.
//
// Parameters:
//   - sub: The bitmask representing the subset of components to check for.
//
// Returns:
//   - true if the receiver contains all components from the subset, false otherwise.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit ComponentType) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// maskOf builds a mask from a list of component types.
func maskOf(types []ComponentType) bitmask256 {
	var m bitmask256
	for _, ct := range types {
		m.set(ct)
	}
	return m
}

// intersects checks if any bit of other is set in m.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0]) != 0 ||
		(m[1]&other[1]) != 0 ||
		(m[2]&other[2]) != 0 ||
		(m[3]&other[3]) != 0
}
