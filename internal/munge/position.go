package munge

import "slices"

// OriginalIndex maps the index a child has while being removed to its index
// with every pending removal of the same parent put back. pending holds the
// original indices of siblings that are still removed.
func OriginalIndex(current int, pending []int) int {
	sorted := slices.Clone(pending)
	slices.Sort(sorted)

	index := current
	for _, p := range sorted {
		if p <= index {
			index++
		}
	}

	return index
}

// CurrentIndex is the inverse of OriginalIndex: the index a child with the
// given original index is re-inserted at while pending stay removed.
func CurrentIndex(original int, pending []int) int {
	index := original
	for _, p := range pending {
		if p < original {
			index--
		}
	}

	return index
}
