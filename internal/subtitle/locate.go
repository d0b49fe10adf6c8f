package subtitle

import "sort"

// Locate returns the index of the block whose bounds contain t. blocks must
// be sorted by Start.
func Locate(blocks []Block, t float64) (int, bool) {
	next := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].Start > t
	})
	if next == 0 {
		return -1, false
	}
	if t > blocks[next-1].End {
		return -1, false
	}
	return next - 1, true
}

// Find returns the block containing t.
func Find(blocks []Block, t float64) (Block, bool) {
	i, ok := Locate(blocks, t)
	if !ok {
		return Block{}, false
	}
	return blocks[i], true
}
