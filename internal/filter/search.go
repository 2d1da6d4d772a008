package filter

import "github.com/hupe1980/colscan/internal/chunk"

// SearchResult is the outcome of a binary search over sorted positions.
type SearchResult struct {
	// Index is the matching position when Found, else the insertion point:
	// the first position whose value is greater than the key.
	Index int
	Found bool
}

// searchMode picks which of several equal values a search reports.
type searchMode uint8

const (
	firstMatch searchMode = iota
	lastMatch
)

// valueAt compares the value at sorted position pos with key.
func valueAt(s chunk.Store, pos int, key []byte) int {
	return s.Compare(s.InvertedIndex(pos), key)
}

// binarySearch searches sorted positions [lo, hi) of s for key.
func binarySearch(s chunk.Store, lo, hi int, key []byte, mode searchMode) SearchResult {
	found := -1
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := valueAt(s, mid, key)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			found = mid
			if mode == lastMatch {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
	}
	if found >= 0 {
		return SearchResult{Index: found, Found: true}
	}
	return SearchResult{Index: lo}
}
