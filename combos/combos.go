// Package combos enumerates k-subsets of indices lazily, so callers never
// materialise every subset of a large candidate pool.
package combos

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

// Iterator walks k-combinations of {0..n-1} in lexicographic order, either
// all of them or a contiguous range. It is finite and can be restarted with
// Reset. Not safe for concurrent use.
type Iterator struct {
	n, k  int
	start int
	count int
	left  int
	fresh bool
	cur   []int
}

// New returns an iterator over the k-subsets of n indices.
func New(n, k int) (*Iterator, error) {
	return NewRange(n, k, 0, Count(n, k))
}

// NewRange returns an iterator over count subsets, beginning with the one
// at lexicographic index start. Ranges that tile [0, C(n, k)) split an
// enumeration between workers without any of them walking the others'
// subsets.
func NewRange(n, k, start, count int) (*Iterator, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("cannot choose %d of %d", k, n)
	}
	total := Count(n, k)
	if start < 0 || count < 0 || start+count > total {
		return nil, fmt.Errorf("range [%d, %d) is outside %d subsets", start, start+count, total)
	}
	it := &Iterator{n: n, k: k, start: start, count: count, cur: make([]int, k)}
	it.Reset()
	return it, nil
}

// Next advances to the next subset, returning false when exhausted.
func (it *Iterator) Next() bool {
	if it.left == 0 {
		return false
	}
	it.left--
	if it.fresh {
		it.fresh = false
		unrank(it.cur, it.start, it.n, it.k)
		return true
	}
	successor(it.cur, it.n)
	return true
}

// Indices returns the current subset. The slice is reused by Next; copy
// it to keep it.
func (it *Iterator) Indices() []int {
	return it.cur
}

// Reset rewinds the iterator to the first subset of its range.
func (it *Iterator) Reset() {
	it.left = it.count
	it.fresh = true
}

// Len is the number of subsets the iterator yields.
func (it *Iterator) Len() int {
	return it.count
}

// Count is C(n, k), or 0 when k is out of range.
func Count(n, k int) int {
	if n < 0 || k < 0 || k > n {
		return 0
	}
	return combin.Binomial(n, k)
}

// unrank writes the subset at lexicographic index idx into dst.
// idx must be below C(n, len(dst)).
func unrank(dst []int, idx, n, k int) {
	x := 0
	for i := 0; i < k; i++ {
		for {
			// subsets with x in position i
			c := combin.Binomial(n-x-1, k-i-1)
			if idx < c {
				break
			}
			idx -= c
			x++
		}
		dst[i] = x
		x++
	}
}

// successor moves c to the next subset in lexicographic order.
func successor(c []int, n int) {
	k := len(c)
	i := k - 1
	for i >= 0 && c[i] == n-k+i {
		i--
	}
	if i < 0 {
		return
	}
	c[i]++
	for j := i + 1; j < k; j++ {
		c[j] = c[j-1] + 1
	}
}

// Complement writes into dst the indices in [0, n) that are not in chosen,
// which must be sorted ascending. It returns dst.
func Complement(n int, chosen []int, dst []int) []int {
	dst = dst[:0]
	j := 0
	for i := 0; i < n; i++ {
		if j < len(chosen) && chosen[j] == i {
			j++
			continue
		}
		dst = append(dst, i)
	}
	return dst
}
