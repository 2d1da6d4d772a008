package bitmap

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// RowSelection marks the rows of one page that satisfy a predicate.
type RowSelection struct {
	bits *bitset.BitSet
	rows int
}

// NewRowSelection creates an empty selection over rows rows.
func NewRowSelection(rows int) *RowSelection {
	return &RowSelection{bits: bitset.New(uint(rows)), rows: rows}
}

// Len returns the number of rows covered.
func (s *RowSelection) Len() int { return s.rows }

// Set marks row.
func (s *RowSelection) Set(row int) {
	s.check(row)
	s.bits.Set(uint(row))
}

// SetRange marks rows [lo, hi).
func (s *RowSelection) SetRange(lo, hi int) {
	if lo >= hi {
		return
	}
	s.check(lo)
	s.check(hi - 1)

	words := s.bits.Words()
	first, last := lo>>6, (hi-1)>>6
	head := ^uint64(0) << uint(lo&63)
	tail := ^uint64(0) >> uint(63-(hi-1)&63)
	if first == last {
		words[first] |= head & tail
		return
	}
	words[first] |= head
	for w := first + 1; w < last; w++ {
		words[w] = ^uint64(0)
	}
	words[last] |= tail
}

// Test reports whether row is marked.
func (s *RowSelection) Test(row int) bool {
	s.check(row)
	return s.bits.Test(uint(row))
}

// Count returns the number of marked rows.
func (s *RowSelection) Count() int {
	return int(s.bits.Count())
}

// Rows returns the marked rows in ascending order.
func (s *RowSelection) Rows() []int {
	out := make([]int, 0, s.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// And keeps only rows marked in both selections.
func (s *RowSelection) And(other *RowSelection) error {
	if err := s.sameShape(other); err != nil {
		return err
	}
	s.bits.InPlaceIntersection(other.bits)
	return nil
}

// Or marks rows marked in either selection.
func (s *RowSelection) Or(other *RowSelection) error {
	if err := s.sameShape(other); err != nil {
		return err
	}
	s.bits.InPlaceUnion(other.bits)
	return nil
}

func (s *RowSelection) sameShape(other *RowSelection) error {
	if other.rows != s.rows {
		return fmt.Errorf("bitmap: row count mismatch: %d vs %d", s.rows, other.rows)
	}
	return nil
}

func (s *RowSelection) check(row int) {
	if row < 0 || row >= s.rows {
		panic(fmt.Sprintf("bitmap: row %d out of range [0, %d)", row, s.rows))
	}
}

// Group holds one RowSelection per page of a block.
type Group struct {
	pages []*RowSelection
}

// NewGroup creates a group of empty selections, one per page row count.
func NewGroup(pageRows []int) *Group {
	g := &Group{pages: make([]*RowSelection, len(pageRows))}
	for i, n := range pageRows {
		g.pages[i] = NewRowSelection(n)
	}
	return g
}

// Len returns the number of pages.
func (g *Group) Len() int { return len(g.pages) }

// Page returns the selection of page i.
func (g *Group) Page(i int) *RowSelection { return g.pages[i] }

// SetPage replaces the selection of page i. The row count must match.
func (g *Group) SetPage(i int, s *RowSelection) error {
	if i < 0 || i >= len(g.pages) {
		return fmt.Errorf("bitmap: page %d out of range [0, %d)", i, len(g.pages))
	}
	if err := g.pages[i].sameShape(s); err != nil {
		return fmt.Errorf("page %d: %w", i, err)
	}
	g.pages[i] = s
	return nil
}

// Count returns the number of marked rows across all pages.
func (g *Group) Count() int {
	total := 0
	for _, p := range g.pages {
		total += p.Count()
	}
	return total
}

// And intersects g with other page by page.
func (g *Group) And(other *Group) error {
	return g.combine(other, (*RowSelection).And)
}

// Or unions g with other page by page.
func (g *Group) Or(other *Group) error {
	return g.combine(other, (*RowSelection).Or)
}

func (g *Group) combine(other *Group, op func(*RowSelection, *RowSelection) error) error {
	if len(other.pages) != len(g.pages) {
		return fmt.Errorf("bitmap: page count mismatch: %d vs %d", len(g.pages), len(other.pages))
	}
	for i, p := range g.pages {
		if err := op(p, other.pages[i]); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}
	return nil
}

// Flatten returns the marked rows as block-wide row ids; page i starts
// after the rows of pages 0..i-1.
func (g *Group) Flatten() *roaring.Bitmap {
	rb := roaring.New()
	base := uint32(0)
	for _, p := range g.pages {
		for start, ok := p.bits.NextSet(0); ok; {
			end, more := p.bits.NextClear(start)
			if !more {
				end = uint(p.rows)
			}
			rb.AddRange(uint64(base)+uint64(start), uint64(base)+uint64(end))
			if !more {
				break
			}
			start, ok = p.bits.NextSet(end)
		}
		base += uint32(p.rows)
	}
	return rb
}
