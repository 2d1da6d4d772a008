package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/colscan/internal/offheap"
)

const indexEntrySize = 4

func checkFixedData(data []byte, rowCount, valueSize int) error {
	if len(data) != rowCount*valueSize {
		return fmt.Errorf("%w: %d bytes for %d rows of width %d", ErrInvalidData, len(data), rowCount, valueSize)
	}
	return nil
}

// ownedFixed keeps fixed-width values in a heap slice.
type ownedFixed struct {
	base
	valueSize int
	data      []byte
	inverted  []int32
}

func newOwnedFixed(valueSize int, hasInverted bool, rowCount int) *ownedFixed {
	return &ownedFixed{
		base:      base{rowCount: rowCount, hasInverted: hasInverted},
		valueSize: valueSize,
	}
}

func (s *ownedFixed) Put(data []byte, inverted []int32) error {
	if err := s.beginPut(inverted); err != nil {
		return err
	}
	if err := checkFixedData(data, s.rowCount, s.valueSize); err != nil {
		return err
	}
	s.data = append([]byte(nil), data...)
	if inverted != nil {
		s.inverted = append([]int32(nil), inverted...)
	}
	s.populated = true
	return nil
}

func (s *ownedFixed) Get(row int) []byte {
	s.checkRow(row)
	off := row * s.valueSize
	return s.data[off : off+s.valueSize : off+s.valueSize]
}

func (s *ownedFixed) Compare(row int, key []byte) int {
	return compare(s.Get(row), key)
}

func (s *ownedFixed) InvertedIndex(sorted int) int {
	s.checkRow(sorted)
	if !s.hasInverted {
		return sorted
	}
	return int(s.inverted[sorted])
}

func (s *ownedFixed) ValueSize() int   { return s.valueSize }
func (s *ownedFixed) Kind() Kind       { return Fixed }
func (s *ownedFixed) Backend() Backend { return Owned }

func (s *ownedFixed) Release() {
	s.released = true
	s.data = nil
	s.inverted = nil
}

// borrowedFixed keeps fixed-width values in an off-heap buffer laid out as
// [values][inverted index, 4 bytes per row].
type borrowedFixed struct {
	base
	valueSize int
	dataLen   int
	buf       *offheap.Buffer
}

func newBorrowedFixed(buf *offheap.Buffer, valueSize int, hasInverted bool, rowCount int) *borrowedFixed {
	return &borrowedFixed{
		base:      base{rowCount: rowCount, hasInverted: hasInverted},
		valueSize: valueSize,
		dataLen:   valueSize * rowCount,
		buf:       buf,
	}
}

func borrowedFixedSize(valueSize int, hasInverted bool, rowCount int) int {
	size := valueSize * rowCount
	if hasInverted {
		size += indexEntrySize * rowCount
	}
	return size
}

func (s *borrowedFixed) Put(data []byte, inverted []int32) error {
	if err := s.beginPut(inverted); err != nil {
		return err
	}
	if err := checkFixedData(data, s.rowCount, s.valueSize); err != nil {
		return err
	}
	mem := s.buf.Bytes()
	copy(mem, data)
	putIndex(mem[s.dataLen:], inverted)
	s.populated = true
	return nil
}

func (s *borrowedFixed) Get(row int) []byte {
	s.checkRow(row)
	mem := s.buf.Bytes()
	off := row * s.valueSize
	return mem[off : off+s.valueSize : off+s.valueSize]
}

func (s *borrowedFixed) Compare(row int, key []byte) int {
	return compare(s.Get(row), key)
}

func (s *borrowedFixed) InvertedIndex(sorted int) int {
	s.checkRow(sorted)
	if !s.hasInverted {
		return sorted
	}
	return getIndex(s.buf.Bytes()[s.dataLen:], sorted)
}

func (s *borrowedFixed) ValueSize() int   { return s.valueSize }
func (s *borrowedFixed) Kind() Kind       { return Fixed }
func (s *borrowedFixed) Backend() Backend { return Borrowed }

func (s *borrowedFixed) Release() {
	s.released = true
	_ = s.buf.Release()
}

func putIndex(dst []byte, index []int32) {
	for i, v := range index {
		binary.LittleEndian.PutUint32(dst[i*indexEntrySize:], uint32(v))
	}
}

func getIndex(src []byte, i int) int {
	return int(int32(binary.LittleEndian.Uint32(src[i*indexEntrySize:])))
}
