package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/colscan/internal/offheap"
)

// LengthPrefixSize is the width of the big-endian length before each
// variable-width value.
const LengthPrefixSize = 2

// AppendVariable appends value to dst in the variable-width layout.
func AppendVariable(dst, value []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(value)))
	return append(dst, value...)
}

// parseOffsets returns the payload start of each of rowCount values.
func parseOffsets(data []byte, rowCount int) ([]int32, error) {
	offsets := make([]int32, rowCount)
	pos := 0
	for i := range rowCount {
		if pos+LengthPrefixSize > len(data) {
			return nil, fmt.Errorf("%w: truncated length prefix at row %d", ErrInvalidData, i)
		}
		n := int(binary.BigEndian.Uint16(data[pos:]))
		pos += LengthPrefixSize
		if pos+n > len(data) {
			return nil, fmt.Errorf("%w: value of row %d overruns data", ErrInvalidData, i)
		}
		offsets[i] = int32(pos)
		pos += n
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d rows", ErrInvalidData, len(data)-pos, rowCount)
	}
	return offsets, nil
}

func valueAt(data []byte, start int) []byte {
	n := int(binary.BigEndian.Uint16(data[start-LengthPrefixSize:]))
	return data[start : start+n : start+n]
}

// ownedVariable keeps length-prefixed values in a heap slice.
type ownedVariable struct {
	base
	data     []byte
	offsets  []int32
	inverted []int32
}

func newOwnedVariable(hasInverted bool, rowCount int) *ownedVariable {
	return &ownedVariable{
		base: base{rowCount: rowCount, hasInverted: hasInverted},
	}
}

func (s *ownedVariable) Put(data []byte, inverted []int32) error {
	if err := s.beginPut(inverted); err != nil {
		return err
	}
	offsets, err := parseOffsets(data, s.rowCount)
	if err != nil {
		return err
	}
	s.data = append([]byte(nil), data...)
	s.offsets = offsets
	if inverted != nil {
		s.inverted = append([]int32(nil), inverted...)
	}
	s.populated = true
	return nil
}

func (s *ownedVariable) Get(row int) []byte {
	s.checkRow(row)
	return valueAt(s.data, int(s.offsets[row]))
}

func (s *ownedVariable) Compare(row int, key []byte) int {
	return compare(s.Get(row), key)
}

func (s *ownedVariable) InvertedIndex(sorted int) int {
	s.checkRow(sorted)
	if !s.hasInverted {
		return sorted
	}
	return int(s.inverted[sorted])
}

func (s *ownedVariable) ValueSize() int   { return 0 }
func (s *ownedVariable) Kind() Kind       { return Variable }
func (s *ownedVariable) Backend() Backend { return Owned }

func (s *ownedVariable) Release() {
	s.released = true
	s.data = nil
	s.offsets = nil
	s.inverted = nil
}

// borrowedVariable keeps length-prefixed values in an off-heap buffer laid
// out as [values][offsets, 4 bytes per row][inverted index, 4 bytes per row].
type borrowedVariable struct {
	base
	dataLen int
	buf     *offheap.Buffer
}

func newBorrowedVariable(buf *offheap.Buffer, dataLen int, hasInverted bool, rowCount int) *borrowedVariable {
	return &borrowedVariable{
		base:    base{rowCount: rowCount, hasInverted: hasInverted},
		dataLen: dataLen,
		buf:     buf,
	}
}

func borrowedVariableSize(dataLen int, hasInverted bool, rowCount int) int {
	size := dataLen + indexEntrySize*rowCount
	if hasInverted {
		size += indexEntrySize * rowCount
	}
	return size
}

func (s *borrowedVariable) Put(data []byte, inverted []int32) error {
	if err := s.beginPut(inverted); err != nil {
		return err
	}
	if len(data) != s.dataLen {
		return fmt.Errorf("%w: %d bytes, store sized for %d", ErrInvalidData, len(data), s.dataLen)
	}
	offsets, err := parseOffsets(data, s.rowCount)
	if err != nil {
		return err
	}
	mem := s.buf.Bytes()
	copy(mem, data)
	putIndex(mem[s.dataLen:], offsets)
	putIndex(mem[s.dataLen+indexEntrySize*s.rowCount:], inverted)
	s.populated = true
	return nil
}

func (s *borrowedVariable) Get(row int) []byte {
	s.checkRow(row)
	mem := s.buf.Bytes()
	return valueAt(mem[:s.dataLen], getIndex(mem[s.dataLen:], row))
}

func (s *borrowedVariable) Compare(row int, key []byte) int {
	return compare(s.Get(row), key)
}

func (s *borrowedVariable) InvertedIndex(sorted int) int {
	s.checkRow(sorted)
	if !s.hasInverted {
		return sorted
	}
	return getIndex(s.buf.Bytes()[s.dataLen+indexEntrySize*s.rowCount:], sorted)
}

func (s *borrowedVariable) ValueSize() int   { return 0 }
func (s *borrowedVariable) Kind() Kind       { return Variable }
func (s *borrowedVariable) Backend() Backend { return Borrowed }

func (s *borrowedVariable) Release() {
	s.released = true
	_ = s.buf.Release()
}
