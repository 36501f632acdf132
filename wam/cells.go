package wam

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// CellSize is the number of bytes of a heap cell: a tag byte followed by a
// big-endian 64-bit value.
const CellSize = 9

// Tag identifies what a heap cell holds.
type Tag byte

const (
	// RefTag cells hold the address they reference. An unbound variable references itself.
	RefTag Tag = iota + 1
	// StrTag cells hold the address of a functor record, always the next cell.
	StrTag
	// FunTag cells hold a functor record. They are reached only through a StrTag cell.
	FunTag
)

func (t Tag) String() string {
	switch t {
	case RefTag:
		return "REF"
	case StrTag:
		return "STR"
	case FunTag:
		return "FUN"
	}
	return fmt.Sprintf("Tag(%d)", byte(t))
}

// Cell is a decoded heap cell.
type Cell struct {
	Tag   Tag
	Value uint64
}

// Addr returns the address held by a REF or STR cell.
func (c Cell) Addr() Addr {
	return Addr(c.Value)
}

// Functor returns the functor held by a FUN cell.
func (c Cell) Functor() Functor {
	if c.Tag != FunTag {
		panic(fmt.Sprintf("wam.Cell.Functor: not a functor record: %v", c))
	}
	return unpackFunctor(c.Value)
}

func (c Cell) String() string {
	switch c.Tag {
	case RefTag, StrTag:
		return fmt.Sprintf("(%v, %d)", c.Tag, c.Addr().Index())
	case FunTag:
		return c.Functor().String()
	}
	return fmt.Sprintf("(%v, %d)", c.Tag, c.Value)
}

func (f Functor) pack() uint64 {
	return uint64(f.ID)<<8 | uint64(f.Arity)
}

func unpackFunctor(v uint64) Functor {
	return Functor{ID: uint16(v >> 8), Arity: uint8(v)}
}

// heap is an append-only byte buffer of cells, grown by copying.
type heap struct {
	buf       []byte
	top       Addr
	increment int
}

func newHeap(size, increment int) *heap {
	if size < 0 {
		size = 0
	}
	if increment < CellSize {
		increment = CellSize
	}
	h := &heap{buf: make([]byte, size), increment: increment}
	h.checkAndExpand()
	return h
}

// alloc reserves n cells at the top of the heap and returns the first address.
func (h *heap) alloc(n int) Addr {
	addr := h.top
	for len(h.buf)-int(h.top) < n*CellSize {
		h.grow()
	}
	h.top += Addr(n * CellSize)
	h.checkAndExpand()
	return addr
}

// checkAndExpand keeps at least one free cell after the top.
func (h *heap) checkAndExpand() {
	if len(h.buf)-int(h.top) < CellSize {
		h.grow()
	}
}

func (h *heap) grow() {
	buf := make([]byte, len(h.buf)+h.increment)
	copy(buf, h.buf)
	h.buf = buf
	log.Debugf("heap grown to %d bytes", len(buf))
}

func (h *heap) check(addr Addr) {
	if addr < 0 || addr >= h.top || int(addr)%CellSize != 0 {
		panic(fmt.Sprintf("wam: invalid heap address %d (top %d)", int(addr), int(h.top)))
	}
}

func (h *heap) read(addr Addr) Cell {
	h.check(addr)
	return decodeCell(h.buf[addr : addr+CellSize])
}

func decodeCell(b []byte) Cell {
	return Cell{Tag: Tag(b[0]), Value: binary.BigEndian.Uint64(b[1:CellSize])}
}

func (h *heap) write(addr Addr, c Cell) {
	h.check(addr)
	h.buf[addr] = byte(c.Tag)
	binary.BigEndian.PutUint64(h.buf[addr+1:addr+CellSize], c.Value)
}

// Cell decodes the heap cell at addr.
func (m *Machine) Cell(addr Addr) Cell {
	return m.heap.read(addr)
}

func refCell(addr Addr) Cell {
	return Cell{Tag: RefTag, Value: uint64(addr)}
}

func strCell(addr Addr) Cell {
	return Cell{Tag: StrTag, Value: uint64(addr)}
}

func funCell(f Functor) Cell {
	return Cell{Tag: FunTag, Value: f.pack()}
}

// isUnbound returns whether addr holds a self-referencing REF cell.
func (m *Machine) isUnbound(addr Addr) bool {
	c := m.heap.read(addr)
	return c.Tag == RefTag && c.Addr() == addr
}

func sortedRegs(regs map[RegAddr]Register) []RegAddr {
	keys := make([]RegAddr, 0, len(regs))
	for r := range regs {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
