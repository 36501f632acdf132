package wam

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/brunokim/tagged-wam/errors"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wam: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is a copy of the machine state that can be restored later.
type Snapshot struct {
	Heap      []byte               `cbor:"1,keyasint"`
	Registers map[RegAddr]Register `cbor:"2,keyasint"`
	Mode      UnificationMode      `cbor:"3,keyasint"`
	Subterm   Addr                 `cbor:"4,keyasint"`
}

// Snapshot copies the allocated heap, registers and mode.
func (m *Machine) Snapshot() *Snapshot {
	s := &Snapshot{
		Heap:      make([]byte, m.heap.top),
		Registers: make(map[RegAddr]Register, len(m.reg)),
		Mode:      m.Mode,
		Subterm:   m.Subterm,
	}
	copy(s.Heap, m.heap.buf[:m.heap.top])
	for r, reg := range m.reg {
		s.Registers[r] = reg
	}
	return s
}

// Restore replaces the machine state with s, after checking that every cell and
// register points inside the heap.
func (m *Machine) Restore(s *Snapshot) error {
	if err := s.validate(); err != nil {
		return err
	}
	h := newHeap(len(s.Heap), m.cfg.Heap.Increment)
	copy(h.buf, s.Heap)
	h.top = Addr(len(s.Heap))
	h.checkAndExpand()
	m.heap = h
	m.reg = make(map[RegAddr]Register, len(s.Registers))
	for r, reg := range s.Registers {
		m.reg[r] = reg
	}
	m.Mode = s.Mode
	m.Subterm = s.Subterm
	m.pdl.Reset()
	return nil
}

func (s *Snapshot) validate() error {
	n := len(s.Heap)
	if n%CellSize != 0 {
		return errors.New("snapshot: heap size %d is not a multiple of %d", n, CellSize)
	}
	valid := func(addr Addr) bool {
		return addr >= 0 && int(addr) < n && int(addr)%CellSize == 0
	}
	tagAt := func(addr Addr) Tag {
		return Tag(s.Heap[addr])
	}
	for addr := Addr(0); int(addr) < n; addr += CellSize {
		c := decodeCell(s.Heap[addr : addr+CellSize])
		switch c.Tag {
		case RefTag:
			if !valid(c.Addr()) {
				return errors.New("snapshot: cell %v references invalid address %d", addr, c.Value)
			}
			if tagAt(c.Addr()) == FunTag {
				return errors.New("snapshot: cell %v references a functor record", addr)
			}
		case StrTag:
			if !valid(c.Addr()) || tagAt(c.Addr()) != FunTag {
				return errors.New("snapshot: cell %v doesn't point to a functor record", addr)
			}
			fn := decodeCell(s.Heap[c.Addr() : c.Addr()+CellSize]).Functor()
			arity := int(fn.Arity)
			if int(c.Addr())+(arity+1)*CellSize > n {
				return errors.New("snapshot: structure at %v is truncated", addr)
			}
		case FunTag:
		default:
			return errors.New("snapshot: cell %v has invalid tag %d", addr, byte(c.Tag))
		}
	}
	if err := s.checkChains(); err != nil {
		return err
	}
	for r, reg := range s.Registers {
		if !valid(reg.Addr) || tagAt(reg.Addr) == FunTag {
			return errors.New("snapshot: register %v holds invalid address %d", r, int(reg.Addr))
		}
	}
	if s.Mode != Read && s.Mode != Write {
		return errors.New("snapshot: invalid mode %d", int(s.Mode))
	}
	if s.Subterm < 0 || int(s.Subterm) > n || int(s.Subterm)%CellSize != 0 {
		return errors.New("snapshot: invalid subterm address %d", int(s.Subterm))
	}
	return nil
}

// checkChains verifies that every reference chain ends in an unbound ref or a
// structure cell, so Deref terminates on the restored heap.
// All refs must already point to valid addresses.
func (s *Snapshot) checkChains() error {
	ends := make(map[Addr]bool)
	for start := Addr(0); int(start) < len(s.Heap); start += CellSize {
		seen := make(map[Addr]bool)
		for addr := start; !ends[addr]; {
			c := decodeCell(s.Heap[addr : addr+CellSize])
			if c.Tag != RefTag || c.Addr() == addr {
				break
			}
			if seen[addr] {
				return errors.New("snapshot: reference chain from %v loops at %v", start, addr)
			}
			seen[addr] = true
			addr = c.Addr()
		}
		for addr := range seen {
			ends[addr] = true
		}
	}
	return nil
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, errors.New("wam: unmarshal snapshot: %v", err)
	}
	return &s, nil
}
