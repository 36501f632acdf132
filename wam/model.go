// Package wam implements a flat Warren Abstract Machine over a tagged heap.
//
// The WAM is a register-based abstract machine for Prolog. This package keeps
// only the part needed to build and match single terms: a byte heap of fixed-size
// tagged cells, a register file, a push-down list used as the unification worklist,
// and the put/get/set/unify instructions that operate in read or write mode.
//
// There is no instruction loop, no choice points and no trail. The caller issues
// instructions one by one, and bindings made by a failed unification are kept.
//
// Learn more in "Warren’s Abstract Machine: A tutorial reconstruction", Hassan Aït-Kaci
package wam

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/brunokim/tagged-wam/config"
	"github.com/brunokim/tagged-wam/pdl"
)

// ---- Address types

// Addr is a byte offset within the heap. Valid addresses are multiples of CellSize.
type Addr int

// Index returns the position of the cell starting at a.
func (a Addr) Index() int { return int(a) / CellSize }

func (a Addr) String() string { return fmt.Sprintf("@%d", a.Index()) }

// RegAddr is the number of a machine register.
type RegAddr int

func (r RegAddr) String() string { return fmt.Sprintf("X%d", r) }

// argString formats a register used in argument position.
func argString(r RegAddr) string { return fmt.Sprintf("A%d", r) }

// ---- Basic types

// Functor represents a structure's identifier and arity.
//
// Identifiers are opaque to the machine. By convention they hold the code point of a
// one-letter name, which is how Functor is printed.
type Functor struct {
	ID    uint16
	Arity uint8
}

// NewFunctor returns the functor with a one-letter name.
func NewFunctor(name rune, arity int) Functor {
	if name < 0 || name > 0xffff {
		panic(fmt.Sprintf("wam.NewFunctor: name %q doesn't fit in 16 bits", name))
	}
	if arity < 0 || arity > 0xff {
		panic(fmt.Sprintf("wam.NewFunctor: arity %d doesn't fit in 8 bits", arity))
	}
	return Functor{uint16(name), uint8(arity)}
}

// Name returns the printable form of the identifier.
func (f Functor) Name() string {
	r := rune(f.ID)
	if unicode.IsPrint(r) && r != '/' && r != ',' && r != '#' && !unicode.IsSpace(r) {
		return string(r)
	}
	return fmt.Sprintf("#%d", f.ID)
}

func (f Functor) String() string {
	return fmt.Sprintf("%s/%d", f.Name(), f.Arity)
}

// ---- Instructions

// Instruction represents an instruction of the abstract machine.
type Instruction interface {
	fmt.Stringer
	isInstruction()
}

// PutStructure instruction: put_structure <f/n>, <reg X>
type PutStructure struct {
	Functor Functor
	Reg     RegAddr
}

// GetStructure instruction: get_structure <f/n>, <reg X>
type GetStructure struct {
	Functor Functor
	Reg     RegAddr
}

// PutVariable instruction: put_variable <reg X>, <reg A>
type PutVariable struct {
	Reg, ArgReg RegAddr
}

// GetVariable instruction: get_variable <reg X>, <reg A>
type GetVariable struct {
	Reg, ArgReg RegAddr
}

// PutValue instruction: put_value <reg X>, <reg A>
type PutValue struct {
	Reg, ArgReg RegAddr
}

// GetValue instruction: get_value <reg X>, <reg A>
type GetValue struct {
	Reg, ArgReg RegAddr
}

// SetVariable instruction: set_variable <reg X>
type SetVariable struct {
	Reg RegAddr
}

// SetValue instruction: set_value <reg X>
type SetValue struct {
	Reg RegAddr
}

// UnifyVariable instruction: unify_variable <reg X>
type UnifyVariable struct {
	Reg RegAddr
}

// UnifyValue instruction: unify_value <reg X>
type UnifyValue struct {
	Reg RegAddr
}

func (i PutStructure) isInstruction()  {}
func (i GetStructure) isInstruction()  {}
func (i PutVariable) isInstruction()   {}
func (i GetVariable) isInstruction()   {}
func (i PutValue) isInstruction()      {}
func (i GetValue) isInstruction()      {}
func (i SetVariable) isInstruction()   {}
func (i SetValue) isInstruction()      {}
func (i UnifyVariable) isInstruction() {}
func (i UnifyValue) isInstruction()    {}

func (i PutStructure) String() string {
	return fmt.Sprintf("put_structure %v, %v", i.Functor, i.Reg)
}

func (i GetStructure) String() string {
	return fmt.Sprintf("get_structure %v, %v", i.Functor, i.Reg)
}

func (i PutVariable) String() string {
	return fmt.Sprintf("put_variable %v, %s", i.Reg, argString(i.ArgReg))
}

func (i GetVariable) String() string {
	return fmt.Sprintf("get_variable %v, %s", i.Reg, argString(i.ArgReg))
}

func (i PutValue) String() string {
	return fmt.Sprintf("put_value %v, %s", i.Reg, argString(i.ArgReg))
}

func (i GetValue) String() string {
	return fmt.Sprintf("get_value %v, %s", i.Reg, argString(i.ArgReg))
}

func (i SetVariable) String() string {
	return fmt.Sprintf("set_variable %v", i.Reg)
}

func (i SetValue) String() string {
	return fmt.Sprintf("set_value %v", i.Reg)
}

func (i UnifyVariable) String() string {
	return fmt.Sprintf("unify_variable %v", i.Reg)
}

func (i UnifyValue) String() string {
	return fmt.Sprintf("unify_value %v", i.Reg)
}

// ---- Registers

// Register holds a copy of a tagged reference: the tag of the term and the address of
// the heap cell that denotes it.
type Register struct {
	Tag  Tag
	Addr Addr
}

func (r Register) String() string {
	return fmt.Sprintf("(%v, %d)", r.Tag, r.Addr.Index())
}

//go:generate stringer -type=UnificationMode

// UnificationMode is an enum for the current machine's read or write unification approach.
type UnificationMode int

const (
	Read UnificationMode = iota
	Write
)

// Machine represents an abstract machine state.
type Machine struct {
	// Read or write mode for structure arguments.
	Mode UnificationMode

	// Address of the next structure argument to read, in read mode.
	Subterm Addr

	// Destination of one JSON line per instruction run with Execute. May be nil.
	Trace io.Writer

	heap *heap
	reg  map[RegAddr]Register
	pdl  *pdl.Stack
	cfg  config.Config

	// Number of instructions run through Execute.
	clock int
}

// NewMachine returns a machine with the default memory sizes.
func NewMachine() *Machine {
	return NewMachineFromConfig(config.Default())
}

// NewMachineFromConfig returns a machine sized by cfg.
func NewMachineFromConfig(cfg config.Config) *Machine {
	m := &Machine{cfg: cfg}
	m.Reset()
	return m
}

// Reset discards every cell, register and pending state, keeping the configuration.
func (m *Machine) Reset() {
	m.heap = newHeap(m.cfg.Heap.InitialSize, m.cfg.Heap.Increment)
	m.reg = make(map[RegAddr]Register)
	m.pdl = pdl.New(m.cfg.PDL.InitialSize, m.cfg.PDL.Increment)
	m.pdl.OnGrow(func(size int) {
		log.Debugf("pdl grown to %d slots", size)
	})
	m.Mode = Read
	m.Subterm = 0
	m.clock = 0
}

// Top returns the address of the next free heap cell.
func (m *Machine) Top() Addr {
	return m.heap.top
}

// HeapCap returns the size in bytes of the heap's backing buffer.
func (m *Machine) HeapCap() int {
	return len(m.heap.buf)
}

// Reg returns the contents of register r, which must have been set.
func (m *Machine) Reg(r RegAddr) Register {
	reg, ok := m.reg[r]
	if !ok {
		panic(fmt.Sprintf("wam.Machine.Reg: register %v is not set", r))
	}
	return reg
}

// HasReg reports whether register r was set.
func (m *Machine) HasReg(r RegAddr) bool {
	_, ok := m.reg[r]
	return ok
}

func (m *Machine) setReg(r RegAddr, reg Register) {
	m.reg[r] = reg
}

func formatRegisters(regs map[RegAddr]Register) string {
	keys := sortedRegs(regs)
	if len(keys) == 0 {
		return ""
	}
	xs := make([]string, len(keys))
	for i, r := range keys {
		xs[i] = fmt.Sprintf("%v: %v", r, regs[r])
	}
	return "\n\t" + strings.Join(xs, "\n\t")
}

func (m *Machine) String() string {
	return fmt.Sprintf(`%% %p
top: %d
unification_mode: %v
subterm: %d
registers:%s
heap:%s`,
		m, m.heap.top.Index(), m.Mode, m.Subterm.Index(), formatRegisters(m.reg), indent(m.DumpCells(0, m.heap.top.Index())))
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	return "\n\t" + strings.ReplaceAll(s, "\n", "\n\t")
}
