// Package fuzz has go-fuzz entry points for the machine.
package fuzz

import (
	"fmt"

	"github.com/brunokim/tagged-wam/wam"
)

// Fuzz decodes one instruction per line and runs them on a fresh machine, checking
// heap invariants after each one. Instructions whose preconditions don't hold are
// skipped.
//
// Unify has no occurs check and doesn't terminate on two cyclic terms, so unifying
// instructions are also skipped when a term they read is already cyclic. Cycles
// created during a single unification are not detected.
func Fuzz(data []byte) int {
	instrs, err := wam.DecodeProgram(string(data))
	if err != nil {
		return 0
	}
	m := wam.NewMachine()
	for _, instr := range instrs {
		if !ready(m, instr) {
			continue
		}
		m.Execute(instr)
		checkInvariants(m)
	}
	return 1
}

// ready reports whether the registers and structure arguments read by instr exist.
func ready(m *wam.Machine, instr wam.Instruction) bool {
	switch i := instr.(type) {
	case wam.GetStructure:
		return m.HasReg(i.Reg)
	case wam.GetVariable:
		return m.HasReg(i.ArgReg)
	case wam.PutValue:
		return m.HasReg(i.Reg)
	case wam.GetValue:
		return m.HasReg(i.Reg) && m.HasReg(i.ArgReg) &&
			!cyclic(m, m.Reg(i.Reg).Addr) && !cyclic(m, m.Reg(i.ArgReg).Addr)
	case wam.SetValue:
		return m.HasReg(i.Reg)
	case wam.UnifyVariable:
		return m.Mode == wam.Write || m.Subterm < m.Top()
	case wam.UnifyValue:
		if !m.HasReg(i.Reg) {
			return false
		}
		if m.Mode == wam.Write {
			return true
		}
		return m.Subterm < m.Top() && !cyclic(m, m.Reg(i.Reg).Addr) && !cyclic(m, m.Subterm)
	}
	return true
}

// cyclic reports whether the term at addr contains itself.
func cyclic(m *wam.Machine, addr wam.Addr) bool {
	return walk(m, addr, make(map[wam.Addr]bool), make(map[wam.Addr]bool))
}

// walk visits structures depth-first. parents holds the functor records of the
// structures being visited, done those already known to be acyclic.
func walk(m *wam.Machine, addr wam.Addr, parents, done map[wam.Addr]bool) bool {
	cell := m.Cell(m.Deref(addr))
	if cell.Tag != wam.StrTag {
		return false
	}
	fun := cell.Addr()
	if parents[fun] {
		return true
	}
	if done[fun] {
		return false
	}
	parents[fun] = true
	arity := int(m.Cell(fun).Functor().Arity)
	for i := 1; i <= arity; i++ {
		if walk(m, fun+wam.Addr(i*wam.CellSize), parents, done) {
			return true
		}
	}
	delete(parents, fun)
	done[fun] = true
	return false
}

func checkInvariants(m *wam.Machine) {
	if int(m.Top())%wam.CellSize != 0 {
		panic(fmt.Sprintf("unaligned heap top %d", m.Top()))
	}
	for addr := wam.Addr(0); addr < m.Top(); addr += wam.CellSize {
		cell := m.Cell(addr)
		switch cell.Tag {
		case wam.RefTag:
			if a := cell.Addr(); a < 0 || a >= m.Top() {
				panic(fmt.Sprintf("ref at %v points outside the heap: %v", addr, cell))
			}
			d := m.Deref(addr)
			if dd := m.Deref(d); dd != d {
				panic(fmt.Sprintf("deref not idempotent at %v: %v != %v", addr, dd, d))
			}
		case wam.StrTag:
			if m.Cell(cell.Addr()).Tag != wam.FunTag {
				panic(fmt.Sprintf("struct at %v doesn't point to a functor: %v", addr, cell))
			}
		}
	}
}
