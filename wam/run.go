package wam

import (
	"encoding/json"
	"fmt"

	"github.com/brunokim/tagged-wam/errors"
)

// ErrFailure matches every unification failure with errors.Is.
var ErrFailure = errors.New("unification failure")

// UnifyError reports two terms that can't be made equal.
type UnifyError struct {
	Left, Right interface{}
}

func (err *UnifyError) Error() string {
	return fmt.Sprintf("%v != %v", err.Left, err.Right)
}

// Is makes UnifyError match ErrFailure.
func (err *UnifyError) Is(target error) bool {
	return target == ErrFailure
}

func (m *Machine) fail(err error) error {
	log.Debugf("failure: %v", err)
	return err
}

// Execute runs a single instruction. If Trace is set, the machine state after the
// instruction is written to it as a JSON line.
func (m *Machine) Execute(instr Instruction) error {
	var err error
	switch instr := instr.(type) {
	case PutStructure:
		m.PutStructure(instr.Functor, instr.Reg)
	case GetStructure:
		err = m.GetStructure(instr.Functor, instr.Reg)
	case PutVariable:
		m.PutVariable(instr.Reg, instr.ArgReg)
	case GetVariable:
		m.GetVariable(instr.Reg, instr.ArgReg)
	case PutValue:
		m.PutValue(instr.Reg, instr.ArgReg)
	case GetValue:
		err = m.GetValue(instr.Reg, instr.ArgReg)
	case SetVariable:
		m.SetVariable(instr.Reg)
	case SetValue:
		m.SetValue(instr.Reg)
	case UnifyVariable:
		m.UnifyVariable(instr.Reg)
	case UnifyValue:
		err = m.UnifyValue(instr.Reg)
	default:
		panic(fmt.Sprintf("wam.Machine.Execute: unhandled type %T (%v)", instr, instr))
	}
	m.clock++
	m.traceWrite(instr, err)
	return err
}

func (m *Machine) traceWrite(instr Instruction, err error) {
	if m.Trace == nil {
		return
	}
	data, merr := json.Marshal(newTraceEvent(m, instr, err))
	if merr != nil {
		log.Errorf("failed to marshal trace event: %v", merr)
		return
	}
	data = append(data, '\n')
	if _, werr := m.Trace.Write(data); werr != nil {
		log.Errorf("failed to write trace event: %v", werr)
	}
}

// Deref walks the reference chain from addr until it finds a non-ref cell or an
// unbound ref, and returns its address.
func (m *Machine) Deref(addr Addr) Addr {
	for {
		c := m.heap.read(addr)
		if c.Tag != RefTag || c.Addr() == addr {
			return addr
		}
		addr = c.Addr()
	}
}

// Bind points an unbound ref to the other address. a1 is bound if it's unbound;
// otherwise a2 must be unbound. Addresses are not dereferenced.
func (m *Machine) Bind(a1, a2 Addr) error {
	if m.isUnbound(a1) {
		m.heap.write(a1, refCell(a2))
		return nil
	}
	if m.isUnbound(a2) {
		m.heap.write(a2, refCell(a1))
		return nil
	}
	return m.fail(&UnifyError{m.heap.read(a1), m.heap.read(a2)})
}

// Unify makes the terms at a1 and a2 equal, binding unbound refs to the other side.
//
// Pairs of addresses to unify are kept in the push-down list, so nested structures
// don't consume the Go stack. On failure, bindings already made are kept.
func (m *Machine) Unify(a1, a2 Addr) error {
	m.pdl.Reset()
	m.pdl.Push(int(a1))
	m.pdl.Push(int(a2))
	for !m.pdl.IsEmpty() {
		// Pop address pair from stack.
		d2 := m.Deref(Addr(m.pdl.Pop()))
		d1 := m.Deref(Addr(m.pdl.Pop()))
		if d1 == d2 {
			// 1. They are the same, nothing to do.
			continue
		}
		c1, c2 := m.heap.read(d1), m.heap.read(d2)
		if c1.Tag == RefTag || c2.Tag == RefTag {
			// 2. Some of them is a ref. Bind them.
			if err := m.Bind(d1, d2); err != nil {
				return err
			}
			continue
		}
		// 3. Check if they are both struct cells.
		if c1.Tag != StrTag || c2.Tag != StrTag {
			return m.fail(&UnifyError{c1, c2})
		}
		// 4. Get the functors being pointed by the structs.
		v1, v2 := c1.Addr(), c2.Addr()
		f1, f2 := m.heap.read(v1).Functor(), m.heap.read(v2).Functor()
		if f1 != f2 {
			return m.fail(&UnifyError{f1, f2})
		}
		// 5. Push addresses of args pair-wise onto stack.
		for i := 1; i <= int(f1.Arity); i++ {
			offset := Addr(i * CellSize)
			m.pdl.Push(int(v1 + offset))
			m.pdl.Push(int(v2 + offset))
		}
	}
	return nil
}
