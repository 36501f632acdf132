package wam

// allocStructure places a structure header and its functor record at the top of
// the heap, and returns the header address.
func (m *Machine) allocStructure(f Functor) Addr {
	addr := m.heap.alloc(2)
	m.heap.write(addr, strCell(addr+CellSize))
	m.heap.write(addr+CellSize, funCell(f))
	return addr
}

// allocVariable places an unbound ref at the top of the heap.
func (m *Machine) allocVariable() Addr {
	addr := m.heap.alloc(1)
	m.heap.write(addr, refCell(addr))
	return addr
}

// PutStructure starts building a structure with functor f, whose arguments are the
// cells appended next. The structure is placed in reg.
func (m *Machine) PutStructure(f Functor, reg RegAddr) Addr {
	addr := m.allocStructure(f)
	m.setReg(reg, Register{StrTag, addr})
	return addr
}

// GetStructure matches the term in reg against functor f.
//
// If reg derefs to an unbound variable, a new structure is built and bound to it, and
// the following unify instructions run in write mode. If it derefs to a structure with
// the same functor, they run in read mode over its arguments. Otherwise it fails.
func (m *Machine) GetStructure(f Functor, reg RegAddr) error {
	addr := m.Deref(m.Reg(reg).Addr)
	cell := m.heap.read(addr)
	switch cell.Tag {
	case RefTag:
		str := m.allocStructure(f)
		if err := m.Bind(addr, str); err != nil {
			return err
		}
		m.Subterm = str + 2*CellSize
		m.Mode = Write
	case StrTag:
		fn := m.heap.read(cell.Addr()).Functor()
		if fn != f {
			return m.fail(&UnifyError{fn, f})
		}
		m.Subterm = cell.Addr() + CellSize
		m.Mode = Read
	default:
		return m.fail(&UnifyError{cell, f})
	}
	return nil
}

// PutVariable places a new unbound variable in both x and a.
func (m *Machine) PutVariable(x, a RegAddr) Addr {
	addr := m.allocVariable()
	m.setReg(x, Register{RefTag, addr})
	m.setReg(a, Register{RefTag, addr})
	return addr
}

// GetVariable copies the contents of a into x.
func (m *Machine) GetVariable(x, a RegAddr) {
	m.setReg(x, m.Reg(a))
}

// SetVariable appends a new unbound variable to the heap and places it in reg.
func (m *Machine) SetVariable(reg RegAddr) Addr {
	addr := m.allocVariable()
	m.setReg(reg, Register{RefTag, addr})
	return addr
}

// UnifyVariable binds reg to the current structure argument.
// In read mode, reg receives the argument cell at Subterm.
// In write mode, a new unbound variable is appended as the argument.
func (m *Machine) UnifyVariable(reg RegAddr) {
	switch m.Mode {
	case Read:
		cell := m.heap.read(m.Subterm)
		m.setReg(reg, Register{cell.Tag, m.Subterm})
	case Write:
		m.SetVariable(reg)
	}
	m.Subterm += CellSize
}

// GetValue unifies the terms in x and a.
func (m *Machine) GetValue(x, a RegAddr) error {
	return m.Unify(m.Reg(x).Addr, m.Reg(a).Addr)
}

// PutValue copies the contents of x into a.
func (m *Machine) PutValue(x, a RegAddr) {
	m.setReg(a, m.Reg(x))
}

// SetValue appends the term in reg to the heap, as the next structure argument.
func (m *Machine) SetValue(reg RegAddr) {
	r := m.Reg(reg)
	cell := refCell(r.Addr)
	if r.Tag == StrTag {
		// Copy the structure cell, so the argument points to the functor record.
		cell = m.heap.read(r.Addr)
	}
	addr := m.heap.alloc(1)
	m.heap.write(addr, cell)
}

// UnifyValue matches the term in reg with the current structure argument.
// In read mode, they are unified. In write mode, the term is appended as the argument.
func (m *Machine) UnifyValue(reg RegAddr) error {
	var err error
	switch m.Mode {
	case Read:
		err = m.Unify(m.Reg(reg).Addr, m.Subterm)
	case Write:
		m.SetValue(reg)
	}
	m.Subterm += CellSize
	return err
}
