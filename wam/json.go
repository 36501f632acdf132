package wam

func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (r RegAddr) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (f Functor) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (i UnificationMode) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (r Register) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// traceEvent is the machine state written after each executed instruction.
type traceEvent struct {
	Clock   int                  `json:"clock"`
	Instr   string               `json:"instr"`
	Top     Addr                 `json:"top"`
	Mode    UnificationMode      `json:"mode"`
	Subterm Addr                 `json:"subterm"`
	Reg     map[RegAddr]Register `json:"reg"`
	Err     string               `json:"err,omitempty"`
}

func newTraceEvent(m *Machine, instr Instruction, err error) traceEvent {
	event := traceEvent{
		Clock:   m.clock,
		Instr:   instr.String(),
		Top:     m.heap.top,
		Mode:    m.Mode,
		Subterm: m.Subterm,
		Reg:     m.reg,
	}
	if err != nil {
		event.Err = err.Error()
	}
	return event
}
