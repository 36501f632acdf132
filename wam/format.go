package wam

import (
	"fmt"
	"strings"
)

// TraceBinding renders the term at addr, following bindings.
//
// Structures are written as the functor name followed by the parenthesized
// arguments, e.g. "f(a, _G3)". Unbound variables are written as _G followed by the
// cell index. Cyclic terms, possible because unification has no occurs check, write
// the repeated subterm as _S<n> and annotate the loop head with =_S<n>.
func (m *Machine) TraceBinding(addr Addr) string {
	ctx := &formatCtx{
		m:       m,
		b:       new(strings.Builder),
		parents: make(map[Addr]struct{}),
		loops:   make(map[Addr]string),
	}
	ctx.format(addr)
	return ctx.b.String()
}

// TraceRegister renders the term held by register r.
func (m *Machine) TraceRegister(r RegAddr) string {
	return m.TraceBinding(m.Reg(r).Addr)
}

type formatCtx struct {
	m       *Machine
	b       *strings.Builder
	parents map[Addr]struct{}
	loops   map[Addr]string
	id      int
}

func (ctx *formatCtx) format(addr Addr) {
	addr = ctx.m.Deref(addr)
	cell := ctx.m.heap.read(addr)
	if cell.Tag == RefTag {
		fmt.Fprintf(ctx.b, "_G%d", addr.Index())
		return
	}
	if cell.Tag != StrTag {
		fmt.Fprintf(ctx.b, "<%v>", cell)
		return
	}
	// Handle self-reference, keyed by the functor record shared by all copies.
	key := cell.Addr()
	if _, ok := ctx.parents[key]; ok {
		label, ok := ctx.loops[key]
		if !ok {
			ctx.id++
			label = fmt.Sprintf("_S%d", ctx.id)
			ctx.loops[key] = label
		}
		ctx.b.WriteString(label)
		return
	}
	// Add cell to parent set, and remove after return.
	ctx.parents[key] = struct{}{}
	defer delete(ctx.parents, key)

	f := ctx.m.heap.read(key).Functor()
	ctx.b.WriteString(f.Name())
	if f.Arity > 0 {
		ctx.b.WriteString("(")
		for i := 1; i <= int(f.Arity); i++ {
			ctx.format(key + Addr(i*CellSize))
			if i < int(f.Arity) {
				ctx.b.WriteString(", ")
			}
		}
		ctx.b.WriteString(")")
	}
	// Annotate parents that loop.
	if label, ok := ctx.loops[key]; ok {
		delete(ctx.loops, key)
		fmt.Fprintf(ctx.b, "=%s", label)
	}
}

// DumpCells renders the cells with index in [start, end), one per line.
//
//     000: (STR, 1)
//     001:  h / 2
//     002: (REF, 2)
func (m *Machine) DumpCells(start, end int) string {
	if n := m.heap.top.Index(); end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return ""
	}
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.dumpCell(i))
	}
	return strings.Join(lines, "\n")
}

func (m *Machine) dumpCell(idx int) string {
	cell := m.heap.read(Addr(idx * CellSize))
	switch cell.Tag {
	case RefTag, StrTag:
		return fmt.Sprintf("%03d: (%v, %d)", idx, cell.Tag, cell.Addr().Index())
	case FunTag:
		f := cell.Functor()
		return fmt.Sprintf("%03d:  %s / %d", idx, f.Name(), f.Arity)
	}
	return fmt.Sprintf("%03d: %v", idx, cell)
}
