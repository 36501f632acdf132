package wam_test

import (
	"testing"

	"github.com/brunokim/tagged-wam/wam"
)

type (
	functor = wam.Functor
	reg     = wam.RegAddr

	put_structure  = wam.PutStructure
	get_structure  = wam.GetStructure
	put_variable   = wam.PutVariable
	get_variable   = wam.GetVariable
	put_value      = wam.PutValue
	get_value      = wam.GetValue
	set_variable   = wam.SetVariable
	set_value      = wam.SetValue
	unify_variable = wam.UnifyVariable
	unify_value    = wam.UnifyValue
)

var (
	fn = wam.NewFunctor

	h = fn('h', 2)
	f = fn('f', 1)
	p = fn('p', 3)
	a = fn('a', 0)
)

func run(t *testing.T, m *wam.Machine, instrs ...wam.Instruction) {
	t.Helper()
	for i, instr := range instrs {
		if err := m.Execute(instr); err != nil {
			t.Fatalf("#%d %v: %v", i, instr, err)
		}
	}
}

func cellAddr(idx int) wam.Addr {
	return wam.Addr(idx * wam.CellSize)
}
