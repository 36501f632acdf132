package wam_test

import (
	"fmt"

	"github.com/brunokim/tagged-wam/wam"
)

func Example() {
	m := wam.NewMachine()
	f, a := wam.NewFunctor('f', 1), wam.NewFunctor('a', 0)

	// X1 = f(X2)
	m.PutStructure(f, 1)
	m.SetVariable(2)

	// Match X1 against f(a): X2 is read from the existing structure, and a new
	// constant is written for it.
	if err := m.GetStructure(f, 1); err != nil {
		fmt.Println(err)
		return
	}
	m.UnifyVariable(3)
	if err := m.GetStructure(a, 3); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.TraceRegister(1))
	fmt.Println(m.TraceRegister(2))
	// Output: f(a)
	// a
}

func ExampleDecodeProgram() {
	instrs, err := wam.DecodeProgram(`
		put_structure a/0, X1
		put_structure b/0, X2
		put_structure g/2, X3
		set_value X1
		set_variable X4
		get_structure g/2, X3
		unify_variable X5
		unify_value X2`)
	if err != nil {
		fmt.Println(err)
		return
	}
	m := wam.NewMachine()
	for _, instr := range instrs {
		if err := m.Execute(instr); err != nil {
			fmt.Println(err)
			return
		}
	}
	fmt.Println(m.TraceRegister(3))
	// Output: g(a, b)
}

func ExampleMachine_DumpCells() {
	m := wam.NewMachine()
	m.PutStructure(wam.NewFunctor('f', 1), 1)
	m.SetVariable(2)
	fmt.Println(m.DumpCells(0, 3))
	// Output: 000: (STR, 1)
	// 001:  f / 1
	// 002: (REF, 2)
}
