package wam_test

import (
	"strings"
	"testing"

	"github.com/brunokim/tagged-wam/test_helpers"
	"github.com/brunokim/tagged-wam/wam"
)

func TestTraceBinding(t *testing.T) {
	m := wam.NewMachine()
	x := m.SetVariable(1)
	m.PutStructure(a, 2)
	m.PutStructure(h, 3)
	m.SetValue(2)
	m.SetValue(1)
	m.PutStructure(fn('#', 0), 4)

	tests := []struct {
		addr wam.Addr
		want string
	}{
		{x, "_G0"},
		{m.Reg(2).Addr, "a"},
		{m.Reg(3).Addr, "h(a, _G0)"},
		{m.Reg(4).Addr, "#35"},
	}
	for _, test := range tests {
		if got := m.TraceBinding(test.addr); got != test.want {
			t.Errorf("TraceBinding(%v) = %s, want %s", test.addr, got, test.want)
		}
	}
}

func TestTraceBinding_Cycle(t *testing.T) {
	m := wam.NewMachine()
	// X = f(X)
	m.SetVariable(1)
	m.PutStructure(f, 2)
	m.SetValue(1)
	if err := m.GetValue(1, 2); err != nil {
		t.Fatal(err)
	}
	for _, r := range []reg{1, 2} {
		if got, want := m.TraceRegister(r), "f(_S1)=_S1"; got != want {
			t.Errorf("X%d = %s, want %s", r, got, want)
		}
	}
}

func TestDumpCells(t *testing.T) {
	m := wam.NewMachine()
	run(t, m, queryInstrs...)
	want := test_helpers.Dedent(`
        000: (STR, 1)
        001:  h / 2
        002: (REF, 2)
        003: (REF, 3)
        004: (STR, 5)
        005:  f / 1
        006: (REF, 3)
        007: (STR, 8)
        008:  p / 3
        009: (REF, 2)
        010: (STR, 1)
        011: (STR, 5)`)
	if got := m.DumpCells(0, 100); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
	if got := m.DumpCells(10, 11); got != "010: (STR, 1)" {
		t.Errorf("got %q", got)
	}
	if got := m.DumpCells(5, 5); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestMachine_String(t *testing.T) {
	m := wam.NewMachine()
	run(t, m, queryInstrs...)
	run(t, m, get_structure{p, reg(1)})
	s := m.String()
	for _, want := range []string{
		"top: 12",
		"unification_mode: Read",
		"subterm: 9",
		"X1: (STR, 7)",
		"008:  p / 3",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("%q not found in\n%s", want, s)
		}
	}
}
