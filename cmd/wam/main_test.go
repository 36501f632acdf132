package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/brunokim/tagged-wam/errors"
	"github.com/brunokim/tagged-wam/wam"
)

func newCtx() (*ctx, *bytes.Buffer) {
	var buf bytes.Buffer
	return &ctx{m: wam.NewMachine(), out: &buf}, &buf
}

func TestHandle(t *testing.T) {
	c, out := newCtx()
	lines := []string{
		"% f(X) = f(a)",
		"put_structure f/1, X1",
		"set_variable X2",
		"put_structure a/0, X3",
		"get_structure f/1, X1",
		"unify_value X3",
		"trace X1",
		"trace X2",
	}
	for _, line := range lines {
		if err := c.handle(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if diff := cmp.Diff("f(a)\na\n", out.String()); diff != "" {
		t.Errorf("output (-want, +got)\n%s", diff)
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		lines []string
		want  string
	}{
		{[]string{"trace"}, "usage: trace Xi"},
		{[]string{"trace X1"}, "register X1 is not set"},
		{[]string{"load"}, "usage: load FILE"},
		{[]string{"set_value X4"}, "set_value X4: register X4 is not set"},
		{[]string{"put_structure a/0, X1", "get_structure a/0, X1", "unify_variable X3"}, "unify_variable X3: no structure argument to read"},
		{[]string{"put_structure f/1, X1", "set_variable X2", "get_structure a/0, X1"}, "false: f/1 != a/0"},
	}
	for _, test := range tests {
		c, _ := newCtx()
		var err error
		for _, line := range test.lines {
			if err = c.handle(line); err != nil {
				break
			}
		}
		if err == nil {
			t.Errorf("%v: expected error", test.lines)
			continue
		}
		if diff := cmp.Diff(test.want, err.Error()); diff != "" {
			t.Errorf("%v: error (-want, +got)\n%s", test.lines, diff)
		}
	}
}

func TestHandle_FailureUnwraps(t *testing.T) {
	c, _ := newCtx()
	c.handle("put_structure f/1, X1")
	c.handle("set_variable X2")
	err := c.handle("get_structure a/0, X1")
	if !errors.Is(err, wam.ErrFailure) {
		t.Errorf("got %v, want unification failure", err)
	}
}

func TestHandle_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.cbor")
	c1, _ := newCtx()
	for _, line := range []string{"put_structure f/1, X1", "set_variable X2", "save " + path} {
		if err := c1.handle(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	c2, out := newCtx()
	for _, line := range []string{"load " + path, "trace X1"} {
		if err := c2.handle(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if diff := cmp.Diff("f(_G2)\n", out.String()); diff != "" {
		t.Errorf("output (-want, +got)\n%s", diff)
	}
}

func TestHandle_LoadRefCycle(t *testing.T) {
	c1, _ := newCtx()
	c1.handle("set_variable X1")
	c1.handle("set_variable X2")
	s := c1.m.Snapshot()
	s.Heap[0*wam.CellSize+8] = wam.CellSize
	s.Heap[1*wam.CellSize+8] = 0
	data, err := wam.MarshalSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cycle.cbor")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c2, _ := newCtx()
	if err := c2.handle("load " + path); err == nil {
		t.Errorf("expected error loading snapshot with a reference cycle")
	}
}
