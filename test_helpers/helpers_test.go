package test_helpers_test

import (
	"testing"

	"github.com/brunokim/tagged-wam/test_helpers"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"\n    a\n      b\n    c\n", "a\n  b\nc"},
		{"\n\t\ta\n\n\t\t\tb", "a\n\n\tb"},
		{"a\n  b", "a\n  b"},
		{"", ""},
	}
	for _, test := range tests {
		if got := test_helpers.Dedent(test.text); got != test.want {
			t.Errorf("Dedent(%q) = %q, want %q", test.text, got, test.want)
		}
	}
}
