package test_helpers

import (
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/brunokim/tagged-wam/wam"
)

var (
	// IgnoreHeap compares snapshots by registers and mode only.
	IgnoreHeap = cmpopts.IgnoreFields(wam.Snapshot{}, "Heap")
)
