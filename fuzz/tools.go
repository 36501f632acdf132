//go:build tools
// +build tools

package fuzz

import (
	_ "github.com/dvyukov/go-fuzz/go-fuzz-dep"
)
