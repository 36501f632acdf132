// Package pdl implements the push-down list used as the unification worklist.
//
// The stack is backed by a buffer that is reallocated by a fixed increment whenever
// at most one free slot is left, so slot indices returned by Push stay valid for the
// lifetime of the stack.
package pdl

const (
	// DefaultSize is the number of slots allocated by New when size is not positive.
	DefaultSize = 32
	// DefaultIncrement is the number of slots added on each growth when increment is
	// not positive.
	DefaultIncrement = 32
)

// Stack is a LIFO of ints. The zero value is not usable; call New.
type Stack struct {
	buf       []int
	ptr       int
	increment int
	grown     func(size int)
}

// New returns an empty stack with room for size slots, growing by increment slots.
func New(size, increment int) *Stack {
	if size < 2 {
		size = DefaultSize
	}
	if increment < 1 {
		increment = DefaultIncrement
	}
	return &Stack{buf: make([]int, size), increment: increment}
}

// OnGrow registers a callback invoked with the new capacity after every reallocation.
func (s *Stack) OnGrow(f func(size int)) {
	s.grown = f
}

// Push appends v and returns the slot it was stored in.
func (s *Stack) Push(v int) int {
	s.buf[s.ptr] = v
	s.checkAndExpand()
	s.ptr++
	return s.ptr - 1
}

// Pop removes and returns the most recent value, or 0 if the stack is empty.
func (s *Stack) Pop() int {
	if s.ptr == 0 {
		return 0
	}
	s.ptr--
	return s.buf[s.ptr]
}

// IsEmpty reports whether there is nothing left to pop.
func (s *Stack) IsEmpty() bool {
	return s.ptr == 0
}

// Len returns the number of values in the stack.
func (s *Stack) Len() int {
	return s.ptr
}

// Cap returns the number of slots in the backing buffer.
func (s *Stack) Cap() int {
	return len(s.buf)
}

// At returns the value stored in slot i, which must be below Len.
func (s *Stack) At(i int) int {
	if i < 0 || i >= s.ptr {
		panic("pdl.Stack.At: slot out of range")
	}
	return s.buf[i]
}

// Reset empties the stack without releasing its buffer.
func (s *Stack) Reset() {
	s.ptr = 0
}

func (s *Stack) checkAndExpand() {
	if len(s.buf)-s.ptr > 1 {
		return
	}
	buf := make([]int, len(s.buf)+s.increment)
	copy(buf, s.buf)
	s.buf = buf
	if s.grown != nil {
		s.grown(len(buf))
	}
}
