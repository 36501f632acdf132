package wam

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/brunokim/tagged-wam/errors"
)

var (
	functorRE     = regexp.MustCompile(`^(.+)/(\d+)$`)
	instructionRE = regexp.MustCompile(`^([a-z_]+)(?:\s+(.*))?$`)
	registerRE    = regexp.MustCompile(`^[XA](\d+)$`)
)

// ParseFunctor returns a Functor from a string like 'f/3' or '#102/3'.
func ParseFunctor(s string) (Functor, error) {
	matches := functorRE.FindStringSubmatch(s)
	if len(matches) != 3 {
		return Functor{}, errors.New("%q doesn't match a functor pattern", s)
	}
	name, arityStr := matches[1], matches[2]
	arity, err := strconv.ParseUint(arityStr, 10, 8)
	if err != nil {
		return Functor{}, errors.New("invalid arity for functor %q: %v", s, err)
	}
	var id uint64
	if strings.HasPrefix(name, "#") && len(name) > 1 {
		id, err = strconv.ParseUint(name[1:], 10, 16)
		if err != nil {
			return Functor{}, errors.New("invalid id for functor %q: %v", s, err)
		}
	} else {
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) || r == utf8.RuneError || r > 0xffff {
			return Functor{}, errors.New("functor name %q is not a single 16-bit character", name)
		}
		id = uint64(r)
	}
	return Functor{ID: uint16(id), Arity: uint8(arity)}, nil
}

// ParseRegister returns a RegAddr from a string like 'X3' or 'A1'.
func ParseRegister(s string) (RegAddr, error) {
	matches := registerRE.FindStringSubmatch(s)
	if len(matches) != 2 {
		return 0, errors.New("%q doesn't match a register pattern", s)
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, errors.New("invalid register %q: %v", s, err)
	}
	return RegAddr(n), nil
}

// DecodeInstruction parses an instruction in the format returned by its String method,
// e.g. "put_structure f/2, X3" or "get_value X1, A2".
func DecodeInstruction(line string) (Instruction, error) {
	line = strings.TrimSpace(line)
	matches := instructionRE.FindStringSubmatch(line)
	if matches == nil {
		return nil, errors.New("invalid instruction %q", line)
	}
	name := matches[1]
	var args []string
	if matches[2] != "" {
		args = strings.Split(matches[2], ",")
		for i, arg := range args {
			args[i] = strings.TrimSpace(arg)
		}
	}
	switch name {
	case "put_structure", "get_structure":
		if len(args) != 2 {
			return nil, errors.New("%s: expected 2 args, got %d", name, len(args))
		}
		f, err := ParseFunctor(args[0])
		if err != nil {
			return nil, errors.New("%s: %v", name, err)
		}
		reg, err := ParseRegister(args[1])
		if err != nil {
			return nil, errors.New("%s: %v", name, err)
		}
		if name == "put_structure" {
			return PutStructure{f, reg}, nil
		}
		return GetStructure{f, reg}, nil
	case "put_variable", "get_variable", "put_value", "get_value":
		regs, err := decodeRegisters(name, args, 2)
		if err != nil {
			return nil, err
		}
		switch name {
		case "put_variable":
			return PutVariable{regs[0], regs[1]}, nil
		case "get_variable":
			return GetVariable{regs[0], regs[1]}, nil
		case "put_value":
			return PutValue{regs[0], regs[1]}, nil
		default:
			return GetValue{regs[0], regs[1]}, nil
		}
	case "set_variable", "set_value", "unify_variable", "unify_value":
		regs, err := decodeRegisters(name, args, 1)
		if err != nil {
			return nil, err
		}
		switch name {
		case "set_variable":
			return SetVariable{regs[0]}, nil
		case "set_value":
			return SetValue{regs[0]}, nil
		case "unify_variable":
			return UnifyVariable{regs[0]}, nil
		default:
			return UnifyValue{regs[0]}, nil
		}
	}
	return nil, errors.New("unknown instruction %q", name)
}

func decodeRegisters(name string, args []string, n int) ([]RegAddr, error) {
	if len(args) != n {
		return nil, errors.New("%s: expected %d args, got %d", name, n, len(args))
	}
	regs := make([]RegAddr, n)
	for i, arg := range args {
		reg, err := ParseRegister(arg)
		if err != nil {
			return nil, errors.New("%s: %v", name, err)
		}
		regs[i] = reg
	}
	return regs, nil
}

// DecodeProgram parses one instruction per line. Blank lines and lines starting
// with '%' are skipped.
func DecodeProgram(text string) ([]Instruction, error) {
	var instrs []Instruction
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		instr, err := DecodeInstruction(line)
		if err != nil {
			return nil, errors.New("line %d: %v", i+1, err)
		}
		instrs = append(instrs, instr)
	}
	return instrs, nil
}
