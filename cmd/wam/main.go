// Command wam is an interactive shell that runs machine instructions one at a time.
//
//	wam> put_structure f/1, X1
//	wam> set_variable X2
//	wam> trace X1
//	f(_G2)
//
// Besides instructions, the shell accepts the commands listed by "help".
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/stephens2424/writerset"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/brunokim/tagged-wam/config"
	"github.com/brunokim/tagged-wam/errors"
	"github.com/brunokim/tagged-wam/wam"
)

var (
	configFile  = flag.String("config", "", "TOML file with machine configuration")
	scriptFile  = flag.String("script", "", "File with instructions to run before the prompt")
	traceFile   = flag.String("trace", "", "File to write one JSON line per instruction")
	traceStderr = flag.Bool("trace-stderr", false, "Mirror the instruction trace to stderr")
	verbosity   = flag.Int("v", -1, "Log verbosity (overrides the config file)")
	interactive = flag.Bool("interactive", true, "Whether to read instructions from the terminal")
)

const help = `instructions:
  put_structure f/n, Xi    get_structure f/n, Xi
  put_variable Xi, Aj      get_variable Xi, Aj
  put_value Xi, Aj         get_value Xi, Aj
  set_variable Xi          set_value Xi
  unify_variable Xi        unify_value Xi
commands:
  trace Xi      print the term bound to a register
  dump          print machine state
  save FILE     write a CBOR snapshot
  load FILE     restore a CBOR snapshot
  reset         discard all cells and registers
  help          print this message`

type ctx struct {
	m        *wam.Machine
	out      io.Writer
	readline *readline.Instance
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *verbosity >= 0 {
		cfg.Trace.Verbosity = *verbosity
	}
	if *traceFile != "" {
		cfg.Trace.Output = *traceFile
	}
	if *traceStderr {
		cfg.Trace.Stderr = true
	}
	var logPath *string
	if cfg.Trace.LogFile != "" {
		logPath = &cfg.Trace.LogFile
	}
	commonlog.Configure(cfg.Trace.Verbosity, logPath)

	ctx := ctx{m: wam.NewMachineFromConfig(cfg), out: os.Stdout}
	closeTrace, err := ctx.setupTrace(cfg.Trace)
	if err != nil {
		log.Fatal(err)
	}
	defer closeTrace()

	if *scriptFile != "" {
		bs, err := os.ReadFile(*scriptFile)
		if err != nil {
			log.Fatal(err)
		}
		for _, line := range strings.Split(string(bs), "\n") {
			if err := ctx.handle(line); err != nil {
				log.Print(err)
			}
		}
	}
	if !*interactive {
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "wam> ",
		HistoryFile: "/tmp/wam-history",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rl.Close()
	ctx.readline = rl
	ctx.out = rl.Stdout()

	ctx.mainLoop()
}

// setupTrace fans the instruction trace out to every configured destination.
func (ctx *ctx) setupTrace(cfg config.Trace) (func(), error) {
	if cfg.Output == "" && !cfg.Stderr {
		return func() {}, nil
	}
	ws := writerset.New()
	var f *os.File
	if cfg.Output != "" {
		var err error
		f, err = os.Create(cfg.Output)
		if err != nil {
			return nil, errors.New("cannot create trace file: %v", err)
		}
		ws.Add(f)
	}
	if cfg.Stderr {
		ws.Add(os.Stderr)
	}
	ctx.m.Trace = ws
	return func() {
		if f != nil {
			f.Close()
		}
	}, nil
}

func (ctx *ctx) mainLoop() {
	for {
		line, err := ctx.readline.Readline()
		if err != nil {
			return
		}
		if err := ctx.handle(line); err != nil {
			fmt.Fprintln(ctx.out, err)
		}
	}
}

func (ctx *ctx) handle(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "%") {
		return nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "help":
		fmt.Fprintln(ctx.out, help)
		return nil
	case "dump":
		fmt.Fprintln(ctx.out, ctx.m)
		return nil
	case "reset":
		ctx.m.Reset()
		return nil
	case "trace":
		if len(fields) != 2 {
			return errors.New("usage: trace Xi")
		}
		r, err := wam.ParseRegister(fields[1])
		if err != nil {
			return err
		}
		if !ctx.m.HasReg(r) {
			return errors.New("register %v is not set", r)
		}
		fmt.Fprintln(ctx.out, ctx.m.TraceRegister(r))
		return nil
	case "save":
		if len(fields) != 2 {
			return errors.New("usage: save FILE")
		}
		return ctx.save(fields[1])
	case "load":
		if len(fields) != 2 {
			return errors.New("usage: load FILE")
		}
		return ctx.load(fields[1])
	}
	instr, err := wam.DecodeInstruction(line)
	if err != nil {
		return err
	}
	if err := ctx.checkRegisters(instr); err != nil {
		return err
	}
	if err := ctx.m.Execute(instr); err != nil {
		return errors.New("false: %v", err)
	}
	return nil
}

// checkRegisters rejects instructions that read registers that were never set.
func (ctx *ctx) checkRegisters(instr wam.Instruction) error {
	var regs []wam.RegAddr
	switch i := instr.(type) {
	case wam.GetStructure:
		regs = append(regs, i.Reg)
	case wam.GetVariable:
		regs = append(regs, i.ArgReg)
	case wam.PutValue:
		regs = append(regs, i.Reg)
	case wam.GetValue:
		regs = append(regs, i.Reg, i.ArgReg)
	case wam.SetValue:
		regs = append(regs, i.Reg)
	case wam.UnifyValue:
		regs = append(regs, i.Reg)
	}
	for _, r := range regs {
		if !ctx.m.HasReg(r) {
			return errors.New("%v: register %v is not set", instr, r)
		}
	}
	if _, ok := instr.(wam.UnifyVariable); ok && ctx.m.Mode == wam.Read && ctx.m.Subterm >= ctx.m.Top() {
		return errors.New("%v: no structure argument to read", instr)
	}
	if _, ok := instr.(wam.UnifyValue); ok && ctx.m.Mode == wam.Read && ctx.m.Subterm >= ctx.m.Top() {
		return errors.New("%v: no structure argument to read", instr)
	}
	return nil
}

func (ctx *ctx) save(filename string) error {
	data, err := wam.MarshalSnapshot(ctx.m.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func (ctx *ctx) load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	s, err := wam.UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	return ctx.m.Restore(s)
}
