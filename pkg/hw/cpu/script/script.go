// Package script drives an interpreter from Starlark scripts.
//
// Scripts see the following predeclared names:
//
//	exec(line)     runs one instruction line, returns "applied", "unresolved" or "ignored"
//	reg(name)      value of a register
//	mem(address)   value of a memory cell
//	program()      list with the instruction log
//	binary(value)  minimal binary representation of a word as a string of 0s and 1s
//	reset()        zeroes the processor and clears the instruction log
//	registers      list with the register names
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/utils"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var ErrScript = errors.New("script error")

// Runner executes Starlark scripts against a dispatcher
type Runner struct {
	dispatcher *interpreter.Dispatcher
	out        io.Writer
}

// NewRunner returns a runner whose scripts print to out
func NewRunner(dispatcher *interpreter.Dispatcher, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}

	return &Runner{
		dispatcher: dispatcher,
		out:        out,
	}
}

// Run executes a script. src may be a string, []byte, io.Reader or nil to
// read the file named filename. Returns the globals defined by the script.
func (r *Runner) Run(filename string, src any) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: "toyasm",
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(r.out, msg)
		},
	}

	options := &syntax.FileOptions{
		TopLevelControl: true,
		GlobalReassign:  true,
		While:           true,
		Set:             true,
	}

	globals, err := starlark.ExecFileOptions(options, thread, filename, src, r.predeclared())
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return globals, utils.MakeError(ErrScript, "%v", evalErr.Backtrace())
		}
		return globals, utils.MakeError(ErrScript, "%v", err)
	}

	return globals, nil
}

func (r *Runner) predeclared() starlark.StringDict {
	names := utils.Map(cpu.AllRegisters(), func(reg cpu.Register) starlark.Value {
		return starlark.String(reg.String())
	})

	registers := starlark.NewList(names)
	registers.Freeze()

	return starlark.StringDict{
		"exec":      starlark.NewBuiltin("exec", r.exec),
		"reg":       starlark.NewBuiltin("reg", r.reg),
		"mem":       starlark.NewBuiltin("mem", r.mem),
		"program":   starlark.NewBuiltin("program", r.program),
		"binary":    starlark.NewBuiltin("binary", binary),
		"reset":     starlark.NewBuiltin("reset", r.reset),
		"registers": registers,
	}
}

func (r *Runner) exec(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "line", &line); err != nil {
		return nil, err
	}

	return starlark.String(r.dispatcher.Dispatch(line).Outcome.String()), nil
}

func (r *Runner) reg(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}

	register, err := cpu.ParseRegister(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt(int(r.dispatcher.Processor().Get(register))), nil
}

func (r *Runner) mem(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var address int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "address", &address); err != nil {
		return nil, err
	}

	return starlark.MakeInt(int(r.dispatcher.Processor().ReadMemory(cpu.ToWord(address)))), nil
}

func (r *Runner) program(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	return starlark.NewList(utils.Map(r.dispatcher.Log(), func(line string) starlark.Value {
		return starlark.String(line)
	})), nil
}

func (r *Runner) reset(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	r.dispatcher.Reset()
	return starlark.None, nil
}

func binary(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "value", &value); err != nil {
		return nil, err
	}

	return starlark.String(strings.Join(interpreter.Glyphs(cpu.ToWord(value), "0", "1"), "")), nil
}
