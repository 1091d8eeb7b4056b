// Package interpreter executes textual toy assembly instructions, one line at
// a time, against a cpu.Processor.
//
// A line has the form
//
//	<op> <operand1> [, <operand2>]   ; optional comment
//
// Tokens are case insensitive. Operands are resolved before any processor
// primitive is invoked, so a line either applies completely or leaves the
// processor untouched. Malformed lines, unknown opcodes and unresolved
// operands are silently ignored; Dispatch reports what happened for shells
// that want to show a diagnostic.
package interpreter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/isa"
)

// CommentPrefix starts a comment that runs until the end of the line
const CommentPrefix = ";"

// Outcome tells what Dispatch did with a line
type Outcome uint8

const (
	// The line was blank, had less than two tokens or named an unknown opcode
	Outcome_Ignored Outcome = iota
	// The opcode is known but a required operand could not be resolved
	Outcome_Unresolved
	// The instruction was executed
	Outcome_Applied
)

func (o Outcome) String() string {
	switch o {
	case Outcome_Ignored:
		return "ignored"
	case Outcome_Unresolved:
		return "unresolved"
	case Outcome_Applied:
		return "applied"
	default:
		return "<invalid outcome>"
	}
}

// Result describes the effect of dispatching one line
type Result struct {
	// Line without comment and surrounding whitespace
	Line string
	// Decoded opcode. Only meaningful if Outcome is not Outcome_Ignored
	OpCode isa.OpCode
	// What happened to the line
	Outcome Outcome
	// Whether the line was appended to the instruction log
	Logged bool
}

// Dispatcher parses instruction lines and runs them on a processor. Besides
// the instruction log it keeps no state between calls.
type Dispatcher struct {
	processor *cpu.Processor
	log       InstructionLog
	logger    *slog.Logger
}

// NewDispatcher returns a dispatcher driving the given processor
func NewDispatcher(processor *cpu.Processor) *Dispatcher {
	return &Dispatcher{
		processor: processor,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used to trace dispatched lines at debug level
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d.logger = logger
}

// Processor returns the processor driven by the dispatcher
func (d *Dispatcher) Processor() *cpu.Processor {
	return d.processor
}

// Log returns a copy of the instruction log
func (d *Dispatcher) Log() []string {
	return d.log.Entries()
}

// Reset zeroes the processor and clears the instruction log
func (d *Dispatcher) Reset() {
	d.processor.Reset()
	d.log.Clear()
}

// Execute runs one instruction line. Lines that cannot be executed are no-ops.
func (d *Dispatcher) Execute(line string) {
	d.Dispatch(line)
}

// Dispatch runs one instruction line and reports what happened
func (d *Dispatcher) Dispatch(line string) Result {
	result := d.dispatch(line)

	d.logger.Debug("dispatch",
		slog.String("line", result.Line),
		slog.String("outcome", result.Outcome.String()),
		slog.Bool("logged", result.Logged))

	return result
}

func (d *Dispatcher) dispatch(line string) Result {
	text := stripComment(line)
	result := Result{Line: text}

	tokens := tokenize(text)
	if len(tokens) < 2 {
		return result
	}

	op, known := isa.Opcodes.LookupOpCode(tokens[0])
	if !known {
		return result
	}

	result.OpCode = op
	result.Outcome = Outcome_Unresolved

	// The first operand is resolved both ways, each opcode family picks the
	// interpretation it needs.
	value, isValue := ResolveValue(d.processor, tokens[1])
	dst, isRegister := ResolveRegister(tokens[1])

	p := d.processor

	switch op {
	case isa.OpCode_NOP:
		p.Nop()

	case isa.OpCode_JMP:
		if !isValue {
			return result
		}
		p.Jump(value)

	case isa.OpCode_PUSH:
		if !isValue {
			return result
		}
		p.Push(value)

	case isa.OpCode_INCR:
		if !isRegister {
			return result
		}
		p.Increment(dst)

	case isa.OpCode_DECR:
		if !isRegister {
			return result
		}
		p.Decrement(dst)

	case isa.OpCode_POP:
		if !isRegister {
			return result
		}
		p.Pop(dst)

	case isa.OpCode_MOV, isa.OpCode_ADD, isa.OpCode_SUB, isa.OpCode_XOR:
		if !isRegister || len(tokens) < 3 {
			return result
		}

		src, isSrcValue := ResolveValue(p, tokens[2])
		if !isSrcValue {
			return result
		}

		switch op {
		case isa.OpCode_MOV:
			if srcReg, isSrcRegister := ResolveRegister(tokens[2]); isSrcRegister {
				p.MoveFromRegister(dst, srcReg)
			} else {
				p.Set(dst, src)
			}
		case isa.OpCode_ADD:
			p.Add(dst, src)
		case isa.OpCode_SUB:
			p.Subtract(dst, src)
		case isa.OpCode_XOR:
			p.Xor(dst, src)
		}

		d.log.Append(text)
		result.Logged = true

	default:
		panic(fmt.Sprintf("opcode %v has no dispatch rule", op))
	}

	result.Outcome = Outcome_Applied
	return result
}

// stripComment removes the comment and surrounding whitespace of a line
func stripComment(line string) string {
	if before, _, found := strings.Cut(line, CommentPrefix); found {
		line = before
	}

	return strings.TrimSpace(line)
}

// tokenize splits a line on commas and whitespace and lowercases every token
func tokenize(line string) []string {
	return strings.Fields(strings.ToLower(strings.ReplaceAll(line, ",", " ")))
}
