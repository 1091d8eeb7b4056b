package script

import (
	"bytes"
	"testing"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func asInt(t *testing.T, v starlark.Value) int {
	t.Helper()

	i, err := starlark.AsInt32(v)
	require.NoError(t, err)
	return i
}

func newTestRunner() (*Runner, *interpreter.Dispatcher, *bytes.Buffer) {
	d := interpreter.NewDispatcher(cpu.NewProcessor())
	out := &bytes.Buffer{}
	return NewRunner(d, out), d, out
}

func TestRunner_Scenario(t *testing.T) {
	r, d, out := newTestRunner()

	globals, err := r.Run("scenario.star", `
for line in ["mov eax, 0", "mov ebx, 0", "mov esp, 100", "push 7", "incr eax", "pop ebx"]:
    exec(line)

eax = reg("eax")
ebx = reg("EBX")
top = mem(100)
log = program()
print("eax=%d ebx=%d" % (eax, ebx))
`)
	require.NoError(t, err)

	assert.Equal(t, 1, asInt(t, globals["eax"]))
	assert.Equal(t, 7, asInt(t, globals["ebx"]))
	assert.Equal(t, 7, asInt(t, globals["top"]))
	assert.Equal(t, "eax=1 ebx=7\n", out.String())
	assert.Equal(t, []string{"mov eax, 0", "mov ebx, 0", "mov esp, 100"}, d.Log())

	log, ok := globals["log"].(*starlark.List)
	require.True(t, ok)
	assert.Equal(t, 3, log.Len())
}

func TestRunner_Outcomes(t *testing.T) {
	r, _, _ := newTestRunner()

	globals, err := r.Run("outcomes.star", `
a = exec("mov eax, 1")
b = exec("mov eax, bogus")
c = exec("frobnicate")
`)
	require.NoError(t, err)

	assert.Equal(t, starlark.String("applied"), globals["a"])
	assert.Equal(t, starlark.String("unresolved"), globals["b"])
	assert.Equal(t, starlark.String("ignored"), globals["c"])
}

func TestRunner_BinaryAndRegisters(t *testing.T) {
	r, _, _ := newTestRunner()

	globals, err := r.Run("binary.star", `
five = binary(5)
count = len(registers)
`)
	require.NoError(t, err)

	assert.Equal(t, starlark.String("101"), globals["five"])
	assert.Equal(t, int(cpu.TOTAL_REGISTERS), asInt(t, globals["count"]))
}

func TestRunner_Reset(t *testing.T) {
	r, d, _ := newTestRunner()

	_, err := r.Run("reset.star", `
exec("mov eax, 3")
reset()
`)
	require.NoError(t, err)

	assert.Equal(t, cpu.Word(0), d.Processor().Get(cpu.EAX))
	assert.Empty(t, d.Log())
}

func TestRunner_Errors(t *testing.T) {
	r, _, _ := newTestRunner()

	t.Run("unknown register", func(t *testing.T) {
		_, err := r.Run("bad.star", `reg("r0")`)
		assert.ErrorIs(t, err, ErrScript)
		assert.Contains(t, err.Error(), "unknown register")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := r.Run("syntax.star", `exec(`)
		assert.ErrorIs(t, err, ErrScript)
	})

	t.Run("bad argument", func(t *testing.T) {
		_, err := r.Run("args.star", `mem("a")`)
		assert.ErrorIs(t, err, ErrScript)
	})

	t.Run("frozen registers", func(t *testing.T) {
		_, err := r.Run("frozen.star", `registers.append("pc")`)
		assert.ErrorIs(t, err, ErrScript)
	})
}
