package cpu

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Manu343726/toyasm/pkg/config"
	hwcpu "github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.SetDefaults(viper.GetViper())
	viper.Set(config.KeyHistory, "")
	os.Exit(m.Run())
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	s, err := newSession(false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	out := &bytes.Buffer{}
	return newShell(s, out, false), out
}

func TestShell_Instructions(t *testing.T) {
	sh, out := newTestShell(t)

	for _, line := range []string{"mov eax, 0", "mov ebx, 0", "mov esp, 100", "push 7", "incr eax", "pop ebx"} {
		assert.False(t, sh.handle(line))
	}

	p := sh.session.dispatcher.Processor()
	assert.Equal(t, hwcpu.Word(1), p.Get(hwcpu.EAX))
	assert.Equal(t, hwcpu.Word(7), p.Get(hwcpu.EBX))
	assert.Empty(t, out.String(), "applied instructions print nothing when state dumps are off")
}

func TestShell_Diagnostics(t *testing.T) {
	sh, out := newTestShell(t)

	sh.handle("mov eax, notanumber")
	assert.Contains(t, out.String(), "operand not resolved")
	assert.Contains(t, out.String(), "<reg>, <value>")

	out.Reset()
	sh.handle("frobnicate eax, 1")
	assert.Contains(t, out.String(), "ignored: frobnicate eax, 1")

	out.Reset()
	sh.handle("   ")
	assert.Empty(t, out.String())
}

func TestShell_DumpState(t *testing.T) {
	sh, out := newTestShell(t)
	sh.dumpState = true

	sh.handle("mov esp, 0x10")
	sh.handle("push 5")

	assert.Contains(t, out.String(), "=== Registers ===")
	assert.Contains(t, out.String(), "=== Memory ===")
	assert.Contains(t, out.String(), "[0x00000010]")
}

func TestShell_Commands(t *testing.T) {
	sh, out := newTestShell(t)

	sh.handle("mov eax, 5")
	sh.handle("incr eax")

	t.Run("program", func(t *testing.T) {
		out.Reset()
		sh.handle("program")
		assert.Contains(t, out.String(), "1  mov eax, 5")
		assert.NotContains(t, out.String(), "incr")
	})

	t.Run("regs", func(t *testing.T) {
		out.Reset()
		sh.handle("REGS")
		assert.Contains(t, out.String(), "0x00000006")
	})

	t.Run("mem", func(t *testing.T) {
		out.Reset()
		sh.handle("mem")
		assert.Contains(t, out.String(), "(empty)")
	})

	t.Run("bin", func(t *testing.T) {
		out.Reset()
		sh.handle("bin 5")
		assert.Contains(t, out.String(), "5 = ")

		out.Reset()
		sh.handle("bin")
		assert.Contains(t, out.String(), "Usage")

		out.Reset()
		sh.handle("bin nothing")
		assert.Contains(t, out.String(), "Cannot resolve 'nothing'")
	})

	t.Run("state", func(t *testing.T) {
		out.Reset()
		sh.handle("state")
		assert.Contains(t, out.String(), "registers:")
		assert.Contains(t, out.String(), "program:")
	})

	t.Run("help", func(t *testing.T) {
		out.Reset()
		sh.handle("help")
		assert.Contains(t, out.String(), "mov <reg>, <value>")
		assert.Contains(t, out.String(), "eip, esp, eax, ebx, ecx, edx")
	})

	t.Run("reset", func(t *testing.T) {
		sh.handle("reset")
		assert.Equal(t, hwcpu.Word(0), sh.session.dispatcher.Processor().Get(hwcpu.EAX))
		assert.Empty(t, sh.session.dispatcher.Log())
	})

	t.Run("quit", func(t *testing.T) {
		assert.True(t, sh.handle("quit"))
		assert.True(t, sh.handle("exit"))
	})
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"mov", "mem", "memory"}, complete("m"))
	assert.Equal(t, []string{"pop", "push", "program"}, complete("p"))
	assert.Equal(t, []string{"mov eax", "mov ebx"}, complete("mov e")[2:4])
	assert.Equal(t, []string{"add eax, ecx"}, complete("add eax, ec"))
	assert.Empty(t, complete("zzz"))
}

func TestSession_Preload(t *testing.T) {
	viper.Set(config.KeyPreload, []string{"mov eax, 3", "bogus line"})
	defer viper.Set(config.KeyPreload, []string{})

	s, err := newSession(false)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, hwcpu.Word(3), s.dispatcher.Processor().Get(hwcpu.EAX))
	assert.Equal(t, []string{"mov eax, 3"}, s.dispatcher.Log())

	s.dispatcher.Execute("mov ebx, 9")
	s.restart()

	assert.Equal(t, hwcpu.Word(3), s.dispatcher.Processor().Get(hwcpu.EAX))
	assert.Equal(t, hwcpu.Word(0), s.dispatcher.Processor().Get(hwcpu.EBX))
	assert.Equal(t, []string{"mov eax, 3"}, s.dispatcher.Log())
}

func writeProgram(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program.asm")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func executeCpuCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	runOutput, runVerbose, runStrict, runWatch, scriptOutput = "table", false, false, false, ""

	var out, errOut bytes.Buffer
	CpuCmd.SetOut(&out)
	CpuCmd.SetErr(&errOut)
	CpuCmd.SetArgs(args)

	err := CpuCmd.Execute()
	return out.String(), err
}

const scenarioProgram = `mov eax, 0
mov ebx, 0
mov esp, 100      ; stack-pointer register at address 100
push 7
incr eax
pop ebx
`

func TestRunCmd_Table(t *testing.T) {
	out, err := executeCpuCmd(t, "run", writeProgram(t, scenarioProgram))
	require.NoError(t, err)

	assert.Contains(t, out, "=== Registers ===")
	assert.Contains(t, out, "[0x00000064]           7")
	assert.Contains(t, out, "3  mov esp, 100")
}

func TestRunCmd_YAML(t *testing.T) {
	out, err := executeCpuCmd(t, "run", "-o", "yaml", writeProgram(t, scenarioProgram))
	require.NoError(t, err)

	assert.Contains(t, out, "name: eax\n    value: 1")
	assert.Contains(t, out, "name: ebx\n    value: 7")
	assert.Contains(t, out, "address: 100")
}

func TestRunCmd_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := executeCpuCmd(t, "run", filepath.Join(t.TempDir(), "missing.asm"))
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := executeCpuCmd(t, "run", "-o", "xml", writeProgram(t, "mov eax, 1\n"))
		assert.Error(t, err)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := executeCpuCmd(t, "run", "--strict", writeProgram(t, "mov eax, 1\nmov eax, bogus\n"))
		assert.ErrorIs(t, err, ErrUnresolvedLines)
		assert.Contains(t, err.Error(), "1 lines (2)")
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchProgram(t *testing.T) {
	runOutput, runVerbose, runStrict = "table", false, false

	s, err := newSession(false)
	require.NoError(t, err)
	defer s.Close()

	t.Run("stdin", func(t *testing.T) {
		err := watchProgram(context.Background(), &cobra.Command{}, s, "-")
		assert.ErrorIs(t, err, ErrWatchStdin)
	})

	t.Run("reruns on change", func(t *testing.T) {
		path := writeProgram(t, "mov eax, 1\n")

		out := &syncBuffer{}
		cmd := &cobra.Command{}
		cmd.SetOut(out)
		cmd.SetErr(io.Discard)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- watchProgram(ctx, cmd, s, path) }()

		// Keep rewriting until the watcher is registered and picks a change up
		assert.Eventually(t, func() bool {
			_ = os.WriteFile(path, []byte("mov eax, 42\n"), 0o644)
			return strings.Contains(out.String(), "0x0000002A")
		}, 5*time.Second, 50*time.Millisecond)

		cancel()
		assert.NoError(t, <-done)
	})
}

func TestScriptCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.star")
	require.NoError(t, os.WriteFile(path, []byte(`
for i in range(3):
    exec("incr eax")
exec("mov ebx, eax")
print("eax", reg("eax"))
`), 0o644))

	out, err := executeCpuCmd(t, "script", "-o", "json", path)
	require.NoError(t, err)

	assert.Contains(t, out, "eax 3\n")
	assert.Contains(t, out, `"program": [`)
	assert.Contains(t, out, `"mov ebx, eax"`)
}

func TestDashboard_Submit(t *testing.T) {
	s, err := newSession(false)
	require.NoError(t, err)
	defer s.Close()

	db := newDashboard(s)

	assert.False(t, db.submit("mov eax, 0x1F"))
	assert.Contains(t, db.status.GetText(true), "mov eax, 0x1F")
	assert.Equal(t, "eax", db.registers.GetCell(int(hwcpu.EAX), 0).Text)
	assert.Equal(t, "31", db.registers.GetCell(int(hwcpu.EAX), 2).Text)

	assert.False(t, db.submit("mov eax, nope"))
	assert.Contains(t, db.status.GetText(true), "operand not resolved")

	assert.False(t, db.submit("mov esp, 8"))
	assert.False(t, db.submit("push 2"))
	assert.Equal(t, "0x00000008", db.memory.GetCell(0, 0).Text)
	assert.Contains(t, db.program.GetText(true), "mov esp, 8")

	assert.False(t, db.submit("reset"))
	assert.Equal(t, "0", db.registers.GetCell(int(hwcpu.EAX), 2).Text)
	assert.Equal(t, 0, db.memory.GetRowCount())

	assert.True(t, db.submit("quit"))
}
