package tools

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Manu343726/toyasm/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	ToolsCmd.SetOut(&out)
	ToolsCmd.SetErr(&bytes.Buffer{})
	ToolsCmd.SetArgs(args)

	err := ToolsCmd.Execute()
	return out.String(), err
}

func TestDocs(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		require.NoError(t, docsCmd.Flags().Set("output", ""))

		out, err := execute(t, "docs", "isa")
		require.NoError(t, err)
		assert.Contains(t, out, "mov <reg>, <value>")
		assert.Contains(t, out, "eax")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "isa.txt")

		out, err := execute(t, "docs", "isa", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(contents), "xor <reg>, <value>")
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := execute(t, "docs", "cpu.machine_code")
		assert.Error(t, err)
	})
}

func TestGlyphs(t *testing.T) {
	config.SetDefaults(viper.GetViper())
	viper.Set(config.KeyZeroGlyph, "0")
	viper.Set(config.KeyOneGlyph, "1")
	viper.Set(config.KeyGlyphGroup, 4)

	out, err := execute(t, "glyphs", "5", "0x1F", "0xFFFFFFFF")
	require.NoError(t, err)

	assert.Contains(t, out, "0x00000005           5  101\n")
	assert.Contains(t, out, "0x0000001F          31  1 1111\n")
	assert.Contains(t, out, "0xFFFFFFFF          -1  1111 1111 1111 1111 1111 1111 1111 1111\n")

	_, err = execute(t, "glyphs", "eax")
	assert.Error(t, err)
}
