package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
)

var (
	hexLiteralPattern     = regexp.MustCompile(`^0x[0-9A-Fa-f]+$`)
	decimalLiteralPattern = regexp.MustCompile(`^\d+$`)
)

// RegisterReader gives read access to register values
type RegisterReader interface {
	Get(r cpu.Register) cpu.Word
}

// ResolveRegister interprets an operand as a register name. Literals never
// resolve as registers.
func ResolveRegister(token string) (cpu.Register, bool) {
	return cpu.LookupRegister(token)
}

// ResolveLiteral parses a non negative decimal or 0x prefixed hexadecimal
// literal. Literals must fit in 32 bits and are reinterpreted as signed
// words, so 0xFFFFFFFF is -1.
func ResolveLiteral(token string) (cpu.Word, bool) {
	token = strings.ToLower(token)

	var digits string
	var base int

	switch {
	case hexLiteralPattern.MatchString(token):
		digits, base = token[2:], 16
	case decimalLiteralPattern.MatchString(token):
		digits, base = token, 10
	default:
		return 0, false
	}

	value, err := strconv.ParseUint(digits, base, cpu.WordBits)
	if err != nil {
		return 0, false
	}

	return cpu.ToWord(value), true
}

// ResolveValue interprets an operand as a value: the current contents of a
// register if the token names one, the literal value otherwise.
func ResolveValue(registers RegisterReader, token string) (cpu.Word, bool) {
	if r, isRegister := ResolveRegister(token); isRegister {
		return registers.Get(r), true
	}

	return ResolveLiteral(token)
}
