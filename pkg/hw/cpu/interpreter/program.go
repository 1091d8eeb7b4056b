package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ProgramSummary counts what happened to the lines of a program
type ProgramSummary struct {
	// One result per input line, in order
	Results []Result
	// Lines executed
	Applied int
	// Known instructions whose operands did not resolve
	Unresolved int
	// Blank lines, comments and unknown opcodes
	Ignored int
}

func (s *ProgramSummary) add(result Result) {
	s.Results = append(s.Results, result)

	switch result.Outcome {
	case Outcome_Applied:
		s.Applied++
	case Outcome_Unresolved:
		s.Unresolved++
	default:
		s.Ignored++
	}
}

// Returns the 1-based line numbers of the lines whose operands did not resolve
func (s *ProgramSummary) UnresolvedLines() []int {
	var lines []int

	for i, result := range s.Results {
		if result.Outcome == Outcome_Unresolved {
			lines = append(lines, i+1)
		}
	}

	return lines
}

func (s *ProgramSummary) String() string {
	return fmt.Sprintf("%d lines: %d applied, %d unresolved, %d ignored", len(s.Results), s.Applied, s.Unresolved, s.Ignored)
}

// RunLines executes every line of a multiline program, in order
func (d *Dispatcher) RunLines(program string) *ProgramSummary {
	summary := &ProgramSummary{}

	for _, line := range strings.Split(program, "\n") {
		summary.add(d.Dispatch(line))
	}

	return summary
}

// RunReader executes every line read from r, in order
func (d *Dispatcher) RunReader(r io.Reader) (*ProgramSummary, error) {
	summary := &ProgramSummary{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		summary.add(d.Dispatch(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading program after line %d: %w", len(summary.Results), err)
	}

	return summary, nil
}
