package cpu

import (
	"fmt"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Full screen interpreter dashboard",
	Long: `Opens a full screen view with the registers, the written memory and the
instruction log, refreshed after every instruction typed at the bottom input.

Type quit or press Esc to leave.`,
	Args: cobra.NoArgs,
	RunE: runTui,
}

func init() {
	CpuCmd.AddCommand(tuiCmd)
}

// dashboard renders the session state with tview widgets
type dashboard struct {
	session   *session
	app       *tview.Application
	registers *tview.Table
	memory    *tview.Table
	program   *tview.TextView
	status    *tview.TextView
	input     *tview.InputField
	root      *tview.Flex
}

func newDashboard(s *session) *dashboard {
	db := &dashboard{
		session:   s,
		app:       tview.NewApplication(),
		registers: tview.NewTable(),
		memory:    tview.NewTable(),
		program:   tview.NewTextView().SetDynamicColors(true),
		status:    tview.NewTextView().SetDynamicColors(true),
		input:     tview.NewInputField().SetLabel(s.config.Prompt).SetFieldWidth(0),
	}

	db.registers.SetBorder(true).SetTitle(" Registers ")
	db.memory.SetBorder(true).SetTitle(" Memory ")
	db.program.SetBorder(true).SetTitle(" Program ")

	db.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			line := db.input.GetText()
			db.input.SetText("")
			if db.submit(line) {
				db.app.Stop()
			}
		case tcell.KeyEscape:
			db.app.Stop()
		}
	})

	panels := tview.NewFlex().
		AddItem(db.registers, 0, 2, false).
		AddItem(db.memory, 0, 2, false).
		AddItem(db.program, 0, 1, false)

	db.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(panels, 0, 1, false).
		AddItem(db.status, 1, 0, false).
		AddItem(db.input, 1, 0, true)

	db.refresh()
	return db
}

// submit executes a typed line and refreshes the panels. Returns true when
// the user asked to leave.
func (db *dashboard) submit(line string) (quit bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	case "reset":
		db.session.dispatcher.Reset()
		db.status.SetText("[green]processor reset")
		db.refresh()
		return false
	}

	result := db.session.dispatcher.Dispatch(line)

	switch result.Outcome {
	case interpreter.Outcome_Applied:
		db.status.SetText(fmt.Sprintf("[green]%s", tview.Escape(result.Line)))
	case interpreter.Outcome_Unresolved:
		db.status.SetText(fmt.Sprintf("[yellow]%s: operand not resolved (expected %s)", tview.Escape(result.Line), result.OpCode.Family().Syntax()))
	default:
		db.status.SetText(fmt.Sprintf("[gray]ignored: %s", tview.Escape(result.Line)))
	}

	db.refresh()
	return false
}

func (db *dashboard) refresh() {
	p := db.session.dispatcher.Processor()
	f := db.session.formatter

	db.registers.Clear()
	registers := p.Registers()
	for row, r := range cpu.AllRegisters() {
		value := registers[r]
		db.registers.SetCell(row, 0, tview.NewTableCell(r.String()).SetTextColor(tcell.ColorGreen))
		db.registers.SetCell(row, 1, tview.NewTableCell(utils.FormatUintHex(uint64(value.Bits()), 8)).SetTextColor(tcell.ColorDarkCyan))
		db.registers.SetCell(row, 2, tview.NewTableCell(fmt.Sprint(value)).SetAlign(tview.AlignRight))
		db.registers.SetCell(row, 3, tview.NewTableCell(f.FormatBinary(value)))
	}

	db.memory.Clear()
	memory := p.Memory()
	for row, address := range utils.SortedKeys(memory) {
		value := memory[address]
		db.memory.SetCell(row, 0, tview.NewTableCell(utils.FormatUintHex(uint64(address.Bits()), 8)).SetTextColor(tcell.ColorDarkCyan))
		db.memory.SetCell(row, 1, tview.NewTableCell(fmt.Sprint(value)).SetAlign(tview.AlignRight))
		db.memory.SetCell(row, 2, tview.NewTableCell(f.FormatBinary(value)))
	}

	db.program.SetText(tview.Escape(f.FormatLog(db.session.dispatcher.Log())))
}

func runTui(cmd *cobra.Command, args []string) error {
	// tview draws its own colors, ANSI sequences would show up as garbage
	s, err := newSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	db := newDashboard(s)
	return db.app.SetRoot(db.root, true).SetFocus(db.input).Run()
}
