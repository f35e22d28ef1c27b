// Package debugtui implements the --interactive single-step viewer: a
// Bubble Tea program that lets an operator step the CPU one instruction
// at a time and watch registers, a stack-pointer-relative memory window,
// and the next instruction update live.
//
// It is the pack-idiomatic replacement for a termui-based debugger: the
// teacher repo has nothing resembling it (its own cmd/vm -d flag just
// blocks on fmt.Scanln between instructions), so this is modelled on the
// Bubble Tea "model/update/view" shape used throughout the rest of the
// examples pack's emulator TUIs.
package debugtui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rv64iemu/pkg/cpu"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faultStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// memWindowWords is the number of 64-bit words shown by the memory view,
// starting at the stack pointer (x2) -- the one region a running program
// is virtually guaranteed to be touching, unlike an arbitrary fixed
// address.
const memWindowWords = 4

// Machine is the subset of *cpu.CPU the TUI drives; defined as an
// interface so tests can exercise the model against a fake.
type Machine interface {
	Fetch() (uint32, error)
	Step() error
	Steps() uint64
	PC() uint64
	Reg(i int) uint64
	PeekMemory(addr, size uint64) (uint64, error)
	Dump() string
}

type model struct {
	machine Machine
	halted  bool
	lastErr error
	nextDis string
}

// New builds the initial Bubble Tea model for machine.
func New(machine Machine) tea.Model {
	m := &model{machine: machine}
	m.refreshNext()
	return m
}

func (m *model) refreshNext() {
	inst, err := m.machine.Fetch()
	if err != nil {
		m.nextDis = "<unfetchable>"
		return
	}
	m.nextDis = cpu.Disassemble(inst)
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s", " ", "enter":
		if !m.halted {
			if err := m.machine.Step(); err != nil {
				m.halted = true
				m.lastErr = err
			} else {
				m.refreshNext()
			}
		}
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("rv64iemu interactive debugger"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "steps: %d   pc: %#x\n", m.machine.Steps(), m.machine.PC())
	fmt.Fprintf(&b, "next:  %s\n\n", m.nextDis)
	b.WriteString(m.machine.Dump())
	b.WriteString("\n")
	b.WriteString(m.renderMemory())
	b.WriteString("\n")
	if m.halted {
		b.WriteString(faultStyle.Render(fmt.Sprintf("halted: %v", m.lastErr)))
		b.WriteString("\n\n")
	}
	b.WriteString(hintStyle.Render("[s/space/enter] step   [q] quit"))
	return b.String()
}

// renderMemory dumps memWindowWords 64-bit words starting at the stack
// pointer, one [address]=0x<16-hex> line per word.
func (m *model) renderMemory() string {
	sp := m.machine.Reg(2)
	var b strings.Builder
	b.WriteString("stack:\n")
	for i := 0; i < memWindowWords; i++ {
		addr := sp + uint64(i)*8
		v, err := m.machine.PeekMemory(addr, 64)
		if err != nil {
			fmt.Fprintf(&b, "  [%#016x] <unmapped>\n", addr)
			continue
		}
		fmt.Fprintf(&b, "  [%#016x]=0x%016x\n", addr, v)
	}
	return b.String()
}
