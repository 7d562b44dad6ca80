// Package debug provides a Bubble Tea step-through harness for the 8080
// interpreter: a disassembly pane, a register/flags pane, a stack pane
// and a scrollable memory pane, with breakpoints and a goto-address
// dialog. It consolidates what the teacher shipped as two separate
// binaries (a thin flag-parsing launcher and the TUI itself) into one
// package driven by a single subcommand.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nwhitehead/emu8080/cpu"
	"github.com/nwhitehead/emu8080/dis/disassembler"
)

// registerState is a snapshot used to highlight what a step changed.
type registerState struct {
	A, B, C, D, E, H, L uint8
	SP, PC              uint16
	Flags               cpu.Flags
}

type stepTick struct{}

func doStep() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg { return stepTick{} })
}

// Monitor is the TUI model.
type Monitor struct {
	mem *cpu.Memory
	cpu *cpu.CPU

	paused           bool
	width, height    int
	locations        []disassembler.Location
	selectedLocation int

	last       registerState
	lastMemory [64]uint8

	memoryAddress uint16
	activePane    string // "disasm" or "memory"
	gotoInput     textinput.Model
	showingGoto   bool

	breakpoints map[uint16]bool
}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(30)

	changedStyle = lipgloss.NewStyle().Foreground(changed).Bold(true)

	stackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(30)

	disasmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1)

	currentLineStyle  = lipgloss.NewStyle().Background(highlight).Foreground(lipgloss.Color("#ffffff"))
	selectedLineStyle = lipgloss.NewStyle().Foreground(highlight)

	memoryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(50)

	breakpointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// NewMonitor builds a Monitor over c/mem, positioned at c's current PC.
func NewMonitor(c *cpu.CPU, mem *cpu.Memory) *Monitor {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. 2000)"
	ti.CharLimit = 4
	ti.Width = 6

	m := &Monitor{
		mem:         mem,
		cpu:         c,
		paused:      true,
		locations:   disassembler.DisassembleInstructions(mem),
		activePane:  "disasm",
		gotoInput:   ti,
		breakpoints: make(map[uint16]bool),
	}
	m.relocate()
	return m
}

func (m *Monitor) snapshot() registerState {
	return registerState{
		A: m.cpu.A, B: m.cpu.B, C: m.cpu.C, D: m.cpu.D, E: m.cpu.E, H: m.cpu.H, L: m.cpu.L,
		SP: m.cpu.SP, PC: m.cpu.PC, Flags: m.cpu.Flags,
	}
}

func (m *Monitor) captureMemoryState() {
	addr := m.memoryAddress
	for i := 0; i < 64; i++ {
		m.lastMemory[i] = m.mem.Read(addr + uint16(i))
	}
}

func (m *Monitor) relocate() {
	for i, l := range m.locations {
		if l.PC == m.cpu.PC {
			m.selectedLocation = i
			return
		}
	}
}

func (m Monitor) Init() tea.Cmd { return nil }

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		if m.paused || m.breakpoints[m.cpu.PC] {
			m.paused = true
			return m, nil
		}
		m.last = m.snapshot()
		m.captureMemoryState()
		m.cpu.Step()
		m.relocate()
		return m, doStep()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(m.gotoInput.Value(), 16, 16); err == nil {
					m.memoryAddress = uint16(addr)
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.paused {
				m.last = m.snapshot()
				m.captureMemoryState()
				m.cpu.Step()
				m.relocate()
			}
		case "b":
			addr := m.locations[m.selectedLocation].PC
			if m.breakpoints[addr] {
				delete(m.breakpoints, addr)
			} else {
				m.breakpoints[addr] = true
			}
		case "n":
			if m.paused && len(m.breakpoints) > 0 {
				m.paused = false
				return m, doStep()
			}
		case "p":
			m.paused = !m.paused
		case "tab":
			if m.activePane == "disasm" {
				m.activePane = "memory"
			} else {
				m.activePane = "disasm"
			}
		case "up":
			if m.activePane == "disasm" {
				if m.selectedLocation > 0 {
					m.selectedLocation--
				}
			} else if m.memoryAddress >= 8 {
				m.memoryAddress -= 8
				m.captureMemoryState()
			}
		case "down":
			if m.activePane == "disasm" {
				if m.selectedLocation < len(m.locations)-20 {
					m.selectedLocation++
				}
			} else if m.memoryAddress <= 0xFFF8 {
				m.memoryAddress += 8
				m.captureMemoryState()
			}
		case "pgup":
			if m.activePane == "disasm" {
				m.selectedLocation = max0(m.selectedLocation-20)
			} else if m.memoryAddress >= 64 {
				m.memoryAddress -= 64
				m.captureMemoryState()
			} else {
				m.memoryAddress = 0
				m.captureMemoryState()
			}
		case "pgdown":
			if m.activePane == "disasm" {
				m.selectedLocation = min(m.selectedLocation+20, len(m.locations)-20)
			} else if m.memoryAddress <= 0xFFC0 {
				m.memoryAddress += 64
				m.captureMemoryState()
			} else {
				m.memoryAddress = 0xFFC0
				m.captureMemoryState()
			}
		}
	}
	return m, nil
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (m Monitor) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatFlags() string {
	flags := []struct {
		name    string
		current bool
		last    bool
	}{
		{"Z", m.cpu.Flags.Z, m.last.Flags.Z},
		{"S", m.cpu.Flags.S, m.last.Flags.S},
		{"P", m.cpu.Flags.P, m.last.Flags.P},
		{"CY", m.cpu.Flags.CY, m.last.Flags.CY},
		{"AC", m.cpu.Flags.AC, m.last.Flags.AC},
	}
	var b strings.Builder
	for _, f := range flags {
		switch {
		case !f.current:
			b.WriteString("- ")
		case f.current != f.last:
			b.WriteString(changedStyle.Render(f.name + " "))
		default:
			b.WriteString(f.name + " ")
		}
	}
	return b.String()
}

func (m Monitor) formatMemory() string {
	var b strings.Builder
	addr := m.memoryAddress
	for row := 0; row < 8; row++ {
		b.WriteString(fmt.Sprintf("$%04X: ", addr))
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.mem.Read(addr + uint16(col))
			if value != m.lastMemory[offset] {
				b.WriteString(changedStyle.Render(fmt.Sprintf("%02X ", value)))
			} else {
				b.WriteString(fmt.Sprintf("%02X ", value))
			}
		}
		b.WriteString(" | ")
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.mem.Read(addr + uint16(col))
			ch := "."
			if value >= 32 && value <= 126 {
				ch = string(value)
			}
			if value != m.lastMemory[offset] {
				b.WriteString(changedStyle.Render(ch))
			} else {
				b.WriteString(ch)
			}
		}
		b.WriteString("\n")
		addr += 8
	}
	return b.String()
}

func (m Monitor) disassemble() string {
	var b strings.Builder
	for i := 0; i < 20 && m.selectedLocation+i < len(m.locations); i++ {
		l := m.locations[m.selectedLocation+i]
		line := l.String()
		switch {
		case m.breakpoints[l.PC] && l.PC == m.cpu.PC:
			line = currentLineStyle.Render("● " + line)
		case m.breakpoints[l.PC]:
			line = breakpointStyle.Render("● " + line)
		case l.PC == m.cpu.PC:
			line = currentLineStyle.Render(line)
		case m.selectedLocation+i == m.selectedLocation:
			line = selectedLineStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// formatStack renders the 16 bytes above SP, since the 8080 stack has
// no fixed page the way the 6502's does.
func (m Monitor) formatStack() string {
	var b strings.Builder
	top := m.cpu.SP + 16
	for addr := top; addr != m.cpu.SP; addr-- {
		b.WriteString(fmt.Sprintf("$%04X: %02X\n", addr-1, m.mem.Read(addr-1)))
	}
	return b.String()
}

func (m Monitor) View() string {
	rightColumnWidth := 32
	leftColumnWidth := 44

	infoStyle = infoStyle.Width(rightColumnWidth)
	stackStyle = stackStyle.Width(rightColumnWidth)
	disasmStyle = disasmStyle.Width(leftColumnWidth)

	disasm := disasmStyle.Render(fmt.Sprintf("Disassembly\n\n%s", m.disassemble()))

	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s  %s  %s  %s\n%s  %s  %s\n%s\n\nFlags: %s\n",
		m.formatReg8("A", m.cpu.A, m.last.A),
		m.formatReg8("B", m.cpu.B, m.last.B),
		m.formatReg8("C", m.cpu.C, m.last.C),
		m.formatReg8("D", m.cpu.D, m.last.D),
		m.formatReg8("E", m.cpu.E, m.last.E),
		m.formatReg8("H", m.cpu.H, m.last.H),
		m.formatReg8("L", m.cpu.L, m.last.L),
		m.formatReg16("PC", m.cpu.PC, m.last.PC),
		m.formatFlags(),
	))

	stack := stackStyle.Render(fmt.Sprintf(
		"Stack (SP=$%04X)\n\n%s", m.cpu.SP, m.formatStack(),
	))

	memory := memoryStyle.Render(fmt.Sprintf("Memory (↑↓ to scroll)\n\n%s", m.formatMemory()))

	right := lipgloss.JoinVertical(lipgloss.Left, cpuState, stack, memory)

	var help string
	if !m.paused {
		help = titleStyle.Render("p: pause • q: quit")
	} else {
		help = titleStyle.Render(
			"s: step • n: run to break • p: pause/resume • b: toggle break • " +
				"↑↓: scroll • pgup/pgdn: page • tab: switch pane • g: goto • q: quit")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, disasm, lipgloss.PlaceHorizontal(3, lipgloss.Left, right))

	if m.showingGoto {
		dialog := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			Width(30).
			Render("Go to address:\n\n" + m.gotoInput.View())
		return lipgloss.JoinVertical(lipgloss.Center, content, help, dialog)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, help)
}

// Run loads rom at address 0 and drives the Bubble Tea program until the
// user quits.
func Run(rom []byte) error {
	mem := cpu.NewMemory()
	if err := mem.LoadROM(rom, 0); err != nil {
		return err
	}
	c := cpu.NewCPU(mem)
	p := tea.NewProgram(NewMonitor(c, mem))
	_, err := p.Run()
	return err
}
