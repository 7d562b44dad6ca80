// Package cpm emulates the minimum CP/M BDOS surface the 8080
// diagnostic ROMs expect: a program loaded at 0x0100 that prints by
// CALLing address 5 and finishes by jumping to address 0.
package cpm

import (
	"context"
	"fmt"
	"io"

	"github.com/nwhitehead/emu8080/cpu"
)

const (
	loadAddress = 0x0100
	bdosVector  = 0x0005
)

// Machine runs a CP/M-style diagnostic ROM against a bare CPU: no
// display, no sound, no input, just the BDOS print functions the test
// ROMs call to report pass/fail.
type Machine struct {
	CPU *cpu.CPU
	Out io.Writer
}

// NewMachine loads rom at 0x0100, sets PC there, and installs a RET at
// the BDOS vector. Run intercepts a CALL 5 before that RET executes and
// returns to the caller itself.
func NewMachine(rom []byte, out io.Writer) (*Machine, error) {
	mem := cpu.NewMemory()
	if err := mem.LoadROM(rom, loadAddress); err != nil {
		return nil, fmt.Errorf("load ROM: %w", err)
	}
	mem.Write(bdosVector, cpu.RET)

	c := cpu.NewCPU(mem)
	c.PC = loadAddress
	c.SP = 0xF000

	return &Machine{CPU: c, Out: out}, nil
}

// Run steps the CPU until it halts, ctx is canceled, or a step leaves PC
// at address 0 (the CP/M warm-boot vector, which diagnostic ROMs jump to
// to signal completion).
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if m.CPU.Halted {
			return nil
		}

		if m.CPU.PC == bdosVector {
			m.handleBDOSCall()
			continue
		}

		m.CPU.Step()

		if m.CPU.PC == 0 {
			return nil
		}
	}
}

// handleBDOSCall implements BDOS functions 2 (print the character in E)
// and 9 (print the '$'-terminated string DE points at), then pops the
// return address CALL 5 pushed and resumes there.
func (m *Machine) handleBDOSCall() {
	switch m.CPU.C {
	case 2:
		fmt.Fprintf(m.Out, "%c", m.CPU.E)
	case 9:
		addr := uint16(m.CPU.D)<<8 | uint16(m.CPU.E)
		for {
			ch := m.CPU.Mem.Read(addr)
			if ch == '$' {
				break
			}
			fmt.Fprintf(m.Out, "%c", ch)
			addr++
		}
	}
	m.CPU.PC = m.CPU.Mem.Read16(m.CPU.SP)
	m.CPU.SP += 2
}
