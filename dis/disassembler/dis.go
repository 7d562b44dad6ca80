package disassembler

import (
	"fmt"
	"strings"

	"github.com/nwhitehead/emu8080/cpu"
)

// Location is one decoded instruction occurrence: where it sits in
// memory, the bytes it spans, and the table entry it resolved to.
type Location struct {
	PC           uint16
	Value        uint8
	OperandBytes []uint8
	Inst         Instruction
}

// Size is the total byte length of the instruction, opcode included.
func (l Location) Size() int {
	return l.Inst.Size
}

// String renders a Location the way a listing file would: address,
// raw bytes, then mnemonic with its operand substituted in.
func (l Location) String() string {
	raw := []string{fmt.Sprintf("%02X", l.Value)}
	for _, b := range l.OperandBytes {
		raw = append(raw, fmt.Sprintf("%02X", b))
	}

	mnemonic := l.Inst.Name
	switch len(l.OperandBytes) {
	case 1:
		mnemonic = fmt.Sprintf("%s 0x%02X", mnemonic, l.OperandBytes[0])
	case 2:
		addr := uint16(l.OperandBytes[1])<<8 | uint16(l.OperandBytes[0])
		mnemonic = fmt.Sprintf("%s 0x%04X", mnemonic, addr)
	}

	return fmt.Sprintf("%04X  %-8s  %s", l.PC, strings.Join(raw, " "), mnemonic)
}

func disassembleLocation(memory cpu.MemoryBus, pc uint16) Location {
	opcode := memory.Read(pc)
	inst, _ := Decode(opcode)

	operands := make([]uint8, 0, inst.Size-1)
	for i := 1; i < inst.Size; i++ {
		operands = append(operands, memory.Read(pc+uint16(i)))
	}

	return Location{PC: pc, Value: opcode, OperandBytes: operands, Inst: inst}
}

// DisassembleInstructions walks the full 64 KiB address space from 0,
// one instruction at a time, without regard to whether a given byte is
// ever reached as code. It is meant for flat ROM images, not programs
// that interleave code and data.
func DisassembleInstructions(memory cpu.MemoryBus) []Location {
	var locations []Location
	pc := uint16(0)
	for {
		loc := disassembleLocation(memory, pc)
		locations = append(locations, loc)

		next := pc + uint16(loc.Size())
		if next <= pc {
			break // wrapped around 0x10000
		}
		pc = next
	}
	return locations
}

// DisassembleMemory renders length bytes starting at startAddr as a
// listing, one line per instruction.
func DisassembleMemory(memory cpu.MemoryBus, startAddr, length int) string {
	var b strings.Builder
	pc := uint16(startAddr)
	end := uint16(startAddr + length)
	for pc < end {
		loc := disassembleLocation(memory, pc)
		b.WriteString(loc.String())
		b.WriteByte('\n')
		pc += uint16(loc.Size())
	}
	return b.String()
}

// DisassembleBytes decodes a single instruction out of a standalone byte
// slice, useful for tests and for the debug monitor's one-off lookups.
func DisassembleBytes(data []byte, pc uint16) Location {
	return disassembleLocation(byteSliceBus(data), pc)
}

type byteSliceBus []byte

func (b byteSliceBus) Read(addr uint16) uint8 {
	if int(addr) >= len(b) {
		return 0
	}
	return b[addr]
}
