package disassembler

// Instruction describes one opcode's disassembly and timing, independent
// of any particular occurrence in memory.
type Instruction struct {
	Name   string
	Size   int   // bytes including the opcode itself
	Cycles uint8 // base cycle count; conditional calls and returns list the not-taken cost
}

// table is indexed by opcode and has an entry for all 256 of them. The
// undocumented duplicates are listed under their canonical mnemonic so
// disassembly output always reads the way the CPU actually decodes them.
var table = buildTable()

func buildTable() [256]Instruction {
	var t [256]Instruction

	for i := 0x40; i < 0x80; i++ {
		if i == 0x76 {
			continue
		}
		dst := regName((i >> 3) & 7)
		src := regName(i & 7)
		cycles := uint8(5)
		if i&7 == 6 || (i>>3)&7 == 6 {
			cycles = 7
		}
		t[i] = Instruction{Name: "MOV " + dst + "," + src, Size: 1, Cycles: cycles}
	}
	t[0x76] = Instruction{Name: "HLT", Size: 1, Cycles: 7}

	aluNames := []string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for i := 0x80; i < 0xC0; i++ {
		group := (i >> 3) & 7
		src := regName(i & 7)
		cycles := uint8(4)
		if i&7 == 6 {
			cycles = 7
		}
		t[i] = Instruction{Name: aluNames[group] + " " + src, Size: 1, Cycles: cycles}
	}

	set := func(op int, name string, size int, cycles uint8) {
		t[op] = Instruction{Name: name, Size: size, Cycles: cycles}
	}

	set(0x00, "NOP", 1, 4)
	set(0x01, "LXI B", 3, 10)
	set(0x02, "STAX B", 1, 7)
	set(0x03, "INX B", 1, 5)
	set(0x04, "INR B", 1, 5)
	set(0x05, "DCR B", 1, 5)
	set(0x06, "MVI B", 2, 7)
	set(0x07, "RLC", 1, 4)
	set(0x08, "NOP", 1, 4)
	set(0x09, "DAD B", 1, 10)
	set(0x0A, "LDAX B", 1, 7)
	set(0x0B, "DCX B", 1, 5)
	set(0x0C, "INR C", 1, 5)
	set(0x0D, "DCR C", 1, 5)
	set(0x0E, "MVI C", 2, 7)
	set(0x0F, "RRC", 1, 4)

	set(0x10, "NOP", 1, 4)
	set(0x11, "LXI D", 3, 10)
	set(0x12, "STAX D", 1, 7)
	set(0x13, "INX D", 1, 5)
	set(0x14, "INR D", 1, 5)
	set(0x15, "DCR D", 1, 5)
	set(0x16, "MVI D", 2, 7)
	set(0x17, "RAL", 1, 4)
	set(0x18, "NOP", 1, 4)
	set(0x19, "DAD D", 1, 10)
	set(0x1A, "LDAX D", 1, 7)
	set(0x1B, "DCX D", 1, 5)
	set(0x1C, "INR E", 1, 5)
	set(0x1D, "DCR E", 1, 5)
	set(0x1E, "MVI E", 2, 7)
	set(0x1F, "RAR", 1, 4)

	set(0x20, "NOP", 1, 4)
	set(0x21, "LXI H", 3, 10)
	set(0x22, "SHLD", 3, 16)
	set(0x23, "INX H", 1, 5)
	set(0x24, "INR H", 1, 5)
	set(0x25, "DCR H", 1, 5)
	set(0x26, "MVI H", 2, 7)
	set(0x27, "DAA", 1, 4)
	set(0x28, "NOP", 1, 4)
	set(0x29, "DAD H", 1, 10)
	set(0x2A, "LHLD", 3, 16)
	set(0x2B, "DCX H", 1, 5)
	set(0x2C, "INR L", 1, 5)
	set(0x2D, "DCR L", 1, 5)
	set(0x2E, "MVI L", 2, 7)
	set(0x2F, "CMA", 1, 4)

	set(0x30, "NOP", 1, 4)
	set(0x31, "LXI SP", 3, 10)
	set(0x32, "STA", 3, 13)
	set(0x33, "INX SP", 1, 5)
	set(0x34, "INR M", 1, 10)
	set(0x35, "DCR M", 1, 10)
	set(0x36, "MVI M", 2, 10)
	set(0x37, "STC", 1, 4)
	set(0x38, "NOP", 1, 4)
	set(0x39, "DAD SP", 1, 10)
	set(0x3A, "LDA", 3, 13)
	set(0x3B, "DCX SP", 1, 5)
	set(0x3C, "INR A", 1, 5)
	set(0x3D, "DCR A", 1, 5)
	set(0x3E, "MVI A", 2, 7)
	set(0x3F, "CMC", 1, 4)

	set(0xC0, "RNZ", 1, 5)
	set(0xC1, "POP B", 1, 10)
	set(0xC2, "JNZ", 3, 10)
	set(0xC3, "JMP", 3, 10)
	set(0xC4, "CNZ", 3, 11)
	set(0xC5, "PUSH B", 1, 11)
	set(0xC6, "ADI", 2, 7)
	set(0xC7, "RST 0", 1, 11)
	set(0xC8, "RZ", 1, 5)
	set(0xC9, "RET", 1, 10)
	set(0xCA, "JZ", 3, 10)
	set(0xCB, "JMP", 3, 10)
	set(0xCC, "CZ", 3, 11)
	set(0xCD, "CALL", 3, 17)
	set(0xCE, "ACI", 2, 7)
	set(0xCF, "RST 1", 1, 11)

	set(0xD0, "RNC", 1, 5)
	set(0xD1, "POP D", 1, 10)
	set(0xD2, "JNC", 3, 10)
	set(0xD3, "OUT", 2, 10)
	set(0xD4, "CNC", 3, 11)
	set(0xD5, "PUSH D", 1, 11)
	set(0xD6, "SUI", 2, 7)
	set(0xD7, "RST 2", 1, 11)
	set(0xD8, "RC", 1, 5)
	set(0xD9, "RET", 1, 10)
	set(0xDA, "JC", 3, 10)
	set(0xDB, "IN", 2, 10)
	set(0xDC, "CC", 3, 11)
	set(0xDD, "CALL", 3, 17)
	set(0xDE, "SBI", 2, 7)
	set(0xDF, "RST 3", 1, 11)

	set(0xE0, "RPO", 1, 5)
	set(0xE1, "POP H", 1, 10)
	set(0xE2, "JPO", 3, 10)
	set(0xE3, "XTHL", 1, 18)
	set(0xE4, "CPO", 3, 11)
	set(0xE5, "PUSH H", 1, 11)
	set(0xE6, "ANI", 2, 7)
	set(0xE7, "RST 4", 1, 11)
	set(0xE8, "RPE", 1, 5)
	set(0xE9, "PCHL", 1, 5)
	set(0xEA, "JPE", 3, 10)
	set(0xEB, "XCHG", 1, 4)
	set(0xEC, "CPE", 3, 11)
	set(0xED, "CALL", 3, 17)
	set(0xEE, "XRI", 2, 7)
	set(0xEF, "RST 5", 1, 11)

	set(0xF0, "RP", 1, 5)
	set(0xF1, "POP PSW", 1, 10)
	set(0xF2, "JP", 3, 10)
	set(0xF3, "DI", 1, 4)
	set(0xF4, "CP", 3, 11)
	set(0xF5, "PUSH PSW", 1, 11)
	set(0xF6, "ORI", 2, 7)
	set(0xF7, "RST 6", 1, 11)
	set(0xF8, "RM", 1, 5)
	set(0xF9, "SPHL", 1, 5)
	set(0xFA, "JM", 3, 10)
	set(0xFB, "EI", 1, 4)
	set(0xFC, "CM", 3, 11)
	set(0xFD, "CALL", 3, 17)
	set(0xFE, "CPI", 2, 7)
	set(0xFF, "RST 7", 1, 11)

	return t
}

func regName(i int) string {
	switch i {
	case 0:
		return "B"
	case 1:
		return "C"
	case 2:
		return "D"
	case 3:
		return "E"
	case 4:
		return "H"
	case 5:
		return "L"
	case 6:
		return "M"
	default:
		return "A"
	}
}

// Decode returns the instruction entry for opcode. The second return
// value is always true; the 8080 has no undefined opcodes, only
// undocumented duplicates of defined ones.
func Decode(opcode uint8) (Instruction, bool) {
	return table[opcode], true
}
