package cpu_test

import (
	"testing"

	"github.com/nwhitehead/emu8080/cpu"
	"github.com/stretchr/testify/assert"
)

func TestPUSHAndPOPRoundTripThroughSP(t *testing.T) {
	c, mem := newCPUWithProgram(cpu.PUSH_B, cpu.POP_D)
	c.SP = 0x2400
	c.B, c.C = 0xBE, 0xEF

	cyclesPush := c.Step()
	assert.Equal(t, uint8(11), cyclesPush)
	assert.Equal(t, uint16(0x23FE), c.SP, "PUSH decrements SP by 2")
	assert.Equal(t, uint8(0xBE), mem.Read(0x23FF))
	assert.Equal(t, uint8(0xEF), mem.Read(0x23FE))

	cyclesPop := c.Step()
	assert.Equal(t, uint8(10), cyclesPop)
	assert.Equal(t, uint16(0x2400), c.SP, "POP restores SP by 2")
	assert.Equal(t, uint8(0xBE), c.D)
	assert.Equal(t, uint8(0xEF), c.E)
}

func TestPUSHPSWThenPOPPSWRoundTripsFlags(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.PUSH_PSW, cpu.POP_PSW)
	c.SP = 0x2400
	c.A = 0x42
	c.Flags.Z, c.Flags.CY = true, true

	c.Step()
	c.A, c.Flags.Z, c.Flags.CY = 0, false, false
	c.Step()

	assert.Equal(t, uint8(0x42), c.A)
	assert.True(t, c.Flags.Z)
	assert.True(t, c.Flags.CY)
}

func TestPUSHPSWPlacesAAtTheHighByte(t *testing.T) {
	// A occupies SP-1 (the high byte of the pushed word) and the packed
	// flags occupy SP-2, the same high/low convention PUSH B gives B/C.
	c, mem := newCPUWithProgram(cpu.PUSH_PSW)
	c.SP = 0x2400
	c.A = 0x42
	c.Flags.CY = true

	c.Step()

	assert.Equal(t, uint8(0x42), mem.Read(0x23FF), "A at SP-1")
	assert.Equal(t, c.Flags.Packed(), mem.Read(0x23FE), "packed flags at SP-2")
}

func TestRETPopsTheReturnAddressPushedByCALL(t *testing.T) {
	mem := cpu.NewMemory()
	mem.Write(0, cpu.CALL)
	mem.Write(1, 0x00)
	mem.Write(2, 0x20)
	mem.Write(0x2000, cpu.RET)
	c := cpu.NewCPU(mem)
	c.SP = 0x2400

	c.Step()
	assert.Equal(t, uint16(0x2000), c.PC)

	cycles := c.Step()
	assert.Equal(t, uint8(10), cycles)
	assert.Equal(t, uint16(3), c.PC)
	assert.Equal(t, uint16(0x2400), c.SP)
}

func TestConditionalJumpNotTakenStillAdvancesPastOperand(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.JZ, 0x00, 0x40)
	c.Flags.Z = false

	cycles := c.Step()

	assert.Equal(t, uint8(10), cycles, "Jcc costs 10 regardless of whether it is taken")
	assert.Equal(t, uint16(3), c.PC)
}

func TestConditionalCallNotTakenCostsEleven(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.CNZ, 0x00, 0x40)
	c.Flags.Z = true
	c.SP = 0x2400

	cycles := c.Step()

	assert.Equal(t, uint8(11), cycles)
	assert.Equal(t, uint16(0x2400), c.SP, "a not-taken call must not touch the stack")
	assert.Equal(t, uint16(3), c.PC)
}

func TestConditionalCallTakenCostsSeventeen(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.CNZ, 0x00, 0x40)
	c.Flags.Z = false
	c.SP = 0x2400

	cycles := c.Step()

	assert.Equal(t, uint8(17), cycles)
	assert.Equal(t, uint16(0x4000), c.PC)
	assert.Equal(t, uint16(0x23FE), c.SP)
}

func TestRSTVectorsToEightTimesN(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.RST_4)
	c.SP = 0x2400

	cycles := c.Step()

	assert.Equal(t, uint8(11), cycles)
	assert.Equal(t, uint16(8*4), c.PC)
}

func TestXTHLExchangesTopOfStackWithHL(t *testing.T) {
	c, mem := newCPUWithProgram(cpu.XTHL)
	c.SP = 0x2400
	mem.Write(0x2400, 0x11)
	mem.Write(0x2401, 0x22)
	c.H, c.L = 0x33, 0x44

	cycles := c.Step()

	assert.Equal(t, uint8(18), cycles)
	assert.Equal(t, uint8(0x22), c.H)
	assert.Equal(t, uint8(0x11), c.L)
	assert.Equal(t, uint8(0x44), mem.Read(0x2400))
	assert.Equal(t, uint8(0x33), mem.Read(0x2401))
}
