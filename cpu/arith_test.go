package cpu_test

import (
	"testing"

	"github.com/nwhitehead/emu8080/cpu"
	"github.com/stretchr/testify/assert"
)

func newCPUWithProgram(program ...uint8) (*cpu.CPU, *cpu.Memory) {
	mem := cpu.NewMemory()
	for i, b := range program {
		mem.Write(uint16(i), b)
	}
	return cpu.NewCPU(mem), mem
}

func TestADDSetsCarryOnOverflow(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.ADI, 0x01)
	c.A = 0xFF

	c.Step()

	assert.Equal(t, uint8(0x00), c.A)
	assert.True(t, c.Flags.CY)
	assert.True(t, c.Flags.Z)
	assert.True(t, c.Flags.AC)
}

func TestADDDoesNotConsumeIncomingCarry(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.ADI, 0x01)
	c.A = 0x01
	c.Flags.CY = true

	c.Step()

	assert.Equal(t, uint8(0x02), c.A, "ADD ignores a pre-set carry flag")
}

func TestACIConsumesIncomingCarry(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.ACI, 0x01)
	c.A = 0x01
	c.Flags.CY = true

	c.Step()

	assert.Equal(t, uint8(0x03), c.A)
}

func TestSUISetsCarryOnBorrow(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.SUI, 0x01)
	c.A = 0x00

	c.Step()

	assert.Equal(t, uint8(0xFF), c.A)
	assert.True(t, c.Flags.CY, "CY is set when the subtrahend exceeds the minuend")
}

func TestCMPLeavesAccumulatorUnchanged(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.CPI, 0x05)
	c.A = 0x03

	c.Step()

	assert.Equal(t, uint8(0x03), c.A, "CMP only sets flags")
	assert.True(t, c.Flags.CY, "A < operand sets CY")
	assert.False(t, c.Flags.Z)
}

func TestCMPEqualSetsZeroAndClearsCarry(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.CPI, 0x42)
	c.A = 0x42

	c.Step()

	assert.True(t, c.Flags.Z)
	assert.False(t, c.Flags.CY)
}

func TestANIClearsCarryAndAux(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.ANI, 0x0F)
	c.A = 0xFF
	c.Flags.CY = true
	c.Flags.AC = true

	c.Step()

	assert.Equal(t, uint8(0x0F), c.A)
	assert.False(t, c.Flags.CY)
	assert.False(t, c.Flags.AC)
}

func TestORIClearsCarryAndAux(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.ORI, 0x0F)
	c.A = 0xF0
	c.Flags.CY = true
	c.Flags.AC = true

	c.Step()

	assert.Equal(t, uint8(0xFF), c.A)
	assert.False(t, c.Flags.CY)
	assert.False(t, c.Flags.AC)
}

func TestXRIOfAWithItselfIsZero(t *testing.T) {
	c, _ := newCPUWithProgram(cpu.XRI, 0x55)
	c.A = 0x55

	c.Step()

	assert.Equal(t, uint8(0x00), c.A)
	assert.True(t, c.Flags.Z)
}

func TestDAAConvertsBCDAddition(t *testing.T) {
	// 0x15 + 0x27 in BCD is 0x42.
	c, _ := newCPUWithProgram(cpu.ADI, 0x27, cpu.DAA)
	c.A = 0x15

	c.Step()
	c.Step()

	assert.Equal(t, uint8(0x42), c.A)
	assert.False(t, c.Flags.CY)
}

func TestDAACarriesOutOfTheHighNibble(t *testing.T) {
	// 0x90 + 0x90 in BCD is 180, which DAA renders as 0x80 with CY set.
	c, _ := newCPUWithProgram(cpu.ADI, 0x90, cpu.DAA)
	c.A = 0x90

	c.Step()
	c.Step()

	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.Flags.CY)
}
