// Package machine hosts the Space Invaders arcade board around a CPU:
// it intercepts the IN/OUT instructions the cabinet wires to a bit-shift
// coprocessor, sound channels and player input, decodes the 1bpp
// framebuffer into RGBA, and drives the two-interrupt-per-frame cadence.
package machine

import (
	"context"
	"log"
	"time"

	"github.com/nwhitehead/emu8080/audio"
	"github.com/nwhitehead/emu8080/cpu"
	"github.com/nwhitehead/emu8080/input"
	"github.com/nwhitehead/emu8080/video"
)

const (
	videoBase = 0x2400
	videoEnd  = 0x4000

	nsPerCycle     = 500 // 2 MHz clock
	vblankInterval = time.Second / 120

	// DIP switch defaults encoded into port 2's DIP bits (0, 1 and 3).
	shipsDefault     = 3
	bonusLifeDefault = 1500
)

// SpaceInvaders is the arcade host: a CPU plus the port overrides,
// shift register and sound edge-detection the cabinet's I/O board adds.
type SpaceInvaders struct {
	CPU *cpu.CPU

	display video.Display
	sound   audio.SoundBank
	input   input.Source

	shiftX, shiftY  uint8
	shiftOffset     uint8
	lastSoundLow    uint8
	lastSoundHigh   uint8
	port1           uint8
	port2           uint8

	simTimeNS     int64
	lastVblankNS  int64
	nextInterrupt uint8
}

// NewSpaceInvaders wires mem's CPU to disp/snd/in. port1/port2 start at
// their idle bit patterns; DIP switches are baked into port2's fixed
// bits (ships=3, bonus life=1500) since the cabinet has no UI to change
// them at runtime.
func NewSpaceInvaders(mem *cpu.Memory, disp video.Display, snd audio.SoundBank, in input.Source) *SpaceInvaders {
	m := &SpaceInvaders{
		CPU:           cpu.NewCPU(mem),
		display:       disp,
		sound:         snd,
		input:         in,
		nextInterrupt: 1,
	}
	m.port2 = dipDefaults()
	return m
}

func dipDefaults() uint8 {
	// Bits 0-1 encode ships-per-game (3 ships = 0b00), bit 3 selects the
	// bonus-life threshold (1500 = 0), bit 7 is the demo-sounds flag
	// (0 = sounds on). shipsDefault/bonusLifeDefault exist to name the
	// arcade's factory settings even though their encoding collapses to
	// zero bits at these values.
	var p uint8
	if shipsDefault != 3 {
		p |= 0x01
	}
	if bonusLifeDefault != 1500 {
		p |= 0x08
	}
	return p
}

// handleIn intercepts IN n, returning the byte the CPU should load into
// A. It does not touch PC; step, its caller, advances PC by 2 and
// charges the 10 cycles, since the host, not the CPU, owns these ports.
func (m *SpaceInvaders) handleIn(port uint8) uint8 {
	switch port {
	case 0:
		return 1 // diagnostic idle byte
	case 1:
		return m.port1
	case 2:
		return m.port2
	case 3:
		shifted := uint16(m.shiftY)<<8 | uint16(m.shiftX)
		return uint8(shifted >> (8 - m.shiftOffset))
	default:
		return m.CPU.Ports[port&0x07]
	}
}

func (m *SpaceInvaders) handleOut(port, value uint8) {
	switch port {
	case 2:
		m.shiftOffset = value & 0x07
	case 3:
		m.dispatchSounds(value, &m.lastSoundLow, soundBitsLow)
	case 4:
		m.shiftY = m.shiftX
		m.shiftX = value
	case 5:
		m.dispatchSounds(value, &m.lastSoundHigh, soundBitsHigh)
	case 6:
		// watchdog, ignored
	default:
		m.CPU.Ports[port&0x07] = value
	}
}

var soundBitsLow = [5]int{0, 1, 2, 3, 4}
var soundBitsHigh = [5]int{5, 6, 7, 8, 9}

func (m *SpaceInvaders) dispatchSounds(value uint8, last *uint8, slots [5]int) {
	for i, slot := range slots {
		if slot >= audio.NumSlots {
			continue
		}
		bit := uint8(1) << uint(i)
		wasSet := *last&bit != 0
		isSet := value&bit != 0
		if isSet && !wasSet {
			if err := m.sound.Play(slot); err != nil {
				log.Printf("machine: play sound %d: %v", slot, err)
			}
		} else if wasSet && !isSet {
			m.sound.Stop(slot)
		}
	}
	*last = value
}

// step executes one instruction, routing any IN/OUT it performed
// through the host's port overrides instead of the CPU's raw array.
// IN and OUT never reach the CPU's decoder: step advances PC past the
// two-byte instruction and returns the documented 10 cycles itself.
func (m *SpaceInvaders) step() uint8 {
	pc := m.CPU.PC
	opcode := m.CPU.Mem.Read(pc)

	switch opcode {
	case cpu.IN:
		port := m.CPU.Mem.Read(pc + 1)
		m.CPU.A = m.handleIn(port)
		m.CPU.PC += 2
		return 10
	case cpu.OUT:
		port := m.CPU.Mem.Read(pc + 1)
		m.handleOut(port, m.CPU.A)
		m.CPU.PC += 2
		return 10
	default:
		return m.CPU.Step()
	}
}

// ApplyInput updates port1/port2 from a player event, per the bit
// layout ports 1 and 2 share for COIN/START1/FIRE/RIGHT/LEFT.
func (m *SpaceInvaders) ApplyInput(e input.Event) {
	var bit uint8
	switch e.Key {
	case input.KeyCoin:
		bit = 0x01
	case input.KeyStart1:
		bit = 0x04
	case input.KeyFire:
		bit = 0x10
	case input.KeyRight:
		bit = 0x20
	case input.KeyLeft:
		bit = 0x40
	default:
		return
	}
	if e.Pressed {
		m.port1 |= bit
		m.port2 |= bit & 0x70 // P2 mirrors FIRE/RIGHT/LEFT only
	} else {
		m.port1 &^= bit
		m.port2 &^= bit & 0x70
	}
}

// Frame decodes the 1bpp framebuffer at 0x2400-0x3FFF into an RGBA byte
// slice, column-major with the origin at the screen's bottom-left.
func (m *SpaceInvaders) Frame() []byte {
	frame := make([]byte, video.Width*video.Height*4)
	for x := 0; x < video.Width; x++ {
		for y := 0; y < video.Height; y++ {
			offset := x*32 + y>>3
			bit := uint(y & 7)
			on := m.CPU.Mem.Read(uint16(videoBase+offset))&(1<<bit) != 0

			i := (y*video.Width + x) * 4
			var v byte
			if on {
				v = 0xFF
			}
			frame[i], frame[i+1], frame[i+2], frame[i+3] = v, v, v, 0xFF
		}
	}
	return frame
}

// Run drives the fetch/execute/interrupt loop until ctx is canceled or
// an ESCAPE event is observed. It throttles itself against a real-time
// clock rather than sleeping, tolerating drift between simulated and
// real time the way the arcade board's own crystal would.
func (m *SpaceInvaders) Run(ctx context.Context) error {
	lastReal := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cycles := m.step()
		m.simTimeNS += int64(cycles) * nsPerCycle

		if m.CPU.InterruptEnable && time.Duration(m.simTimeNS-m.lastVblankNS) >= vblankInterval {
			m.CPU.Interrupt(m.nextInterrupt)
			m.lastVblankNS = m.simTimeNS
			wasEndOfFrame := m.nextInterrupt == 2
			if m.nextInterrupt == 1 {
				m.nextInterrupt = 2
			} else {
				m.nextInterrupt = 1
			}
			if wasEndOfFrame {
				if err := m.display.Present(m.Frame()); err != nil {
					log.Printf("machine: present frame: %v", err)
				}
			}
		}

		now := time.Now()
		if now.Sub(lastReal) >= time.Second/60 {
			for _, e := range m.input.Poll() {
				if e.Key == input.KeyEscape {
					return nil
				}
				m.ApplyInput(e)
			}
			lastReal = now
		}
	}
}
