package machine

import (
	"testing"

	"github.com/nwhitehead/emu8080/audio"
	"github.com/nwhitehead/emu8080/cpu"
	"github.com/nwhitehead/emu8080/input"
	"github.com/nwhitehead/emu8080/video"
	"github.com/stretchr/testify/assert"
)

type fakeDisplay struct {
	frames [][]byte
}

func (d *fakeDisplay) Present(frame []byte) error {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	d.frames = append(d.frames, cp)
	return nil
}

type fakeSound struct {
	playing map[int]bool
	plays   []int
	stops   []int
}

func newFakeSound() *fakeSound { return &fakeSound{playing: map[int]bool{}} }

func (s *fakeSound) Play(slot int) error {
	s.playing[slot] = true
	s.plays = append(s.plays, slot)
	return nil
}
func (s *fakeSound) Stop(slot int) {
	s.playing[slot] = false
	s.stops = append(s.stops, slot)
}
func (s *fakeSound) SetLooping(int, bool) {}

type fakeInput struct{ events []input.Event }

func (i *fakeInput) Poll() []input.Event { return i.events }

func TestShiftRegisterShiftsAndOffsets(t *testing.T) {
	mem := cpu.NewMemory()
	m := NewSpaceInvaders(mem, video.NullDisplay{}, audio.NullSoundBank{}, input.NullSource{})

	m.handleOut(4, 0xFF) // shiftX=0xFF, shiftY=0
	m.handleOut(4, 0x0F) // shiftY=0xFF, shiftX=0x0F
	m.handleOut(2, 0x00) // offset 0 -> top byte only

	assert.Equal(t, uint8(0xFF), m.handleIn(3), "offset 0 returns shiftY unshifted")

	m.handleOut(2, 0x07)
	got := m.handleIn(3)
	// (shiftY<<8 | shiftX) >> (8-7) = 0xFF0F >> 1 = 0x7F87, low byte 0x87
	assert.Equal(t, uint8(0x87), got)
}

func TestSoundDispatchIsEdgeTriggered(t *testing.T) {
	mem := cpu.NewMemory()
	sound := newFakeSound()
	m := NewSpaceInvaders(mem, &fakeDisplay{}, sound, &fakeInput{})

	m.handleOut(3, 0x01) // bit0 0->1 starts slot 0
	assert.Equal(t, []int{0}, sound.plays)

	m.handleOut(3, 0x01) // no change, no retrigger
	assert.Equal(t, []int{0}, sound.plays)

	m.handleOut(3, 0x00) // bit0 1->0 stops slot 0
	assert.Equal(t, []int{0}, sound.stops)
}

func TestOutFiveBitFourIsRejectedNotSlotZero(t *testing.T) {
	mem := cpu.NewMemory()
	sound := newFakeSound()
	m := NewSpaceInvaders(mem, &fakeDisplay{}, sound, &fakeInput{})

	m.handleOut(5, 0x10) // bit4 0->1 would map to slot 9, out of range
	assert.Empty(t, sound.plays, "slot 9 is out of range and must not dispatch, least of all to slot 0")
}

func TestOutFivePlaysHighSoundSlots(t *testing.T) {
	mem := cpu.NewMemory()
	sound := newFakeSound()
	m := NewSpaceInvaders(mem, &fakeDisplay{}, sound, &fakeInput{})

	m.handleOut(5, 0x01) // bit0 0->1 starts slot 5
	assert.Equal(t, []int{5}, sound.plays)

	m.handleOut(5, 0x00) // bit0 1->0 stops slot 5
	assert.Equal(t, []int{5}, sound.stops)
}

func TestInPort0IsDiagnosticIdleByte(t *testing.T) {
	mem := cpu.NewMemory()
	m := NewSpaceInvaders(mem, video.NullDisplay{}, audio.NullSoundBank{}, input.NullSource{})

	assert.Equal(t, uint8(1), m.handleIn(0))
}

func TestFrameDecodesSinglePixel(t *testing.T) {
	mem := cpu.NewMemory()
	mem.Write(0x2400, 0x01) // column 0, byte 0, bit 0 -> (x=0, y=0)
	m := NewSpaceInvaders(mem, video.NullDisplay{}, audio.NullSoundBank{}, input.NullSource{})

	frame := m.Frame()

	for y := 0; y < 256; y++ {
		for x := 0; x < 224; x++ {
			i := (y*224 + x) * 4
			want := byte(0)
			if x == 0 && y == 0 {
				want = 0xFF
			}
			if frame[i] != want {
				t.Fatalf("pixel (%d,%d): got %d want %d", x, y, frame[i], want)
			}
			assert.Equal(t, byte(0xFF), frame[i+3], "alpha always opaque")
		}
	}
}

func TestApplyInputSetsAndClearsPortOneBits(t *testing.T) {
	mem := cpu.NewMemory()
	m := NewSpaceInvaders(mem, video.NullDisplay{}, audio.NullSoundBank{}, input.NullSource{})

	m.ApplyInput(input.Event{Key: input.KeyCoin, Pressed: true})
	assert.Equal(t, uint8(0x01), m.port1)

	m.ApplyInput(input.Event{Key: input.KeyCoin, Pressed: false})
	assert.Equal(t, uint8(0x00), m.port1)

	m.ApplyInput(input.Event{Key: input.KeyLeft, Pressed: true})
	assert.Equal(t, uint8(0x40), m.port1)
	assert.Equal(t, m.port2&0x40, uint8(0x40), "P2 mirrors LEFT on bit 6")
}
