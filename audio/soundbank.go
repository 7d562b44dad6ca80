package audio

import (
	"fmt"
	"path/filepath"

	"github.com/veandco/go-sdl2/mix"
)

// NumSlots is the number of sample channels the cabinet's sound board
// wires to the OUT 3/OUT 5 edge-triggered bits.
const NumSlots = 9

// SoundBank is nine independently playable sample slots. Slot 0 is the
// looping UFO tone; slots 1-8 are one-shots.
type SoundBank interface {
	Play(slot int) error
	Stop(slot int)
	SetLooping(slot int, looping bool)
}

// SDLSoundBank plays 16-bit PCM samples through SDL2_mix. Filenames are
// "0.wav".."8.wav" found alongside the ROM image.
type SDLSoundBank struct {
	chunks   [NumSlots]*mix.Chunk
	looping  [NumSlots]bool
	channels [NumSlots]int
}

// NewSDLSoundBank opens the mixer and loads the nine sample files from
// dir. A missing or unreadable file is fatal, per asset-load-failure
// being a startup error.
func NewSDLSoundBank(dir string) (*SDLSoundBank, error) {
	if err := mix.OpenAudio(44100, mix.DEFAULT_FORMAT, 2, 4096); err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	if err := mix.AllocateChannels(NumSlots); err != nil {
		return nil, fmt.Errorf("allocate mixer channels: %w", err)
	}

	bank := &SDLSoundBank{}
	for i := 0; i < NumSlots; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.wav", i))
		chunk, err := mix.LoadWAV(path)
		if err != nil {
			return nil, fmt.Errorf("load sound %d (%s): %w", i, path, err)
		}
		bank.chunks[i] = chunk
		bank.channels[i] = i
	}
	bank.looping[0] = true
	return bank, nil
}

// Play starts slot, looping forever if it is the UFO channel, otherwise
// playing once.
func (b *SDLSoundBank) Play(slot int) error {
	loops := 0
	if b.looping[slot] {
		loops = -1
	}
	_, err := b.chunks[slot].Play(b.channels[slot], loops)
	return err
}

// Stop halts whatever is playing on slot's channel.
func (b *SDLSoundBank) Stop(slot int) {
	mix.HaltChannel(b.channels[slot])
}

// SetLooping overrides the default looping behavior for slot.
func (b *SDLSoundBank) SetLooping(slot int, looping bool) {
	b.looping[slot] = looping
}

// Close frees every loaded chunk and shuts down the mixer.
func (b *SDLSoundBank) Close() {
	for _, c := range b.chunks {
		if c != nil {
			c.Free()
		}
	}
	mix.CloseAudio()
}

// NullSoundBank discards every call. Useful wherever a SoundBank is
// required but nothing needs to hear it, such as a machine test that
// only cares about port behavior.
type NullSoundBank struct{}

func (NullSoundBank) Play(slot int) error          { return nil }
func (NullSoundBank) Stop(slot int)                {}
func (NullSoundBank) SetLooping(slot int, l bool)  {}
