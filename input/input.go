package input

import "github.com/veandco/go-sdl2/sdl"

// Key identifies one of the buttons the cabinet cares about. The host
// only needs to distinguish these six; everything else SDL reports is
// ignored.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyFire
	KeyCoin
	KeyStart1
	KeyEscape
)

// Event is one press or release of a Key.
type Event struct {
	Key     Key
	Pressed bool
}

// Source produces an ordered batch of events since the last Poll call.
// The host drains it roughly once per simulated 60 Hz real-time tick.
type Source interface {
	Poll() []Event
}

// SDLSource maps SDL2 keyboard scancodes to cabinet buttons.
type SDLSource struct{}

// NewSDLSource returns a Source backed by SDL's event queue. SDL video
// must already be initialized, since SDL only delivers keyboard events
// to a process that owns a window.
func NewSDLSource() *SDLSource {
	return &SDLSource{}
}

func (SDLSource) Poll() []Event {
	var events []Event
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			events = append(events, Event{Key: KeyEscape, Pressed: true})
		case *sdl.KeyboardEvent:
			key, ok := translate(ev.Keysym.Scancode)
			if !ok {
				continue
			}
			events = append(events, Event{Key: key, Pressed: ev.State == sdl.PRESSED})
		}
	}
	return events
}

func translate(code sdl.Scancode) (Key, bool) {
	switch code {
	case sdl.SCANCODE_LEFT:
		return KeyLeft, true
	case sdl.SCANCODE_RIGHT:
		return KeyRight, true
	case sdl.SCANCODE_C:
		return KeyFire, true
	case sdl.SCANCODE_5:
		return KeyCoin, true
	case sdl.SCANCODE_1:
		return KeyStart1, true
	case sdl.SCANCODE_ESCAPE:
		return KeyEscape, true
	default:
		return 0, false
	}
}

// NullSource never produces an event. Useful wherever a Source is
// required but nothing needs to drive it, such as a machine test that
// only cares about port behavior.
type NullSource struct{}

func (NullSource) Poll() []Event { return nil }
