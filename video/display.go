package video

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// Width and Height are the arcade cabinet's native resolution, rotated
// from the monitor's physical portrait orientation.
const (
	Width  = 224
	Height = 256
)

// Display accepts one decoded RGBA frame per end-of-screen interrupt. It
// is the host's only outward-facing video dependency, so anything that
// doesn't need to look at pixels (tests, in particular) can run against
// a no-op Display instead.
type Display interface {
	Present(frame []byte) error
}

// SDLDisplay renders through an SDL2 window, scaled up from the native
// 224x256 resolution the way the original cabinet's monitor did not need
// to, since every modern screen is larger.
type SDLDisplay struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

// NewSDLDisplay opens a window scaled by factor and returns a Display
// ready to accept frames. Call Close when done.
func NewSDLDisplay(title string, scale int) (*SDLDisplay, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(Width*scale), int32(Height*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, err
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING,
		Width, Height)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, err
	}

	return &SDLDisplay{window: window, renderer: renderer, texture: texture}, nil
}

// Present uploads frame (already RGBA, Width*Height*4 bytes) to the
// texture and draws it scaled to the window.
func (d *SDLDisplay) Present(frame []byte) error {
	if len(frame) != Width*Height*4 {
		return nil
	}
	if err := d.texture.Update(nil, unsafe.Pointer(&frame[0]), Width*4); err != nil {
		return err
	}
	if err := d.renderer.Clear(); err != nil {
		return err
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return err
	}
	d.renderer.Present()
	return nil
}

// Close releases the window, renderer and texture.
func (d *SDLDisplay) Close() {
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
}

// NullDisplay discards frames. Useful wherever a Display is required but
// nothing needs to look at the output, such as a machine test that only
// cares about port behavior.
type NullDisplay struct{}

func (NullDisplay) Present(frame []byte) error { return nil }
