// Package hostui is a reference core.HostSurface: an ebiten.Game that
// drives an emu.Machine one frame per Update, supplies keyboard state
// as ButtonState when the Machine polls it, and blits each OnFrame
// callback with an FPS/title overlay.
//
// Grounded on the teacher's internal/ui/ebitenapp.go App for the
// Update/Draw/Layout shape and its cfg.Scale-driven window sizing;
// deliberately drops the teacher's in-game menu system (ROM browser,
// save-state slots, settings editor — menu_draw.go/menu_update.go) since
// that UI chrome sits outside every SPEC_FULL.md component and nothing
// in this module exercises it — see DESIGN.md.
package hostui

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/dotmatrix-labs/lr35902core/internal/config"
	"github.com/dotmatrix-labs/lr35902core/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Game wraps an emu.Machine as an ebiten.Game and as the core.HostSurface
// the Machine polls for input and presents frames to — the "host window,
// input polling, frame blitting" spec.md places outside the emulation
// core.
type Game struct {
	m   *emu.Machine
	cfg config.Settings

	fb       []byte // RGBA8888, filled by OnFrame
	tex      *ebiten.Image
	paused   bool
	lastTime time.Time
	fps      float64

	audio *SilentSink
}

// New creates a Game around an already-loaded Machine and registers
// itself as that Machine's core.HostSurface.
func New(m *emu.Machine, cfg config.Settings) *Game {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	g := &Game{m: m, cfg: cfg, fb: make([]byte, 160*144*4), lastTime: time.Now()}
	g.audio = NewSilentSink(48000)
	g.audio.Start()
	m.SetHostSurface(g)
	return g
}

// ButtonState implements core.HostSurface: the Machine polls this once
// per StepFrame instead of being pushed a Buttons value, spec.md §6's
// "bitfield polled by joypad".
func (g *Game) ButtonState() uint8 {
	return emu.Buttons{
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
		Up:     ebiten.IsKeyPressed(ebiten.KeyUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyDown),
		Left:   ebiten.IsKeyPressed(ebiten.KeyLeft),
		Right:  ebiten.IsKeyPressed(ebiten.KeyRight),
	}.Mask()
}

// OnFrame implements core.HostSurface: the PPU hands over each finished
// frame here, at VBlank entry, rather than Draw pulling it out of the
// Machine on its own schedule.
func (g *Game) OnFrame(pixels *[160 * 144]uint32) {
	for i, px := range pixels {
		o := i * 4
		g.fb[o+0] = byte(px >> 24)
		g.fb[o+1] = byte(px >> 16)
		g.fb[o+2] = byte(px >> 8)
		g.fb[o+3] = byte(px)
	}
}

// Update advances the emulator by one frame unless paused, the teacher's
// own Update-drives-StepFrame cadence (ebitenapp.go's Update calling
// a.m.StepFrame once per tick when not paused). Button state and frame
// presentation both flow through the core.HostSurface callbacks above.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		return nil
	}
	if err := g.m.StepFrame(); err != nil {
		return err
	}

	now := time.Now()
	dt := now.Sub(g.lastTime).Seconds()
	g.lastTime = now
	if dt > 0 {
		g.fps = 1 / dt
	}
	return nil
}

// Draw blits the most recent OnFrame callback's RGBA pixels and an FPS
// overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.tex == nil {
		g.tex = ebiten.NewImage(160, 144)
	}
	g.tex.WritePixels(g.fb)
	screen.DrawImage(g.tex, nil)

	status := fmt.Sprintf("%.0f fps", g.fps)
	if g.paused {
		status += " [paused]"
	}
	screen.DrawImage(renderLabel(status), &ebiten.DrawImageOptions{})
}

// Layout fixes the logical screen at the Game Boy's native resolution;
// ebiten scales it to the window per cfg.Scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }

// Run starts the ebiten event loop, blocking until the window closes.
func (g *Game) Run() error {
	defer g.audio.Close()
	return ebiten.RunGame(g)
}

var hudFace = basicfont.Face7x13

// renderLabel draws a one-line status string with golang.org/x/image/font
// into a small RGBA image ebiten can blit directly — the "cheap bitmap
// HUD text" role golang.org/x/image/font/basicfont plays in the pack's
// IntuitionAmiga-IntuitionEngine and RetroCodeRamen-Nitro-Core-DX repos.
func renderLabel(s string) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, 160, 13))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}),
		Face: hudFace,
		Dot:  fixed.P(2, 10),
	}
	d.DrawString(s)
	return ebiten.NewImageFromImage(img)
}
