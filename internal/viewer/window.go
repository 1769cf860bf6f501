package viewer

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"scanline-renderer/internal/raster"
)

// Run opens a window sized to the app's frame and drives the app until the
// window closes or Escape is pressed. It blocks.
func Run(app App, opts Options) error {
	opts.defaults()
	f := app.Frame()

	g := &hostGame{app: app, opts: opts}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(f.Color.Width*opts.Scale, f.Color.Height*opts.Scale)
	ebiten.SetTPS(opts.TPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	app     App
	opts    Options
	fbImg   *ebiten.Image
	scratch []byte
}

func pollInput() Input {
	x, y := ebiten.CursorPosition()
	in := Input{
		Down:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
	in.Cursor.X, in.Cursor.Y = x, y
	return in
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return step(g.app, g.opts.Reload, pollInput())
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.app.Frame().Color
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.Width || g.fbImg.Bounds().Dy() != fb.Height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.Width, fb.Height)
		g.scratch = make([]byte, len(fb.Pix))
		raster.Logger().Debug("viewer: allocate texture", "width", fb.Width, "height", fb.Height)
	}

	premultiply(g.scratch, fb.Pix)
	g.fbImg.WritePixels(g.scratch)
	screen.DrawImage(g.fbImg, nil)

	if m, ok := g.app.(Marked); ok {
		for _, p := range m.Markers() {
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), g.opts.MarkerSize, g.opts.MarkerColor, true)
		}
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.app.Frame().Color
	return fb.Width, fb.Height
}
