package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Window showing a rendered figure, scaled up by an integer factor
type viewer struct {
	img    image.Image
	screen *ebiten.Image
	scale  int
}

func newViewer(img image.Image, scale int) *viewer {
	return &viewer{img: img, scale: max(scale, 1)}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.screen == nil {
		v.screen = ebiten.NewImageFromImage(v.img)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(v.scale), float64(v.scale))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(v.screen, op)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := v.img.Bounds()
	return b.Dx() * v.scale, b.Dy() * v.scale
}

// Blocks until the window is closed
func (v *viewer) run(title string) error {
	b := v.img.Bounds()
	ebiten.SetWindowSize(b.Dx()*v.scale, b.Dy()*v.scale)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(v)
}
