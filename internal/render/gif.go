package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"cleanbots/internal/core"
)

// EncodeGIF writes the snapshots as an animated GIF, one frame per snapshot.
// Each cell becomes a scale x scale block; delay is in 100ths of a second.
func EncodeGIF(w io.Writer, snaps []*core.ByteGrid, palette []color.RGBA, scale, delay int) error {
	if len(snaps) == 0 {
		return errors.New("encode gif: no snapshots")
	}
	if len(palette) == 0 || len(palette) > 256 {
		return fmt.Errorf("encode gif: palette needs 1..256 colors, got %d", len(palette))
	}
	if scale <= 0 {
		scale = 1
	}

	pal := make(color.Palette, len(palette))
	for i, c := range palette {
		pal[i] = c
	}
	last := uint8(len(palette) - 1)

	anim := &gif.GIF{}
	for i, snap := range snaps {
		if snap.W != snaps[0].W || snap.H != snaps[0].H {
			return fmt.Errorf("encode gif: frame %d is %dx%d, want %dx%d", i, snap.W, snap.H, snaps[0].W, snaps[0].H)
		}
		img := image.NewPaletted(image.Rect(0, 0, snap.W*scale, snap.H*scale), pal)
		for y := 0; y < snap.H; y++ {
			for x := 0; x < snap.W; x++ {
				v := min(snap.At(x, y), last)
				for dy := 0; dy < scale; dy++ {
					row := (y*scale + dy) * img.Stride
					for dx := 0; dx < scale; dx++ {
						img.Pix[row+x*scale+dx] = v
					}
				}
			}
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}
