package render

import (
	"bytes"
	"image/color"
	"image/gif"
	"testing"

	"cleanbots/internal/core"
)

func TestFillPaletteRGBAClampsToLastEntry(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	cells := []uint8{0, 1, 7}
	buf := make([]byte, 4*len(cells))
	FillPaletteRGBA(buf, cells, palette)

	want := []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}

	FillPaletteRGBA(buf, cells, nil)
	if !bytes.Equal(buf, make([]byte, len(buf))) {
		t.Fatalf("empty palette should clear the buffer, got %v", buf)
	}
}

func TestEncodeGIF(t *testing.T) {
	a := core.NewByteGrid(3, 2)
	a.Set(0, 0, 1)
	b := a.Clone()
	b.Set(2, 1, 2)

	palette := []color.RGBA{{A: 255}, {R: 255, A: 255}, {B: 255, A: 255}}
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, []*core.ByteGrid{a, b}, palette, 4, 7); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Image) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(out.Image))
	}
	if out.Delay[1] != 7 {
		t.Fatalf("expected delay 7, got %d", out.Delay[1])
	}
	bounds := out.Image[0].Bounds()
	if bounds.Dx() != 12 || bounds.Dy() != 8 {
		t.Fatalf("expected 12x8 frame, got %v", bounds)
	}
	if got := out.Image[1].ColorIndexAt(11, 7); got != 2 {
		t.Fatalf("expected agent color index at scaled corner, got %d", got)
	}
	if got := out.Image[0].ColorIndexAt(3, 3); got != 1 {
		t.Fatalf("expected dirty color index in first block, got %d", got)
	}
}

func TestEncodeGIFRejectsBadInput(t *testing.T) {
	palette := []color.RGBA{{A: 255}}
	if err := EncodeGIF(&bytes.Buffer{}, nil, palette, 1, 1); err == nil {
		t.Fatal("expected error for empty snapshot list")
	}
	frames := []*core.ByteGrid{core.NewByteGrid(2, 2), core.NewByteGrid(3, 2)}
	if err := EncodeGIF(&bytes.Buffer{}, frames, palette, 1, 1); err == nil {
		t.Fatal("expected error for mismatched frame sizes")
	}
	if err := EncodeGIF(&bytes.Buffer{}, frames[:1], nil, 1, 1); err == nil {
		t.Fatal("expected error for empty palette")
	}
}
