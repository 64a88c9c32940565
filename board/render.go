package board

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

// Render writes a text rendering of the board to w: dots for empty, X
// for Player1, O for Player2, indented so the hexagon shape is visible.
func (b *Board) Render(w io.Writer) {
	for y := 0; y < b.sizeD; y++ {
		spaces := abs(b.size - 1 - y)
		fmt.Fprint(w, strings.Repeat(" ", spaces))
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			switch b.cells[b.xyIndex(x, y)].piece {
			case Player1:
				fmt.Fprint(w, "X ")
			case Player2:
				fmt.Fprint(w, "O ")
			default:
				fmt.Fprint(w, ". ")
			}
		}
		fmt.Fprintln(w)
	}
}

// String renders the board as text, per Render.
func (b *Board) String() string {
	var sb strings.Builder
	b.Render(&sb)
	return sb.String()
}

const cellPx = 28

// RenderPNG rasterizes the board to a PNG image, an alternate
// persistence format alongside the canonical text rendering.
func (b *Board) RenderPNG(w io.Writer) error {
	width := b.sizeD * cellPx
	height := b.sizeD * cellPx
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return errors.Wrap(err, "board: parse glyph font")
	}

	ctx := freetype.NewContext()
	ctx.SetFont(f)
	ctx.SetFontSize(18)
	ctx.SetDPI(72)
	ctx.SetDst(img)
	ctx.SetClip(img.Bounds())
	ctx.SetSrc(image.NewUniform(color.Black))

	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			glyph := "."
			switch b.cells[b.xyIndex(x, y)].piece {
			case Player1:
				glyph = "X"
			case Player2:
				glyph = "O"
			}
			pt := freetype.Pt(x*cellPx+cellPx/3, y*cellPx+2*cellPx/3)
			if _, err := ctx.DrawString(glyph, pt); err != nil {
				return errors.Wrap(err, "board: draw glyph")
			}
		}
	}
	return errors.Wrap(png.Encode(w, img), "board: encode png")
}
