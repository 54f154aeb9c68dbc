package export

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/naveenspark/gacha/internal/present"
)

// Layout in unscaled pixels. The face is 7x13.
const (
	Scale = 2

	width    = 360
	pad      = 16
	lineH    = 18
	cardH    = 22
	glyphW   = 7
	baseline = 13
)

var (
	background = color.RGBA{0x0d, 0x0d, 0x12, 0xff}
	titleColor = color.RGBA{0xf5, 0xc5, 0x42, 0xff}
	textColor  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	dimColor   = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	panelColor = color.RGBA{0x1a, 0x1a, 0x24, 0xff}
)

// Size returns the unscaled canvas size for a snapshot.
func Size(s present.Snapshot) (w, h int) {
	h = pad + 2*lineH + 8 + len(s.Cards)*cardH
	if s.ShowSummary() {
		h += 8 + lineH*(1+len(s.SummaryLines))
	}
	h += 8 + lineH + pad
	return width, h
}

// Render draws the snapshot and upscales it by Scale.
func Render(s present.Snapshot) *image.RGBA {
	w, h := Size(s)
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	y := pad
	drawText(src, s.Title, pad, y, titleColor)
	y += lineH
	drawText(src, fmt.Sprintf("%s  tickets: %d", s.UserID, s.Tickets), pad, y, dimColor)
	y += lineH + 8

	for _, c := range s.Cards {
		accent := hexColor(present.RarityHex(c.Rarity))
		fill(src, image.Rect(pad, y, w-pad, y+cardH-4), panelColor)
		fill(src, image.Rect(pad, y, pad+4, y+cardH-4), accent)
		label := fmt.Sprintf("%-9s", c.Rarity)
		drawText(src, label, pad+10, y+1, accent)
		nameX := pad + 10 + (len(label)+1)*glyphW
		drawText(src, clip(c.Name, (w-pad-nameX)/glyphW), nameX, y+1, textColor)
		y += cardH
	}

	if s.ShowSummary() {
		y += 8
		drawText(src, s.SummaryTitle, pad, y, titleColor)
		y += lineH
		for _, l := range s.SummaryLines {
			drawText(src, clip(l, (w-3*pad)/glyphW), 2*pad, y, textColor)
			y += lineH
		}
	}

	y += 8
	drawText(src, s.Caption, pad, y, dimColor)

	dst := image.NewRGBA(image.Rect(0, 0, w*Scale, h*Scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// drawText writes s with its top edge at y.
func drawText(img draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+baseline),
	}
	d.DrawString(s)
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "~"
	}
	return string(r[:n-1]) + "~"
}

func hexColor(hex string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return textColor
	}
	return color.RGBA{r, g, b, 0xff}
}
