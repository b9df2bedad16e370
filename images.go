package folio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	ogWidth  = 1200
	ogHeight = 630

	ogTitleScale    = 5
	ogSubtitleScale = 3
	ogMargin        = 80
	ogMaxTitleLines = 3
)

var (
	ogBackground = color.RGBA{0xfb, 0xfe, 0xfb, 0xff}
	ogInk        = color.RGBA{0x28, 0x27, 0x28, 0xff}
	ogAccent     = color.RGBA{0x00, 0x6c, 0xac, 0xff}
)

// RenderOGImage draws a 1200x630 PNG card with title and a footer line.
func RenderOGImage(w io.Writer, title, footer string) error {
	img := image.NewRGBA(image.Rect(0, 0, ogWidth, ogHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(ogBackground), image.Point{}, draw.Src)

	// inset frame
	frame := image.Rect(ogMargin/2, ogMargin/2, ogWidth-ogMargin/2, ogHeight-ogMargin/2)
	drawBorder(img, frame, 6, ogInk)

	glyph := basicfont.Face7x13
	charW := glyph.Advance
	lineH := glyph.Height

	maxTitle := (ogWidth - 2*ogMargin) / (charW * ogTitleScale)
	lines := wrapText(title, maxTitle, ogMaxTitleLines)
	y := ogMargin + 20
	for _, line := range lines {
		drawScaledText(img, line, ogMargin, y, ogTitleScale, ogInk)
		y += lineH*ogTitleScale + 12
	}

	maxFooter := (ogWidth - 2*ogMargin) / (charW * ogSubtitleScale)
	if footerLines := wrapText(footer, maxFooter, 1); len(footerLines) > 0 {
		fy := ogHeight - ogMargin - lineH*ogSubtitleScale
		drawScaledText(img, footerLines[0], ogMargin, fy, ogSubtitleScale, ogAccent)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// drawScaledText renders s with the 7x13 bitmap face and scales it up onto
// dst at (x, y), since basicfont has a single small size.
func drawScaledText(dst *image.RGBA, s string, x, y, scale int, col color.Color) {
	face := basicfont.Face7x13
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return
	}
	src := image.NewRGBA(image.Rect(0, 0, n*face.Advance, face.Height))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	b := src.Bounds()
	target := image.Rect(x, y, x+b.Dx()*scale, y+b.Dy()*scale)
	draw.CatmullRom.Scale(dst, target, src, b, draw.Over, nil)
}

func drawBorder(dst *image.RGBA, r image.Rectangle, width int, col color.Color) {
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// wrapText splits s into at most maxLines lines of maxChars runes, breaking
// on spaces. Overflow is marked with "...".
func wrapText(s string, maxChars, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || maxChars <= 3 || maxLines <= 0 {
		return nil
	}
	var lines []string
	var cur string
	for _, word := range words {
		if utf8.RuneCountInString(word) > maxChars {
			word = truncateRunes(word, maxChars-3) + "..."
		}
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if utf8.RuneCountInString(candidate) <= maxChars {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
		if len(lines) == maxLines {
			last := lines[maxLines-1]
			if utf8.RuneCountInString(last) > maxChars-3 {
				last = truncateRunes(last, maxChars-3)
			}
			lines[maxLines-1] = last + "..."
			return lines
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
