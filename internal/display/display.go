// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display turns a heading into what a compass face shows: a text
// label and an arrow that keeps pointing at magnetic north.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/relabs-tech/compass/internal/heading"
)

// Indicator is the display state for one heading.
type Indicator struct {
	Label string `json:"label"`
	// Rotation of the arrow in degrees, clockwise positive. It is the
	// negative heading so the arrow stays on north while the device
	// turns clockwise.
	Rotation float64 `json:"rotation"`
}

// NewIndicator builds the indicator for h.
func NewIndicator(h heading.Heading) Indicator {
	return Indicator{
		Label:    fmt.Sprintf("%d° North", h.Display),
		Rotation: -h.Degrees,
	}
}

var (
	background = color.RGBA{0x10, 0x14, 0x1c, 0xff}
	dialColor  = color.RGBA{0x3a, 0x44, 0x55, 0xff}
	northColor = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	southColor = color.RGBA{0xd8, 0xd8, 0xd8, 0xff}
	textColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Render draws a size×size dial with the arrow rotated by ind.Rotation and
// the label centered below it.
func Render(ind Indicator, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, background)

	cx, cy := float32(size)/2, float32(size)/2
	radius := float32(size) * 0.42

	// dial ring
	ring := vector.NewRasterizer(size, size)
	circle(ring, cx, cy, radius, 64, false)
	circle(ring, cx, cy, radius*0.94, 64, true)
	ring.Draw(img, img.Bounds(), image.NewUniform(dialColor), image.Point{})

	// The arrow is a diamond; its red half points north.
	theta := ind.Rotation * math.Pi / 180
	tip := rotate(0, -radius*0.85, theta)
	tail := rotate(0, radius*0.85, theta)
	left := rotate(-radius*0.12, 0, theta)
	right := rotate(radius*0.12, 0, theta)

	north := vector.NewRasterizer(size, size)
	north.MoveTo(cx+tip[0], cy+tip[1])
	north.LineTo(cx+right[0], cy+right[1])
	north.LineTo(cx+left[0], cy+left[1])
	north.ClosePath()
	north.Draw(img, img.Bounds(), image.NewUniform(northColor), image.Point{})

	south := vector.NewRasterizer(size, size)
	south.MoveTo(cx+tail[0], cy+tail[1])
	south.LineTo(cx+left[0], cy+left[1])
	south.LineTo(cx+right[0], cy+right[1])
	south.ClosePath()
	south.Draw(img, img.Bounds(), image.NewUniform(southColor), image.Point{})

	face := basicfont.Face7x13
	width := font.MeasureString(face, ind.Label).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P((size-width)/2, size-face.Descent-2),
	}
	d.DrawString(ind.Label)

	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "encode dial png")
	}
	return nil
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// circle adds a closed polygon approximating a circle. The rasterizer
// cancels overlapping areas of opposite winding, so a ring is an outer
// circle traced one way and an inner one traced the other.
func circle(z *vector.Rasterizer, cx, cy, r float32, segments int, reverse bool) {
	dir := 1.0
	if reverse {
		dir = -1
	}
	for i := 0; i <= segments; i++ {
		a := dir * 2 * math.Pi * float64(i) / float64(segments)
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// rotate turns (x, y) clockwise by theta in screen coordinates (y down).
func rotate(x, y float32, theta float64) [2]float32 {
	s, c := math.Sincos(theta)
	return [2]float32{
		float32(float64(x)*c - float64(y)*s),
		float32(float64(x)*s + float64(y)*c),
	}
}
