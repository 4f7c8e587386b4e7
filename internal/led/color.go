// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package led

import "fmt"

// Color is one RGB pixel.
type Color struct {
	R, G, B uint8
}

var (
	Off   = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Palette is the fixed color cycle, in button order.
var Palette = []Color{
	{255, 0, 0},     // red
	{255, 100, 0},   // orange
	{255, 160, 0},   // yellow
	{0, 255, 0},     // green
	{0, 255, 255},   // cyan
	{0, 0, 255},     // blue
	{255, 0, 255},   // magenta
	{255, 255, 255}, // white
}

var paletteNames = []string{"red", "orange", "yellow", "green", "cyan", "blue", "magenta", "white"}

// Default is the color a freshly started saber ignites with.
var Default = Palette[0]

// paletteIndex panics if c is not a palette color: colors only ever come
// from Palette, so a miss is a bug.
func paletteIndex(c Color) int {
	for i, p := range Palette {
		if p == c {
			return i
		}
	}
	panic(fmt.Sprintf("led: color %v is not in the palette", c))
}

// Next returns the palette color after c, wrapping around.
func Next(c Color) Color {
	return Palette[(paletteIndex(c)+1)%len(Palette)]
}

// Name returns the palette name of c.
func Name(c Color) string {
	return paletteNames[paletteIndex(c)]
}

// ByName looks up a palette color.
func ByName(name string) (Color, bool) {
	for i, n := range paletteNames {
		if n == name {
			return Palette[i], true
		}
	}
	return Color{}, false
}

// Fill returns n pixels of color c.
func Fill(n int, c Color) []Color {
	px := make([]Color, n)
	for i := range px {
		px[i] = c
	}
	return px
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}
