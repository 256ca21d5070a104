package common

import (
	"image/color"
)

// PiecePalette maps a board cell value to its fill color. Index 0 is an empty cell.
var PiecePalette = [8]color.Color{
	color.RGBA{0, 0, 0, 0},        // Empty – transparent
	color.RGBA{160, 60, 200, 255}, // T – purple
	color.RGBA{230, 210, 40, 255}, // O – yellow
	color.RGBA{240, 140, 30, 255}, // L – orange
	color.RGBA{40, 80, 220, 255},  // J – blue
	color.RGBA{40, 200, 220, 255}, // I – cyan
	color.RGBA{60, 200, 60, 255},  // S – green
	color.RGBA{220, 50, 50, 255},  // Z – red
}

// CellColor returns the palette color for a cell value, or nil for empty or unknown values
func CellColor(v int) color.Color {
	if v <= 0 || v >= len(PiecePalette) {
		return nil
	}
	return PiecePalette[v]
}

// UI colors
var (
	BackgroundColor = color.Black
	GridLineColor   = color.RGBA{50, 50, 50, 255}
	BorderColor     = color.RGBA{120, 120, 120, 255}
	HUDTextColor    = color.White
)
