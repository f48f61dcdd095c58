// Package render draws boards as colored terminal glyphs.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/talgya/hexboard/internal/world"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorWood   = lipgloss.Color("28")  // Dark green
	colorBrick  = lipgloss.Color("166") // Clay orange
	colorSheep  = lipgloss.Color("119") // Pale green
	colorWheat  = lipgloss.Color("220") // Amber
	colorOre    = lipgloss.Color("250") // Slate
	colorDesert = lipgloss.Color("180") // Sand
	colorWater  = lipgloss.Color("33")  // Sea blue
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
)

type glyph struct {
	char  string
	style lipgloss.Style
}

// glyphs has an entry per drawable label. ResourceUnset has none and is
// left blank.
var glyphs = map[world.ResourceType]glyph{
	world.ResourceWood:   {"T", lipgloss.NewStyle().Foreground(colorWood).Bold(true)},
	world.ResourceBrick:  {"B", lipgloss.NewStyle().Foreground(colorBrick).Bold(true)},
	world.ResourceSheep:  {"S", lipgloss.NewStyle().Foreground(colorSheep)},
	world.ResourceWheat:  {"W", lipgloss.NewStyle().Foreground(colorWheat)},
	world.ResourceOre:    {"O", lipgloss.NewStyle().Foreground(colorOre).Bold(true)},
	world.ResourceDesert: {".", lipgloss.NewStyle().Foreground(colorDesert)},
	world.ResourceWater:  {"~", lipgloss.NewStyle().Foreground(colorWater)},
}

var (
	styleKey   = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

// Glyph returns the styled character for t, or a space if t has none.
func Glyph(t world.ResourceType) string {
	g, ok := glyphs[t]
	if !ok {
		return " "
	}
	return g.style.Render(g.char)
}

// =============================================================================
// Board
// =============================================================================

// Render lays the board out pointy-top, one text line per row of constant r,
// top row first. Adjacent tiles in a row are two columns apart and each row
// is shifted one column per step of r, so neighbors touch diagonally.
func Render(b world.Board) string {
	radius := b.Radius()
	if radius < 0 {
		return ""
	}

	rows := make(map[int][]world.Tile)
	for _, t := range b {
		rows[t.R] = append(rows[t.R], t)
	}

	var sb strings.Builder
	for r := -radius; r <= radius; r++ {
		tiles := rows[r]
		sort.Slice(tiles, func(i, j int) bool { return tiles[i].Q < tiles[j].Q })

		col := 0
		for _, t := range tiles {
			target := 2*t.Q + t.R + 2*radius
			if target < col {
				continue // duplicate coordinate
			}
			sb.WriteString(strings.Repeat(" ", target-col))
			sb.WriteString(Glyph(t.Type))
			col = target + 1
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend lists every glyph with its label.
func Legend() string {
	parts := make([]string, 0, len(glyphs))
	for _, t := range append(world.LandPriority[:], world.ResourceWater) {
		parts = append(parts, Glyph(t)+" "+t.String())
	}
	return strings.Join(parts, "  ")
}

// Summary prints per-type tile counts, land types in priority order first.
func Summary(b world.Board) string {
	counts := b.Counts()
	order := append(world.LandPriority[:], world.ResourceWater, world.ResourceUnset)

	var sb strings.Builder
	for _, t := range order {
		n := counts[t]
		if n == 0 && t == world.ResourceUnset {
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s\n", Glyph(t), styleKey.Render(t.String()), styleValue.Render(fmt.Sprint(n)))
	}
	fmt.Fprintf(&sb, "  %s %s\n", styleKey.Render("Total"), styleValue.Render(fmt.Sprint(len(b))))
	return sb.String()
}
