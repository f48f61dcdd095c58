package render

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/talgya/hexboard/internal/world"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func ring1(center world.ResourceType) world.Board {
	b := world.Board{{Q: 0, R: 0, Type: center}}
	for _, d := range world.HexNeighborDirections {
		b = append(b, world.Tile{Q: d.Q, R: d.R, Type: world.ResourceWater})
	}
	return b
}

func TestRenderLayout(t *testing.T) {
	got := plain(Render(ring1(world.ResourceWood)))
	want := " ~ ~\n~ T ~\n ~ ~\n"
	if got != want {
		t.Errorf("Render =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestRenderUnknownLeftBlank(t *testing.T) {
	got := plain(Render(ring1(world.ResourceUnset)))
	want := " ~ ~\n~   ~\n ~ ~\n"
	if got != want {
		t.Errorf("Render =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderGeneratedBoard(t *testing.T) {
	cfg := world.DefaultGenConfig()
	m, err := world.Generate(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := plain(Render(m.Board()))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2*cfg.Radius+1 {
		t.Fatalf("got %d lines, want %d", len(lines), 2*cfg.Radius+1)
	}

	glyphCount := 0
	for _, line := range lines {
		glyphCount += len(strings.ReplaceAll(line, " ", ""))
	}
	if glyphCount != 61 {
		t.Errorf("drew %d glyphs, want 61", glyphCount)
	}
	// Top and bottom rows are all border water.
	for _, line := range []string{lines[0], lines[len(lines)-1]} {
		if strings.Trim(line, " ~") != "" {
			t.Errorf("border row %q has land", line)
		}
	}
}

func TestSummary(t *testing.T) {
	b := ring1(world.ResourceSheep)
	b = append(b, world.Tile{Q: 5, R: 5, Type: world.ResourceUnset})
	out := plain(Summary(b))

	for _, want := range []string{"Sheep", "Water", "Unset", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Water    6") {
		t.Errorf("Summary water count wrong:\n%s", out)
	}
	if !strings.Contains(out, "Total    8") {
		t.Errorf("Summary total wrong:\n%s", out)
	}
}

func TestSummaryOmitsUnsetWhenAbsent(t *testing.T) {
	if out := plain(Summary(ring1(world.ResourceOre))); strings.Contains(out, "Unset") {
		t.Errorf("Summary lists Unset:\n%s", out)
	}
}

func TestLegend(t *testing.T) {
	out := plain(Legend())
	for _, want := range []string{"T Wood", "~ Water", ". Desert"} {
		if !strings.Contains(out, want) {
			t.Errorf("Legend missing %q: %s", want, out)
		}
	}
}
