package colormap

import (
	"image/color"
	"math"
	"testing"
)

func TestViridisEndpoints(t *testing.T) {
	t.Parallel()

	c0, ok := Viridis.At(0).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=0")
	}
	if c0 != (color.RGBA{R: 68, G: 1, B: 84, A: 255}) {
		t.Fatalf("unexpected Viridis.At(0): %#v", c0)
	}

	c1, ok := Viridis.At(1).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=1")
	}
	if c1 != (color.RGBA{R: 253, G: 231, B: 37, A: 255}) {
		t.Fatalf("unexpected Viridis.At(1): %#v", c1)
	}

	if Viridis.At(math.NaN()) != Viridis.At(0) {
		t.Fatalf("expected NaN to map to the low end")
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("skyblue")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if Hex(c) != "#87ceeb" {
		t.Fatalf("unexpected skyblue %s", Hex(c))
	}

	c, err = ParseColor("#FF8000")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c != (color.RGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Fatalf("unexpected hex color %#v", c)
	}

	if _, err := ParseColor("chartreuse-ish"); err == nil {
		t.Fatal("expected error for unknown color")
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()

	if _, ok := Named("Plasma"); !ok {
		t.Fatal("expected plasma")
	}
	if _, ok := Named("jet"); ok {
		t.Fatal("unexpected jet")
	}
}
