package colors

import (
	"image/color"
	"testing"
)

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#a5a5a5", "#ffaa00", "#1a3b6e", "#000000"} {
		c, err := Hex(s)
		if err != nil {
			t.Fatalf("Hex(%q): %v", s, err)
		}
		if got := c.Hex(); got != s {
			t.Errorf("Hex(%q).Hex() = %q", s, got)
		}
	}
	if _, err := Hex("orange"); err == nil {
		t.Error("expected error for named color")
	}
}

func TestOverKeepsBaseAlpha(t *testing.T) {
	got := Black().Over(White().WithAlpha(0.25))
	if got.A != 1 || got.R != 0.25 {
		t.Fatalf("Over = %+v", got)
	}
}

func TestToNRGBAClamps(t *testing.T) {
	got := New(2, -1, 0.5, 1).ToNRGBA()
	want := color.NRGBA{R: 255, G: 0, B: 127, A: 255}
	if got != want {
		t.Fatalf("ToNRGBA = %v, want %v", got, want)
	}
}

func TestFromStandardColor(t *testing.T) {
	c := FromStandardColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if c != New(1, 0, 0, 1) {
		t.Fatalf("FromStandardColor = %+v", c)
	}
}
