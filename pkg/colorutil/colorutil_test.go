package colorutil

import (
	"errors"
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		c    BGR
		want Category
	}{
		{"pure blue", FromRGB(0, 0, 255), CategoryBlue},
		{"pure red", FromRGB(255, 0, 0), CategoryRed},
		{"pure green", FromRGB(0, 255, 0), CategoryGreen},
		{"paper", FromRGB(250, 250, 245), CategoryWhite},
		{"ink", FromRGB(20, 20, 30), CategoryBlack},
		{"grey", FromRGB(128, 128, 128), CategoryOther},
		{"within margin", FromRGB(150, 135, 120), CategoryOther},
		{"pen blue", FromRGB(40, 60, 180), CategoryBlue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Categorize(); got != tt.want {
				t.Errorf("Categorize(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestCategoryHex(t *testing.T) {
	if h, ok := CategoryRed.Hex(); !ok || h != "#FF0000" {
		t.Errorf("red hex = %q, %v", h, ok)
	}
	for _, c := range []Category{CategoryWhite, CategoryBlack, CategoryOther} {
		if h, ok := c.Hex(); ok {
			t.Errorf("%v should have no hex, got %q", c, h)
		}
	}
}

func TestFromHex(t *testing.T) {
	c, err := FromHex("#1a2B3c")
	if err != nil {
		t.Fatal(err)
	}
	if c != (BGR{B: 0x3c, G: 0x2b, R: 0x1a}) {
		t.Errorf("FromHex = %+v", c)
	}
	if got := c.ToHex(); got != "#1A2B3C" {
		t.Errorf("ToHex = %q", got)
	}
	for in, want := range map[string]BGR{
		"#f00": {R: 0xff},
		"0c8":  {G: 0xcc, B: 0x88},
		"#FFF": {B: 0xff, G: 0xff, R: 0xff},
	} {
		if got, err := FromHex(in); err != nil || got != want {
			t.Errorf("FromHex(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "#12", "#12345", "#GGGGGG", "#GGG"} {
		if _, err := FromHex(bad); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("FromHex(%q) err = %v", bad, err)
		}
	}
}

func TestRGBToHSV(t *testing.T) {
	h, s, v := RGBToHSV(0, 0, 255)
	if h != 120 || s != 255 || v != 255 {
		t.Errorf("blue HSV = (%v, %v, %v)", h, s, v)
	}
}

func TestDominant(t *testing.T) {
	red := FromRGB(220, 20, 20)
	blue := FromRGB(20, 20, 220)
	white := FromRGB(255, 255, 255)

	tests := []struct {
		name   string
		pixels []BGR
		want   Category
		ok     bool
	}{
		{"empty", nil, CategoryOther, false},
		{"background only", []BGR{white, white}, CategoryOther, false},
		{"majority", []BGR{red, red, blue, white, white, white}, CategoryRed, true},
		{"tie prefers blue", []BGR{red, blue}, CategoryBlue, true},
	}
	for _, tt := range tests {
		got, ok := Dominant(tt.pixels)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: Dominant = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
