package gradient

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseStop(t *testing.T) {
	cases := []struct {
		in   string
		want Stop
	}{
		{"red", Stop{Color: color.RGBA{R: 0xff, A: 0xff}}},
		{"Blue", Stop{Color: color.RGBA{B: 0xff, A: 0xff}}},
		{"#ff8800", Stop{Color: color.RGBA{R: 0xff, G: 0x88, A: 0xff}}},
		{"#f80", Stop{Color: color.RGBA{R: 0xff, G: 0x88, A: 0xff}}},
		{"red 25%", Stop{Color: color.RGBA{R: 0xff, A: 0xff}, Position: 0.25, HasPosition: true}},
		{"#000000 100%", Stop{Color: color.RGBA{A: 0xff}, Position: 1, HasPosition: true}},
	}
	for _, c := range cases {
		got, err := ParseStop(c.in)
		if err != nil {
			t.Errorf("ParseStop(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStop(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseStop_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyStop},
		{"   ", ErrEmptyStop},
		{"notacolor", ErrBadColor},
		{"#12345", ErrBadColor},
		{"#gggggg", ErrBadColor},
		{"red 25", ErrBadStopPosition},
		{"red 150%", ErrBadStopPosition},
		{"red -5%", ErrBadStopPosition},
		{"red 25% extra", ErrBadStopPosition},
	}
	for _, c := range cases {
		if _, err := ParseStop(c.in); !errors.Is(err, c.want) {
			t.Errorf("ParseStop(%q): got %v, want %v", c.in, err, c.want)
		}
	}
}

func TestParseColor_NamedTable(t *testing.T) {
	got, err := ParseColor("olive")
	if err != nil {
		t.Fatal(err)
	}
	want := color.RGBA{R: 0x80, G: 0x80, B: 0x00, A: 0xff}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
