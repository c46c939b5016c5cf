package gradient

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Stop is a parsed color stop.
type Stop struct {
	// Color is the stop color.
	Color color.RGBA
	// Position is the stop position as a fraction in [0, 1], valid only
	// when HasPosition is set.
	Position float64
	// HasPosition reports whether the stop carried an explicit position.
	HasPosition bool
}

// Parse errors.
var (
	ErrEmptyStop       = errors.New("gradient: empty color stop")
	ErrBadColor        = errors.New("gradient: unrecognized color")
	ErrBadStopPosition = errors.New("gradient: bad stop position")
)

// ParseStop parses a color-stop string such as "red", "#ff8800 25%", or
// "steelblue 100%". Colors may be SVG/CSS named colors or #rgb/#rrggbb
// hex; the optional position is a percentage.
func ParseStop(s string) (Stop, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return Stop{}, ErrEmptyStop
	case 1:
		c, err := ParseColor(fields[0])
		if err != nil {
			return Stop{}, err
		}
		return Stop{Color: c}, nil
	case 2:
		c, err := ParseColor(fields[0])
		if err != nil {
			return Stop{}, err
		}
		pos, err := parsePercent(fields[1])
		if err != nil {
			return Stop{}, err
		}
		return Stop{Color: c, Position: pos, HasPosition: true}, nil
	default:
		return Stop{}, fmt.Errorf("%w: %q", ErrBadStopPosition, s)
	}
}

// ParseColor parses a CSS named color or #rgb/#rrggbb hex color.
func ParseColor(s string) (color.RGBA, error) {
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func parseHex(s string) (color.RGBA, error) {
	hex := s[1:]
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, err = strconv.ParseUint(strings.Repeat(hex[0:1], 2), 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(strings.Repeat(hex[1:2], 2), 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(strings.Repeat(hex[2:3], 2), 16, 8)
		}
	case 6:
		r, err = strconv.ParseUint(hex[0:2], 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(hex[2:4], 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(hex[4:6], 16, 8)
		}
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

func parsePercent(s string) (float64, error) {
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("%w: %q", ErrBadStopPosition, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %q", ErrBadStopPosition, s)
	}
	return v / 100, nil
}
