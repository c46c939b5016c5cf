// Package gradient builds CSS linear-gradient value strings for style
// engines that may only understand a vendor-prefixed spelling of the
// gradient function.
//
// Detection is a one-time probe: [Detect] applies a candidate value for
// each known spelling to a [StyleProbe] and keeps the first one the
// engine retains. After that a [Maker] is a pure string formatter. The
// package has no relationship to the timing packages in this module.
package gradient

import (
	"regexp"
	"strings"
)

// Syntax identifies a spelling of the CSS linear-gradient function.
type Syntax int

const (
	// SyntaxNone means no gradient spelling is supported.
	SyntaxNone Syntax = iota
	// SyntaxStandard is the unprefixed CSS3 syntax.
	SyntaxStandard
	// SyntaxWebKit is the -webkit- prefixed legacy syntax.
	SyntaxWebKit
	// SyntaxMoz is the -moz- prefixed legacy syntax.
	SyntaxMoz
	// SyntaxO is the -o- prefixed legacy syntax.
	SyntaxO
	// SyntaxMS is the -ms- prefixed legacy syntax.
	SyntaxMS
)

// String returns the CSS function name for the syntax, or "" for
// SyntaxNone.
func (s Syntax) String() string {
	switch s {
	case SyntaxStandard:
		return "linear-gradient"
	case SyntaxWebKit:
		return "-webkit-linear-gradient"
	case SyntaxMoz:
		return "-moz-linear-gradient"
	case SyntaxO:
		return "-o-linear-gradient"
	case SyntaxMS:
		return "-ms-linear-gradient"
	default:
		return ""
	}
}

// direction returns the top-to-bottom direction keyword for the syntax.
// The unprefixed syntax uses "to <side>"; the legacy prefixed syntaxes
// name the starting side instead.
func (s Syntax) direction() string {
	if s == SyntaxStandard {
		return "to bottom"
	}
	return "top"
}

// StyleProbe is the host style engine collaborator used during detection.
// Apply sets a candidate background value and returns the value the
// engine retained afterwards; an engine that rejects the value returns
// something with no gradient function in it (typically "" or the prior
// value).
type StyleProbe interface {
	Apply(value string) string
}

// probeOrder is the preference order for detection, standard first.
var probeOrder = [...]Syntax{SyntaxStandard, SyntaxWebKit, SyntaxMoz, SyntaxO, SyntaxMS}

var gradientPattern = regexp.MustCompile(`(?i)gradient`)

// Detect probes each known spelling once and returns the first one the
// engine retains, or SyntaxNone if the probe is nil or nothing sticks.
func Detect(probe StyleProbe) Syntax {
	if probe == nil {
		return SyntaxNone
	}
	for _, s := range probeOrder {
		candidate := s.String() + "(" + s.direction() + ", #000000, #ffffff)"
		if gradientPattern.MatchString(probe.Apply(candidate)) {
			return s
		}
	}
	return SyntaxNone
}

// Maker formats linear-gradient strings in a syntax fixed at creation.
type Maker struct {
	syntax Syntax
}

// NewMaker probes the style engine once and returns a Maker bound to the
// detected syntax.
func NewMaker(probe StyleProbe) *Maker {
	return &Maker{syntax: Detect(probe)}
}

// NewMakerSyntax returns a Maker bound to a known syntax, skipping
// detection.
func NewMakerSyntax(s Syntax) *Maker {
	return &Maker{syntax: s}
}

// Syntax reports the spelling the Maker is bound to.
func (m *Maker) Syntax() Syntax { return m.syntax }

// Linear returns a ready-to-use top-to-bottom gradient value built from
// the given color stops, or "" when no syntax is supported or no stops
// are given. Stops are passed through verbatim; see [ParseStop] for
// validation.
func (m *Maker) Linear(stops ...string) string {
	if m.syntax == SyntaxNone || len(stops) == 0 {
		return ""
	}
	return m.syntax.String() + "(" + m.syntax.direction() + ", " + strings.Join(stops, ", ") + ")"
}

// LinearValidated is [Maker.Linear] with every stop checked by [ParseStop]
// first. It fails on the first malformed stop instead of emitting a value
// the style engine would reject.
func (m *Maker) LinearValidated(stops ...string) (string, error) {
	for _, s := range stops {
		if _, err := ParseStop(s); err != nil {
			return "", err
		}
	}
	return m.Linear(stops...), nil
}
