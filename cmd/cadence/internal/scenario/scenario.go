// Package scenario loads and validates cadence scenario files.
//
// A scenario is a YAML description of timers to run against the event
// loop, used by the cadence CLI as a manual harness:
//
//	duration: 3s
//	timers:
//	  - name: heartbeat
//	    delay: 500ms
//	    postpone:
//	      - at: 600ms
//	        for: 200ms
//	    destroy_at: 2500ms
//	  - name: reminder
//	    delay: 1s
//	    one_off: true
//	gradient:
//	  syntax: webkit
//	  stops: ["red", "#ff8800 25%", "blue 100%"]
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/cadence/pkg/gradient"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "3s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Scenario is the root of a scenario file.
type Scenario struct {
	// Duration is how long the run lasts before the loop is stopped.
	Duration Duration `yaml:"duration"`
	Timers   []Entry  `yaml:"timers"`
	Gradient *Swatch  `yaml:"gradient,omitempty"`
}

// Entry declares one timer and the actions applied to it during the run.
type Entry struct {
	Name   string   `yaml:"name"`
	Delay  Duration `yaml:"delay"`
	OneOff bool     `yaml:"one_off,omitempty"`
	// Postpone lists deferred-fire actions, each applied at a point in
	// run time. A zero For uses the timer's own delay.
	Postpone []PostponeAction `yaml:"postpone,omitempty"`
	// DestroyAt destroys the timer at a point in run time; zero means
	// the timer runs until the scenario ends.
	DestroyAt Duration `yaml:"destroy_at,omitempty"`
}

// PostponeAction postpones a timer's next fire at a point in run time.
type PostponeAction struct {
	At  Duration `yaml:"at"`
	For Duration `yaml:"for,omitempty"`
}

// Swatch asks the run to print a gradient value built from the given
// stops, forcing a syntax instead of probing a style engine.
type Swatch struct {
	Syntax string   `yaml:"syntax"`
	Stops  []string `yaml:"stops"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Duration <= 0 {
		return errors.New("scenario: duration must be positive")
	}
	if len(sc.Timers) == 0 && sc.Gradient == nil {
		return errors.New("scenario: nothing to run")
	}
	names := make(map[string]bool, len(sc.Timers))
	for i, e := range sc.Timers {
		if e.Name == "" {
			return fmt.Errorf("scenario: timer %d has no name", i)
		}
		if names[e.Name] {
			return fmt.Errorf("scenario: duplicate timer name %q", e.Name)
		}
		names[e.Name] = true
		if e.Delay < 0 {
			return fmt.Errorf("scenario: timer %q has a negative delay", e.Name)
		}
		for _, p := range e.Postpone {
			if p.At < 0 || p.For < 0 {
				return fmt.Errorf("scenario: timer %q has a negative postpone", e.Name)
			}
		}
		if e.DestroyAt < 0 {
			return fmt.Errorf("scenario: timer %q has a negative destroy_at", e.Name)
		}
	}
	if sc.Gradient != nil {
		if _, err := ParseSyntax(sc.Gradient.Syntax); err != nil {
			return err
		}
		if len(sc.Gradient.Stops) == 0 {
			return errors.New("scenario: gradient block has no stops")
		}
		for _, s := range sc.Gradient.Stops {
			if _, err := gradient.ParseStop(s); err != nil {
				return fmt.Errorf("scenario: %w", err)
			}
		}
	}
	return nil
}

// ParseSyntax maps a scenario syntax name to a gradient.Syntax.
func ParseSyntax(name string) (gradient.Syntax, error) {
	switch name {
	case "", "standard":
		return gradient.SyntaxStandard, nil
	case "webkit":
		return gradient.SyntaxWebKit, nil
	case "moz":
		return gradient.SyntaxMoz, nil
	case "o":
		return gradient.SyntaxO, nil
	case "ms":
		return gradient.SyntaxMS, nil
	case "none":
		return gradient.SyntaxNone, nil
	default:
		return gradient.SyntaxNone, fmt.Errorf("scenario: unknown gradient syntax %q", name)
	}
}
