package scenario

import (
	"strings"
	"testing"
	"time"

	"github.com/go-drift/cadence/pkg/gradient"
)

const sample = `
duration: 3s
timers:
  - name: heartbeat
    delay: 500ms
    postpone:
      - at: 600ms
        for: 200ms
    destroy_at: 2500ms
  - name: reminder
    delay: 1s
    one_off: true
gradient:
  syntax: webkit
  stops: ["red", "#ff8800 25%", "blue 100%"]
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if sc.Duration.Std() != 3*time.Second {
		t.Errorf("duration: got %v", sc.Duration.Std())
	}
	if len(sc.Timers) != 2 {
		t.Fatalf("expected 2 timers, got %d", len(sc.Timers))
	}

	hb := sc.Timers[0]
	if hb.Name != "heartbeat" || hb.Delay.Std() != 500*time.Millisecond || hb.OneOff {
		t.Errorf("heartbeat parsed wrong: %+v", hb)
	}
	if len(hb.Postpone) != 1 || hb.Postpone[0].At.Std() != 600*time.Millisecond ||
		hb.Postpone[0].For.Std() != 200*time.Millisecond {
		t.Errorf("heartbeat postpone parsed wrong: %+v", hb.Postpone)
	}
	if hb.DestroyAt.Std() != 2500*time.Millisecond {
		t.Errorf("heartbeat destroy_at: got %v", hb.DestroyAt.Std())
	}

	if !sc.Timers[1].OneOff {
		t.Error("reminder should be one_off")
	}

	if sc.Gradient == nil || sc.Gradient.Syntax != "webkit" || len(sc.Gradient.Stops) != 3 {
		t.Errorf("gradient parsed wrong: %+v", sc.Gradient)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing duration",
			yaml: "timers:\n  - name: a\n    delay: 1s\n",
			want: "duration",
		},
		{
			name: "empty",
			yaml: "duration: 1s\n",
			want: "nothing to run",
		},
		{
			name: "unnamed timer",
			yaml: "duration: 1s\ntimers:\n  - delay: 1s\n",
			want: "no name",
		},
		{
			name: "duplicate names",
			yaml: "duration: 1s\ntimers:\n  - {name: a, delay: 1s}\n  - {name: a, delay: 2s}\n",
			want: "duplicate",
		},
		{
			name: "bad duration string",
			yaml: "duration: soon\ntimers:\n  - {name: a, delay: 1s}\n",
			want: "parse duration",
		},
		{
			name: "bad gradient syntax",
			yaml: "duration: 1s\ngradient:\n  syntax: blink\n  stops: [red]\n",
			want: "unknown gradient syntax",
		},
		{
			name: "bad gradient stop",
			yaml: "duration: 1s\ngradient:\n  syntax: standard\n  stops: [notacolor]\n",
			want: "unrecognized color",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestParseSyntax(t *testing.T) {
	if s, err := ParseSyntax(""); err != nil || s != gradient.SyntaxStandard {
		t.Errorf("empty name should default to standard, got %v, %v", s, err)
	}
	if s, err := ParseSyntax("moz"); err != nil || s != gradient.SyntaxMoz {
		t.Errorf("got %v, %v", s, err)
	}
	if _, err := ParseSyntax("blink"); err == nil {
		t.Error("expected an error for an unknown syntax")
	}
}
