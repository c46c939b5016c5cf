// Package main provides the cadence scenario runner, a manual harness for
// the timing packages. It loads a YAML scenario describing timers and the
// postpone/destroy actions applied to them, runs everything on a real
// event loop, and prints each fire with its lateness.
//
// Usage:
//
//	cadence <scenario.yaml>
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-drift/cadence/cmd/cadence/internal/scenario"
	"github.com/go-drift/cadence/pkg/gradient"
	"github.com/go-drift/cadence/pkg/sched"
	"github.com/go-drift/cadence/pkg/timer"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		fmt.Fprintln(os.Stderr, "usage: cadence <scenario.yaml>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	if sc.Gradient != nil {
		syntax, err := scenario.ParseSyntax(sc.Gradient.Syntax)
		if err != nil {
			return err
		}
		value, err := gradient.NewMakerSyntax(syntax).LinearValidated(sc.Gradient.Stops...)
		if err != nil {
			return err
		}
		fmt.Printf("gradient: %s\n", value)
	}

	if len(sc.Timers) == 0 {
		return nil
	}

	loop := sched.NewLoop()
	go loop.Run()
	start := time.Now()

	for _, entry := range sc.Timers {
		tm, err := timer.Start(loop, func(late time.Duration) {
			fmt.Printf("%8s  %s fired (late %v)\n",
				time.Since(start).Round(time.Millisecond), entry.Name, late.Round(time.Millisecond))
		}, entry.Delay.Std(), entry.OneOff)
		if err != nil {
			// Timers already started are abandoned with the loop; the
			// process exits right after, so they are never destroyed.
			loop.Stop()
			return fmt.Errorf("timer %q: %w", entry.Name, err)
		}

		for _, p := range entry.Postpone {
			loop.ScheduleOnce(func(time.Duration) {
				fmt.Printf("%8s  %s postponed\n",
					time.Since(start).Round(time.Millisecond), entry.Name)
				if p.For > 0 {
					tm.PostponeFor(p.For.Std())
				} else {
					tm.Postpone()
				}
			}, p.At.Std())
		}
		if entry.DestroyAt > 0 {
			loop.ScheduleOnce(func(time.Duration) {
				fmt.Printf("%8s  %s destroyed\n",
					time.Since(start).Round(time.Millisecond), entry.Name)
				tm.Destroy()
			}, entry.DestroyAt.Std())
		}
	}

	loop.ScheduleOnce(func(time.Duration) { loop.Stop() }, sc.Duration.Std())
	<-loop.Done()
	return nil
}
