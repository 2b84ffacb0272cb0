// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/printer"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/testutil"
	"github.com/cxz/crush/lib/value"
)

var numberSchema = value.MustSchema(value.Column("n", value.TypeInteger))

// numbers emits rows 0..count-1, signalling on sent (when non-nil)
// after every successful send. A negative count emits until the
// consumer goes away.
func numbers(count int, sent chan<- int) command.Handler {
	return func(ctx *command.Context) error {
		output, err := ctx.Output.Initialize(numberSchema)
		if err != nil {
			return err
		}
		for i := 0; count < 0 || i < count; i++ {
			if err := output.Send(value.NewRow(value.Integer(i))); err != nil {
				return err
			}
			if sent != nil {
				sent <- i
			}
		}
		return nil
	}
}

// forward copies its input stream to its output, optionally waiting on
// release first.
func forward(release <-chan struct{}) command.Handler {
	return func(ctx *command.Context) error {
		if release != nil {
			<-release
		}
		input, err := ctx.InputRows()
		if err != nil {
			return err
		}
		output, err := ctx.Output.Initialize(input.Schema())
		if err != nil {
			return err
		}
		for {
			row, err := input.Recv()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := output.Send(row); err != nil {
				return err
			}
		}
	}
}

// take forwards the first limit rows, then returns without draining.
func take(limit int) command.Handler {
	return func(ctx *command.Context) error {
		input, err := ctx.InputRows()
		if err != nil {
			return err
		}
		output, err := ctx.Output.Initialize(input.Schema())
		if err != nil {
			return err
		}
		for range limit {
			row, err := input.Recv()
			if err != nil {
				return err
			}
			if err := output.Send(row); err != nil {
				return err
			}
		}
		return nil
	}
}

func newRegistry(commands ...*command.Command) *command.Registry {
	registry := command.NewRegistry()
	for _, c := range commands {
		registry.Declare(c)
	}
	registry.Freeze()
	return registry
}

func collected(t *testing.T, result Result) []int64 {
	t.Helper()
	var got []int64
	for _, row := range result.Rows {
		got = append(got, int64(row.Cell(0).(value.Integer)))
	}
	return got
}

func TestRun_ThreeStageBackpressure(t *testing.T) {
	sent := make(chan int, 10)
	release := make(chan struct{})
	registry := newRegistry(
		&command.Command{Path: []string{"global", "numbers"}, Run: numbers(10, sent)},
		&command.Command{Path: []string{"global", "stall"}, Run: forward(release)},
		&command.Command{Path: []string{"global", "forward"}, Run: forward(nil)},
	)
	p := printer.New(nil, nil)
	defer p.Close()

	job, err := Build(registry, nil, p, []Stage{Call("numbers"), Call("stall"), Call("forward")}, Options{Capacity: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := job.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	testutil.RequireReceive(t, sent, 5*time.Second, "first row sent")
	testutil.RequireReceive(t, sent, 5*time.Second, "second row sent")
	testutil.RequireNoReceive(t, sent, 50*time.Millisecond, "producer should suspend on a full stream")
	if job.State() != StateRunning {
		t.Fatalf("State = %s, want running", job.State())
	}

	close(release)
	result, err := Collect(job.Output())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if err := job.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got := collected(t, result)
	if len(got) != 10 {
		t.Fatalf("collected %d rows, want 10: %v", len(got), got)
	}
	for i, n := range got {
		if n != int64(i) {
			t.Fatalf("row %d = %d, want %d (FIFO order)", i, n, i)
		}
	}
	if job.State() != StateCompleted {
		t.Fatalf("State = %s, want completed", job.State())
	}
}

func TestRun_EarlyCloseIsNotFailure(t *testing.T) {
	registry := newRegistry(
		&command.Command{Path: []string{"global", "numbers"}, Run: numbers(-1, nil)},
		&command.Command{Path: []string{"global", "take"}, Run: take(3)},
	)
	p := printer.New(nil, nil)

	result, err := Run(registry, nil, p, []Stage{Call("numbers"), Call("take")}, Options{Capacity: 4})
	p.Close()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := collected(t, result); len(got) != 3 || got[2] != 2 {
		t.Fatalf("rows = %v, want [0 1 2]", got)
	}
	if p.Count() != 0 {
		t.Fatalf("printer recorded %v, want nothing", p.Diagnostics())
	}
}

func TestRun_FailurePropagatesAndIsReportedOnce(t *testing.T) {
	failure := joberror.IO("disk read failed")
	failing := func(ctx *command.Context) error {
		output, err := ctx.Output.Initialize(numberSchema)
		if err != nil {
			return err
		}
		for i := range 3 {
			if err := output.Send(value.NewRow(value.Integer(i))); err != nil {
				return err
			}
		}
		return failure
	}
	registry := newRegistry(
		&command.Command{Path: []string{"global", "failing"}, Run: failing},
		&command.Command{Path: []string{"global", "forward"}, Run: forward(nil)},
	)
	p := printer.New(nil, nil)

	result, err := Run(registry, nil, p, []Stage{Call("failing"), Call("forward"), Call("forward")}, Options{})
	p.Close()
	if !errors.Is(err, failure) {
		t.Fatalf("Run = %v, want the producer's error", err)
	}
	if got := collected(t, result); len(got) != 3 {
		t.Fatalf("rows before the failure = %v, want 3 rows", got)
	}
	diagnostics := p.Diagnostics()
	if len(diagnostics) != 1 || diagnostics[0].Kind != joberror.KindIO {
		t.Fatalf("diagnostics = %v, want exactly one io error", diagnostics)
	}
}

func TestBuild_UnresolvedStageRunsNothing(t *testing.T) {
	var ran atomic.Bool
	registry := newRegistry(&command.Command{
		Path: []string{"global", "numbers"},
		Run: func(ctx *command.Context) error {
			ran.Store(true)
			return nil
		},
	})
	p := printer.New(nil, nil)

	_, err := Build(registry, nil, p, []Stage{Call("numbers"), Call("nubmers2")}, Options{})
	p.Close()
	if !joberror.Is(err, joberror.KindCommandNotFound) {
		t.Fatalf("Build = %v, want a command_not_found error", err)
	}
	if ran.Load() {
		t.Fatal("a stage ran although the pipeline failed to build")
	}
	if p.Count() != 1 {
		t.Fatalf("printer count = %d, want 1", p.Count())
	}

	if _, err := Build(registry, nil, printer.New(nil, nil), nil, Options{}); !joberror.Is(err, joberror.KindArgument) {
		t.Fatalf("Build(no stages) = %v, want an argument error", err)
	}
}

func TestRun_UnknownParameterProducesNoOutput(t *testing.T) {
	strict := func(ctx *command.Context) error {
		var params struct {
			Rows int `arg:"rows" default:"10"`
		}
		if err := ctx.Bind(&params); err != nil {
			return err
		}
		return numbers(params.Rows, nil)(ctx)
	}
	registry := newRegistry(&command.Command{Path: []string{"global", "strict"}, Run: strict})
	p := printer.New(nil, nil)
	defer p.Close()

	stage := Call("strict", command.Argument{Name: "bogus", Value: value.Integer(1)})
	result, err := Run(registry, nil, p, []Stage{stage}, Options{})
	if !joberror.Is(err, joberror.KindArgument) || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("Run = %v, want an argument error naming bogus", err)
	}
	if result.Stream || result.Value != nil || len(result.Rows) != 0 {
		t.Fatalf("result = %+v, want no output", result)
	}
}

func TestRun_ValueOutputAndInput(t *testing.T) {
	double := func(ctx *command.Context) error {
		input, err := ctx.InputValue()
		if err != nil {
			return err
		}
		return ctx.Output.Send(input.(value.Integer) * 2)
	}
	registry := newRegistry(&command.Command{
		Path:   []string{"global", "double"},
		Run:    double,
		Output: command.Known(value.TypeInteger),
	})
	p := printer.New(nil, nil)
	defer p.Close()

	result, err := Run(registry, nil, p, []Stage{Call("double"), Call("double")}, Options{Input: value.Integer(5)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Value != value.Integer(20) {
		t.Fatalf("Value = %v, want 20", result.Value)
	}
}

func TestRun_DeclaredSchemaIsEnforced(t *testing.T) {
	declared := value.StreamOf(value.MustSchema(value.Column("name", value.TypeString)))
	registry := newRegistry(&command.Command{
		Path:   []string{"global", "numbers"},
		Run:    numbers(1, nil),
		Output: command.Known(declared),
	})
	p := printer.New(nil, nil)
	defer p.Close()

	job, err := Build(registry, nil, p, []Stage{Call("numbers")}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, known := job.OutputType(0).Type(); !known || !got.Equal(declared) {
		t.Fatalf("OutputType(0) = %v, want %s", job.OutputType(0), declared)
	}
	if err := job.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := job.Start(); err == nil {
		t.Fatal("second Start should fail")
	}
	_, _ = Collect(job.Output())
	if err := job.Wait(); !joberror.Is(err, joberror.KindSchema) {
		t.Fatalf("Wait = %v, want a schema error", err)
	}
	if job.State() != StateFailed {
		t.Fatalf("State = %s, want failed", job.State())
	}
}

func TestRun_MethodStage(t *testing.T) {
	registry := command.NewRegistry()
	registry.DeclareMethods(value.KindString, func(table *command.MethodTable) {
		table.Declare(&command.Command{
			Path: []string{"global", "types", "string", "upper"},
			Run: func(ctx *command.Context) error {
				text, err := command.Receiver[value.Text](ctx, "upper")
				if err != nil {
					return err
				}
				return ctx.Output.Send(value.Text(strings.ToUpper(string(text))))
			},
		})
	})
	registry.Freeze()
	p := printer.New(nil, nil)
	defer p.Close()

	result, err := Run(registry, scope.New(), p, []Stage{MethodCall(value.Text("shout"), "upper")}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Value != value.Text("SHOUT") {
		t.Fatalf("Value = %v, want SHOUT", result.Value)
	}
}
