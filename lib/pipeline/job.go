// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/printer"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/value"
)

// State is the lifecycle position of a job.
type State int

const (
	StateBuilt State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options tunes a job.
type Options struct {
	// Capacity is the row buffer of every stream in the job. Zero uses
	// stream.DefaultCapacity.
	Capacity int

	// Logger receives stage lifecycle events at debug level. Nil
	// discards them.
	Logger *slog.Logger

	// WorkDir is where relative file operands resolve.
	WorkDir string

	// Input, when set, is delivered to the first stage as its input
	// value. Otherwise the first stage's input is closed.
	Input value.Value
}

// Job is a built pipeline.
type Job struct {
	stages  []*stageRun
	output  *stream.ValueReceiver
	printer *printer.Printer
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	failure error
	done    chan struct{}
}

type stageRun struct {
	index   int
	stage   Stage
	command *command.Command
	context *command.Context
}

// Build resolves every stage and connects adjacent stages with streams.
// A stage that cannot be resolved aborts the build: the error is
// reported to p and returned, and nothing runs.
func Build(registry *command.Registry, sc *scope.Scope, p *printer.Printer, stages []Stage, options Options) (*Job, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sc == nil {
		sc = scope.New()
	}

	job := &Job{
		printer: p,
		logger:  logger,
		state:   StateBuilt,
		done:    make(chan struct{}),
	}

	if len(stages) == 0 {
		err := joberror.Argument("empty pipeline")
		p.JobError(err)
		return nil, err
	}

	resolved := make([]*command.Command, len(stages))
	for index, stage := range stages {
		target, err := resolve(registry, sc, stage)
		if err != nil {
			p.JobError(err)
			return nil, err
		}
		resolved[index] = target
	}

	input := stream.Closed()
	if options.Input != nil {
		input = stream.Of(options.Input)
	}
	for index, stage := range stages {
		sender, receiver := stream.NewPipe(options.Capacity)
		if declared, known := resolved[index].Output.Type(); known {
			sender.Expect(declared)
		}
		job.stages = append(job.stages, &stageRun{
			index:   index,
			stage:   stage,
			command: resolved[index],
			context: &command.Context{
				Arguments: stage.Arguments,
				Input:     input,
				Output:    sender,
				Scope:     sc,
				This:      stage.Receiver,
				Printer:   p,
				Logger:    logger.With("stage", index, "command", resolved[index].FullName()),
				Registry:  registry,
				WorkDir:   options.WorkDir,
			},
		})
		input = receiver
	}
	job.output = input
	return job, nil
}

func resolve(registry *command.Registry, sc *scope.Scope, stage Stage) (*command.Command, error) {
	if stage.Method != "" {
		if stage.Receiver == nil {
			return nil, joberror.Argument("method %s called without a receiver", stage.Method)
		}
		return registry.Method(stage.Receiver, stage.Method)
	}
	if len(stage.Command) == 0 {
		return nil, joberror.Argument("stage has neither a command nor a method")
	}
	return registry.Resolve(sc, stage.Command...)
}

// Len returns the number of stages.
func (j *Job) Len() int { return len(j.stages) }

// OutputType returns the declared output type of stage index.
func (j *Job) OutputType(index int) command.OutputType {
	return j.stages[index].command.Output
}

// Command returns the command stage index resolved to.
func (j *Job) Command(index int) *command.Command {
	return j.stages[index].command
}

// Output returns the receiver for the last stage's output. The caller
// must drain or close it, or the last stage blocks once the buffer
// fills.
func (j *Job) Output() *stream.ValueReceiver { return j.output }

// State returns the current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Start launches every stage. A job can be started once.
func (j *Job) Start() error {
	j.mu.Lock()
	if j.state != StateBuilt {
		state := j.state
		j.mu.Unlock()
		return fmt.Errorf("starting job: already %s", state)
	}
	j.state = StateRunning
	j.mu.Unlock()

	var group errgroup.Group
	for _, run := range j.stages {
		group.Go(func() error {
			j.runStage(run)
			return nil
		})
	}
	go func() {
		// runStage never returns an error to the group; failures are
		// recorded in order by fail.
		_ = group.Wait()
		j.finish()
	}()
	return nil
}

// Done is closed when every stage has returned.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until every stage has returned and returns the first
// fatal error, if any.
func (j *Job) Wait() error {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.failure
}

func (j *Job) runStage(run *stageRun) {
	ctx := run.context
	ctx.Logger.Debug("stage starting")

	err := run.command.Run(ctx)
	if errors.Is(err, stream.ErrClosed) {
		// A neighbour closed its end; this stage is done, not failed.
		err = nil
	}
	if err != nil {
		j.fail(run, err)
	}
	ctx.Output.Finish(err)
	ctx.Input.Close()

	if err != nil {
		ctx.Logger.Debug("stage failed", "error", err)
	} else {
		ctx.Logger.Debug("stage finished")
	}
}

// fail records err if it is the job's first failure. A stage records
// before finishing its output, so an error propagated downstream is
// always recorded by its origin first.
func (j *Job) fail(run *stageRun, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failure == nil {
		j.failure = err
		j.logger.Debug("job failed", "stage", run.index, "command", run.command.FullName(), "error", err)
	}
}

func (j *Job) finish() {
	j.mu.Lock()
	failure := j.failure
	if failure != nil {
		j.state = StateFailed
	} else {
		j.state = StateCompleted
	}
	j.mu.Unlock()

	if failure != nil {
		j.printer.JobError(failure)
	}
	close(j.done)
}

// Result is the collected output of a job.
type Result struct {
	// Value is the single value the last stage sent, nil if it sent a
	// stream or nothing.
	Value value.Value

	// Schema and Rows hold the stream the last stage produced, if any.
	Schema value.Schema
	Rows   []value.Row
	Stream bool
}

// Collect reads everything receiver delivers into memory.
func Collect(receiver *stream.ValueReceiver) (Result, error) {
	delivered, err := receiver.Recv()
	if errors.Is(err, io.EOF) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	reference, ok := delivered.(value.StreamRef)
	if !ok {
		return Result{Value: delivered}, nil
	}

	source := reference.Source
	defer source.Close()
	result := Result{Schema: source.Schema(), Stream: true}
	for {
		row, err := source.Recv()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result.Rows = append(result.Rows, row)
	}
}

// Run builds and starts a job over stages, collects its output, and
// waits for it. The job's first fatal error takes precedence over an
// error seen while collecting.
func Run(registry *command.Registry, sc *scope.Scope, p *printer.Printer, stages []Stage, options Options) (Result, error) {
	job, err := Build(registry, sc, p, stages, options)
	if err != nil {
		return Result{}, err
	}
	if err := job.Start(); err != nil {
		return Result{}, err
	}
	result, collectErr := Collect(job.Output())
	job.Output().Close()
	if err := job.Wait(); err != nil {
		return result, err
	}
	return result, collectErr
}
