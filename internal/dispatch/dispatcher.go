package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/tracing"
)

// ErrAlreadyCompleted is returned by a Complete that has already run.
var ErrAlreadyCompleted = errors.New("command already completed")

// Sink receives the console-side effects of a dispatch.
type Sink interface {
	Write(text, color string) error
	NewLine() error
	Executed(exec Execution) error
}

// Execution describes one completed handler invocation.
type Execution struct {
	ID       string
	Command  string
	Args     string
	Fallback bool // handled by the Fallback entry
	Duration time.Duration
}

// Complete is the continuation a handler calls with its result. An empty
// result writes nothing.
type Complete func(result string, opts ...CompleteOption) error

type completeOptions struct {
	noNewLine bool
	color     string
}

// CompleteOption customizes a Complete call.
type CompleteOption func(*completeOptions)

// NoNewLine keeps the console on the current line after the result.
func NoNewLine() CompleteOption {
	return func(o *completeOptions) { o.noNewLine = true }
}

// WithColor tags the written result with a display color.
func WithColor(color string) CompleteOption {
	return func(o *completeOptions) { o.color = color }
}

// Config holds optional collaborators. Zero values get working defaults.
type Config struct {
	Logger *log.Logger
	Tracer trace.Tracer
	NewID  func() string
	Now    func() time.Time
}

// Dispatcher executes submitted lines against a command table.
type Dispatcher struct {
	table   *Table
	logger  *log.Logger
	tracer  trace.Tracer
	newID   func() string
	now     func() time.Time
	pending int
}

// New creates a dispatcher over table.
func New(table *Table, cfg Config) *Dispatcher {
	d := &Dispatcher{
		table:  table,
		logger: cfg.Logger,
		tracer: cfg.Tracer,
		newID:  cfg.NewID,
		now:    cfg.Now,
	}
	if d.tracer == nil {
		d.tracer = noop.NewTracerProvider().Tracer("dispatch")
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Table returns the command table.
func (d *Dispatcher) Table() *Table { return d.table }

// Pending returns how many handlers have not called their continuation yet.
func (d *Dispatcher) Pending() int { return d.pending }

// Execute dispatches line. An empty command or a command without handler
// (and no Fallback) only starts a new line and reports false. Otherwise the
// handler is invoked and Execute reports true; if the handler completed
// before returning, errors from that completion are returned here.
func (d *Dispatcher) Execute(ctx context.Context, line string, sink Sink) (bool, error) {
	command, args := Parse(line)
	if command == "" {
		d.logger.Debug(log.CatDispatch, "empty command")
		return false, sink.NewLine()
	}

	h, fallback := d.table.Lookup(command)
	if h == nil {
		d.logger.Debug(log.CatDispatch, "no handler", "command", command)
		return false, sink.NewLine()
	}

	exec := Execution{ID: d.newID(), Command: command, Args: args, Fallback: fallback}
	_, span := d.tracer.Start(ctx, tracing.SpanDispatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(tracing.AttrCommandName, command),
			attribute.String(tracing.AttrCommandExecID, exec.ID),
			attribute.Bool(tracing.AttrCommandFallback, fallback),
			attribute.Int(tracing.AttrCommandArgsLen, len(args)),
		),
	)

	d.pending++
	d.logger.Debug(log.CatDispatch, "invoking handler",
		"command", command, "exec_id", exec.ID, "fallback", fallback)

	var (
		started  = d.now()
		done     bool
		inHandle = true
		syncErr  error
	)
	complete := func(result string, opts ...CompleteOption) error {
		if done {
			d.logger.Warn(log.CatDispatch, "completion called twice", "command", command, "exec_id", exec.ID)
			return ErrAlreadyCompleted
		}
		done = true
		d.pending--

		var o completeOptions
		for _, opt := range opts {
			opt(&o)
		}

		exec.Duration = d.now().Sub(started)
		err := d.finish(sink, exec, result, o)

		span.SetAttributes(
			attribute.Int(tracing.AttrResultLen, len(result)),
			attribute.Bool(tracing.AttrResultNoNewLine, o.noNewLine),
			attribute.Bool(tracing.AttrResultAsync, !inHandle),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if inHandle {
			syncErr = err
		} else if err != nil {
			d.logger.ErrorErr(log.CatDispatch, "completion failed", err, "command", command, "exec_id", exec.ID)
		}
		return err
	}

	h.Handle(complete, args, command)
	inHandle = false
	return true, syncErr
}

func (d *Dispatcher) finish(sink Sink, exec Execution, result string, o completeOptions) error {
	var errs []error
	if result != "" {
		errs = append(errs, sink.Write("\n"+result, o.color))
	}
	if !o.noNewLine {
		errs = append(errs, sink.NewLine())
	}
	errs = append(errs, sink.Executed(exec))

	d.logger.Debug(log.CatDispatch, "command completed",
		"command", exec.Command, "exec_id", exec.ID, "duration", exec.Duration, "result_len", len(result))
	return errors.Join(errs...)
}
