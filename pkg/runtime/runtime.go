// Package runtime provides the top-level babu runtime orchestrator.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/babushona/babu/pkg/config"
	"github.com/babushona/babu/pkg/diagnostics"
	"github.com/babushona/babu/pkg/evaluator"
	"github.com/babushona/babu/pkg/formatter"
	"github.com/babushona/babu/pkg/parser"
	"github.com/babushona/babu/pkg/validator"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitSyntax  = 2
	ExitBudget  = 3
	ExitRuntime = 4
)

// Result holds the outcome of a program execution.
type Result struct {
	Env        *evaluator.Env
	Iterations int64
}

// Runtime wires together all babu components for program execution.
type Runtime struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	runID  string
	trace  func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithConfig sets the interpreter settings.
func WithConfig(cfg *config.Config) Option {
	return func(rt *Runtime) {
		if cfg != nil {
			rt.cfg = cfg
		}
	}
}

// WithStdin sets the reader input statements read from.
func WithStdin(r io.Reader) Option {
	return func(rt *Runtime) {
		rt.stdin = r
	}
}

// WithStdout sets the writer print statements and prompts go to.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options.
// By default the built-in configuration is used and output is discarded.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		cfg:   config.Default(),
		runID: "cli",
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run parses and executes a babu program. Lint warnings never block a run.
// The returned Result reflects the variable state even when execution fails.
func (rt *Runtime) Run(ctx context.Context, source, filename string) (*Result, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	result, err := evaluator.Execute(ctx, program, rt.buildExecOptions())
	var res *Result
	if result != nil {
		res = &Result{Env: result.Env, Iterations: result.Iterations}
	}
	return res, err
}

// Check parses and lints a babu program without executing it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.Validate(program)
}

// Format parses and formats a babu program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Format(program), nil
}

// buildExecOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) buildExecOptions() evaluator.ExecOptions {
	return evaluator.ExecOptions{
		Stdin:  rt.stdin,
		Stdout: rt.stdout,
		Prompt: rt.cfg.Prompt,
		Budget: evaluator.Budget{
			TimeMs:        rt.cfg.Budget.TimeMs,
			MaxIterations: rt.cfg.Budget.MaxIterations,
		},
		Trace: rt.trace,
		RunID: rt.runID,
	}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToDiagnostics converts any error returned by Run or Format into diagnostics.
func ToDiagnostics(err error) []diagnostics.Diagnostic {
	var dErr *DiagnosticError
	if errors.As(err, &dErr) {
		return dErr.Diagnostics
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return []diagnostics.Diagnostic{diagnostics.MakeDiag(rtErr.Code, rtErr.Message, rtErr.Span, "")}
	}
	return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")}
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var dErr *DiagnosticError
	if errors.As(err, &dErr) {
		return ExitSyntax
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) && rtErr.Code == diagnostics.EBudget {
		return ExitBudget
	}
	return ExitRuntime
}
