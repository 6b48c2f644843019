package evaluator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/diagnostics"
)

// DefaultPrompt is written before reading an input line. "{name}" is
// replaced by the target variable.
const DefaultPrompt = "{name} (True/False/Number/String):"

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart  TraceEventType = "run_start"
	TraceRunEnd    TraceEventType = "run_end"
	TraceStmtStart TraceEventType = "stmt_start"
	TraceStmtEnd   TraceEventType = "stmt_end"
	TraceLoopStart TraceEventType = "loop_start"
	TraceLoopEnd   TraceEventType = "loop_end"
	TraceInput     TraceEventType = "input"
	TraceBind      TraceEventType = "bind"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Span      *ast.Span      `json:"span,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// ExecOptions configures program execution.
type ExecOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Prompt string
	Budget Budget
	Trace  func(event TraceEvent)
	RunID  string
}

// ExecResult holds the state left behind by a program execution.
// It is returned even when execution fails, reflecting the state at the failure.
type ExecResult struct {
	Env        *Env
	Iterations int64
}

// RuntimeError represents a runtime error during babu execution.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
}

func (e *RuntimeError) Error() string {
	return e.Message
}

type evaluator struct {
	ctx       context.Context
	opts      ExecOptions
	env       *Env
	stdin     *bufio.Reader
	stdout    io.Writer
	tracker   BudgetTracker
	startTime time.Time
}

func (ev *evaluator) emit(event TraceEventType, span *ast.Span, data map[string]any) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Span:      span,
			Data:      data,
		})
	}
}

func (ev *evaluator) bind(name string, val BabuValue, span *ast.Span) {
	ev.env.Set(name, val)
	if ev.opts.Trace != nil {
		ev.emit(TraceBind, span, map[string]any{
			"name":  name,
			"type":  typeNameOf(val),
			"value": valueToRaw(val),
		})
	}
}

func (ev *evaluator) checkTimeBudget() error {
	if ev.opts.Budget.TimeMs != nil {
		if time.Since(ev.startTime).Milliseconds() >= *ev.opts.Budget.TimeMs {
			return &RuntimeError{
				Code:    diagnostics.EBudget,
				Message: fmt.Sprintf("time budget exceeded (%dms)", *ev.opts.Budget.TimeMs),
			}
		}
	}
	return nil
}

func (ev *evaluator) checkIterationBudget(span *ast.Span) error {
	if ev.opts.Budget.MaxIterations != nil {
		if ev.tracker.Iterations >= *ev.opts.Budget.MaxIterations {
			return &RuntimeError{
				Code:    diagnostics.EBudget,
				Message: fmt.Sprintf("iteration budget exceeded (max %d)", *ev.opts.Budget.MaxIterations),
				Span:    span,
			}
		}
	}
	return nil
}

// Execute runs a babu program statement by statement, stopping at the first error.
func Execute(ctx context.Context, program *ast.Program, opts ExecOptions) (*ExecResult, error) {
	ev := &evaluator{
		ctx:       ctx,
		opts:      opts,
		env:       NewEnv(),
		stdout:    opts.Stdout,
		startTime: time.Now(),
	}
	if ev.opts.Prompt == "" {
		ev.opts.Prompt = DefaultPrompt
	}
	if ev.stdout == nil {
		ev.stdout = io.Discard
	}
	if opts.Stdin != nil {
		ev.stdin = bufio.NewReader(opts.Stdin)
	} else {
		ev.stdin = bufio.NewReader(strings.NewReader(""))
	}

	span := program.Span
	ev.emit(TraceRunStart, &span, nil)

	err := ev.executeStatements(program.Statements)

	if ev.opts.Trace != nil {
		data := map[string]any{"ok": err == nil}
		if env, jerr := EnvToJSON(ev.env); jerr == nil {
			data["env"] = json.RawMessage(env)
		}
		ev.emit(TraceRunEnd, &span, data)
	}

	return &ExecResult{Env: ev.env, Iterations: ev.tracker.Iterations}, err
}

func (ev *evaluator) executeStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := ev.executeStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaluator) executeStmt(stmt ast.Stmt) error {
	if err := ev.ctx.Err(); err != nil {
		return err
	}
	if err := ev.checkTimeBudget(); err != nil {
		return err
	}

	span := stmt.NodeSpan()
	ev.emit(TraceStmtStart, &span, map[string]any{"kind": stmt.Kind()})

	var err error
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		err = ev.executePrint(s)

	case *ast.VarDecl:
		var val BabuValue
		val, err = ev.evalExpr(s.Value)
		if err == nil {
			ev.bind(s.Name, val, &span)
		}

	case *ast.InputStmt:
		err = ev.executeInput(s)

	case *ast.IfStmt:
		err = ev.executeIf(s)

	case *ast.ForLoopStmt:
		err = ev.executeForLoop(s)

	case *ast.Block:
		err = ev.executeStatements(s.Statements)

	default:
		err = &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported statement %s", stmt.Kind()),
			Span:    &span,
		}
	}
	if err != nil {
		return err
	}

	ev.emit(TraceStmtEnd, &span, nil)
	return nil
}

func (ev *evaluator) executePrint(s *ast.PrintStmt) error {
	val, err := ev.evalExpr(s.Value)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(ev.stdout, Display(val)); err != nil {
		span := s.Span
		return &RuntimeError{
			Code:    diagnostics.EIO,
			Message: fmt.Sprintf("failed to write output: %s", err),
			Span:    &span,
		}
	}
	return nil
}

func (ev *evaluator) executeInput(s *ast.InputStmt) error {
	span := s.Span
	prompt := strings.ReplaceAll(ev.opts.Prompt, "{name}", s.Name)
	if _, err := fmt.Fprintln(ev.stdout, prompt); err != nil {
		return &RuntimeError{
			Code:    diagnostics.EIO,
			Message: fmt.Sprintf("failed to write prompt: %s", err),
			Span:    &span,
		}
	}

	line, err := readLine(ev.stdin)
	if err != nil {
		msg := fmt.Sprintf("failed to read input for '%s': %s", s.Name, err)
		if err == io.EOF {
			msg = fmt.Sprintf("input ended before a value for '%s' was read", s.Name)
		}
		return &RuntimeError{Code: diagnostics.EIO, Message: msg, Span: &span}
	}

	val := ClassifyInput(line)
	ev.emit(TraceInput, &span, map[string]any{"name": s.Name, "text": line})
	ev.bind(s.Name, val, &span)
	return nil
}

// executeIf runs the first branch whose condition is truthy. Conditions after
// the selected branch are not evaluated.
func (ev *evaluator) executeIf(s *ast.IfStmt) error {
	cond, err := ev.evalExpr(s.Cond)
	if err != nil {
		return err
	}
	if Truthiness(cond) {
		return ev.executeStatements(s.Body.Statements)
	}
	for _, branch := range s.ElseIfs {
		cond, err := ev.evalExpr(branch.Cond)
		if err != nil {
			return err
		}
		if Truthiness(cond) {
			return ev.executeStatements(branch.Body.Statements)
		}
	}
	if s.Else != nil {
		return ev.executeStatements(s.Else.Statements)
	}
	return nil
}

func (ev *evaluator) executeForLoop(s *ast.ForLoopStmt) error {
	span := s.Span

	start, err := ev.evalExpr(s.Start)
	if err != nil {
		return err
	}
	end, err := ev.evalExpr(s.End)
	if err != nil {
		return err
	}
	step := NewInt(1)
	if s.Step != nil {
		step, err = ev.evalExpr(s.Step)
		if err != nil {
			return err
		}
	}
	bounds := []struct {
		label string
		val   BabuValue
	}{{"start", start}, {"end", end}, {"step", step}}
	for _, b := range bounds {
		if !isNumeric(b.val) {
			return &RuntimeError{
				Code:    diagnostics.EType,
				Message: fmt.Sprintf("loop %s must be a number, got %s", b.label, typeNameOf(b.val)),
				Span:    &span,
			}
		}
	}

	ev.bind(s.Var, start, &span)
	ev.emit(TraceLoopStart, &span, map[string]any{
		"var":   s.Var,
		"start": valueToRaw(start),
		"end":   valueToRaw(end),
		"step":  valueToRaw(step),
	})

	var iterations int64
	for {
		cur, ok := ev.env.Get(s.Var)
		if !ok {
			return undefinedError(s.Var, &span)
		}
		less, ok := compareValues(ast.OpLt, cur, end)
		if !ok {
			return &RuntimeError{
				Code:    diagnostics.EType,
				Message: fmt.Sprintf("loop variable '%s' holds %s, which cannot be compared with the loop end", s.Var, typeNameOf(cur)),
				Span:    &span,
			}
		}
		if !less {
			break
		}

		if err := ev.checkTimeBudget(); err != nil {
			return err
		}
		if err := ev.checkIterationBudget(&span); err != nil {
			return err
		}
		ev.tracker.Iterations++
		iterations++

		if err := ev.executeStatements(s.Body.Statements); err != nil {
			return err
		}

		cur, ok = ev.env.Get(s.Var)
		if !ok {
			return undefinedError(s.Var, &span)
		}
		next, ok := addNumbers(cur, step)
		if !ok {
			return &RuntimeError{
				Code:    diagnostics.EType,
				Message: fmt.Sprintf("loop variable '%s' holds %s and cannot be advanced", s.Var, typeNameOf(cur)),
				Span:    &span,
			}
		}
		ev.env.Set(s.Var, next)
	}

	ev.env.Delete(s.Var)
	ev.emit(TraceLoopEnd, &span, map[string]any{"var": s.Var, "iterations": iterations})
	return nil
}

func undefinedError(name string, span *ast.Span) *RuntimeError {
	return &RuntimeError{
		Code:    diagnostics.EUndefined,
		Message: fmt.Sprintf("Variable '%s' is not defined.", name),
		Span:    span,
	}
}
