package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/babushona/babu/pkg/diagnostics"
	"github.com/babushona/babu/pkg/evaluator"
	"github.com/babushona/babu/pkg/runtime"
)

// traceWriter appends trace events to a file as NDJSON.
type traceWriter struct {
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
}

func newTraceWriter(path string) (*traceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &traceWriter{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// Write encodes one event. Encoding failures drop the event; tracing never stops a run.
func (tw *traceWriter) Write(event evaluator.TraceEvent) {
	_ = tw.enc.Encode(event)
}

func (tw *traceWriter) Close() error {
	if err := tw.buf.Flush(); err != nil {
		tw.f.Close()
		return err
	}
	return tw.f.Close()
}

// TraceSummary aggregates the events of one trace file.
type TraceSummary struct {
	RunID       string         `json:"runId"`
	TotalEvents int            `json:"totalEvents"`
	Statements  int            `json:"statements"`
	Loops       int            `json:"loops"`
	Iterations  int            `json:"iterations"`
	Inputs      int            `json:"inputs"`
	Bindings    map[string]int `json:"bindings"`
	OK          *bool          `json:"ok,omitempty"`
	Final       map[string]any `json:"final,omitempty"`
	StartTime   string         `json:"startTime,omitempty"`
	EndTime     string         `json:"endTime,omitempty"`
	DurationMs  float64        `json:"durationMs"`
}

type traceEvent struct {
	Event string         `json:"event"`
	RunID string         `json:"runId"`
	TS    string         `json:"ts"`
	Data  map[string]any `json:"data,omitempty"`
}

func computeTraceSummary(r io.Reader) *TraceSummary {
	summary := &TraceSummary{
		Bindings: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch evaluator.TraceEventType(event.Event) {
		case evaluator.TraceRunStart:
			if summary.StartTime == "" {
				summary.StartTime = event.TS
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.TS
			if ok, found := event.Data["ok"].(bool); found {
				summary.OK = &ok
			}
			if env, found := event.Data["env"].(map[string]any); found {
				summary.Final = env
			}
		case evaluator.TraceStmtStart:
			summary.Statements++
		case evaluator.TraceLoopEnd:
			summary.Loops++
			// JSON numbers decode as float64
			if n, ok := event.Data["iterations"].(float64); ok {
				summary.Iterations += int(n)
			}
		case evaluator.TraceInput:
			summary.Inputs++
		case evaluator.TraceBind:
			if name, ok := event.Data["name"].(string); ok {
				summary.Bindings[name]++
			}
		}
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := parseTime(summary.StartTime)
		end, err2 := parseTime(summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Milliseconds())
		}
	}

	return summary
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements: %d\n", s.Statements)
	fmt.Fprintf(w, "Loops: %d (%d iterations)\n", s.Loops, s.Iterations)
	fmt.Fprintf(w, "Inputs: %d\n", s.Inputs)
	names := make([]string, 0, len(s.Bindings))
	for name := range s.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d bindings\n", name, s.Bindings[name])
	}
	if len(s.Final) > 0 {
		final := make([]string, 0, len(s.Final))
		for name := range s.Final {
			final = append(final, name)
		}
		sort.Strings(final)
		fmt.Fprintln(w, "Final:")
		for _, name := range final {
			fmt.Fprintf(w, "  %s = %v\n", name, s.Final[name])
		}
	}
	if s.OK != nil {
		fmt.Fprintf(w, "OK: %t\n", *s.OK)
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.0fms\n", s.DurationMs)
	}
}

func cmdTraceSummary(opts *options, streams Streams) int {
	cfg, ok := resolveConfig(opts, streams.Stderr)
	if !ok {
		return runtime.ExitUsage
	}
	f, err := os.Open(opts.file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", opts.file), nil, "")
		printDiagnostics(streams.Stderr, []diagnostics.Diagnostic{diag}, prettyOutput(opts, cfg))
		return runtime.ExitUsage
	}
	defer f.Close()

	summary := computeTraceSummary(f)
	if opts.text {
		printTraceSummaryText(streams.Stdout, summary)
		return runtime.ExitOK
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(streams.Stdout, string(b))
	return runtime.ExitOK
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
