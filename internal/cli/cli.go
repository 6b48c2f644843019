// Package cli implements the babu command line: running, checking and
// formatting programs, and summarizing trace files.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/babushona/babu/pkg/config"
	"github.com/babushona/babu/pkg/diagnostics"
	"github.com/babushona/babu/pkg/formatter"
	"github.com/babushona/babu/pkg/runtime"
)

const usage = `usage: babu [--json] [--config <path>] [--trace <path>] <file.babu>
       babu --check [--json] <file.babu>
       babu --fmt [--write] <file.babu>
       babu --trace-summary [--text] <trace.jsonl>`

// Streams are the process streams the CLI reads from and writes to.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type mode int

const (
	modeRun mode = iota
	modeCheck
	modeFmt
	modeTraceSummary
)

type options struct {
	mode       mode
	file       string
	json       bool
	text       bool
	write      bool
	configPath string
	tracePath  string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{mode: modeRun}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--json":
			opts.json = true
		case "--text":
			opts.text = true
		case "--check":
			opts.mode = modeCheck
		case "--fmt":
			opts.mode = modeFmt
		case "--write":
			opts.write = true
		case "--trace-summary":
			opts.mode = modeTraceSummary
		case "--config", "--trace":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a path", arg)
			}
			i++
			if arg == "--config" {
				opts.configPath = args[i]
			} else {
				opts.tracePath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			if opts.file != "" {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.file = arg
		}
	}
	if opts.file == "" {
		return nil, errors.New("missing script path")
	}
	return opts, nil
}

// Run executes the command line and returns the process exit code.
func Run(args []string, streams Streams) int {
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		fmt.Fprintln(streams.Stdout, usage)
		return runtime.ExitOK
	}

	opts, err := parseArgs(args)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EUsage, err.Error(), nil, usage)
		printDiagnostics(streams.Stderr, []diagnostics.Diagnostic{diag}, !hasFlag(args, "--json"))
		return runtime.ExitUsage
	}

	switch opts.mode {
	case modeCheck:
		return cmdCheck(opts, streams)
	case modeFmt:
		return cmdFmt(opts, streams)
	case modeTraceSummary:
		return cmdTraceSummary(opts, streams)
	default:
		return cmdRun(opts, streams)
	}
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

// resolveConfig loads the settings shared by every mode. A broken config
// is reported as E_CONFIG and ok is false.
func resolveConfig(opts *options, stderr io.Writer) (cfg *config.Config, ok bool) {
	cwd, _ := os.Getwd()
	cfg, err := config.Resolve(opts.configPath, cwd)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, "")
		printDiagnostics(stderr, []diagnostics.Diagnostic{diag}, !opts.json)
		return nil, false
	}
	return cfg, true
}

func prettyOutput(opts *options, cfg *config.Config) bool {
	return !opts.json && cfg.Diagnostics == config.FormatPretty
}

func cmdRun(opts *options, streams Streams) int {
	cfg, ok := resolveConfig(opts, streams.Stderr)
	if !ok {
		return runtime.ExitUsage
	}
	pretty := prettyOutput(opts, cfg)

	source, code := readSource(opts.file, streams.Stderr, pretty)
	if code != runtime.ExitOK {
		return code
	}

	rtOpts := []runtime.Option{
		runtime.WithConfig(cfg),
		runtime.WithStdin(streams.Stdin),
		runtime.WithStdout(streams.Stdout),
	}
	if opts.tracePath != "" {
		tw, err := newTraceWriter(opts.tracePath)
		if err != nil {
			diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot open trace file: %s", opts.tracePath), nil, "")
			printDiagnostics(streams.Stderr, []diagnostics.Diagnostic{diag}, pretty)
			return runtime.ExitUsage
		}
		defer tw.Close()
		rtOpts = append(rtOpts,
			runtime.WithTrace(tw.Write),
			runtime.WithRunID(fmt.Sprintf("run-%d", time.Now().UnixNano())),
		)
	}

	rt := runtime.New(rtOpts...)
	_, execErr := rt.Run(context.Background(), source, opts.file)
	if execErr == nil {
		return runtime.ExitOK
	}

	printDiagnostics(streams.Stderr, runtime.ToDiagnostics(execErr), pretty)
	if cfg.ExitZeroOnError {
		return runtime.ExitOK
	}
	return runtime.ExitCode(execErr)
}

func cmdCheck(opts *options, streams Streams) int {
	cfg, ok := resolveConfig(opts, streams.Stderr)
	if !ok {
		return runtime.ExitUsage
	}
	pretty := prettyOutput(opts, cfg)
	source, code := readSource(opts.file, streams.Stderr, pretty)
	if code != runtime.ExitOK {
		return code
	}

	rt := runtime.New(runtime.WithConfig(cfg))
	diags := rt.Check(source, opts.file)
	if diagnostics.HasErrors(diags) {
		printDiagnostics(streams.Stderr, diags, pretty)
		return runtime.ExitSyntax
	}

	if len(diags) > 0 {
		printDiagnostics(streams.Stdout, diags, pretty)
		return runtime.ExitOK
	}
	if pretty {
		fmt.Fprintln(streams.Stdout, "No problems found.")
	} else {
		fmt.Fprintln(streams.Stdout, "[]")
	}
	return runtime.ExitOK
}

func cmdFmt(opts *options, streams Streams) int {
	cfg, ok := resolveConfig(opts, streams.Stderr)
	if !ok {
		return runtime.ExitUsage
	}
	pretty := prettyOutput(opts, cfg)
	source, code := readSource(opts.file, streams.Stderr, pretty)
	if code != runtime.ExitOK {
		return code
	}

	rt := runtime.New(runtime.WithConfig(cfg))
	formatted, err := rt.Format(source, opts.file)
	if err != nil {
		printDiagnostics(streams.Stderr, runtime.ToDiagnostics(err), pretty)
		return runtime.ExitSyntax
	}

	if formatter.HasComments(source) {
		fmt.Fprintln(streams.Stderr, "warning: comments are not preserved by the formatter")
	}

	if opts.write {
		if err := os.WriteFile(opts.file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(streams.Stderr, "error writing file: %s\n", err)
			return runtime.ExitUsage
		}
		return runtime.ExitOK
	}
	fmt.Fprint(streams.Stdout, formatted)
	return runtime.ExitOK
}

func readSource(file string, stderr io.Writer, pretty bool) (string, int) {
	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		printDiagnostics(stderr, []diagnostics.Diagnostic{diag}, pretty)
		return "", runtime.ExitUsage
	}
	return string(source), runtime.ExitOK
}

func printDiagnostics(w io.Writer, diags []diagnostics.Diagnostic, pretty bool) {
	fmt.Fprintln(w, diagnostics.FormatDiagnostics(diags, pretty))
}
