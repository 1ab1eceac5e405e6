package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
)

var (
	// ErrConversionFailed is returned when statements were left unchanged
	// because they could not be converted.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrNeedsReview is returned with --fail-on-diagnostics when the output
	// carries diagnostics or join marks.
	ErrNeedsReview = errors.New("output needs review")
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Write  bool
	OutDir string
	Watch  bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [files or directories...]",
		Short: "Rewrite (+) join marks as ANSI joins",
		Long: `Convert SQL scripts that use Oracle (+) join marks to ANSI JOIN syntax.

Statements are split on semicolons and SQL*Plus "/" lines and converted in
parallel. A statement that cannot be converted is written back unchanged
and reported. With no arguments the script is read from standard input.`,
		Example: `  # Convert a script to standard output
  ansijoin convert report.sql

  # Rewrite every .sql file under a directory in place
  ansijoin convert --write queries/

  # Render for PostgreSQL into a separate tree
  ansijoin convert --target postgres --out-dir converted/ queries/

  # Read from standard input
  cat report.sql | ansijoin convert --pretty=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Write converted files under this directory")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Convert again whenever an input file changes")
	cmd.MarkFlagsMutuallyExclusive("write", "out-dir")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	ctx := cmd.Context()

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		cc.Renderer.Warning("No .sql files found")
		return nil
	}
	for _, in := range inputs {
		if !in.isStdin() {
			continue
		}
		if opts.Watch {
			return errors.New("--watch needs files or directories, not standard input")
		}
		if opts.Write {
			return errors.New("--write cannot rewrite standard input")
		}
	}

	run := &convertRun{cc: cc, opts: opts, stdin: cmd.InOrStdin()}

	report, err := run.convert(ctx, inputs)
	if err != nil {
		return err
	}
	if err := run.render(report, len(inputs) > 1); err != nil {
		return err
	}

	if opts.Watch {
		cc.Renderer.Println(cc.Renderer.Muted(fmt.Sprintf("Watching %d file(s) for changes...", len(inputs))))
		return watchInputs(ctx, inputs, cc.Cfg.Watch.Debounce, cc.Logger, func(in input) {
			rep, err := run.convert(ctx, []input{in})
			if err != nil {
				cc.Renderer.Error(err.Error())
				return
			}
			if err := run.render(rep, true); err != nil {
				cc.Renderer.Error(err.Error())
			}
		})
	}

	return run.exitStatus(report.Summary)
}

// convertRun converts inputs with a shared command context.
type convertRun struct {
	cc    *CommandContext
	opts  *ConvertOptions
	stdin io.Reader
}

// convert converts every input and journals the run when enabled.
func (c *convertRun) convert(ctx context.Context, inputs []input) (*output.ConversionReport, error) {
	j, err := startJournal(ctx, c.cc.Cfg, c.cc.Converter, c.cc.Logger)
	if err != nil {
		return nil, err
	}

	report := &output.ConversionReport{
		Source: c.cc.Converter.Source().Name,
		Target: c.cc.Converter.Target().Name,
	}
	for _, in := range inputs {
		if err := c.convertInput(ctx, in, report, j); err != nil {
			j.finish(ctx, report.Summary, err)
			return nil, err
		}
	}
	j.finish(ctx, report.Summary, nil)
	return report, nil
}

func (c *convertRun) convertInput(ctx context.Context, in input, report *output.ConversionReport, j *journal) error {
	text, err := readInput(in, c.stdin)
	if err != nil {
		return err
	}

	batch, err := c.cc.Converter.ConvertBatch(ctx, text)
	if err != nil {
		return err
	}

	rep := fileReport(displayPath(in), batch)
	sql := batch.SQL()

	if dest := c.destination(in); dest != "" {
		written, err := writeIfChanged(dest, text, sql, in.Path == dest)
		if err != nil {
			return err
		}
		if written {
			rep.Written = dest
		}
		c.cc.Logger.Debug("converted file", "path", in.Path, "dest", dest, "written", written)
	} else {
		rep.SQL = sql
	}

	j.record(ctx, rep.Path, batch)
	report.Add(rep)
	return nil
}

// destination returns where the converted script of in is written, or ""
// for standard output.
func (c *convertRun) destination(in input) string {
	switch {
	case c.opts.Write:
		return in.Path
	case c.opts.OutDir != "":
		return filepath.Join(c.opts.OutDir, in.Rel)
	default:
		return ""
	}
}

func displayPath(in input) string {
	if in.isStdin() {
		return "<stdin>"
	}
	return in.Path
}

// writeIfChanged writes content to path unless an in-place rewrite would
// leave the file as it is. Rewriting an unchanged file would retrigger
// --watch.
func writeIfChanged(path, original, content string, inPlace bool) (bool, error) {
	perm := os.FileMode(0o644)
	if inPlace {
		if original == content {
			return false, nil
		}
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// render writes the report in the configured output mode. Text and
// markdown modes write converted SQL to standard output and findings to
// the error output, so the SQL can be piped.
func (c *convertRun) render(report *output.ConversionReport, multi bool) error {
	r := c.cc.Renderer
	if ok, err := r.Structured(report); ok {
		return err
	}

	for _, rep := range report.Files {
		switch {
		case rep.SQL != "":
			if multi {
				r.Printf("-- %s\n", rep.Path)
			}
			r.Printf("%s", rep.SQL)
		case rep.Written != "":
			r.Success(fmt.Sprintf("%s: %d converted, %d remaining -> %s", rep.Path, rep.Converted, rep.Remaining, rep.Written))
		default:
			r.Println(r.Muted(rep.Path + ": unchanged"))
		}
		printDiagnostics(r, rep)
	}

	if c.opts.Write || c.opts.OutDir != "" {
		s := report.Summary
		r.Println(r.Muted(fmt.Sprintf("%d file(s), %d statement(s), %d converted, %d remaining, %d failed",
			s.Files, s.Statements, s.Converted, s.Remaining, s.Failed)))
	}
	return nil
}

// exitStatus turns failures, and diagnostics when configured, into an error.
func (c *convertRun) exitStatus(s output.Summary) error {
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d statement(s) left unchanged", ErrConversionFailed, s.Failed)
	}
	if c.cc.Cfg.FailOnDiagnostics && (s.Diagnostics > 0 || s.Remaining > 0) {
		return fmt.Errorf("%w: %d diagnostic(s), %d join mark(s) remaining", ErrNeedsReview, s.Diagnostics, s.Remaining)
	}
	return nil
}
