package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
)

// ErrJoinMarksFound is returned by check when any input still uses join
// marks or could not be parsed.
var ErrJoinMarksFound = errors.New("join marks found")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files or directories...]",
		Short: "Report (+) join marks without rewriting",
		Long: `Count the (+) join marks of each script and report which of them would
convert and which need manual review. Nothing is written.

The command exits with an error when any join mark is found, so it can gate
CI pipelines.`,
		Example: `  # Check a directory of scripts
  ansijoin check queries/

  # Machine-readable report
  ansijoin check -o json queries/`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	report := &output.ConversionReport{
		Source: cc.Converter.Source().Name,
		Target: cc.Converter.Target().Name,
	}
	for _, in := range inputs {
		text, err := readInput(in, cmd.InOrStdin())
		if err != nil {
			return err
		}
		batch, err := cc.Converter.ConvertBatch(ctx, text)
		if err != nil {
			return err
		}
		report.Add(fileReport(displayPath(in), batch))
	}

	r := cc.Renderer
	if ok, err := r.Structured(report); ok {
		if err != nil {
			return err
		}
	} else {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Header("Join mark report")
		}
		renderCheckTable(r, report)
		for _, rep := range report.Files {
			printDiagnostics(r, rep)
		}
	}

	s := report.Summary
	if s.Marks > 0 || s.Failed > 0 {
		return fmt.Errorf("%w: %d mark(s), %d unparsable statement(s)", ErrJoinMarksFound, s.Marks, s.Failed)
	}
	if r.EffectiveMode() == output.ModeText {
		r.Success("No join marks found")
	}
	return nil
}

func renderCheckTable(r *output.Renderer, report *output.ConversionReport) {
	t := newTable(r)

	t.AppendHeader(table.Row{"File", "Statements", "Marks", "Convertible", "Remaining", "Failed"})
	for _, f := range report.Files {
		t.AppendRow(table.Row{f.Path, f.Statements, f.Marks, f.Converted, f.Remaining, f.Failed})
	}
	s := report.Summary
	t.AppendFooter(table.Row{"Total", s.Statements, s.Marks, s.Converted, s.Remaining, s.Failed})
	renderTable(r, t)
}
