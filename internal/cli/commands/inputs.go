package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/pkg/convert"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// input is one SQL script named on the command line.
type input struct {
	// Path is the file to read, or "-" for standard input.
	Path string
	// Rel is the path written under --out-dir.
	Rel string
}

func (in input) isStdin() bool { return in.Path == stdinPath }

// collectInputs expands the arguments into SQL scripts. Directories are
// searched recursively for .sql files; no arguments means standard input.
func collectInputs(args []string) ([]input, error) {
	if len(args) == 0 {
		return []input{{Path: stdinPath, Rel: "stdin.sql"}}, nil
	}

	var inputs []input
	for _, arg := range args {
		if arg == stdinPath {
			inputs = append(inputs, input{Path: stdinPath, Rel: "stdin.sql"})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if !info.IsDir() {
			inputs = append(inputs, input{Path: arg, Rel: filepath.Base(arg)})
			continue
		}

		var found []input
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !isSQLFile(path) {
				return nil
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			found = append(found, input{Path: path, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
		sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}

// readInput returns the script text of in.
func readInput(in input, stdin io.Reader) (string, error) {
	if in.isStdin() {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(in.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", in.Path, err)
	}
	return string(b), nil
}

// fileReport summarizes a converted script.
func fileReport(path string, batch *convert.BatchResult) output.FileReport {
	rep := output.FileReport{
		Path:      path,
		Marks:     batch.Marks(),
		Converted: batch.Converted(),
		Remaining: batch.Remaining(),
		Failed:    batch.Failed(),
	}
	for _, s := range batch.Statements {
		if s.Fragment.Blank {
			continue
		}
		rep.Statements++
		if s.Err != nil {
			rep.Errors = append(rep.Errors, s.Err.Error())
		}
	}
	for _, d := range batch.Diagnostics() {
		rep.Diagnostics = append(rep.Diagnostics, output.DiagnosticReport{
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Severity: d.Severity.String(),
			Kind:     string(d.Kind),
			Message:  d.Message,
		})
	}
	return rep
}

// printDiagnostics writes the findings of a file report to the error output.
func printDiagnostics(r *output.Renderer, rep output.FileReport) {
	for _, d := range rep.Diagnostics {
		r.Warning(fmt.Sprintf("%s:%d:%d: %s: %s", rep.Path, d.Line, d.Column, d.Severity, d.Message))
	}
	for _, e := range rep.Errors {
		r.Error(fmt.Sprintf("%s: %s", rep.Path, e))
	}
}
