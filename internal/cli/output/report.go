package output

// DiagnosticReport is a diagnostic located in an input file.
type DiagnosticReport struct {
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Severity string `json:"severity" yaml:"severity"`
	Kind     string `json:"kind" yaml:"kind"`
	Message  string `json:"message" yaml:"message"`
}

// FileReport summarizes the conversion of one input.
type FileReport struct {
	Path        string             `json:"path" yaml:"path"`
	Written     string             `json:"written,omitempty" yaml:"written,omitempty"`
	Statements  int                `json:"statements" yaml:"statements"`
	Marks       int                `json:"marks" yaml:"marks"`
	Converted   int                `json:"converted" yaml:"converted"`
	Remaining   int                `json:"remaining" yaml:"remaining"`
	Failed      int                `json:"failed" yaml:"failed"`
	Diagnostics []DiagnosticReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Errors      []string           `json:"errors,omitempty" yaml:"errors,omitempty"`
	SQL         string             `json:"sql,omitempty" yaml:"sql,omitempty"`
}

// Summary totals a set of file reports.
type Summary struct {
	Files       int `json:"files" yaml:"files"`
	Statements  int `json:"statements" yaml:"statements"`
	Marks       int `json:"marks" yaml:"marks"`
	Converted   int `json:"converted" yaml:"converted"`
	Remaining   int `json:"remaining" yaml:"remaining"`
	Failed      int `json:"failed" yaml:"failed"`
	Diagnostics int `json:"diagnostics" yaml:"diagnostics"`
}

// ConversionReport is the structured output of convert and check.
type ConversionReport struct {
	Source  string       `json:"source_dialect" yaml:"source_dialect"`
	Target  string       `json:"target_dialect" yaml:"target_dialect"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// Add appends a file report and updates the summary.
func (r *ConversionReport) Add(f FileReport) {
	r.Files = append(r.Files, f)
	r.Summary.Files++
	r.Summary.Statements += f.Statements
	r.Summary.Marks += f.Marks
	r.Summary.Converted += f.Converted
	r.Summary.Remaining += f.Remaining
	r.Summary.Failed += f.Failed
	r.Summary.Diagnostics += len(f.Diagnostics)
}
