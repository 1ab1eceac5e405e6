package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/internal/cli/output"
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name          string `json:"name" yaml:"name"`
	JoinMarks     bool   `json:"join_marks" yaml:"join_marks"`
	Identifiers   string `json:"identifiers" yaml:"identifiers"`
	RowLimit      string `json:"row_limit" yaml:"row_limit"`
	ExceptKeyword string `json:"except_keyword" yaml:"except_keyword"`
	TableAliasAS  bool   `json:"table_alias_as" yaml:"table_alias_as"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported SQL dialects",
		Long: `List the dialects statements can be parsed from and rendered to.

Only dialects with join marks can hold (+) predicates; any dialect can be a
rendering target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutConverter(cmd)
			return renderDialects(cc.Renderer, dialectInfos())
		},
	}
}

func dialectInfos() []DialectInfo {
	var infos []DialectInfo
	for _, name := range dialect.List() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		infos = append(infos, DialectInfo{
			Name:          d.Name,
			JoinMarks:     d.SupportsJoinMark(),
			Identifiers:   normalizationName(d.Identifiers.Normalization),
			RowLimit:      rowLimitName(d.RowLimit()),
			ExceptKeyword: d.ExceptKeyword(),
			TableAliasAS:  d.TableAliasAS(),
		})
	}
	return infos
}

func normalizationName(n core.NormalizationStrategy) string {
	switch n {
	case core.NormUppercase:
		return "upper"
	case core.NormLowercase:
		return "lower"
	default:
		return "case-sensitive"
	}
}

func rowLimitName(s core.RowLimitStyle) string {
	if s == core.RowLimitFetch {
		return "FETCH FIRST"
	}
	return "LIMIT"
}

func renderDialects(r *output.Renderer, infos []DialectInfo) error {
	if ok, err := r.Structured(infos); ok {
		return err
	}

	t := newTable(r)
	t.AppendHeader(table.Row{"Dialect", "(+) marks", "Identifiers", "Row limit", "Except", "AS for tables"})
	for _, d := range infos {
		t.AppendRow(table.Row{d.Name, yesNo(d.JoinMarks), d.Identifiers, d.RowLimit, d.ExceptKeyword, yesNo(d.TableAliasAS)})
	}
	renderTable(r, t)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
