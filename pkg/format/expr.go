package format

import (
	"strings"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// AND/OR chains above this score are broken onto separate lines in pretty mode.
const complexityThreshold = 5

func (p *Printer) formatExpr(e core.Expr) {
	if e == nil {
		return
	}
	leading, trailing := commentsOf(e)
	p.formatLeading(leading)
	defer p.formatTrailing(trailing)

	switch expr := e.(type) {
	case *core.Literal:
		p.formatLiteral(expr)
	case *core.ColumnRef:
		p.formatColumnRef(expr)
	case *core.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *core.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *core.FuncCall:
		p.formatFuncCall(expr)
	case *core.CaseExpr:
		p.formatCaseExpr(expr)
	case *core.CastExpr:
		p.formatCastExpr(expr)
	case *core.InExpr:
		p.formatInExpr(expr)
	case *core.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *core.IsNullExpr:
		p.formatIsNullExpr(expr)
	case *core.LikeExpr:
		p.formatLikeExpr(expr)
	case *core.ParenExpr:
		p.formatParenExpr(expr)
	case *core.SubqueryExpr:
		p.formatSubquery(nil, expr.Select)
	case *core.ExistsExpr:
		p.formatExistsExpr(expr)
	}
}

func (p *Printer) exprComplexity(e core.Expr) int {
	switch expr := e.(type) {
	case nil:
		return 0
	case *core.Literal, *core.ColumnRef:
		return 1
	case *core.BinaryExpr:
		return 1 + p.exprComplexity(expr.Left) + p.exprComplexity(expr.Right)
	case *core.UnaryExpr:
		return 1 + p.exprComplexity(expr.Expr)
	case *core.FuncCall:
		score := 2
		for _, arg := range expr.Args {
			score += p.exprComplexity(arg)
		}
		return score
	case *core.ParenExpr:
		return p.exprComplexity(expr.Expr)
	case *core.CaseExpr:
		score := 2
		for _, w := range expr.Whens {
			score += p.exprComplexity(w.Condition) + p.exprComplexity(w.Result)
		}
		return score
	default:
		return 1
	}
}

func (p *Printer) formatLiteral(lit *core.Literal) {
	switch lit.Type {
	case core.LiteralString:
		p.write("'" + strings.ReplaceAll(lit.Value, "'", "''") + "'")
	case core.LiteralBool:
		if strings.EqualFold(lit.Value, "TRUE") {
			p.kw(token.TRUE)
		} else {
			p.kw(token.FALSE)
		}
	case core.LiteralNull:
		p.kw(token.NULL)
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) formatColumnRef(col *core.ColumnRef) {
	if col.Schema != "" {
		p.ident(col.Schema)
		p.write(".")
	}
	if col.Table != "" {
		p.ident(col.Table)
		p.write(".")
	}
	p.ident(col.Column)
	if col.JoinMark {
		p.write("(+)")
	}
}

func (p *Printer) formatBinaryExpr(expr *core.BinaryExpr) {
	// Row value constructor: (a, b)
	if expr.Op == token.COMMA {
		p.formatOperand(expr.Left, expr.Op)
		p.write(", ")
		p.formatOperand(expr.Right, expr.Op)
		return
	}

	shouldBreak := expr.IsLogical() && p.exprComplexity(expr) > complexityThreshold

	p.formatOperand(expr.Left, expr.Op)

	if shouldBreak {
		p.writeln()
		p.kw(expr.Op)
		p.space()
	} else {
		p.space()
		p.kw(expr.Op)
		p.space()
	}

	p.formatOperand(expr.Right, expr.Op)
}

// formatOperand parenthesizes an operand that binds looser than its
// parent operator. Trees built by rewrites may lack explicit ParenExpr nodes.
func (p *Printer) formatOperand(e core.Expr, parent token.TokenType) {
	if bin, ok := e.(*core.BinaryExpr); ok && bin.Op != parent {
		if p.dialect.Precedence(bin.Op) < p.dialect.Precedence(parent) {
			p.write("(")
			p.formatExpr(e)
			p.write(")")
			return
		}
	}
	p.formatExpr(e)
}

func (p *Printer) formatUnaryExpr(expr *core.UnaryExpr) {
	p.kw(expr.Op)
	if expr.Op == token.NOT {
		p.space()
	} else if inner, ok := expr.Expr.(*core.UnaryExpr); ok && inner.Op == expr.Op {
		// "- -x", never "--x"
		p.space()
	}
	p.formatExpr(expr.Expr)
}

func (p *Printer) formatFuncCall(fn *core.FuncCall) {
	p.write(p.dialect.FunctionName(fn.Name))
	p.write("(")

	if fn.Distinct {
		p.kw(token.DISTINCT)
		p.space()
	}

	if fn.Star {
		p.write("*")
	} else {
		p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ", ", false)
	}

	p.write(")")

	if fn.Window != nil {
		p.space()
		p.formatWindowSpec(fn.Window)
	}
}

func (p *Printer) formatWindowSpec(w *core.WindowSpec) {
	p.kw(token.OVER)
	p.write(" (")

	parts := 0
	if len(w.PartitionBy) > 0 {
		parts++
		p.kw(token.PARTITION)
		p.space()
		p.kw(token.BY)
		p.space()
		p.formatList(len(w.PartitionBy), func(i int) { p.formatExpr(w.PartitionBy[i]) }, ", ", false)
	}

	if len(w.OrderBy) > 0 {
		if parts > 0 {
			p.space()
		}
		parts++
		p.kw(token.ORDER)
		p.space()
		p.kw(token.BY)
		p.space()
		p.formatList(len(w.OrderBy), func(i int) { p.formatOrderByItem(w.OrderBy[i]) }, ", ", false)
	}

	if w.Frame != nil {
		if parts > 0 {
			p.space()
		}
		p.formatFrameSpec(w.Frame)
	}

	p.write(")")
}

func (p *Printer) formatFrameSpec(f *core.FrameSpec) {
	p.keyword(string(f.Type))
	p.space()
	if f.End == nil {
		p.formatFrameBound(f.Start)
		return
	}
	p.kw(token.BETWEEN)
	p.space()
	p.formatFrameBound(f.Start)
	p.space()
	p.kw(token.AND)
	p.space()
	p.formatFrameBound(f.End)
}

func (p *Printer) formatFrameBound(b *core.FrameBound) {
	if b == nil {
		return
	}
	switch b.Type {
	case core.FrameUnboundedPreceding:
		p.kw(token.UNBOUNDED)
		p.space()
		p.kw(token.PRECEDING)
	case core.FrameUnboundedFollowing:
		p.kw(token.UNBOUNDED)
		p.space()
		p.kw(token.FOLLOWING)
	case core.FrameCurrentRow:
		p.kw(token.CURRENT)
		p.space()
		p.kw(token.ROW)
	case core.FrameExprPreceding:
		p.formatExpr(b.Offset)
		p.space()
		p.kw(token.PRECEDING)
	case core.FrameExprFollowing:
		p.formatExpr(b.Offset)
		p.space()
		p.kw(token.FOLLOWING)
	}
}

func (p *Printer) formatCaseExpr(c *core.CaseExpr) {
	p.kw(token.CASE)

	if c.Operand != nil {
		p.space()
		p.formatExpr(c.Operand)
	}

	p.writeln()
	p.indent()

	for _, w := range c.Whens {
		p.kw(token.WHEN)
		p.space()
		p.formatExpr(w.Condition)
		p.space()
		p.kw(token.THEN)
		p.space()
		p.formatExpr(w.Result)
		p.writeln()
	}

	if c.Else != nil {
		p.kw(token.ELSE)
		p.space()
		p.formatExpr(c.Else)
		p.writeln()
	}

	p.dedent()
	p.kw(token.END)
}

func (p *Printer) formatCastExpr(c *core.CastExpr) {
	p.kw(token.CAST)
	p.write("(")
	p.formatExpr(c.Expr)
	p.space()
	p.kw(token.AS)
	p.space()
	p.write(c.TypeName)
	p.write(")")
}

func (p *Printer) formatInExpr(in *core.InExpr) {
	p.formatExpr(in.Expr)
	if in.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.IN)
	p.space()

	if in.Query != nil {
		p.formatSubquery(nil, in.Query)
		return
	}

	p.write("(")
	p.formatList(len(in.Values), func(i int) { p.formatExpr(in.Values[i]) }, ", ", false)
	p.write(")")
}

func (p *Printer) formatBetweenExpr(b *core.BetweenExpr) {
	p.formatExpr(b.Expr)
	if b.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.BETWEEN)
	p.space()
	p.formatExpr(b.Low)
	p.space()
	p.kw(token.AND)
	p.space()
	p.formatExpr(b.High)
}

func (p *Printer) formatIsNullExpr(is *core.IsNullExpr) {
	p.formatExpr(is.Expr)
	p.space()
	p.kw(token.IS)
	if is.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.NULL)
}

func (p *Printer) formatLikeExpr(like *core.LikeExpr) {
	p.formatExpr(like.Expr)
	if like.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.LIKE)
	p.space()
	p.formatExpr(like.Pattern)
	if like.Escape != nil {
		p.space()
		p.keyword("ESCAPE")
		p.space()
		p.formatExpr(like.Escape)
	}
}

func (p *Printer) formatParenExpr(paren *core.ParenExpr) {
	p.write("(")
	p.formatExpr(paren.Expr)
	p.write(")")
}

// formatSubquery writes a parenthesized statement, preceded by keywords if any.
func (p *Printer) formatSubquery(keywords []token.TokenType, stmt *core.SelectStmt) {
	if len(keywords) > 0 {
		p.kw(keywords...)
		p.space()
	}
	p.write("(")
	p.writeln()
	p.indent()
	p.formatSelectStmt(stmt)
	p.dedent()
	p.write(")")
}

func (p *Printer) formatExistsExpr(ex *core.ExistsExpr) {
	if ex.Not {
		p.formatSubquery([]token.TokenType{token.NOT, token.EXISTS}, ex.Select)
		return
	}
	p.formatSubquery([]token.TokenType{token.EXISTS}, ex.Select)
}
