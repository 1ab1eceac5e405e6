// Package dialect turns a core.DialectConfig into the runtime tables the
// lexer, parser and printer consult: clause order and handlers, operator
// precedence, join keywords, reserved words and identifier folding.
//
// Concrete dialects live in pkg/dialects/* and register themselves from init.
package dialect

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
	"github.com/leapstack-labs/ansijoin/pkg/token"
)

// JoinTypeDef is an alias to core.JoinTypeDef for use in dialect definitions.
type JoinTypeDef = core.JoinTypeDef

// ClauseDef ties a clause keyword to its parse handler and the SelectCore
// field the result lands in.
type ClauseDef struct {
	Token    token.TokenType
	Handler  spi.ClauseHandler
	Slot     spi.ClauseSlot
	Keywords []string // printed keywords, e.g. GROUP BY; defaults to the token name
	Inline   bool     // printed on the keyword's line (LIMIT 10)
}

// OperatorDef declares an infix operator.
type OperatorDef struct {
	Token      token.TokenType
	Precedence int
	Handler    spi.InfixHandler
}

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Dialect is a built, immutable dialect. Build one with New.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	cfg core.DialectConfig

	reserved map[string]bool
	aliases  map[string]string

	clauses    []token.TokenType
	clauseDefs map[token.TokenType]ClauseDef
	keywords   map[string]token.TokenType
	precedence map[token.TokenType]int
	infix      map[token.TokenType]spi.InfixHandler
	joinTypes  map[token.TokenType]JoinTypeDef
}

// Config returns a copy of the configuration the dialect was built from.
func (d *Dialect) Config() *core.DialectConfig {
	cfg := d.cfg
	cfg.Keywords = slices.Clone(d.cfg.Keywords)
	return &cfg
}

// NormalizeName folds an unquoted identifier the way the database does.
// A quoted identifier loses its quotes and keeps its case.
func (d *Dialect) NormalizeName(name string) string {
	if inner, ok := d.unquote(name); ok {
		return inner
	}
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return upper.String(name)
	case core.NormLowercase:
		return lower.String(name)
	}
	return name
}

func (d *Dialect) unquote(name string) (string, bool) {
	open, closing := d.Identifiers.Quote, d.Identifiers.QuoteEnd
	if open == "" || len(name) < len(open)+len(closing) ||
		!strings.HasPrefix(name, open) || !strings.HasSuffix(name, closing) {
		return "", false
	}
	inner := name[len(open) : len(name)-len(closing)]
	return strings.ReplaceAll(inner, closing+closing, closing), true
}

// SupportsJoinMark reports whether the (+) outer-join marker parses.
func (d *Dialect) SupportsJoinMark() bool { return d.cfg.JoinMark }

// ExceptKeyword is the keyword printed for SetOpExcept.
func (d *Dialect) ExceptKeyword() string {
	if d.cfg.ExceptKeyword == "" {
		return "EXCEPT"
	}
	return d.cfg.ExceptKeyword
}

// RowLimit returns how the dialect writes row limits.
func (d *Dialect) RowLimit() core.RowLimitStyle { return d.cfg.RowLimit }

// TableAliasAS reports whether table aliases are written with AS.
func (d *Dialect) TableAliasAS() bool { return d.cfg.TableAliasAS }

// FunctionName maps a function to the name it is printed with.
func (d *Dialect) FunctionName(name string) string {
	if alias, ok := d.aliases[strings.ToUpper(name)]; ok {
		return alias
	}
	return name
}

// Keywords returns the completion keywords in sorted order.
func (d *Dialect) Keywords() []string {
	kws := make([]string, len(d.cfg.Keywords))
	for i, kw := range d.cfg.Keywords {
		kws[i] = strings.ToUpper(kw)
	}
	slices.Sort(kws)
	return slices.Compact(kws)
}

// QuoteIdentifier wraps name in the dialect's quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	end := d.Identifiers.QuoteEnd
	return d.Identifiers.Quote + strings.ReplaceAll(name, end, end+end) + end
}

// QuoteIdentifierIfNeeded quotes reserved words, folding them first so the
// quoted name denotes the same object. Quoted input is returned as is.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if _, quoted := d.unquote(name); quoted {
		return name
	}
	if d.reserved[strings.ToUpper(name)] {
		return d.QuoteIdentifier(d.NormalizeName(name))
	}
	return name
}

// ClauseSequence returns the clause tokens in the order they may appear.
func (d *Dialect) ClauseSequence() []token.TokenType { return d.clauses }

// ClauseDef returns the definition registered for a clause token.
func (d *Dialect) ClauseDef(t token.TokenType) (ClauseDef, bool) {
	def, ok := d.clauseDefs[t]
	return def, ok
}

// IsClauseToken reports whether t starts a clause in this dialect.
func (d *Dialect) IsClauseToken(t token.TokenType) bool {
	_, ok := d.clauseDefs[t]
	return ok
}

// LookupKeyword resolves a dialect-only keyword such as MINUS.
func (d *Dialect) LookupKeyword(name string) (token.TokenType, bool) {
	if t, ok := d.keywords[strings.ToLower(name)]; ok {
		return t, true
	}
	return token.IDENT, false
}

// Precedence returns the binding power of an infix token, or
// spi.PrecedenceNone when the dialect has no such operator.
func (d *Dialect) Precedence(t token.TokenType) int { return d.precedence[t] }

// InfixHandler returns the custom handler of an infix token, if any.
func (d *Dialect) InfixHandler(t token.TokenType) spi.InfixHandler { return d.infix[t] }

// JoinTypeDef returns the join definition started by t.
func (d *Dialect) JoinTypeDef(t token.TokenType) (JoinTypeDef, bool) {
	def, ok := d.joinTypes[t]
	return def, ok
}

// IsJoinTypeToken reports whether t starts a join type.
func (d *Dialect) IsJoinTypeToken(t token.TokenType) bool {
	_, ok := d.joinTypes[t]
	return ok
}

// Builder assembles a Dialect.
type Builder struct {
	d *Dialect
}

// New starts a dialect from its configuration. Build wires the features the
// configuration asks for: MINUS as EXCEPT and the row limiting clauses.
func New(cfg *core.DialectConfig) *Builder {
	d := &Dialect{
		Name:        cfg.Name,
		Identifiers: cfg.Identifiers,
		cfg:         *cfg,
		reserved:    make(map[string]bool),
		aliases:     make(map[string]string),
		clauseDefs:  make(map[token.TokenType]ClauseDef),
		keywords:    make(map[string]token.TokenType),
		precedence:  make(map[token.TokenType]int),
		infix:       make(map[token.TokenType]spi.InfixHandler),
		joinTypes:   make(map[token.TokenType]JoinTypeDef),
	}
	if d.Identifiers.Quote == "" {
		d.Identifiers.Quote, d.Identifiers.QuoteEnd = `"`, `"`
	}
	d.cfg.Identifiers = d.Identifiers
	return &Builder{d: d}
}

// Clauses sets the clause sequence.
func (b *Builder) Clauses(defs ...ClauseDef) *Builder {
	b.d.clauses = b.d.clauses[:0]
	for _, def := range defs {
		b.addClause(def)
	}
	return b
}

func (b *Builder) addClause(def ClauseDef) {
	if _, exists := b.d.clauseDefs[def.Token]; !exists {
		b.d.clauses = append(b.d.clauses, def.Token)
	}
	b.d.clauseDefs[def.Token] = def
	registerClause(def.Token)
}

// Operators registers infix operators.
func (b *Builder) Operators(sets ...[]OperatorDef) *Builder {
	for _, set := range sets {
		for _, op := range set {
			b.d.precedence[op.Token] = op.Precedence
			if op.Handler != nil {
				b.d.infix[op.Token] = op.Handler
			}
		}
	}
	return b
}

// JoinTypes registers join keywords.
func (b *Builder) JoinTypes(sets ...[]JoinTypeDef) *Builder {
	for _, set := range sets {
		for _, jt := range set {
			b.d.joinTypes[jt.Token] = jt
		}
	}
	return b
}

// WithReservedWords lists words that must be quoted as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.d.reserved[strings.ToUpper(w)] = true
	}
	return b
}

// Aliases renames functions when printing into this dialect.
func (b *Builder) Aliases(aliases map[string]string) *Builder {
	for from, to := range aliases {
		b.d.aliases[strings.ToUpper(from)] = to
	}
	return b
}

// Build finishes the dialect.
func (b *Builder) Build() *Dialect {
	if strings.EqualFold(b.d.cfg.ExceptKeyword, "MINUS") {
		b.d.keywords["minus"] = token.EXCEPT
	}

	limits := []ClauseDef{StandardOffset, StandardFetch}
	if b.d.cfg.RowLimit == core.RowLimitLimit {
		limits = []ClauseDef{StandardLimit, StandardOffset}
	}
	for _, def := range limits {
		if !b.d.IsClauseToken(def.Token) {
			b.addClause(def)
		}
	}
	return b.d
}
