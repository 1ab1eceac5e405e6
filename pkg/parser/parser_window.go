package parser

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
	"github.com/leapstack-labs/ansijoin/pkg/spi"
)

// Window specification parsing: OVER clauses, PARTITION BY, ORDER BY, frame specs.
//
// Grammar:
//
//	window_spec   → "(" [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec] ")"
//	frame_spec    → (ROWS|RANGE) frame_extent
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW | expr PRECEDING | expr FOLLOWING

// parseWindowSpec parses a window specification.
func (p *Parser) parseWindowSpec() *core.WindowSpec {
	spec := &core.WindowSpec{}

	p.expect(TOKEN_LPAREN)

	if p.match(TOKEN_PARTITION) {
		p.expect(TOKEN_BY)
		spec.PartitionBy = p.parseExpressionList()
	}

	if p.match(TOKEN_ORDER) {
		p.expect(TOKEN_BY)
		spec.OrderBy = p.parseOrderByList()
	}

	if p.check(TOKEN_ROWS) || p.check(TOKEN_RANGE) {
		spec.Frame = p.parseFrameSpec()
	}

	p.expect(TOKEN_RPAREN)
	return spec
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *core.FrameSpec {
	frame := &core.FrameSpec{}

	if p.match(TOKEN_ROWS) {
		frame.Type = core.FrameRows
	} else {
		p.expect(TOKEN_RANGE)
		frame.Type = core.FrameRange
	}

	if p.match(TOKEN_BETWEEN) {
		frame.Start = p.parseFrameBound()
		p.expect(TOKEN_AND)
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	return frame
}

// parseFrameBound parses a frame bound.
func (p *Parser) parseFrameBound() *core.FrameBound {
	bound := &core.FrameBound{}

	switch {
	case p.match(TOKEN_UNBOUNDED):
		switch {
		case p.match(TOKEN_PRECEDING):
			bound.Type = core.FrameUnboundedPreceding
		case p.match(TOKEN_FOLLOWING):
			bound.Type = core.FrameUnboundedFollowing
		default:
			p.addError("expected PRECEDING or FOLLOWING after UNBOUNDED")
		}

	case p.match(TOKEN_CURRENT):
		p.expect(TOKEN_ROW)
		bound.Type = core.FrameCurrentRow

	default:
		// N PRECEDING or N FOLLOWING. Parsed above AND so BETWEEN bounds split.
		bound.Offset = p.parseExpressionWithPrecedence(spi.PrecedenceAddition)
		switch {
		case p.match(TOKEN_PRECEDING):
			bound.Type = core.FrameExprPreceding
		case p.match(TOKEN_FOLLOWING):
			bound.Type = core.FrameExprFollowing
		default:
			p.addError("expected PRECEDING or FOLLOWING in window frame")
		}
	}

	return bound
}
