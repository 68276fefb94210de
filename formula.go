package xlref

import (
	"cmp"
	"slices"
	"strings"
)

// Resolver maps a source cell of the template to the cells it was expanded
// into. ok=false marks a cell the template never touched; its references are
// left as written. ok=true with no targets means the cell was removed.
type Resolver func(src CellRef) (targets []CellRef, ok bool)

const (
	// excelMaxArgs is the argument limit of Excel functions such as SUM.
	excelMaxArgs = 255
	// maxAreaCells bounds the areas expanded cell by cell; larger ones are kept verbatim.
	maxAreaCells = 1 << 16
)

type tokenKind int

const (
	tokenCell tokenKind = iota
	tokenArea
	tokenJointed
)

type formulaToken struct {
	span
	kind tokenKind
}

// RewriteFormula replaces every reference in formula with the compact
// rendering of the cells it resolves to. "SUM(A2)" with A2 expanded to
// A2..A5 becomes "SUM(A2:A5)". Joined groups like "U_(F8,F13)" are replaced
// with the combined targets of all their cells.
func RewriteFormula(formula string, resolve Resolver, opts ...RewriteOption) string {
	o := defaultRewriteOptions()
	for _, opt := range opts {
		opt(o)
	}

	tokens := formulaTokens(formula)
	if len(tokens) == 0 {
		return formula
	}

	var b strings.Builder
	pos := 0
	for _, t := range tokens {
		text := formula[t.start:t.end]
		b.WriteString(formula[pos:t.start])
		b.WriteString(o.replace(text, t.kind, resolve))
		pos = t.end
	}
	b.WriteString(formula[pos:])
	return b.String()
}

// formulaTokens lists areas, joined groups and single references in source
// order. Overlaps are resolved in favour of the token that starts first, and
// of the longer one when two start together.
func formulaTokens(formula string) []formulaToken {
	var tokens []formulaToken
	for _, sp := range scan(formula, matchAreaRef, true) {
		tokens = append(tokens, formulaToken{span: sp, kind: tokenArea})
	}
	for _, sp := range scan(formula, matchJointed, false) {
		tokens = append(tokens, formulaToken{span: sp, kind: tokenJointed})
	}
	for _, sp := range scan(formula, matchCellRef, true) {
		// "LOG10(" is a function call, not a cell
		if sp.end < len(formula) && formula[sp.end] == '(' {
			continue
		}
		tokens = append(tokens, formulaToken{span: sp, kind: tokenCell})
	}

	slices.SortFunc(tokens, func(a, b formulaToken) int {
		return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(b.end, a.end))
	})
	kept := tokens[:0]
	end := 0
	for _, t := range tokens {
		if t.start < end {
			continue
		}
		kept = append(kept, t)
		end = t.end
	}
	return kept
}

func (o *rewriteOptions) replace(text string, kind tokenKind, resolve Resolver) string {
	var sources []CellRef
	switch kind {
	case tokenArea:
		area, err := ParseAreaRef(text)
		if err != nil || area.cellCount() > maxAreaCells {
			return text
		}
		if area.First.Sheet == "" {
			area.First.Sheet = o.defaultSheet
		}
		sources = area.Cells()
	case tokenJointed:
		for _, inner := range ExtractRefsFromJointedSpan(text) {
			if ref, err := o.sourceRef(inner); err == nil {
				sources = append(sources, ref)
			}
		}
	default:
		ref, err := o.sourceRef(text)
		if err != nil {
			return text
		}
		sources = []CellRef{ref}
	}

	var targets []CellRef
	touched := false
	for _, src := range sources {
		t, ok := resolve(src)
		if !ok {
			continue
		}
		touched = true
		targets = append(targets, t...)
	}
	if !touched {
		return text
	}
	if len(targets) == 0 {
		return o.defaultValue
	}

	targets = o.localize(targets)
	if kind == tokenJointed {
		return CreateTargetCellRef(targets)
	}
	ranges := GroupByRanges(targets, o.targetRangeCount)
	if len(ranges) > excelMaxArgs {
		return joinRanges(ranges, "+")
	}
	return JoinRanges(ranges)
}

// sourceRef parses a reference token; unqualified refs belong to the default sheet.
func (o *rewriteOptions) sourceRef(text string) (CellRef, error) {
	ref, err := ParseCellRef(text)
	if err != nil {
		return CellRef{}, err
	}
	if ref.Sheet == "" {
		ref.Sheet = o.defaultSheet
	}
	return ref, nil
}

// localize drops the sheet prefix of targets on the default sheet.
func (o *rewriteOptions) localize(targets []CellRef) []CellRef {
	out := make([]CellRef, len(targets))
	for i, t := range targets {
		if t.Sheet == o.defaultSheet {
			t.IgnoreSheetNameInFormat = true
		}
		out[i] = t
	}
	return out
}

// Template formula cells are written as "$[SUM(U_(F8,F13))]".
const (
	formulaNotationBegin = "$["
	formulaNotationEnd   = "]"
)

// UnwrapFormula extracts the formula from a template value like "$[SUM(A1)]".
// Returns the formula and true if the whole value is one formula notation.
func UnwrapFormula(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, formulaNotationBegin) || !strings.HasSuffix(trimmed, formulaNotationEnd) {
		return "", false
	}
	body := trimmed[len(formulaNotationBegin):]
	if findMatchingEnd(body, "[", formulaNotationEnd) != len(body)-len(formulaNotationEnd) {
		return "", false
	}
	return body[:len(body)-len(formulaNotationEnd)], true
}

// findMatchingEnd finds the position of the matching end delimiter,
// handling nested begin/end pairs.
func findMatchingEnd(s string, begin, end string) int {
	depth := 0
	for i := 0; i <= len(s)-len(end); i++ {
		if strings.HasPrefix(s[i:], begin) {
			depth++
		} else if strings.HasPrefix(s[i:], end) {
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
