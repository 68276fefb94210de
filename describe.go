package xlref

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var tokenKindNames = [...]string{
	tokenCell:    "cell",
	tokenArea:    "area",
	tokenJointed: "joined",
}

// DescribeFormula returns a human-readable tree of the reference tokens
// RewriteFormula would see in value, followed by any validation issues.
// Useful for debugging template formulas during development.
func DescribeFormula(value string) string {
	var b strings.Builder
	b.WriteString("Formula: ")
	b.WriteString(value)
	b.WriteByte('\n')
	describeTokens(&b, value, 1)
	return b.String()
}

// DescribeSheet walks an open workbook sheet and describes every template
// formula ("$[...]" values) and every formula cell it finds. Cells after the
// last non-empty value of a row are not visited.
func DescribeSheet(f *excelize.File, sheet string) (string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s\n", sheet)
	for r, row := range rows {
		for c, value := range row {
			ref := NewCellRef(sheet, r, c)
			formula, err := f.GetCellFormula(sheet, ref.Address())
			if err != nil {
				return "", fmt.Errorf("read formula %s: %w", ref.CellName(), err)
			}
			switch {
			case formula != "":
				fmt.Fprintf(&b, "  %s: =%s\n", ref.CellName(), formula)
				describeTokens(&b, formula, 2)
			case strings.Contains(value, formulaNotationBegin):
				fmt.Fprintf(&b, "  %s: %s\n", ref.CellName(), value)
				describeTokens(&b, value, 2)
			}
		}
	}
	return b.String(), nil
}

// describeTokens writes one line per token as "offset kind text". Offsets are
// relative to the formula inside "$[...]" when value uses that notation.
func describeTokens(b *strings.Builder, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	formula, ok := UnwrapFormula(value)
	if !ok {
		formula = value
	}

	for _, t := range formulaTokens(formula) {
		text := formula[t.start:t.end]
		fmt.Fprintf(b, "%s%d %s %s", prefix, t.start, tokenKindNames[t.kind], text)
		if t.kind == tokenArea {
			if area, err := ParseAreaRef(text); err == nil {
				fmt.Fprintf(b, " %s", areaSize(area))
			}
		}
		b.WriteByte('\n')
		if t.kind == tokenJointed {
			for _, inner := range ExtractRefsFromJointedSpan(text) {
				fmt.Fprintf(b, "%s    %s\n", prefix, inner)
			}
		}
	}

	issues := ValidateFormula(value)
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "%sIssues:\n", prefix)
	for _, issue := range issues {
		fmt.Fprintf(b, "%s  %s\n", prefix, issue)
	}
}

// areaSize renders an area's dimensions as "(WxH)".
func areaSize(a AreaRef) string {
	width := max(a.First.Col, a.Last.Col) - min(a.First.Col, a.Last.Col) + 1
	height := max(a.First.Row, a.Last.Row) - min(a.First.Row, a.Last.Row) + 1
	return fmt.Sprintf("(%dx%d)", width, height)
}
