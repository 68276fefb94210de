package xlref

import (
	"cmp"
	"slices"
	"strings"
)

// SortAxis selects which coordinate is primary when ordering cell refs.
// The sheet name always comes first.
type SortAxis int

const (
	RowMajor    SortAxis = iota // sheet, row, col
	ColumnMajor                 // sheet, col, row
)

// String returns a human-readable name for the SortAxis.
func (a SortAxis) String() string {
	switch a {
	case RowMajor:
		return "RowMajor"
	case ColumnMajor:
		return "ColumnMajor"
	default:
		return "Unknown"
	}
}

// Compare orders two refs by sheet name and then by the axis' coordinates.
func (a SortAxis) Compare(x, y CellRef) int {
	if c := strings.Compare(x.Sheet, y.Sheet); c != 0 {
		return c
	}
	if a == ColumnMajor {
		return cmp.Or(cmp.Compare(x.Col, y.Col), cmp.Compare(x.Row, y.Row))
	}
	return cmp.Or(cmp.Compare(x.Row, y.Row), cmp.Compare(x.Col, y.Col))
}

// next reports whether cur directly follows prev along the run direction:
// one row down in the same column for ColumnMajor, one column right in
// the same row for RowMajor.
func (a SortAxis) next(prev, cur CellRef) bool {
	if prev.Sheet != cur.Sheet {
		return false
	}
	rowDelta, colDelta := cur.Row-prev.Row, cur.Col-prev.Col
	if a == ColumnMajor {
		return rowDelta == 1 && colDelta == 0
	}
	return colDelta == 1 && rowDelta == 0
}

// Range is one contiguous run of cells: a column slice stepping one row at a
// time, or a row slice stepping one column at a time, on a single sheet.
type Range []CellRef

// First returns the first cell of the range.
func (r Range) First() CellRef { return r[0] }

// Last returns the last cell of the range.
func (r Range) Last() CellRef { return r[len(r)-1] }

// String renders the range as "A1:A5", or a single name for a one-cell range.
func (r Range) String() string {
	return CreateTargetCellRef(r)
}

// GroupByRanges groups refs into contiguous ranges. Column runs are preferred;
// row runs are used only when targetRangeCount is non-zero and they, unlike
// column runs, produce exactly that many ranges.
func GroupByRanges(refs []CellRef, targetRangeCount int) []Range {
	colRanges := GroupByColRange(refs)
	if targetRangeCount == 0 || len(colRanges) == targetRangeCount {
		return colRanges
	}
	rowRanges := GroupByRowRange(refs)
	if len(rowRanges) == targetRangeCount {
		return rowRanges
	}
	return colRanges
}

// GroupByColRange groups refs into vertical runs (same column, consecutive rows).
func GroupByColRange(refs []CellRef) []Range {
	return GroupByAxis(refs, ColumnMajor)
}

// GroupByRowRange groups refs into horizontal runs (same row, consecutive columns).
func GroupByRowRange(refs []CellRef) []Range {
	return GroupByAxis(refs, RowMajor)
}

// GroupByAxis sorts a copy of refs along axis and cuts it into maximal runs.
// A run ends at a sheet change or at any step that is not exactly one cell
// along the axis. refs is not modified.
func GroupByAxis(refs []CellRef, axis SortAxis) []Range {
	if len(refs) == 0 {
		return nil
	}
	sorted := slices.Clone(refs)
	slices.SortStableFunc(sorted, axis.Compare)

	var ranges []Range
	current := Range{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if axis.next(sorted[i-1], sorted[i]) {
			current = append(current, sorted[i])
			continue
		}
		ranges = append(ranges, current)
		current = Range{sorted[i]}
	}
	return append(ranges, current)
}

// CreateTargetCellRef renders refs, in the given order, as "first:last" when
// the whole list is one vertical or horizontal run starting at the first
// element. Otherwise the names are joined with commas. An empty list renders
// as "".
func CreateTargetCellRef(refs []CellRef) string {
	if len(refs) == 0 {
		return ""
	}
	vertical, horizontal := true, true
	names := make([]string, 0, len(refs))
	names = append(names, refs[0].CellName())
	for i := 1; i < len(refs); i++ {
		prev, cur := refs[i-1], refs[i]
		if vertical && !ColumnMajor.next(prev, cur) {
			vertical = false
		}
		if horizontal && !RowMajor.next(prev, cur) {
			horizontal = false
		}
		names = append(names, cur.CellName())
	}
	if (vertical || horizontal) && len(names) > 1 {
		return names[0] + ":" + names[len(names)-1]
	}
	return strings.Join(names, ",")
}

// JoinRanges renders every range and joins them with commas.
func JoinRanges(ranges []Range) string {
	return joinRanges(ranges, ",")
}

func joinRanges(ranges []Range, sep string) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, sep)
}

// TargetCellRefsByColumn picks the targets in formulaCell's column that lie
// above it and are not listed in exclude. Order of targets is kept.
func TargetCellRefsByColumn(formulaCell CellRef, targets, exclude []CellRef) []CellRef {
	var result []CellRef
	for _, t := range targets {
		if t.Col != formulaCell.Col || t.Row >= formulaCell.Row {
			continue
		}
		if slices.ContainsFunc(exclude, t.Equal) {
			continue
		}
		result = append(result, t)
	}
	return result
}
