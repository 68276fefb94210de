package xlref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func resolverOf(m map[CellRef][]CellRef) Resolver {
	return func(src CellRef) ([]CellRef, bool) {
		targets, ok := m[src]
		return targets, ok
	}
}

// column returns the cells of col between fromRow and toRow inclusive.
func column(sheet string, col, fromRow, toRow int) []CellRef {
	var refs []CellRef
	for r := fromRow; r <= toRow; r++ {
		refs = append(refs, NewCellRef(sheet, r, col))
	}
	return refs
}

func TestRewriteFormula_SingleRef(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): column("", 0, 1, 4),
	})
	assert.Equal(t, "SUM(A2:A5)", RewriteFormula("SUM(A2)", resolve))
}

func TestRewriteFormula_Area(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): column("", 0, 1, 3),
		NewCellRef("", 1, 1): column("", 1, 1, 3),
	})
	assert.Equal(t, "SUM(A2:A4)", RewriteFormula("SUM(A2:A2)", resolve))
	assert.Equal(t, "SUM(A2:A4,B2:B4)", RewriteFormula("SUM(A2:B2)", resolve))
}

func TestRewriteFormula_HugeAreaKept(t *testing.T) {
	calls := 0
	resolve := func(CellRef) ([]CellRef, bool) {
		calls++
		return nil, false
	}
	assert.Equal(t, "SUM(A1:XFD1048576)", RewriteFormula("SUM(A1:XFD1048576)", resolve))
	assert.Zero(t, calls)
}

func TestRewriteFormula_Jointed(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 7, 5):  column("", 5, 7, 8),
		NewCellRef("", 12, 5): column("", 5, 13, 14),
	})
	assert.Equal(t, "SUM(F8,F9,F14,F15)", RewriteFormula("SUM(U_(F8,F13))", resolve))
}

func TestRewriteFormula_JointedContiguous(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 7, 5): column("", 5, 7, 8),
		NewCellRef("", 9, 5): column("", 5, 9, 9),
	})
	assert.Equal(t, "SUM(F8:F10)", RewriteFormula("SUM(U_(F8,F10))", resolve))
}

func TestRewriteFormula_RemovedCell(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): {},
	})
	assert.Equal(t, "SUM(0)", RewriteFormula("SUM(A2)", resolve))
	assert.Equal(t, "SUM(NA())", RewriteFormula("SUM(A2)", resolve, WithDefaultValue("NA()")))
}

func TestRewriteFormula_UntouchedRefKept(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): column("", 0, 1, 4),
	})
	assert.Equal(t, "SUM(A2:A5)+B1", RewriteFormula("SUM(A2)+B1", resolve))
}

func TestRewriteFormula_FunctionNameNotARef(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): column("", 0, 1, 4),
		NewCellRef("", 9, 8508): {NewCellRef("", 0, 0)}, // LOG10
	})
	assert.Equal(t, "LOG10(A2:A5)", RewriteFormula("LOG10(A2)", resolve))
}

func TestRewriteFormula_NoRefs(t *testing.T) {
	assert.Equal(t, "1+2", RewriteFormula("1+2", resolverOf(nil)))
	assert.Equal(t, "", RewriteFormula("", resolverOf(nil)))
}

func TestRewriteFormula_DefaultSheet(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("Sheet2", 0, 0): column("Sheet2", 0, 0, 2),
		NewCellRef("Sheet1", 0, 0): column("Sheet1", 0, 0, 1),
	})
	got := RewriteFormula("SUM(Sheet2!A1)+A1", resolve, WithDefaultSheet("Sheet1"))
	assert.Equal(t, "SUM(Sheet2!A1:Sheet2!A3)+A1:A2", got)
}

func TestRewriteFormula_QuotedSheet(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("My Sheet", 1, 1): column("My Sheet", 1, 1, 2),
	})
	assert.Equal(t, "'My Sheet'!B2:'My Sheet'!B3", RewriteFormula("'My Sheet'!B2", resolve))
}

func TestRewriteFormula_TargetRangeCount(t *testing.T) {
	targets := append(column("", 0, 1, 2), column("", 1, 1, 2)...)
	targets = append(targets, column("", 2, 1, 2)...)
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 1, 0): targets,
	})
	assert.Equal(t, "SUM(A2:A3,B2:B3,C2:C3)", RewriteFormula("SUM(A2)", resolve))
	assert.Equal(t, "SUM(A2:C2,A3:C3)", RewriteFormula("SUM(A2)", resolve, WithTargetRangeCount(2)))
}

func TestRewriteFormula_TooManyRangesUsesPlus(t *testing.T) {
	var targets []CellRef
	for i := 0; i < excelMaxArgs+1; i++ {
		targets = append(targets, NewCellRef("", i*2, 0))
	}
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("", 0, 0): targets,
	})
	got := RewriteFormula("SUM(A1)", resolve)
	assert.Equal(t, excelMaxArgs, strings.Count(got, "+"))
	assert.NotContains(t, got, ",")
	assert.True(t, strings.HasPrefix(got, "SUM(A1+A3+"))
}

func TestRewriteFormula_ExcelizeRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("Sheet1", 1, 0): column("Sheet1", 0, 1, 4),
	})
	formula, ok := UnwrapFormula("$[SUM(A2)]")
	require.True(t, ok)
	rewritten := RewriteFormula(formula, resolve, WithDefaultSheet("Sheet1"))
	require.Equal(t, "SUM(A2:A5)", rewritten)

	require.NoError(t, f.SetCellFormula("Sheet1", "A6", rewritten))
	got, err := f.GetCellFormula("Sheet1", "A6")
	require.NoError(t, err)
	assert.Equal(t, rewritten, got)
}

func TestUnwrapFormula(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"$[SUM(A1)]", "SUM(A1)", true},
		{"  $[A1+B1] ", "A1+B1", true},
		{"$[INDEX(X[1])]", "INDEX(X[1])", true},
		{"$[A1", "", false},
		{"SUM(A1)", "", false},
		{"$[A1]+$[B1]", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := UnwrapFormula(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteFormula_SameSheetArea(t *testing.T) {
	resolve := resolverOf(map[CellRef][]CellRef{
		NewCellRef("Sheet1", 0, 0): column("Sheet1", 0, 0, 1),
		NewCellRef("Sheet1", 1, 0): column("Sheet1", 0, 2, 3),
	})
	got := RewriteFormula("SUM(Sheet1!A1:Sheet1!A2)", resolve, WithDefaultSheet("Sheet1"))
	assert.Equal(t, "SUM(A1:A4)", got)
}
