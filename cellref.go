package xlref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef identifies a single cell in a workbook.
type CellRef struct {
	Sheet string // sheet name (empty = current sheet)
	Row   int    // 0-based row index
	Col   int    // 0-based column index

	// IgnoreSheetNameInFormat drops the sheet prefix from CellName.
	IgnoreSheetNameInFormat bool
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1", "Sheet1!B5", "$A$1" or "'My Sheet'!C3".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	var sheet string
	cellPart := s

	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		sheet = unquoteSheetName(s[:idx])
		cellPart = s[idx+1:]
	}

	cellPart = strings.ReplaceAll(cellPart, "$", "")
	if cellPart == "" {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, row, err := excelize.CellNameToCoordinates(cellPart)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}

	return CellRef{Sheet: sheet, Row: row - 1, Col: col - 1}, nil
}

// Address returns the cell part like "A1" without any sheet name.
func (c CellRef) Address() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		// out of the sheet grid; still render something readable
		return ColToName(c.Col) + strconv.Itoa(c.Row+1)
	}
	return name
}

// CellName returns the reference in formula notation. The sheet prefix is
// present unless the sheet is empty or IgnoreSheetNameInFormat is set.
func (c CellRef) CellName() string {
	if c.Sheet == "" || c.IgnoreSheetNameInFormat {
		return c.Address()
	}
	return quoteSheetName(c.Sheet) + "!" + c.Address()
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	return c.CellName()
}

// Equal reports whether both refs point at the same cell. Formatting flags are ignored.
func (c CellRef) Equal(other CellRef) bool {
	return c.Sheet == other.Sheet && c.Row == other.Row && c.Col == other.Col
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	if name, err := excelize.ColumnNumberToName(col + 1); err == nil {
		return name
	}
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(name))
	if err != nil {
		return 0, fmt.Errorf("invalid column name %q: %w", name, err)
	}
	return n - 1, nil
}

// quoteSheetName wraps a sheet name in single quotes when a formula needs it.
func quoteSheetName(name string) string {
	if !sheetNameNeedsQuoting(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func unquoteSheetName(name string) string {
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		return strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

func sheetNameNeedsQuoting(name string) bool {
	if name == "" {
		return false
	}
	if !isAlpha(name[0]) && name[0] != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		b := name[i]
		if !isAlpha(b) && !isDigit(b) && b != '_' && b != '.' {
			return true
		}
	}
	// "AB12" would read back as a cell address
	_, _, err := excelize.CellNameToCoordinates(name)
	return err == nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// AreaRef represents a rectangular area defined by two cell references.
type AreaRef struct {
	First CellRef
	Last  CellRef
}

// NewAreaRef creates an AreaRef from two cell references.
func NewAreaRef(first, last CellRef) AreaRef {
	return AreaRef{First: first, Last: last}
}

// ParseAreaRef parses an area reference string like "A1:C5" or "Sheet1!A1:C5".
func ParseAreaRef(s string) (AreaRef, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return AreaRef{}, fmt.Errorf("invalid area reference (missing ':'): %q", s)
	}

	first, err := ParseCellRef(s[:idx])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}

	last, err := ParseCellRef(s[idx+1:])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}

	// Inherit sheet name from first cell if last doesn't have one
	if last.Sheet == "" && first.Sheet != "" {
		last.Sheet = first.Sheet
	}

	return AreaRef{First: first, Last: last}, nil
}

// String formats the AreaRef as "Sheet1!A1:C5" or "A1:C5".
func (a AreaRef) String() string {
	if a.First.Sheet != "" && a.First.Sheet == a.Last.Sheet {
		return quoteSheetName(a.First.Sheet) + "!" + a.First.Address() + ":" + a.Last.Address()
	}
	return a.First.String() + ":" + a.Last.String()
}

func (a AreaRef) cellCount() int {
	rows := max(a.First.Row, a.Last.Row) - min(a.First.Row, a.Last.Row) + 1
	cols := max(a.First.Col, a.Last.Col) - min(a.First.Col, a.Last.Col) + 1
	return rows * cols
}

// Cells lists every cell of the area in row-major order.
func (a AreaRef) Cells() []CellRef {
	minRow, maxRow := min(a.First.Row, a.Last.Row), max(a.First.Row, a.Last.Row)
	minCol, maxCol := min(a.First.Col, a.Last.Col), max(a.First.Col, a.Last.Col)
	cells := make([]CellRef, 0, a.cellCount())
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			cells = append(cells, NewCellRef(a.First.Sheet, r, c))
		}
	}
	return cells
}

// Contains returns true if the given cell reference is within this area.
func (a AreaRef) Contains(ref CellRef) bool {
	if a.First.Sheet != "" && a.First.Sheet != ref.Sheet {
		return false
	}
	return ref.Row >= a.First.Row && ref.Row <= a.Last.Row &&
		ref.Col >= a.First.Col && ref.Col <= a.Last.Col
}
