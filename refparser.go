package xlref

import "strings"

// Reference tokens recognised in formula text:
//
//	Sheet1!A1        sheet name made of letters and digits, starting with a letter
//	A1               bare address, never directly after a digit ("2A1" is not a reference)
//	'My Sheet'!A1    quoted sheet name, any characters except ?\/:'*
//	A1:B5            area, a reference followed by ':' and a bare address
//	U_(F8,F13)       joined group of cells combined into one operand
//
// The scanner works on bytes. Every delimiter it cares about is ASCII, so
// multi-byte sheet names pass through untouched.

const (
	jointedOpen      = "U_("
	quotedSheetStops = `?\/:'*`
)

// span is a token located in the formula by byte offsets.
type span struct {
	start, end int
}

// matcher returns the end offset of a token starting at i, or -1.
type matcher func(s string, i int) int

// ExtractCellRefs returns every cell reference in formula, left to right,
// skipping references that sit inside a joined group. For "B4*(1+C4)" it
// returns "B4", "C4".
func ExtractCellRefs(formula string) []string {
	return substrings(formula, scan(formula, matchCellRef, true))
}

// ExtractJointedRefs returns every joined group like "U_(F8,F13)" verbatim.
func ExtractJointedRefs(formula string) []string {
	return substrings(formula, scan(formula, matchJointed, false))
}

// ExtractRefsFromJointedSpan returns the cell references inside one joined group.
func ExtractRefsFromJointedSpan(jointed string) []string {
	return substrings(jointed, scan(jointed, matchCellRef, false))
}

// ContainsJointedRef reports whether formula has at least one joined group.
func ContainsJointedRef(formula string) bool {
	for i := 0; i < len(formula); i++ {
		if matchJointed(formula, i) >= 0 {
			return true
		}
	}
	return false
}

// ExtractAreaRefs returns every area reference like "A1:B5" or "Sheet1!A1:C3".
func ExtractAreaRefs(formula string) []string {
	return substrings(formula, scan(formula, matchAreaRef, false))
}

func substrings(s string, spans []span) []string {
	if len(spans) == 0 {
		return nil
	}
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = s[sp.start:sp.end]
	}
	return out
}

// scan walks s once, trying match at every position not already consumed by
// an earlier token. With skipJointed set, a token may not start between a
// "U_(" and the next ')'.
func scan(s string, match matcher, skipJointed bool) []span {
	var spans []span
	inJointed := false
	for i := 0; i < len(s); {
		if !(skipJointed && inJointed) {
			if end := match(s, i); end > i {
				spans = append(spans, span{start: i, end: end})
				for ; i < end; i++ {
					inJointed = stepJointed(s, i, inJointed)
				}
				continue
			}
		}
		inJointed = stepJointed(s, i, inJointed)
		i++
	}
	return spans
}

// stepJointed advances the "inside a joined group" state over s[i].
func stepJointed(s string, i int, inJointed bool) bool {
	switch {
	case s[i] == ')':
		return false
	case s[i] == '(' && i >= 2 && s[i-2:i+1] == jointedOpen:
		return true
	}
	return inJointed
}

// matchCellRef tries the three reference shapes in order.
func matchCellRef(s string, i int) int {
	if end := matchSheetQualified(s, i); end >= 0 {
		return end
	}
	if i == 0 || !isDigit(s[i-1]) {
		if end := matchAddress(s, i); end >= 0 {
			return end
		}
	}
	return matchQuotedSheet(s, i)
}

// matchAddress matches letters followed by digits.
func matchAddress(s string, i int) int {
	j := i
	for j < len(s) && isAlpha(s[j]) {
		j++
	}
	if j == i {
		return -1
	}
	k := j
	for k < len(s) && isDigit(s[k]) {
		k++
	}
	if k == j {
		return -1
	}
	return k
}

func matchSheetQualified(s string, i int) int {
	if i >= len(s) || !isAlpha(s[i]) {
		return -1
	}
	j := i + 1
	for j < len(s) && (isAlpha(s[j]) || isDigit(s[j])) {
		j++
	}
	if j >= len(s) || s[j] != '!' {
		return -1
	}
	return matchAddress(s, j+1)
}

func matchQuotedSheet(s string, i int) int {
	if i >= len(s) || s[i] != '\'' {
		return -1
	}
	j := i + 1
	for j < len(s) && strings.IndexByte(quotedSheetStops, s[j]) < 0 {
		j++
	}
	if j == i+1 || j+1 >= len(s) || s[j] != '\'' || s[j+1] != '!' {
		return -1
	}
	return matchAddress(s, j+2)
}

// matchAreaRef matches a reference shape followed by ':' and a bare address.
// Each shape is tried in turn so a failed ':' falls back to the next one.
// A sheet-qualified first corner may repeat its own sheet on the second
// corner, as in "Sheet1!A1:Sheet1!B2".
func matchAreaRef(s string, i int) int {
	shapes := []matcher{matchSheetQualified, matchAddress, matchQuotedSheet}
	for n, shape := range shapes {
		if n == 1 && i > 0 && isDigit(s[i-1]) {
			continue
		}
		end := shape(s, i)
		if end < 0 || end >= len(s) || s[end] != ':' {
			continue
		}
		if n != 1 {
			if last := matchSameSheetCorner(s, i, end, shape); last >= 0 {
				return last
			}
		}
		if last := matchAddress(s, end+1); last >= 0 {
			return last
		}
	}
	return -1
}

// matchSameSheetCorner matches a second corner at colon+1 written with the
// same sheet prefix as the first corner s[i:colon].
func matchSameSheetCorner(s string, i, colon int, shape matcher) int {
	prefix := s[i : i+strings.LastIndexByte(s[i:colon], '!')+1]
	if !strings.HasPrefix(s[colon+1:], prefix) {
		return -1
	}
	return shape(s, colon+1)
}

// matchJointed matches "U_(" + one or more non-')' bytes + ")".
func matchJointed(s string, i int) int {
	if !strings.HasPrefix(s[i:], jointedOpen) {
		return -1
	}
	body := i + len(jointedOpen)
	n := strings.IndexByte(s[body:], ')')
	if n <= 0 {
		return -1
	}
	return body + n + 1
}
