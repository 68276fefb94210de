package xlref

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Formula will not be rewritten as intended
	SeverityWarning                 // Formula may produce unexpected results
)

// ValidationIssue represents a single problem found in a template formula or expression.
type ValidationIssue struct {
	Severity Severity
	Offset   int    // byte offset of Token in the checked text
	Token    string // offending text
	Message  string
}

// String formats the issue as "[ERROR] 4 "U_()": message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %d %q: %s", sev, v.Offset, v.Token, v.Message)
}

// ValidateFormula checks a template formula, with or without the "$[...]"
// notation, for references RewriteFormula cannot use. It never fails; an
// empty result means every reference token is usable.
func ValidateFormula(value string) []ValidationIssue {
	var issues []ValidationIssue
	formula := value
	if strings.HasPrefix(strings.TrimSpace(value), formulaNotationBegin) {
		body, ok := UnwrapFormula(value)
		if !ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Offset:   strings.Index(value, formulaNotationBegin),
				Token:    formulaNotationBegin,
				Message:  "formula notation is not closed by a matching ']'",
			})
		} else {
			formula = body
		}
	}

	issues = append(issues, validateJointed(formula)...)
	for _, sp := range scan(formula, matchCellRef, true) {
		token := formula[sp.start:sp.end]
		if sp.end < len(formula) && formula[sp.end] == '(' {
			continue // function name
		}
		if _, err := ParseCellRef(token); err != nil {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Offset:   sp.start,
				Token:    token,
				Message:  fmt.Sprintf("not a cell inside the sheet grid, left as written: %v", err),
			})
		}
	}
	return issues
}

// validateJointed reports joined groups that are empty, unterminated or hold
// no cell references.
func validateJointed(formula string) []ValidationIssue {
	var issues []ValidationIssue
	for i := 0; i < len(formula); {
		if !strings.HasPrefix(formula[i:], jointedOpen) {
			i++
			continue
		}
		end := matchJointed(formula, i)
		if end < 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Offset:   i,
				Token:    jointedOpen,
				Message:  "joined group is empty or not closed by ')'",
			})
			i += len(jointedOpen)
			continue
		}
		group := formula[i:end]
		if len(ExtractRefsFromJointedSpan(group)) == 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Offset:   i,
				Token:    group,
				Message:  "joined group holds no cell references",
			})
		}
		i = end
	}
	return issues
}

// ValidateExpression compiles a condition or collection expression for
// syntax checking and returns an issue if it fails.
func ValidateExpression(expression string) *ValidationIssue {
	if expression == "" {
		return nil
	}
	_, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return &ValidationIssue{
			Severity: SeverityError,
			Token:    expression,
			Message:  fmt.Sprintf("invalid expression syntax: %v", err),
		}
	}
	return nil
}
