package xlref

// rewriteOptions holds configuration for RewriteFormula.
type rewriteOptions struct {
	defaultSheet     string
	defaultValue     string
	targetRangeCount int
}

func defaultRewriteOptions() *rewriteOptions {
	return &rewriteOptions{
		defaultValue: "0",
	}
}

// RewriteOption configures RewriteFormula.
type RewriteOption func(*rewriteOptions)

// WithDefaultSheet sets the sheet of unqualified references. Targets on this
// sheet are written without a sheet prefix.
func WithDefaultSheet(sheet string) RewriteOption {
	return func(o *rewriteOptions) { o.defaultSheet = sheet }
}

// WithDefaultValue sets the text written in place of a reference whose cell
// was removed (default: "0").
func WithDefaultValue(v string) RewriteOption {
	return func(o *rewriteOptions) { o.defaultValue = v }
}

// WithTargetRangeCount sets the number of ranges a reference is expected to
// expand into, letting GroupByRanges pick row runs over column runs.
func WithTargetRangeCount(n int) RewriteOption {
	return func(o *rewriteOptions) { o.targetRangeCount = n }
}
