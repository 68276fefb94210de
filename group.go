package xlref

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// GroupData represents a group of items sharing a common key value.
// In a template ${g.Item.Department} reads the key, ${g.Items} iterates members.
type GroupData struct {
	Item  any   // the first item in the group
	Items []any // all items in this group, in input order
}

// groupKeyNull stands in for items whose group property is missing.
const groupKeyNull = "null"

type groupOptions struct {
	accessor Accessor
	logger   *slog.Logger
}

// GroupOption configures GroupCollection.
type GroupOption func(*groupOptions)

// WithAccessor sets how the group property is read (default GetProperty).
func WithAccessor(a Accessor) GroupOption {
	return func(o *groupOptions) { o.accessor = a }
}

// WithLogger sets the logger for property read failures (default slog.Default()).
func WithLogger(l *slog.Logger) GroupOption {
	return func(o *groupOptions) { o.logger = l }
}

// GroupCollection groups items by the value of property.
//
// With an empty order groups appear in first-occurrence order. Any other
// order sorts the keys ascending; "desc" in the order sorts descending and
// "ignorecase" (or "ignore_case") compares keys case-insensitively.
func GroupCollection(items []any, property, order string, opts ...GroupOption) []GroupData {
	if len(items) == 0 {
		return []GroupData{}
	}
	o := &groupOptions{}
	for _, opt := range opts {
		opt(o)
	}

	type groupEntry struct {
		key   any
		items []any
	}
	var groups []groupEntry
	keyIndex := map[string]int{} // groupKeyID → index

	for _, item := range items {
		key := GetPropertyOrNil(item, property, o.accessor, o.logger)
		if key == nil {
			key = groupKeyNull
		}
		id := groupKeyID(key)
		if idx, ok := keyIndex[id]; ok {
			groups[idx].items = append(groups[idx].items, item)
			continue
		}
		keyIndex[id] = len(groups)
		groups = append(groups, groupEntry{key: key, items: []any{item}})
	}

	if order != "" {
		upper := strings.ToUpper(order)
		desc := strings.Contains(upper, "DESC")
		ignoreCase := strings.Contains(upper, "IGNORECASE") || strings.Contains(upper, "IGNORE_CASE")
		slices.SortStableFunc(groups, func(a, b groupEntry) int {
			return compareGroupKeys(a.key, b.key, desc, ignoreCase)
		})
	}

	result := make([]GroupData, len(groups))
	for i, g := range groups {
		result[i] = GroupData{Item: g.items[0], Items: g.items}
	}
	return result
}

// groupKeyID identifies a key by its dynamic type and value, so 1 and "1"
// form separate groups.
func groupKeyID(key any) string {
	return fmt.Sprintf("%T\x00%v", key, key)
}

// compareGroupKeys compares two group keys for sorting.
func compareGroupKeys(a, b any, desc, ignoreCase bool) int {
	var cmp int
	if ignoreCase {
		cmp = strings.Compare(
			strings.ToLower(fmt.Sprintf("%v", a)),
			strings.ToLower(fmt.Sprintf("%v", b)),
		)
	} else {
		cmp = compareValues(a, b)
	}
	if desc {
		cmp = -cmp
	}
	return cmp
}

// compareValues compares numerically when both values are numbers and by
// their string form otherwise.
func compareValues(a, b any) int {
	fa, aOk := toFloat64(a)
	fb, bOk := toFloat64(b)
	if aOk && bOk {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
