package session

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/filter"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Criteria select the people a filtered view keeps. All non-empty criteria
// must hold; the zero value keeps everyone.
type Criteria struct {
	// Department is a case-insensitive substring of the department.
	Department string

	// Fields maps payload keys to case-insensitive substrings.
	Fields map[string]string
}

// IsZero reports whether c keeps every node.
func (c Criteria) IsZero() bool {
	if strings.TrimSpace(c.Department) != "" {
		return false
	}
	for _, v := range c.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Predicate returns the filter predicate for c.
func (c Criteria) Predicate() filter.Predicate {
	preds := []filter.Predicate{filter.Department(c.Department)}
	for _, k := range slices.Sorted(maps.Keys(c.Fields)) {
		preds = append(preds, filter.Field(k, c.Fields[k]))
	}
	return filter.All(preds...)
}

// String formats c in the syntax accepted by [ParseCriteria].
func (c Criteria) String() string {
	var parts []string
	if c.Department != "" {
		parts = append(parts, hierarchy.KeyDepartment+"="+c.Department)
	}
	for _, k := range slices.Sorted(maps.Keys(c.Fields)) {
		parts = append(parts, k+"="+c.Fields[k])
	}
	return strings.Join(parts, ",")
}

// ParseCriteria parses "key=value" pairs separated by commas. A bare value
// without "=" filters by department:
//
//	"eng"                        department contains "eng"
//	"department=eng,title=lead"  both must hold
func ParseCriteria(s string) (Criteria, error) {
	var c Criteria
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			key, value = hierarchy.KeyDepartment, part
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch {
		case key == "":
			return Criteria{}, errors.New(errors.ErrCodeInvalidParameter, "filter %q has no field name", part)
		case key == hierarchy.KeyChildren:
			return Criteria{}, errors.New(errors.ErrCodeInvalidParameter, "cannot filter on %q", key)
		case key == hierarchy.KeyDepartment:
			c.Department = value
		default:
			if c.Fields == nil {
				c.Fields = map[string]string{}
			}
			c.Fields[key] = value
		}
	}
	return c, nil
}
