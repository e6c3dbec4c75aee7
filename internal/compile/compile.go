// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package compile

import (
	"fmt"
	"strings"

	"github.com/canonical/rql/internal/expr"
)

// idField is the identifier field a projection may exclude while including
// other fields.
const idField = "_id"

// rangeTags maps the range comparison operators to document store criteria
// tags. Exact matches (eq) are stored as plain values instead.
var rangeTags = map[string]string{
	"ne": "$ne",
	"le": "$lte",
	"lt": "$lt",
	"gt": "$gt",
	"ge": "$gte",
}

// setTags maps the set membership operators to criteria tags.
var setTags = map[string]string{
	"in":  "$in",
	"out": "$nin",
}

// Compile validates the tree rooted at node and lowers it into a Query
// descriptor. It returns a ValidationError or ConflictError on failure, never
// a partial Query.
func Compile(node *expr.Node) (*Query, error) {
	if _, err := Validate(node); err != nil {
		return nil, err
	}
	q := &Query{Criteria: map[string]any{}, Projection: map[string]int{}}
	if err := q.compileNode(node, q.Criteria); err != nil {
		return nil, err
	}
	return q, nil
}

// compileNode dispatches one operator into the descriptor. criteria is the
// mapping the node's constraints merge into: the descriptor's own criteria at
// the top level and inside and groups, or a fresh branch mapping inside an or
// group. Passing the target mapping explicitly keeps branches from aliasing
// each other.
func (q *Query) compileNode(node *expr.Node, criteria map[string]any) error {
	name := strings.ToLower(node.Name)
	switch {
	case name == "eq":
		field, value, err := comparisonArgs(name, node.Args)
		if err != nil {
			return err
		}
		if _, isConstraint := criteria[field].(map[string]any); isConstraint {
			return &ConflictError{Field: field}
		}
		criteria[field] = value
	case rangeTags[name] != "":
		field, value, err := comparisonArgs(name, node.Args)
		if err != nil {
			return err
		}
		return mergeConstraint(criteria, field, rangeTags[name], value)
	case setTags[name] != "":
		field, value, err := comparisonArgs(name, node.Args)
		if err != nil {
			return err
		}
		list, ok := value.([]any)
		if !ok {
			list = []any{value}
		}
		return mergeConstraint(criteria, field, setTags[name], list)
	case name == "and":
		// Sibling constraints merge field by field into the same mapping.
		for _, arg := range node.Args {
			if err := q.compileNode(arg.(*expr.Node), criteria); err != nil {
				return err
			}
		}
	case name == "or":
		branches, _ := criteria["$or"].([]map[string]any)
		for _, arg := range node.Args {
			branch := map[string]any{}
			if err := q.compileNode(arg.(*expr.Node), branch); err != nil {
				return err
			}
			branches = append(branches, branch)
		}
		criteria["$or"] = branches
	case name == "sort":
		for _, arg := range node.Args {
			field, sign := splitSign(arg.(string))
			q.setSort(field, sign)
		}
	case name == "select":
		for _, arg := range node.Args {
			field, sign := splitSign(arg.(string))
			flag := 1
			if sign < 0 {
				flag = 0
			}
			q.Projection[field] = flag
		}
		return checkProjection(q.Projection)
	case name == "limit":
		q.Limit = toInt64(node.Args[0])
		if len(node.Args) > 1 {
			q.Skip = toInt64(node.Args[1])
		}
	case name == "after":
		q.After = node.Args[0].(string)
	case name == "before":
		q.Before = node.Args[0].(string)
	default:
		// Unreachable after validation.
		return fmt.Errorf("internal error: cannot compile operator %q", node.Name)
	}
	return nil
}

// comparisonArgs reads the field path and comparison value of a comparison
// operator.
func comparisonArgs(name string, args []any) (string, any, error) {
	if len(args) < 2 {
		return "", nil, validationErrorf("%s: expects a field and a value", name)
	}
	field, ok := args[0].(string)
	if !ok {
		field = fmt.Sprint(args[0])
	}
	if field == "" {
		return "", nil, validationErrorf("%s: empty field path", name)
	}
	return field, args[1], nil
}

// mergeConstraint merges a tagged constraint into the field's constraint
// mapping, creating it if absent. A field already holding a plain value was
// constrained by eq, which is exclusive with tagged constraints.
func mergeConstraint(criteria map[string]any, field, tag string, value any) error {
	existing, present := criteria[field]
	if !present {
		criteria[field] = map[string]any{tag: value}
		return nil
	}
	constraint, ok := existing.(map[string]any)
	if !ok {
		return &ConflictError{Field: field}
	}
	constraint[tag] = value
	return nil
}

// splitSign strips a leading + or - from a sort or select field. No sign
// means ascending (or inclusion).
func splitSign(field string) (string, int) {
	switch {
	case strings.HasPrefix(field, "-"):
		return field[1:], -1
	case strings.HasPrefix(field, "+"):
		return field[1:], 1
	}
	return field, 1
}

// setSort records a sort field. A field sorted on twice keeps its original
// position with the direction overwritten.
func (q *Query) setSort(field string, direction int) {
	for i := range q.Sort {
		if q.Sort[i].Field == field {
			q.Sort[i].Direction = direction
			return
		}
	}
	q.Sort = append(q.Sort, SortOrder{Field: field, Direction: direction})
}

// checkProjection enforces that inclusions and exclusions do not mix, except
// to drop the identifier field from an inclusion projection.
func checkProjection(projection map[string]int) error {
	included := false
	for _, flag := range projection {
		if flag == 1 {
			included = true
			break
		}
	}
	if !included {
		return nil
	}
	for field, flag := range projection {
		if flag == 0 && field != idField {
			return validationErrorf("select: cannot mix inclusion with exclusion of %q", field)
		}
	}
	return nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
