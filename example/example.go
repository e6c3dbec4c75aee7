package example

import (
	"errors"
	"fmt"

	"github.com/canonical/rql"
)

func example() {
	// Shorthand comparisons and function calls mix freely.
	node := rql.MustParse("age>=30&eq(team,engineering),sort(-age,+name),limit(25)")
	fmt.Println(node)

	q, err := rql.Compile(node)
	if err != nil {
		panic(err)
	}
	fmt.Println("criteria:", q.Criteria)
	for _, so := range q.Sort {
		fmt.Println("sort:", so.Field, so.Direction)
	}
	fmt.Println("limit:", q.Limit)

	// Trees can also be built or extended programmatically.
	node = node.Append(&rql.Node{Name: "after", Args: []any{"person-0042"}})
	q, err = rql.Compile(node)
	if err != nil {
		panic(err)
	}
	fmt.Println("after:", q.After)

	// The three error kinds are distinguishable with errors.As.
	_, err = rql.Parse("eq(a,(1")
	var parseErr *rql.ParseError
	if errors.As(err, &parseErr) {
		fmt.Println("parse error:", parseErr)
	}
	_, err = rql.Convert("and(lt(age,10),eq(age,5))")
	var conflictErr *rql.ConflictError
	if errors.As(err, &conflictErr) {
		fmt.Println("conflicting field:", conflictErr.Field)
	}
}
