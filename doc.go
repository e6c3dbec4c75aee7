/*
Package rql parses compact resource query expressions and compiles them into
structured query descriptors for a document store.

An RQL query is a tree of operator calls of the form name(args...). The
package turns the text into an operator tree, checks the tree against the
operator grammar, and lowers it into a descriptor holding filter criteria,
sort order, projection, a result window and pagination cursors.

# Basics

A query combines comparison operators on fields with logical operators:

	and(eq(status,active),gt(age,30))

The comma and ampersand separators are implicit "and", the pipe is implicit
"or", with "and" binding tighter:

	eq(status,active)&gt(age,30)
	eq(status,active)|eq(status,pending)

Comparators may also be written infix; the shorthand is rewritten to call
form before parsing:

	age>=30            becomes  ge(age,30)
	status=active      becomes  eq(status,active)

Compiling the tree produces a Query:

	q, err := rql.Convert("and(gt(age,30),lt(age,40)),sort(-age),limit(10)")
	// q.Criteria == map[string]any{"age": map[string]any{"$gt": 30, "$lt": 40}}
	// q.Sort == []rql.SortOrder{{Field: "age", Direction: -1}}
	// q.Limit == 10

# Operators

The grammar is closed. Comparison operators take a field path and a value:
eq, ne, lt, le, gt, ge, and the set operators in and out whose value is a
parenthesised list:

	in(status,(active,pending))

Logical operators take operator arguments: and, or. The remaining operators
shape the result set: sort and select take signed field names (a leading -
means descending or excluded), limit takes a count and an optional skip, and
after and before carry opaque pagination cursors.

# Values

Argument values decode automatically: true, false, null and numbers become
typed values, anything else a percent-decoded string. An explicit type
prefix forces a conversion:

	number:10  string:true  boolean:false  date:2023-01-02  epoch:0
	isodate:2023  re:^fred  RE:^Fred  json:%5B1%2C2%5D

A value that must not be auto-converted can also be wrapped in a
percent-encoded single-quote pair: eq(version,%272%27) compares against the
string "2". A plain quote pair is consumed by the tokenizer instead, so
eq(version,'2') still compares against the number 2.

# Errors

Parse returns a *ParseError for malformed text. Validate and Compile return
a *ValidationError for trees that break the grammar and Compile returns a
*ConflictError when one field receives both an exact match and a range or
set constraint. All errors are terminal; nothing is retried and no partial
descriptor is returned.
*/
package rql
