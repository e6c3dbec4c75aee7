package demo

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/rql"
)

type Person struct {
	Name string
	Age  int
	Team string
}

// example parses a resource query from a request string, compiles it and uses
// the resulting descriptor to drive a SQL query against an in-memory
// database.
func example() error {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE people (name text, age integer, team text)"); err != nil {
		return err
	}
	var people = []Person{
		{"Jim", 30, "engineering"},
		{"Saba", 41, "engineering"},
		{"Dave", 26, "marketing"},
		{"Sophie", 35, "marketing"},
		{"Kiri", 52, "legal"},
	}
	for _, p := range people {
		if _, err := db.Exec("INSERT INTO people (name, age, team) VALUES (?, ?, ?)", p.Name, p.Age, p.Team); err != nil {
			return err
		}
	}

	// The query a client would send: everyone in engineering or over 40,
	// oldest first, at most ten results.
	query := "or(eq(team,engineering),gt(age,40)),sort(-age),limit(10)"

	q, err := rql.Convert(query)
	if err != nil {
		return err
	}
	stmt, params := descriptorToSQL(q)
	rows, err := db.Query(stmt, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.Name, &p.Age, &p.Team); err != nil {
			return err
		}
		fmt.Printf("%s (%s) is %d\n", p.Name, p.Team, p.Age)
	}
	return rows.Err()
}

// descriptorToSQL renders the descriptor shapes used in the demo as a SQL
// SELECT over the people table.
func descriptorToSQL(q *rql.Query) (string, []any) {
	where, params := criteriaToSQL(q.Criteria)
	stmt := "SELECT name, age, team FROM people"
	if where != "" {
		stmt += " WHERE " + where
	}
	if len(q.Sort) > 0 {
		var orders []string
		for _, so := range q.Sort {
			order := so.Field
			if so.Direction < 0 {
				order += " DESC"
			}
			orders = append(orders, order)
		}
		stmt += " ORDER BY " + strings.Join(orders, ", ")
	}
	if q.Limit > 0 || q.Skip > 0 {
		limit := q.Limit
		if limit == 0 {
			limit = -1
		}
		stmt += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Skip)
	}
	return stmt, params
}

func criteriaToSQL(criteria map[string]any) (string, []any) {
	var conds []string
	var params []any
	fields := make([]string, 0, len(criteria))
	for field := range criteria {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		value := criteria[field]
		if field == "$or" {
			var alts []string
			for _, branch := range value.([]map[string]any) {
				clause, branchParams := criteriaToSQL(branch)
				alts = append(alts, "("+clause+")")
				params = append(params, branchParams...)
			}
			conds = append(conds, "("+strings.Join(alts, " OR ")+")")
			continue
		}
		if constraint, ok := value.(map[string]any); ok {
			ops := map[string]string{"$ne": "<>", "$lt": "<", "$lte": "<=", "$gt": ">", "$gte": ">="}
			tags := make([]string, 0, len(constraint))
			for tag := range constraint {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				conds = append(conds, field+" "+ops[tag]+" ?")
				params = append(params, constraint[tag])
			}
			continue
		}
		conds = append(conds, field+" = ?")
		params = append(params, value)
	}
	return strings.Join(conds, " AND "), params
}
