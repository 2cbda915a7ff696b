// Package cypher is a small query IR: an ordered clause list plus a parameter
// bag, rendered to a Cypher string only when it is handed to the store.
package cypher

import (
	"strconv"
	"strings"
)

// Query is a clause list with its parameters. The zero value is usable.
type Query struct {
	clauses []clause
	params  map[string]any
}

type clause struct {
	keyword string
	body    string
	sub     *Query
}

// New returns an empty query.
func New() *Query { return &Query{} }

func (q *Query) add(keyword, body string) *Query {
	q.clauses = append(q.clauses, clause{keyword: keyword, body: body})
	return q
}

// Param binds value under name and returns the placeholder to use in clauses.
func (q *Query) Param(name string, value any) string {
	if q.params == nil {
		q.params = make(map[string]any)
	}
	q.params[name] = value
	return "$" + name
}

// Params returns the bound parameters, including those of subqueries.
func (q *Query) Params() map[string]any {
	out := make(map[string]any, len(q.params))
	q.collect(out)
	return out
}

func (q *Query) collect(into map[string]any) {
	for k, v := range q.params {
		into[k] = v
	}
	for _, c := range q.clauses {
		if c.sub != nil {
			c.sub.collect(into)
		}
	}
}

func (q *Query) Match(pattern string) *Query         { return q.add("MATCH", pattern) }
func (q *Query) OptionalMatch(pattern string) *Query { return q.add("OPTIONAL MATCH", pattern) }
func (q *Query) Merge(pattern string) *Query         { return q.add("MERGE", pattern) }
func (q *Query) Create(pattern string) *Query        { return q.add("CREATE", pattern) }
func (q *Query) Where(cond string) *Query            { return q.add("WHERE", cond) }
func (q *Query) OnCreateSet(items ...string) *Query {
	return q.add("ON CREATE SET", strings.Join(items, ", "))
}
func (q *Query) Set(items ...string) *Query { return q.add("SET", strings.Join(items, ", ")) }
func (q *Query) Delete(vars ...string) *Query { return q.add("DELETE", strings.Join(vars, ", ")) }
func (q *Query) DetachDelete(vars ...string) *Query {
	return q.add("DETACH DELETE", strings.Join(vars, ", "))
}
func (q *Query) With(items ...string) *Query   { return q.add("WITH", strings.Join(items, ", ")) }
func (q *Query) Return(items ...string) *Query { return q.add("RETURN", strings.Join(items, ", ")) }
func (q *Query) OrderBy(items ...string) *Query {
	return q.add("ORDER BY", strings.Join(items, ", "))
}
func (q *Query) Skip(n int) *Query  { return q.add("SKIP", strconv.Itoa(n)) }
func (q *Query) Limit(n int) *Query { return q.add("LIMIT", strconv.Itoa(n)) }

// Unwind expands list as alias.
func (q *Query) Unwind(list, alias string) *Query {
	return q.add("UNWIND", list+" AS "+alias)
}

// Call appends a unit or returning subquery. Its parameters are merged into
// the outer query when rendered.
func (q *Query) Call(sub *Query) *Query {
	q.clauses = append(q.clauses, clause{keyword: "CALL", sub: sub})
	return q
}

// Render returns the Cypher text and the parameter bag.
func (q *Query) Render() (string, map[string]any) {
	var b strings.Builder
	q.write(&b, "")
	return b.String(), q.Params()
}

// String renders only the Cypher text.
func (q *Query) String() string {
	s, _ := q.Render()
	return s
}

func (q *Query) write(b *strings.Builder, indent string) {
	for i, c := range q.clauses {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		switch {
		case c.sub != nil:
			b.WriteString("CALL {\n")
			c.sub.write(b, indent+"  ")
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString("}")
		default:
			b.WriteString(c.keyword)
			if c.body != "" {
				b.WriteByte(' ')
				b.WriteString(c.body)
			}
		}
	}
}

// Map renders an ordered map projection, for RETURN and collect() rows.
// pairs alternate key, expression.
func Map(pairs ...string) string {
	if len(pairs)%2 != 0 {
		panic("cypher: Map needs key/expression pairs")
	}
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, pairs[i]+": "+pairs[i+1])
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
