package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds a request against one table of the relational store.
// Filters are ANDed.
type Query struct {
	c      *Client
	table  string
	params url.Values
	single bool
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select sets the returned columns, including embedded resources such as
// "*, company:companies(*)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) filter(column, op, value string) *Query {
	q.params.Add(column, op+"."+value)
	return q
}

// Eq filters column = value.
func (q *Query) Eq(column, value string) *Query { return q.filter(column, "eq", value) }

// Neq filters column <> value.
func (q *Query) Neq(column, value string) *Query { return q.filter(column, "neq", value) }

// Lt filters column < value.
func (q *Query) Lt(column, value string) *Query { return q.filter(column, "lt", value) }

// In filters column to any of values.
func (q *Query) In(column string, values []string) *Query {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return q.filter(column, "in", "("+strings.Join(quoted, ",")+")")
}

// Is filters column IS value, where value is null, true or false.
func (q *Query) Is(column, value string) *Query { return q.filter(column, "is", value) }

// Order sorts by column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Add("order", column+"."+dir)
	return q
}

// Limit caps the number of rows returned.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single expects exactly one row. Zero rows yield an error wrapping
// secondary.ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) op(verb string) string {
	return q.table + "_" + verb
}

func (q *Query) headers(prefer string) http.Header {
	h := http.Header{}
	if prefer != "" {
		h.Set("Prefer", prefer)
	}
	if q.single {
		h.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return h
}

// Execute runs a select and decodes the rows (or the single row) into out.
func (q *Query) Execute(ctx context.Context, out any) error {
	resp, err := q.c.do(ctx, request{
		op:      q.op("select"),
		method:  http.MethodGet,
		path:    restPrefix + q.table,
		query:   q.params,
		headers: q.headers(""),
	})
	if err != nil {
		return err
	}
	return resp.decode(out)
}

// Insert posts row and decodes the stored representation into out.
func (q *Query) Insert(ctx context.Context, row any, out any) error {
	resp, err := q.c.do(ctx, request{
		op:      q.op("insert"),
		method:  http.MethodPost,
		path:    restPrefix + q.table,
		query:   q.params,
		headers: q.headers("return=representation"),
		body:    row,
	})
	if err != nil {
		return err
	}
	return resp.decode(out)
}

// Update patches every row matching the filters and returns how many rows
// changed. The updated rows are decoded into out when it is non-nil.
func (q *Query) Update(ctx context.Context, patch any, out any) (int, error) {
	resp, err := q.c.do(ctx, request{
		op:      q.op("update"),
		method:  http.MethodPatch,
		path:    restPrefix + q.table,
		query:   q.params,
		headers: q.headers("return=representation"),
		body:    patch,
	})
	if err != nil {
		return 0, err
	}
	return resp.rows(out)
}

// Delete removes every row matching the filters and returns how many rows
// were removed.
func (q *Query) Delete(ctx context.Context) (int, error) {
	resp, err := q.c.do(ctx, request{
		op:      q.op("delete"),
		method:  http.MethodDelete,
		path:    restPrefix + q.table,
		query:   q.params,
		headers: q.headers("return=representation"),
	})
	if err != nil {
		return 0, err
	}
	return resp.rows(nil)
}

// Count returns the exact number of rows matching the filters without
// fetching them.
func (q *Query) Count(ctx context.Context) (int, error) {
	if q.params.Get("select") == "" {
		q.params.Set("select", "*")
	}
	resp, err := q.c.do(ctx, request{
		op:      q.op("count"),
		method:  http.MethodHead,
		path:    restPrefix + q.table,
		query:   q.params,
		headers: q.headers("count=exact"),
	})
	if err != nil {
		return 0, err
	}
	return parseContentRange(resp.header.Get("Content-Range"))
}

// rows counts the returned representation and decodes it into out.
func (r *response) rows(out any) (int, error) {
	var raw []json.RawMessage
	if err := r.decode(&raw); err != nil {
		return 0, err
	}
	if out != nil {
		if err := r.decode(out); err != nil {
			return 0, err
		}
	}
	return len(raw), nil
}

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(header string) (int, error) {
	i := strings.LastIndex(header, "/")
	if i < 0 {
		return 0, fmt.Errorf("missing count in content range %q", header)
	}
	total := header[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("backend did not return an exact count: %q", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("invalid content range %q: %w", header, err)
	}
	return n, nil
}
