package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const restPrefix = "/rest/v1/"

// Query builds a table API request. Filters accumulate; the terminal methods
// (Execute, Insert, Update, Delete) send it.
type Query struct {
	client *Client
	table  string
	params url.Values
	single bool
}

func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *Query) Gte(column, value string) *Query {
	q.params.Add(column, "gte."+value)
	return q
}

// Is filters on null/true/false.
func (q *Query) Is(column, value string) *Query {
	q.params.Add(column, "is."+value)
	return q
}

// Or joins filters built with EqFilter or InFilter.
func (q *Query) Or(filters ...string) *Query {
	q.params.Add("or", "("+strings.Join(filters, ",")+")")
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Add("order", column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	if n > 0 {
		q.params.Set("limit", strconv.Itoa(n))
	}
	return q
}

// Single expects exactly one row; zero rows surface as ErrNoRows.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func EqFilter(column, value string) string {
	return column + ".eq." + value
}

func InFilter(column string, values ...string) string {
	return column + ".in.(" + strings.Join(values, ",") + ")"
}

func (q *Query) path() string {
	return restPrefix + q.table
}

func (q *Query) header(prefer string) http.Header {
	h := http.Header{}
	if q.single {
		h.Set("Accept", "application/vnd.pgrst.object+json")
	}
	if prefer != "" {
		h.Set("Prefer", prefer)
	}
	return h
}

func (q *Query) Execute(ctx context.Context, out any) error {
	return q.client.DoJSON(ctx, http.MethodGet, q.path(), q.params, q.header(""), nil, out)
}

// Insert posts rows and decodes the stored representation into out.
func (q *Query) Insert(ctx context.Context, rows any, out any) error {
	prefer := "return=minimal"
	if out != nil {
		prefer = "return=representation"
	}
	return q.client.DoJSON(ctx, http.MethodPost, q.path(), q.params, q.header(prefer), rows, out)
}

// Update patches every row matching the filters. With a non-nil out the
// updated rows are returned, which lets callers detect a zero-row update.
func (q *Query) Update(ctx context.Context, patch any, out any) error {
	prefer := "return=minimal"
	if out != nil {
		prefer = "return=representation"
	}
	return q.client.DoJSON(ctx, http.MethodPatch, q.path(), q.params, q.header(prefer), patch, out)
}

func (q *Query) Delete(ctx context.Context) error {
	return q.client.DoJSON(ctx, http.MethodDelete, q.path(), q.params, q.header("return=minimal"), nil, nil)
}
