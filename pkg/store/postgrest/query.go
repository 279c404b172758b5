package postgrest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query is a read against one collection of the table backend. Relations are
// expanded through the select list, e.g. `customer:customer(custname)`.
type Query struct {
	table   string
	columns []string
	filters []filter
	orders  []order
	limit   int
}

type filter struct {
	field string
	value string
}

type order struct {
	field     string
	ascending bool
}

func From(table string) *Query {
	return &Query{table: table}
}

func (q *Query) Select(columns ...string) *Query {
	q.columns = append(q.columns, columns...)
	return q
}

func (q *Query) Eq(field, value string) *Query {
	q.filters = append(q.filters, filter{field: field, value: value})
	return q
}

func (q *Query) Order(field string, ascending bool) *Query {
	q.orders = append(q.orders, order{field: field, ascending: ascending})
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) Table() string {
	return q.table
}

// Values encodes the query in the PostgREST URL dialect.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if len(q.columns) == 0 {
		v.Set("select", "*")
	} else {
		v.Set("select", strings.Join(q.columns, ","))
	}
	for _, f := range q.filters {
		v.Add(f.field, "eq."+f.value)
	}
	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders))
		for _, o := range q.orders {
			dir := "desc"
			if o.ascending {
				dir = "asc"
			}
			parts = append(parts, fmt.Sprintf("%s.%s", o.field, dir))
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	return v
}
