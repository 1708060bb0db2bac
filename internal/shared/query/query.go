// Package query translates raw request parameters into bounded,
// deterministic SQL queries: a WHERE predicate built from arbitrary
// filter parameters, an ORDER BY clause, and a LIMIT/OFFSET window,
// together with the pagination descriptor for the response envelope.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrInvalidField is returned when a filter or sort key cannot be used as
// a column identifier. Callers surface it as a validation error.
var ErrInvalidField = errors.New("invalid query field")

// Control parameters stripped before filter interpretation.
var reservedParams = map[string]struct{}{
	"page":  {},
	"limit": {},
	"sort":  {},
}

// Comparison operators encoded as key suffixes: publishedYear[gte]=2000.
// A bare key is an equality filter.
var operators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"ne":  "<>",
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Plan is one bounded store query. Where and Args double as the parallel
// count query over the same filter, unbounded by the window.
type Plan struct {
	Where   string
	Args    []interface{}
	OrderBy string
	Page    int
	Limit   int
	Offset  int
}

// PageRef points at an adjacent page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes adjacent page availability.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Build composes the filter predicate, sort order and pagination window
// from raw query parameters. columns maps exposed field names to column
// names; unknown keys fall back to their snake_case form so the store can
// accept or reject them against its own schema.
func Build(params url.Values, columns map[string]string) (*Plan, error) {
	where, args, err := buildFilter(params, columns)
	if err != nil {
		return nil, err
	}

	orderBy, err := buildOrder(params.Get("sort"), columns)
	if err != nil {
		return nil, err
	}

	page, limit := ParsePage(params)

	return &Plan{
		Where:   where,
		Args:    args,
		OrderBy: orderBy,
		Page:    page,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}, nil
}

// ParsePage reads page and limit with defaults. Malformed or non-positive
// values fall back to the defaults rather than erroring.
func ParsePage(params url.Values) (page, limit int) {
	page = DefaultPage
	if v, err := strconv.Atoi(params.Get("page")); err == nil && v > 0 {
		page = v
	}

	limit = DefaultLimit
	if v, err := strconv.Atoi(params.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	return page, limit
}

// NewPagination builds the {next?, prev?} descriptor for a result window.
func NewPagination(page, limit, total int) Pagination {
	var p Pagination

	if page*limit < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if (page-1)*limit > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}

	return p
}

// buildFilter converts every non-reserved parameter into a predicate.
// Keys are processed in sorted order so the generated SQL is stable.
func buildFilter(params url.Values, columns map[string]string) (string, []interface{}, error) {
	keys := make([]string, 0, len(params))
	for key := range params {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var conds []string
	var args []interface{}

	for _, key := range keys {
		field, op := splitOperator(key)

		column, err := ResolveColumn(field, columns)
		if err != nil {
			return "", nil, err
		}

		for _, value := range params[key] {
			if op == "in" {
				items := strings.Split(value, ",")
				placeholders := make([]string, len(items))
				for i, item := range items {
					args = append(args, strings.TrimSpace(item))
					placeholders[i] = fmt.Sprintf("$%d", len(args))
				}
				conds = append(conds, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
				continue
			}

			sqlOp := "="
			if op != "" {
				sqlOp = operators[op]
			}
			args = append(args, value)
			conds = append(conds, fmt.Sprintf("%s %s $%d", column, sqlOp, len(args)))
		}
	}

	return strings.Join(conds, " AND "), args, nil
}

// buildOrder parses the sort parameter: comma-separated fields, "-" prefix
// for descending. Defaults to newest first.
func buildOrder(sortParam string, columns map[string]string) (string, error) {
	if strings.TrimSpace(sortParam) == "" {
		sortParam = "-createdAt"
	}

	var clauses []string
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			direction = "DESC"
			field = field[1:]
		}

		column, err := ResolveColumn(field, columns)
		if err != nil {
			return "", err
		}

		clauses = append(clauses, column+" "+direction)
	}

	if len(clauses) == 0 {
		return "created_at DESC", nil
	}

	return strings.Join(clauses, ", "), nil
}

// splitOperator separates "publishedYear[gte]" into field and operator.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}

	candidate := key[open+1 : len(key)-1]
	if candidate == "in" {
		return key[:open], "in"
	}
	if _, ok := operators[candidate]; ok {
		return key[:open], candidate
	}

	return key, ""
}

// ResolveColumn maps an exposed field name to its column. Unmapped names
// pass through as snake_case so the store decides against its own schema,
// but anything that is not a plain identifier is rejected outright.
func ResolveColumn(field string, columns map[string]string) (string, error) {
	if column, ok := columns[field]; ok {
		return column, nil
	}

	column := toSnakeCase(field)
	if !identPattern.MatchString(column) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	return column, nil
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
