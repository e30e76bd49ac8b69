package table

import "strings"

// Field extracts a searchable string from a row; nullable fields return ""
type Field[T any] func(T) string

// Filter keeps the rows where any field contains query, ignoring case.
// An empty query keeps every row. The result is always a new slice.
func Filter[T any](rows []T, query string, fields ...Field[T]) []T {
	out := make([]T, 0, len(rows))
	if query == "" {
		return append(out, rows...)
	}

	q := strings.ToLower(query)
	for _, row := range rows {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(row)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
