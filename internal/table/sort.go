package table

import (
	"sort"
)

// Direction of a column sort
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the active sort of a table
type Sort struct {
	Key       string
	Direction Direction
}

// ParseSort builds a sort from request parameters. An empty key means the
// table is unsorted; any direction other than desc is ascending.
func ParseSort(key, direction string) *Sort {
	if key == "" {
		return nil
	}
	if Direction(direction) == Desc {
		return &Sort{Key: key, Direction: Desc}
	}
	return &Sort{Key: key, Direction: Asc}
}

// Toggle returns the sort after a click on column key. Clicking the column
// that is currently ascending flips it to descending; every other click sorts
// ascending. There is no way back to unsorted.
func Toggle(current *Sort, key string) Sort {
	if current != nil && current.Key == key && current.Direction == Asc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// Columns maps sortable column keys to their cell extractor
type Columns[T any] map[string]func(T) Value

// Sorted returns a sorted copy of rows; rows itself is never reordered.
// Descending inverts the comparator as a whole, so null cells come last
// ascending and first descending. A nil sort or unknown key keeps the
// original order.
func Sorted[T any](rows []T, columns Columns[T], s *Sort) []T {
	out := make([]T, len(rows))
	copy(out, rows)

	if s == nil {
		return out
	}
	cell, ok := columns[s.Key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(cell(out[i]), cell(out[j]))
		if s.Direction == Desc {
			c = -c
		}
		return c < 0
	})
	return out
}
