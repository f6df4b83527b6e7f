// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default and maximum page sizes for list endpoints.
const (
	PageSize    = 50
	MaxPageSize = 200
)

// ParseLimit reads the "limit" query parameter, falling back to PageSize and
// capping at MaxPageSize.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // Default: sort ascending, use "gt" for cursor
	Backward                  // Sort descending, use "lt" for cursor
)

// Keyset describes one page request over a (sort key, _id) ordering.
type Keyset struct {
	Direction Direction
	SortOrder int // 1 for ascending, -1 for descending
	Cursor    *wafflemongo.Cursor
	Size      int
}

// ConfigureKeyset determines pagination direction and decodes the cursor.
// before wins when both are given. An undecodable cursor means first page.
func ConfigureKeyset(before, after string, size int) Keyset {
	if size < 1 {
		size = PageSize
	}
	k := Keyset{Direction: Forward, SortOrder: 1, Size: size}

	if before != "" {
		k.Direction = Backward
		k.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			k.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			k.Cursor = &c
		}
	}
	return k
}

// FromRequest builds a Keyset from the before, after and limit query params.
func FromRequest(r *http.Request) Keyset {
	return ConfigureKeyset(query.Get(r, "before"), query.Get(r, "after"), ParseLimit(r))
}

// ApplyToFind sets sort and a look-ahead limit of Size+1.
func (k Keyset) ApplyToFind(find *options.FindOptions, sortField string) *options.FindOptions {
	return find.SetSort(bson.D{
		{Key: sortField, Value: k.SortOrder},
		{Key: "_id", Value: k.SortOrder},
	}).SetLimit(int64(k.Size + 1))
}

// Window returns the cursor condition for the query filter, or nil on the
// first page.
func (k Keyset) Window(sortField string) bson.M {
	if k.Cursor == nil {
		return nil
	}
	dir := "gt"
	if k.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, k.Cursor.CI, k.Cursor.ID)
}

// Result reports whether neighbouring pages exist.
type Result struct {
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// Trim cuts a look-ahead fetch of Size+1 rows down to one page and puts
// backward pages back into ascending order.
func Trim[T any](rows *[]T, k Keyset) Result {
	var res Result
	if k.Direction == Backward {
		if len(*rows) > k.Size {
			*rows = (*rows)[:k.Size]
			res.HasPrev = true
		}
		Reverse(*rows)
		res.HasNext = true
		return res
	}
	if len(*rows) > k.Size {
		*rows = (*rows)[:k.Size]
		res.HasNext = true
	}
	res.HasPrev = k.Cursor != nil
	return res
}

// Reverse reverses a slice in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last rows.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}
