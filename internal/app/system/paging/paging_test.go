package paging

import (
	"net/http/httptest"
	"testing"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cursorAt(key string) string {
	return wafflemongo.EncodeCursor(key, primitive.NewObjectID())
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", PageSize},
		{"limit=10", 10},
		{"limit=0", PageSize},
		{"limit=-3", PageSize},
		{"limit=abc", PageSize},
		{"limit=1000", MaxPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/x?"+tt.query, nil)
		if got := ParseLimit(r); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestTrim(t *testing.T) {
	cursor := ConfigureKeyset("", cursorAt("m"), 3)

	tests := []struct {
		name     string
		rows     []int
		k        Keyset
		want     []int
		wantPrev bool
		wantNext bool
	}{
		{"first page, more exist", []int{1, 2, 3, 4}, ConfigureKeyset("", "", 3), []int{1, 2, 3}, false, true},
		{"first page, exact", []int{1, 2, 3}, ConfigureKeyset("", "", 3), []int{1, 2, 3}, false, false},
		{"forward after cursor", []int{5, 6}, cursor, []int{5, 6}, true, false},
		{"backward, more exist", []int{9, 8, 7, 6}, ConfigureKeyset(cursorAt("z"), "", 3), []int{7, 8, 9}, true, true},
		{"backward, start reached", []int{2, 1}, ConfigureKeyset(cursorAt("c"), "", 3), []int{1, 2}, false, true},
		{"empty", []int{}, ConfigureKeyset("", "", 3), []int{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := append([]int(nil), tt.rows...)
			res := Trim(&rows, tt.k)
			if len(rows) != len(tt.want) {
				t.Fatalf("rows: got %v, want %v", rows, tt.want)
			}
			for i := range rows {
				if rows[i] != tt.want[i] {
					t.Fatalf("rows: got %v, want %v", rows, tt.want)
				}
			}
			if res.HasPrev != tt.wantPrev || res.HasNext != tt.wantNext {
				t.Errorf("result: got %+v, want prev=%v next=%v", res, tt.wantPrev, tt.wantNext)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	if w := ConfigureKeyset("", "", 0).Window("name_ci"); w != nil {
		t.Errorf("first page window: got %v, want nil", w)
	}
	if w := ConfigureKeyset("", cursorAt("m"), 0).Window("name_ci"); w == nil {
		t.Error("after-cursor window: got nil")
	}
}

func TestConfigureKeyset(t *testing.T) {
	tests := []struct {
		name      string
		before    string
		after     string
		wantDir   Direction
		wantOrder int
	}{
		{
			name:      "no cursors (first page)",
			before:    "",
			after:     "",
			wantDir:   Forward,
			wantOrder: 1,
		},
		{
			name:      "after cursor (forward)",
			before:    "",
			after:     "somecursor",
			wantDir:   Forward,
			wantOrder: 1,
		},
		{
			name:      "before cursor (backward)",
			before:    "somecursor",
			after:     "",
			wantDir:   Backward,
			wantOrder: -1,
		},
		{
			name:      "both cursors (before takes precedence)",
			before:    "beforecursor",
			after:     "aftercursor",
			wantDir:   Backward,
			wantOrder: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigureKeyset(tt.before, tt.after, 0)
			if got.Direction != tt.wantDir {
				t.Errorf("ConfigureKeyset() Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if got.SortOrder != tt.wantOrder {
				t.Errorf("ConfigureKeyset() SortOrder = %v, want %v", got.SortOrder, tt.wantOrder)
			}
			if got.Size != PageSize {
				t.Errorf("ConfigureKeyset() Size = %v, want %v", got.Size, PageSize)
			}
			// Undecodable cursors fall back to the first page.
			if got.Cursor != nil {
				t.Errorf("ConfigureKeyset() Cursor = %v, want nil", got.Cursor)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{1}, []int{1}},
		{"two", []int{1, 2}, []int{2, 1}},
		{"three", []int{1, 2, 3}, []int{3, 2, 1}},
		{"four", []int{1, 2, 3, 4}, []int{4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, len(tt.input))
			copy(rows, tt.input)
			Reverse(rows)
			for i, v := range rows {
				if v != tt.want[i] {
					t.Errorf("Reverse() got %v, want %v", rows, tt.want)
					break
				}
			}
		})
	}
}

func TestBuildCursors(t *testing.T) {
	t.Run("empty rows", func(t *testing.T) {
		type item struct {
			Key string
			ID  primitive.ObjectID
		}
		rows := []item{}
		prev, next := BuildCursors(rows,
			func(i item) string { return i.Key },
			func(i item) primitive.ObjectID { return i.ID },
		)
		if prev != "" || next != "" {
			t.Errorf("BuildCursors(empty) = (%q, %q), want (\"\", \"\")", prev, next)
		}
	})

	t.Run("single row", func(t *testing.T) {
		type item struct {
			Key string
			ID  primitive.ObjectID
		}
		id := primitive.NewObjectID()
		rows := []item{{Key: "test", ID: id}}
		prev, next := BuildCursors(rows,
			func(i item) string { return i.Key },
			func(i item) primitive.ObjectID { return i.ID },
		)
		// Both should be the same for a single row
		if prev == "" || next == "" {
			t.Errorf("BuildCursors(single) should return non-empty cursors")
		}
		if prev != next {
			t.Errorf("BuildCursors(single) prev and next should be equal for single row")
		}
	})

	t.Run("multiple rows", func(t *testing.T) {
		type item struct {
			Key string
			ID  primitive.ObjectID
		}
		id1 := primitive.NewObjectID()
		id2 := primitive.NewObjectID()
		rows := []item{
			{Key: "first", ID: id1},
			{Key: "last", ID: id2},
		}
		prev, next := BuildCursors(rows,
			func(i item) string { return i.Key },
			func(i item) primitive.ObjectID { return i.ID },
		)
		if prev == "" || next == "" {
			t.Errorf("BuildCursors(multiple) should return non-empty cursors")
		}
		if prev == next {
			t.Errorf("BuildCursors(multiple) prev and next should differ for multiple rows")
		}
	})
}
