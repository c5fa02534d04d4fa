package history

import "testing"

func TestToggleBookmarkAddAndRemove(t *testing.T) {
	var list []Bookmark

	list = ToggleBookmark(list, 2, "two")
	if len(list) != 1 || list[0].StateID != 2 || list[0].Name != "two" {
		t.Fatalf("after add: %+v", list)
	}

	// Toggling an already-bookmarked state removes; it never duplicates.
	list = ToggleBookmark(list, 2, "two")
	if len(list) != 0 {
		t.Fatalf("after toggle-off: %+v, want empty", list)
	}
}

func TestBookmarkIndexCollapsesDuplicates(t *testing.T) {
	list := []Bookmark{
		{StateID: 1, Name: "a"},
		{StateID: 2, Name: "b"},
		{StateID: 1, Name: "dup"},
	}
	if i := BookmarkIndex(list, 1); i != 0 {
		t.Errorf("BookmarkIndex = %d, want first occurrence 0", i)
	}
	if i := BookmarkIndex(list, 9); i != -1 {
		t.Errorf("BookmarkIndex missing = %d, want -1", i)
	}
}

func TestMoveBookmark(t *testing.T) {
	list := []Bookmark{
		{StateID: 0, Name: "a"},
		{StateID: 1, Name: "b"},
		{StateID: 2, Name: "c"},
	}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"down", 0, 2, []string{"b", "c", "a"}},
		{"up", 2, 0, []string{"c", "a", "b"}},
		{"adjacent", 0, 1, []string{"b", "a", "c"}},
		{"same", 1, 1, []string{"a", "b", "c"}},
		{"out of range", 0, 5, []string{"a", "b", "c"}},
		{"negative", -1, 0, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveBookmark(list, tt.from, tt.to)
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Fatalf("order = %v, want %v", names(got), tt.want)
				}
			}
		})
	}

	// The input list is never mutated.
	if list[0].Name != "a" || list[2].Name != "c" {
		t.Errorf("input mutated: %v", names(list))
	}
}

func names(list []Bookmark) []string {
	out := make([]string, len(list))
	for i, bm := range list {
		out[i] = bm.Name
	}
	return out
}

func TestAnnotateAndRenameBookmark(t *testing.T) {
	list := []Bookmark{{StateID: 1, Name: "a"}}

	got := AnnotateBookmark(list, 0, "note")
	if got[0].Annotation != "note" {
		t.Errorf("Annotation = %q", got[0].Annotation)
	}
	if list[0].Annotation != "" {
		t.Error("AnnotateBookmark mutated its input")
	}

	got = RenameBookmark(list, 0, "renamed")
	if got[0].Name != "renamed" {
		t.Errorf("Name = %q", got[0].Name)
	}
	if out := RenameBookmark(list, 5, "x"); len(out) != 1 || out[0].Name != "a" {
		t.Errorf("out-of-range rename changed list: %+v", out)
	}
}
