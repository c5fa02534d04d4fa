package history

// Bookmark marks one commit for the bookmark list and story playback.
// The Annotation is the slide text shown in playback mode.
type Bookmark struct {
	StateID    StateID
	Name       string
	Annotation string
}

// BookmarkIndex returns the position of the first bookmark for the given
// state, or -1. Duplicate bookmarks for one state collapse to the first.
func BookmarkIndex(list []Bookmark, s StateID) int {
	for i, bm := range list {
		if bm.StateID == s {
			return i
		}
	}
	return -1
}

// ToggleBookmark removes the bookmark for s if one exists, otherwise
// appends a new one named after the state. An already-bookmarked state
// always toggles to removed, never to a duplicate.
func ToggleBookmark(list []Bookmark, s StateID, name string) []Bookmark {
	if i := BookmarkIndex(list, s); i >= 0 {
		return RemoveBookmark(list, i)
	}
	out := make([]Bookmark, len(list), len(list)+1)
	copy(out, list)
	return append(out, Bookmark{StateID: s, Name: name})
}

// RemoveBookmark drops the bookmark at position i.
func RemoveBookmark(list []Bookmark, i int) []Bookmark {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]Bookmark, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// MoveBookmark moves the bookmark at position from to position to,
// shifting the ones in between. Out-of-range positions are a no-op.
func MoveBookmark(list []Bookmark, from, to int) []Bookmark {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return list
	}
	out := make([]Bookmark, len(list))
	copy(out, list)
	bm := out[from]
	if from < to {
		copy(out[from:], out[from+1:to+1])
	} else {
		copy(out[to+1:], out[to:from])
	}
	out[to] = bm
	return out
}

// AnnotateBookmark sets the annotation of the bookmark at position i.
func AnnotateBookmark(list []Bookmark, i int, annotation string) []Bookmark {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]Bookmark, len(list))
	copy(out, list)
	out[i].Annotation = annotation
	return out
}

// RenameBookmark sets the name of the bookmark at position i.
func RenameBookmark(list []Bookmark, i int, name string) []Bookmark {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]Bookmark, len(list))
	copy(out, list)
	out[i].Name = name
	return out
}
