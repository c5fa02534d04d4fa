package projection

import (
	"fmt"

	"statehist/internal/history"
)

// slidePlaceholder is shown when a bookmark has neither annotation nor name.
const slidePlaceholder = "No annotation for this bookmark"

// Advance says what the forward transport control does on a slide.
type Advance int

const (
	// AdvanceNext moves to the next bookmark.
	AdvanceNext Advance = iota
	// AdvanceExit leaves playback; bound only on the last slide.
	AdvanceExit
)

// SlideView is the view model for one playback slide.
type SlideView struct {
	Text    string
	Index   int
	Total   int
	IsLast  bool
	Advance Advance
}

// ProjectSlide builds the slide for the bookmark at index. The index
// must already have been validated by the mode switch that entered
// playback; out of range is a contract violation.
func ProjectSlide(bookmarks []history.Bookmark, index int) (SlideView, error) {
	if index < 0 || index >= len(bookmarks) {
		return SlideView{}, fmt.Errorf("slide %d of %d: %w", index, len(bookmarks), ErrPlaybackRange)
	}
	bm := bookmarks[index]
	text := bm.Annotation
	if text == "" {
		text = bm.Name
	}
	if text == "" {
		text = slidePlaceholder
	}
	last := index == len(bookmarks)-1
	adv := AdvanceNext
	if last {
		adv = AdvanceExit
	}
	return SlideView{
		Text:    text,
		Index:   index,
		Total:   len(bookmarks),
		IsLast:  last,
		Advance: adv,
	}, nil
}

// Mode is the display mode: the branching timeline or bookmark playback.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModePlayback
)

// Session is the playback state machine. The zero value is browsing.
// Transitions are pure: each returns the next session value.
type Session struct {
	Mode  Mode
	Index int
}

// StartPlayback enters playback at the given bookmark index.
func StartPlayback(count, index int) (Session, error) {
	if index < 0 || index >= count {
		return Session{}, fmt.Errorf("start at %d of %d: %w", index, count, ErrPlaybackRange)
	}
	return Session{Mode: ModePlayback, Index: index}, nil
}

// Next advances one slide. Advancing past the last slide is the one
// forward transition out of playback; anywhere else the index clamps.
func (s Session) Next(count int) Session {
	if s.Mode != ModePlayback {
		return s
	}
	if s.Index >= count-1 {
		return Session{}
	}
	s.Index++
	return s
}

// Prev steps back one slide, clamped at the first.
func (s Session) Prev() Session {
	if s.Mode != ModePlayback || s.Index == 0 {
		return s
	}
	s.Index--
	return s
}

// Stop leaves playback from any slide.
func (s Session) Stop() Session { return Session{} }
