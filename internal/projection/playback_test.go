package projection

import (
	"errors"
	"testing"

	"statehist/internal/history"
)

func storyBookmarks() []history.Bookmark {
	return []history.Bookmark{
		{StateID: 0, Name: "A"},
		{StateID: 1, Name: "B", Annotation: "the interesting part"},
		{StateID: 4, Name: "C"},
	}
}

func TestProjectSlideText(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"falls back to name", 0, "A"},
		{"prefers annotation", 1, "the interesting part"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slide, err := ProjectSlide(storyBookmarks(), tt.index)
			if err != nil {
				t.Fatalf("ProjectSlide: %v", err)
			}
			if slide.Text != tt.want {
				t.Errorf("Text = %q, want %q", slide.Text, tt.want)
			}
		})
	}

	// Neither annotation nor name: fixed placeholder.
	slide, err := ProjectSlide([]history.Bookmark{{StateID: 3}}, 0)
	if err != nil {
		t.Fatalf("ProjectSlide: %v", err)
	}
	if slide.Text != "No annotation for this bookmark" {
		t.Errorf("placeholder Text = %q", slide.Text)
	}
}

func TestProjectSlideLastRebindsAdvance(t *testing.T) {
	slide, err := ProjectSlide(storyBookmarks(), 2)
	if err != nil {
		t.Fatalf("ProjectSlide: %v", err)
	}
	if !slide.IsLast {
		t.Error("IsLast = false on the final bookmark")
	}
	if slide.Advance != AdvanceExit {
		t.Errorf("Advance = %v, want AdvanceExit on last slide", slide.Advance)
	}

	slide, err = ProjectSlide(storyBookmarks(), 1)
	if err != nil {
		t.Fatalf("ProjectSlide: %v", err)
	}
	if slide.IsLast || slide.Advance != AdvanceNext {
		t.Errorf("mid-story slide: IsLast=%v Advance=%v", slide.IsLast, slide.Advance)
	}
}

func TestProjectSlideOutOfRange(t *testing.T) {
	for _, index := range []int{-1, 3, 99} {
		if _, err := ProjectSlide(storyBookmarks(), index); !errors.Is(err, ErrPlaybackRange) {
			t.Errorf("index %d: err = %v, want ErrPlaybackRange", index, err)
		}
	}
}

func TestStartPlayback(t *testing.T) {
	s, err := StartPlayback(3, 0)
	if err != nil {
		t.Fatalf("StartPlayback: %v", err)
	}
	if s.Mode != ModePlayback || s.Index != 0 {
		t.Errorf("session = %+v, want playback at 0", s)
	}

	if _, err := StartPlayback(3, 3); !errors.Is(err, ErrPlaybackRange) {
		t.Errorf("StartPlayback(3, 3) err = %v, want ErrPlaybackRange", err)
	}
	if _, err := StartPlayback(0, 0); !errors.Is(err, ErrPlaybackRange) {
		t.Errorf("StartPlayback with no bookmarks err = %v, want ErrPlaybackRange", err)
	}
}

func TestSessionTransitions(t *testing.T) {
	s, _ := StartPlayback(3, 0)

	s = s.Next(3)
	if s.Mode != ModePlayback || s.Index != 1 {
		t.Fatalf("after Next: %+v", s)
	}

	// Prev clamps at the first slide, never wraps.
	s = s.Prev().Prev()
	if s.Mode != ModePlayback || s.Index != 0 {
		t.Fatalf("after double Prev: %+v", s)
	}

	// Advancing on the last slide is the exit transition.
	s = s.Next(3).Next(3)
	if s.Index != 2 {
		t.Fatalf("expected last slide, got %+v", s)
	}
	s = s.Next(3)
	if s.Mode != ModeBrowsing {
		t.Errorf("advance on last slide should exit playback, got %+v", s)
	}

	// Transitions in browsing mode are no-ops.
	if s2 := s.Next(3); s2 != s {
		t.Errorf("Next while browsing changed state: %+v", s2)
	}
	if s2 := s.Prev(); s2 != s {
		t.Errorf("Prev while browsing changed state: %+v", s2)
	}

	// Explicit stop exits from any slide.
	s, _ = StartPlayback(3, 1)
	if s = s.Stop(); s.Mode != ModeBrowsing {
		t.Errorf("Stop did not return to browsing: %+v", s)
	}
}
