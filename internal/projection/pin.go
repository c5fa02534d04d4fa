package projection

import "statehist/internal/history"

// Pin is the successor-highlight selector: either inactive or holding
// one valid state id. The zero value is inactive.
type Pin struct {
	StateID history.StateID
	Active  bool
}

// Toggle pins id, or clears the pin when id is already pinned. Toggling
// twice with the same id always returns to the inactive pin, so the
// projected lists round-trip to their unpinned form.
func (p Pin) Toggle(id history.StateID) Pin {
	if p.Active && p.StateID == id {
		return Pin{}
	}
	return Pin{StateID: id, Active: true}
}

// Matches reports whether id is the pinned state.
func (p Pin) Matches(id history.StateID) bool {
	return p.Active && p.StateID == id
}
