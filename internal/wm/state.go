package wm

import (
	"encoding/json"
	"fmt"
)

// State is a window's lifecycle state. Exactly one state holds at a
// time; the numeric values are stable because session files persist
// them as ordinals.
type State int

const (
	StateNormal State = iota
	StateMinimized
	StateMaximized
	StateFullscreen
	StateHidden
)

var stateNames = map[State]string{
	StateNormal:     "normal",
	StateMinimized:  "minimized",
	StateMaximized:  "maximized",
	StateFullscreen: "fullscreen",
	StateHidden:     "hidden",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// ParseState converts a state name back to its State value.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return StateNormal, fmt.Errorf("unknown window state %q", name)
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Category classifies a window's role. Categories fix capability
// defaults at creation and are immutable for the window's lifetime.
type Category int

const (
	CategoryNormal Category = iota
	CategoryDialog
	CategoryTooltip
	CategoryPopup
	CategoryUtility
)

var categoryNames = map[Category]string{
	CategoryNormal:  "normal",
	CategoryDialog:  "dialog",
	CategoryTooltip: "tooltip",
	CategoryPopup:   "popup",
	CategoryUtility: "utility",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory converts a category name back to its Category value.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryNormal, fmt.Errorf("unknown window category %q", name)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
