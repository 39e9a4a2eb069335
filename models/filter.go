package models

import (
	"fmt"
	"slices"
	"strings"
)

// ViewMode selects between per-participant lines and per-technique averages.
type ViewMode int

const (
	Individual ViewMode = iota
	TechniqueAverage
)

func (v ViewMode) String() string {
	switch v {
	case TechniqueAverage:
		return "average"
	default:
		return "individual"
	}
}

func (v ViewMode) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *ViewMode) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseView accepts the values used by the dashboard form and the CLI.
func ParseView(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "individual":
		return Individual, nil
	case "average", "avg", "technique-average":
		return TechniqueAverage, nil
	}
	return Individual, fmt.Errorf("unknown view mode %q", s)
}

// ParseGender maps form values onto the gender filter. "all" in any case means no filter.
func ParseGender(s string) (string, error) {
	g := strings.TrimSpace(s)
	if g == "" || strings.EqualFold(g, GenderAll) {
		return GenderAll, nil
	}
	switch strings.ToUpper(g) {
	case GenderMale, GenderFemale:
		return strings.ToUpper(g), nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// FilterState is everything the user can change on the dashboard.
// It is a value: Reduce returns a fresh copy and never touches its input.
type FilterState struct {
	Techniques []string `json:"techniques"` // empty means every technique
	Gender     string   `json:"gender"`
	View       ViewMode `json:"view"`
	Selected   string   `json:"selected,omitempty"`
}

// NewFilterState starts with every technique checked, no gender filter and individual lines.
func NewFilterState(store *SampleStore) FilterState {
	return FilterState{
		Techniques: store.AllTechniques(),
		Gender:     GenderAll,
		View:       Individual,
	}
}

// Matches is the sample predicate shared by the chart, the insights and the frames.
func (f FilterState) Matches(s Sample) bool {
	if len(f.Techniques) > 0 && !slices.Contains(f.Techniques, s.Technique) {
		return false
	}
	return f.Gender == "" || f.Gender == GenderAll || f.Gender == s.Gender
}

func (f FilterState) clone() FilterState {
	out := f
	out.Techniques = slices.Clone(f.Techniques)
	return out
}

// Action is a single user interaction.
type Action interface {
	apply(FilterState) FilterState
}

type ToggleTechnique struct {
	Technique string
	Enabled   bool
}

type SetTechniques struct {
	Techniques []string
}

type SetGender struct {
	Gender string
}

type SetView struct {
	View ViewMode
}

type SelectSeries struct {
	ID string
}

type ClearSelection struct{}

// Reduce applies one action and returns the new state.
func Reduce(state FilterState, action Action) FilterState {
	if action == nil {
		return state.clone()
	}
	return action.apply(state.clone())
}

func (a ToggleTechnique) apply(f FilterState) FilterState {
	i := slices.Index(f.Techniques, a.Technique)
	switch {
	case a.Enabled && i < 0:
		f.Techniques = append(f.Techniques, a.Technique)
	case !a.Enabled && i >= 0:
		f.Techniques = slices.Delete(f.Techniques, i, i+1)
	}
	return f
}

func (a SetTechniques) apply(f FilterState) FilterState {
	f.Techniques = f.Techniques[:0]
	for _, t := range a.Techniques {
		if !slices.Contains(f.Techniques, t) {
			f.Techniques = append(f.Techniques, t)
		}
	}
	return f
}

// Changing gender or view replaces the set of lines, so the selection no longer applies.
func (a SetGender) apply(f FilterState) FilterState {
	f.Gender = a.Gender
	f.Selected = ""
	return f
}

func (a SetView) apply(f FilterState) FilterState {
	f.View = a.View
	f.Selected = ""
	return f
}

func (a SelectSeries) apply(f FilterState) FilterState {
	f.Selected = a.ID
	return f
}

func (a ClearSelection) apply(f FilterState) FilterState {
	f.Selected = ""
	return f
}
