package game

// InputState is the logical input for one tick. Edge fields are true only
// on the tick the action fired; the rest report held state.
type InputState struct {
	Left        bool `json:"left"`
	Right       bool `json:"right"`
	Up          bool `json:"up"`
	Down        bool `json:"down"`
	Fire        bool `json:"fire"`
	FireEdge    bool `json:"fireEdge"`
	CheatToggle bool `json:"cheatToggle"`
}

// Merge folds a newer sample into the latched input. Held state follows the
// newer sample while edges accumulate, so a press and release that land
// between two ticks still fire once.
func (in InputState) Merge(next InputState) InputState {
	merged := next
	merged.FireEdge = in.FireEdge || next.FireEdge
	merged.CheatToggle = in.CheatToggle != next.CheatToggle
	return merged
}

// clearEdges drops the one-shot fields after a tick consumed them.
func (in InputState) clearEdges() InputState {
	in.FireEdge = false
	in.CheatToggle = false
	return in
}
