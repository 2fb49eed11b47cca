package model

// transitions lists every allowed status change. Archived is terminal and
// nothing returns to draft.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusArchived},
	StatusPublished: {StatusArchived},
	StatusArchived:  {},
}

// CanTransition reports whether from -> to is a legal move
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns (noop=true, nil) when the post is already in the
// target state, an error when the move is illegal.
func CheckTransition(from, to Status) (bool, error) {
	if from == to {
		return true, nil
	}
	if !CanTransition(from, to) {
		return false, NewInvalidTransitionError(from, to)
	}
	return false, nil
}
