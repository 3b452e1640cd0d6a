package statemachine

import (
	"errors"

	"khao-backend/models"
)

// Transition defines a valid approval-status change and who can perform it
type Transition struct {
	From  models.RestaurantStatus
	To    models.RestaurantStatus
	Actor string // "admin" — approval status has a single writer
}

// validTransitions is the authoritative lifecycle definition.
// active/inactive exist in the status enum but have no inbound
// transitions; nothing writes them in this core.
var validTransitions = []Transition{
	// Admin review decision on a new registration
	{From: models.StatusPendingApproval, To: models.StatusApproved, Actor: "admin"},
	{From: models.StatusPendingApproval, To: models.StatusRejected, Actor: "admin"},
	// Admin can suspend an approved restaurant and reactivate it later
	{From: models.StatusApproved, To: models.StatusSuspended, Actor: "admin"},
	{From: models.StatusSuspended, To: models.StatusApproved, Actor: "admin"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.RestaurantStatus
	To    models.RestaurantStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RestaurantStatus) []models.RestaurantStatus {
	var nexts []models.RestaurantStatus
	seen := map[models.RestaurantStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.RestaurantStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.RestaurantStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// CanSetWorkingStatus reports whether the operational sub-state may be
// changed at all; it is only meaningful while the restaurant is approved.
func CanSetWorkingStatus(status models.RestaurantStatus) bool {
	return status == models.StatusApproved
}

// IsValidWorkingStatus validates the owner-supplied operational state.
// online/busy/offline have no enforced ordering between them.
func IsValidWorkingStatus(ws models.WorkingStatus) bool {
	switch ws {
	case models.WorkingOnline, models.WorkingBusy, models.WorkingOffline:
		return true
	}
	return false
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
