package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"khao-backend/models"
)

func TestCanTransition_AdminDecisions(t *testing.T) {
	assert.NoError(t, CanTransition(models.StatusPendingApproval, models.StatusApproved, "admin"))
	assert.NoError(t, CanTransition(models.StatusPendingApproval, models.StatusRejected, "admin"))
	assert.NoError(t, CanTransition(models.StatusApproved, models.StatusSuspended, "admin"))
	assert.NoError(t, CanTransition(models.StatusSuspended, models.StatusApproved, "admin"))
}

func TestCanTransition_Illegal(t *testing.T) {
	// rejection is terminal in this core
	assert.Error(t, CanTransition(models.StatusRejected, models.StatusApproved, "admin"))
	// cannot suspend before approval
	assert.Error(t, CanTransition(models.StatusPendingApproval, models.StatusSuspended, "admin"))
	// owners never write approval status
	assert.Error(t, CanTransition(models.StatusPendingApproval, models.StatusApproved, "restaurant"))
	// no self-loop
	assert.Error(t, CanTransition(models.StatusApproved, models.StatusApproved, "admin"))
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusPendingApproval)
	assert.ElementsMatch(t, []models.RestaurantStatus{models.StatusApproved, models.StatusRejected}, nexts)

	assert.Empty(t, ValidTransitionsFrom(models.StatusRejected))
	assert.Empty(t, ValidTransitionsFrom(models.StatusActive))
}

func TestGetAllTransitions_SingleWriter(t *testing.T) {
	transitions := GetAllTransitions()
	assert.Len(t, transitions, 4)
	for _, tr := range transitions {
		assert.Equal(t, "admin", tr.Actor)
	}
}

func TestWorkingStatusRules(t *testing.T) {
	assert.True(t, CanSetWorkingStatus(models.StatusApproved))
	assert.False(t, CanSetWorkingStatus(models.StatusPendingApproval))
	assert.False(t, CanSetWorkingStatus(models.StatusSuspended))

	assert.True(t, IsValidWorkingStatus(models.WorkingOnline))
	assert.True(t, IsValidWorkingStatus(models.WorkingBusy))
	assert.True(t, IsValidWorkingStatus(models.WorkingOffline))
	assert.False(t, IsValidWorkingStatus(models.WorkingStatus("closed")))
}
