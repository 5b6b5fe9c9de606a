package workflow

import (
	"testing"

	"procurement/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredRole(t *testing.T) {
	role, err := RequiredRole(StageOfficer)
	require.NoError(t, err)
	assert.Equal(t, RoleProcurementOfficer, role)

	role, err = RequiredRole(StageAccountant)
	require.NoError(t, err)
	assert.Equal(t, RoleAccountant, role)

	role, err = RequiredRole(StagePresident)
	require.NoError(t, err)
	assert.Equal(t, RolePresident, role)

	_, err = RequiredRole(Stage("auditor"))
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}

func TestSupportsStage(t *testing.T) {
	assert.True(t, SupportsStage(KindPurchaseRequest, StageOfficer))
	assert.True(t, SupportsStage(KindPurchaseRequest, StageAccountant))
	assert.False(t, SupportsStage(KindPurchaseRequest, StagePresident))

	assert.True(t, SupportsStage(KindPurchaseOrder, StageAccountant))
	assert.True(t, SupportsStage(KindPurchaseOrder, StagePresident))
	assert.False(t, SupportsStage(KindPurchaseOrder, StageOfficer))
}

func TestTransitionPurchaseRequestChain(t *testing.T) {
	// officer approval moves a fresh request to REVIEWING
	next, err := Transition(KindPurchaseRequest, StatusPending, StageOfficer, Flags{})
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, next)

	// accountant approval returns the request to PENDING; the eventual
	// purchase order creation is what marks it APPROVED
	next, err = Transition(KindPurchaseRequest, StatusReviewing, StageAccountant, Flags{Officer: true})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, next)
}

func TestTransitionPurchaseOrderChain(t *testing.T) {
	// accountant approval on an order keeps the current status
	next, err := Transition(KindPurchaseOrder, StatusPending, StageAccountant, Flags{})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, next)

	next, err = Transition(KindPurchaseOrder, StatusPending, StagePresident, Flags{Accountant: true})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, next)
}

func TestTransitionPredecessorGating(t *testing.T) {
	// accountant cannot act on a request before the officer
	_, err := Transition(KindPurchaseRequest, StatusPending, StageAccountant, Flags{})
	require.Error(t, err)
	assert.Equal(t, apperr.PreconditionFailed, apperr.KindOf(err))

	// president cannot sign an order before the accountant
	_, err = Transition(KindPurchaseOrder, StatusPending, StagePresident, Flags{})
	require.Error(t, err)
	assert.Equal(t, apperr.PreconditionFailed, apperr.KindOf(err))
}

func TestTransitionUnsupportedStage(t *testing.T) {
	_, err := Transition(KindPurchaseRequest, StatusPending, StagePresident, Flags{Officer: true, Accountant: true})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = Transition(KindPurchaseOrder, StatusPending, StageOfficer, Flags{})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}

func TestTransitionRejectedIsTerminal(t *testing.T) {
	for _, stage := range []Stage{StageOfficer, StageAccountant} {
		_, err := Transition(KindPurchaseRequest, StatusRejected, stage, Flags{})
		require.Error(t, err, "stage %s", stage)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	}
}

func TestTransitionRepeatedApproval(t *testing.T) {
	_, err := Transition(KindPurchaseRequest, StatusReviewing, StageOfficer, Flags{Officer: true})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = Transition(KindPurchaseOrder, StatusPending, StageAccountant, Flags{Accountant: true})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}
