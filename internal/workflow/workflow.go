// Package workflow holds the approval state machine for procurement
// documents. It is deliberately free of storage and transport concerns:
// callers read the record, ask Transition for the next status, and persist
// the result themselves. All role and stage rules live in the tables below
// so adding a stage is a single table edit.
package workflow

import (
	"procurement/pkg/apperr"
)

// RecordKind identifies which document kind a transition targets
type RecordKind string

const (
	KindPurchaseRequest RecordKind = "PURCHASE_REQUEST"
	KindPurchaseOrder   RecordKind = "PURCHASE_ORDER"
)

// Stage is one named step in the approval chain
type Stage string

const (
	StageOfficer    Stage = "officer"
	StageAccountant Stage = "accountant"
	StagePresident  Stage = "president"
)

// Role mirrors the user roles allowed to execute stages
type Role string

const (
	RoleProcurementOfficer Role = "PROCUREMENT_OFFICER"
	RoleAccountant         Role = "ACCOUNTANT"
	RolePresident          Role = "PRESIDENT"
)

// Status is the workflow status of a document
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReviewing Status = "REVIEWING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// Flags carries the per-stage approval flags read off the current record
type Flags struct {
	Officer    bool
	Accountant bool
	President  bool
}

// stageRoles is the central stage -> required role table
var stageRoles = map[Stage]Role{
	StageOfficer:    RoleProcurementOfficer,
	StageAccountant: RoleAccountant,
	StagePresident:  RolePresident,
}

// kindStages lists which stages exist per record kind. Purchase requests
// stop at the accountant; the president signs purchase orders only.
var kindStages = map[RecordKind][]Stage{
	KindPurchaseRequest: {StageOfficer, StageAccountant},
	KindPurchaseOrder:   {StageAccountant, StagePresident},
}

// RequiredRole returns the role a principal must hold to execute a stage
func RequiredRole(stage Stage) (Role, error) {
	role, ok := stageRoles[stage]
	if !ok {
		return "", apperr.Errorf(apperr.InvalidArgument, "unknown stage %q", stage)
	}
	return role, nil
}

// SupportsStage reports whether a record kind defines the given stage
func SupportsStage(kind RecordKind, stage Stage) bool {
	for _, s := range kindStages[kind] {
		if s == stage {
			return true
		}
	}
	return false
}

// Transition validates an approval stage against the record's current status
// and flags and returns the status the record moves to. It performs no I/O;
// an error means the caller must not write anything.
//
// Observed tables, preserved as-is:
//
//	purchase request: PENDING --officer--> REVIEWING --accountant--> PENDING
//	purchase order:   PENDING --accountant--> PENDING --president--> APPROVED
//
// The request table is non-monotonic (the accountant returns the document to
// PENDING rather than advancing it); the follow-up purchase order creation is
// what finally marks the request APPROVED.
func Transition(kind RecordKind, current Status, stage Stage, flags Flags) (Status, error) {
	if !SupportsStage(kind, stage) {
		return "", apperr.Errorf(apperr.InvalidArgument, "unsupported stage %q for record kind %s", stage, kind)
	}

	if kind == KindPurchaseRequest && current == StatusRejected {
		return "", apperr.E(apperr.Conflict, "purchase request is rejected; no further approval is permitted")
	}

	if stageApproved(stage, flags) {
		return "", apperr.Errorf(apperr.Conflict, "stage %q is already approved", stage)
	}

	if pred, ok := predecessor(kind, stage); ok && !stageApproved(pred, flags) {
		return "", apperr.Errorf(apperr.PreconditionFailed, "predecessor stage %q not approved", pred)
	}

	switch kind {
	case KindPurchaseRequest:
		switch stage {
		case StageOfficer:
			return StatusReviewing, nil
		case StageAccountant:
			return StatusPending, nil
		}
	case KindPurchaseOrder:
		switch stage {
		case StageAccountant:
			return current, nil
		case StagePresident:
			return StatusApproved, nil
		}
	}

	return "", apperr.Errorf(apperr.InvalidArgument, "unknown record kind %q", kind)
}

// predecessor returns the stage that must be approved before the given one
func predecessor(kind RecordKind, stage Stage) (Stage, bool) {
	stages := kindStages[kind]
	for i, s := range stages {
		if s == stage && i > 0 {
			return stages[i-1], true
		}
	}
	return "", false
}

func stageApproved(stage Stage, flags Flags) bool {
	switch stage {
	case StageOfficer:
		return flags.Officer
	case StageAccountant:
		return flags.Accountant
	case StagePresident:
		return flags.President
	}
	return false
}
