package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"
	"procurement/internal/workflow"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type RejectRequestDTO struct {
	Reason string `json:"reason" binding:"required"`
}

// ApprovalResult wraps the updated record after a successful transition.
// Exactly one of Request/Order is set, matching Kind.
type ApprovalResult struct {
	Kind    workflow.RecordKind      `json:"kind"`
	Request *PurchaseRequestResponse `json:"request,omitempty"`
	Order   *PurchaseOrderResponse   `json:"order,omitempty"`
}

// Notifier pushes workflow events to connected dashboard clients
type Notifier interface {
	Notify(event []byte)
}

// WorkflowEvent is the JSON payload broadcast after each transition
type WorkflowEvent struct {
	Event    string `json:"event"`
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	DocNo    string `json:"doc_no"`
	Status   string `json:"status"`
	Actor    string `json:"actor"`
}

// --- Interface ---

// ApprovalService is the approval workflow engine's service surface. Each
// call is one synchronous read-modify-write: the acting principal is
// re-resolved, the record re-read under a row lock, the transition validated
// by the workflow tables, and the stamped record persisted — or nothing is
// written at all.
type ApprovalService interface {
	ApproveStage(ctx context.Context, kind workflow.RecordKind, recordID string, stage workflow.Stage, actingUserID string) (*ApprovalResult, error)
	RejectPurchaseRequest(ctx context.Context, recordID string, actingUserID string, reason string) (*PurchaseRequestResponse, error)
}

type approvalService struct {
	users    repository.UserRepository
	requests repository.PurchaseRequestRepository
	orders   repository.PurchaseOrderRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
	notifier Notifier // optional
}

// NewApprovalService returns a new instance of ApprovalService
func NewApprovalService(
	users repository.UserRepository,
	requests repository.PurchaseRequestRepository,
	orders repository.PurchaseOrderRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	notifier Notifier,
) ApprovalService {
	return &approvalService{
		users:    users,
		requests: requests,
		orders:   orders,
		audits:   audits,
		tx:       tx,
		notifier: notifier,
	}
}

// --- Implementation ---

func (s *approvalService) ApproveStage(ctx context.Context, kind workflow.RecordKind, recordID string, stage workflow.Stage, actingUserID string) (*ApprovalResult, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", recordID)
	}

	actor, err := s.resolvePrincipal(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	requiredRole, err := workflow.RequiredRole(stage)
	if err != nil {
		return nil, err
	}
	if actor.Role != string(requiredRole) {
		return nil, apperr.Errorf(apperr.Forbidden, "stage %q requires role %s", stage, requiredRole)
	}

	var result *ApprovalResult
	switch kind {
	case workflow.KindPurchaseRequest:
		result, err = s.approveRequestStage(ctx, id, stage, actor)
	case workflow.KindPurchaseOrder:
		result, err = s.approveOrderStage(ctx, id, stage, actor)
	default:
		return nil, apperr.Errorf(apperr.InvalidArgument, "unknown record kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	s.broadcast(WorkflowEvent{
		Event:    "stage_approved",
		Kind:     string(kind),
		RecordID: recordID,
		DocNo:    result.docNo(),
		Status:   result.status(),
		Actor:    actor.FullName,
	})

	return result, nil
}

func (s *approvalService) approveRequestStage(ctx context.Context, id uuid.UUID, stage workflow.Stage, actor *model.User) (*ApprovalResult, error) {
	var req *model.PurchaseRequest

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		req, txErr = s.requests.GetByIDForUpdate(txCtx, id)
		if txErr != nil {
			return notFoundOr(txErr, "purchase request not found")
		}

		flags := workflow.Flags{Officer: req.Officer.Approved, Accountant: req.Accountant.Approved}
		next, txErr := workflow.Transition(workflow.KindPurchaseRequest, workflow.Status(req.Status), stage, flags)
		if txErr != nil {
			return txErr
		}

		snapshot := snapshotOf(actor)
		switch stage {
		case workflow.StageOfficer:
			req.Officer = snapshot
		case workflow.StageAccountant:
			req.Accountant = snapshot
		}
		req.Status = string(next)

		if txErr = s.requests.Update(txCtx, req); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, actor.ID, model.ActionApproveStage, req.ID.String(), req.PRNo, map[string]interface{}{
			"stage":  string(stage),
			"status": req.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPurchaseRequestResponse(full)
	return &ApprovalResult{Kind: workflow.KindPurchaseRequest, Request: &resp}, nil
}

func (s *approvalService) approveOrderStage(ctx context.Context, id uuid.UUID, stage workflow.Stage, actor *model.User) (*ApprovalResult, error) {
	var order *model.PurchaseOrder

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		order, txErr = s.orders.GetByIDForUpdate(txCtx, id)
		if txErr != nil {
			return notFoundOr(txErr, "purchase order not found")
		}

		flags := workflow.Flags{Accountant: order.Accountant.Approved, President: order.President.Approved}
		next, txErr := workflow.Transition(workflow.KindPurchaseOrder, workflow.Status(order.Status), stage, flags)
		if txErr != nil {
			return txErr
		}

		snapshot := snapshotOf(actor)
		switch stage {
		case workflow.StageAccountant:
			order.Accountant = snapshot
		case workflow.StagePresident:
			order.President = snapshot
		}
		order.Status = string(next)

		if txErr = s.orders.Update(txCtx, order); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, actor.ID, model.ActionApproveStage, order.ID.String(), order.PONo, map[string]interface{}{
			"stage":  string(stage),
			"status": order.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPurchaseOrderResponse(full)
	return &ApprovalResult{Kind: workflow.KindPurchaseOrder, Order: &resp}, nil
}

func (s *approvalService) RejectPurchaseRequest(ctx context.Context, recordID string, actingUserID string, reason string) (*PurchaseRequestResponse, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", recordID)
	}
	if reason == "" {
		return nil, apperr.E(apperr.InvalidArgument, "rejection reason is required")
	}

	actor, err := s.resolvePrincipal(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAccountant {
		return nil, apperr.E(apperr.Forbidden, "only an accountant may reject a purchase request")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, txErr := s.requests.GetByIDForUpdate(txCtx, id)
		if txErr != nil {
			return notFoundOr(txErr, "purchase request not found")
		}

		if req.Status == model.RequestStatusRejected {
			return apperr.E(apperr.Conflict, "purchase request is already rejected")
		}
		if req.Accountant.Approved {
			return apperr.E(apperr.Conflict, "purchase request is approved by the accountant and can no longer be rejected")
		}

		// The rejecting accountant's identity is stamped into the dedicated
		// rejection snapshot; the accountant approval flag stays false.
		rejected := snapshotOf(actor)
		rejected.Approved = false
		req.RejectedBy = rejected
		req.RejectedReason = reason
		req.Status = model.RequestStatusRejected

		if txErr = s.requests.Update(txCtx, req); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, actor.ID, model.ActionRejectRequest, req.ID.String(), req.PRNo, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.broadcast(WorkflowEvent{
		Event:    "request_rejected",
		Kind:     string(workflow.KindPurchaseRequest),
		RecordID: recordID,
		DocNo:    full.PRNo,
		Status:   full.Status,
		Actor:    actor.FullName,
	})

	resp := toPurchaseRequestResponse(full)
	return &resp, nil
}

// --- Helpers ---

// resolvePrincipal re-reads the acting user on every call; stale roles must
// not drive authorization decisions.
func (s *approvalService) resolvePrincipal(ctx context.Context, actingUserID string) (*model.User, error) {
	if actingUserID == "" {
		return nil, apperr.E(apperr.Unauthorized, "no acting principal")
	}
	user, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, apperr.E(apperr.Unauthorized, "acting principal could not be resolved")
	}
	return user, nil
}

// snapshotOf captures a point-in-time copy of the approver's identity
func snapshotOf(user *model.User) model.ApproverSnapshot {
	now := time.Now()
	return model.ApproverSnapshot{
		Approved:      true,
		Name:          user.FullName,
		Role:          user.Role,
		Title:         user.Title,
		SignaturePath: user.SignaturePath,
		Designation:   user.Designation,
		ApprovedAt:    &now,
	}
}

// auditRecord writes an audit row inside the caller's transaction
func auditRecord(ctx context.Context, audits repository.AuditRepository, userID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	return audits.Create(ctx, &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	})
}

func (s *approvalService) broadcast(event WorkflowEvent) {
	broadcastEvent(s.notifier, event)
}

// broadcastEvent pushes a workflow event through the notifier, if one is wired
func broadcastEvent(n Notifier, event WorkflowEvent) {
	if n == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	n.Notify(payload)
}

// notFoundOr maps gorm's record-not-found onto the typed NotFound kind
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.NotFound, msg)
	}
	return err
}

func (r *ApprovalResult) docNo() string {
	if r.Request != nil {
		return r.Request.PRNo
	}
	if r.Order != nil {
		return r.Order.PONo
	}
	return ""
}

func (r *ApprovalResult) status() string {
	if r.Request != nil {
		return r.Request.Status
	}
	if r.Order != nil {
		return r.Order.Status
	}
	return ""
}
