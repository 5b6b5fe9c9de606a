package service

import (
	"context"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateRequestItemDTO struct {
	ItemNo        int    `json:"item_no" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	Unit          string `json:"unit" binding:"required"`
	EstimatedCost string `json:"estimated_cost"`
}

type CreatePurchaseRequestDTO struct {
	Department  string                 `json:"department" binding:"required"`
	Section     string                 `json:"section"`
	RequestDate string                 `json:"request_date"` // YYYY-MM-DD, defaults to today
	Items       []CreateRequestItemDTO `json:"items" binding:"required,min=1,dive"`
}

type ApproverSnapshotResponse struct {
	Approved      bool    `json:"approved"`
	Name          string  `json:"name,omitempty"`
	Role          string  `json:"role,omitempty"`
	Title         string  `json:"title,omitempty"`
	SignaturePath string  `json:"signature_path,omitempty"`
	Designation   string  `json:"designation,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
}

type RequestItemResponse struct {
	ItemNo        int    `json:"item_no"`
	Description   string `json:"description"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit"`
	BidData       string `json:"bid_data"`
	EstimatedCost string `json:"estimated_cost"`
}

type PurchaseRequestResponse struct {
	ID             string                   `json:"id"`
	PRNo           string                   `json:"pr_no"`
	Department     string                   `json:"department"`
	Section        string                   `json:"section"`
	RequestDate    string                   `json:"request_date"`
	Status         string                   `json:"status"`
	Total          string                   `json:"total"`
	Items          []RequestItemResponse    `json:"items"`
	RequesterName  string                   `json:"requester_name,omitempty"`
	Officer        ApproverSnapshotResponse `json:"officer"`
	Accountant     ApproverSnapshotResponse `json:"accountant"`
	RejectedReason string                   `json:"rejected_reason,omitempty"`
	RejectedBy     ApproverSnapshotResponse `json:"rejected_by"`
	CreatedAt      string                   `json:"created_at"`
}

// --- Interface ---

type PurchaseRequestService interface {
	CreateRequest(ctx context.Context, req CreatePurchaseRequestDTO, actingUserID string) (*PurchaseRequestResponse, error)
	GetRequest(ctx context.Context, id string) (*PurchaseRequestResponse, error)
	ListRequests(ctx context.Context, status string, page, limit int) ([]PurchaseRequestResponse, int64, error)
}

type purchaseRequestService struct {
	users    repository.UserRepository
	requests repository.PurchaseRequestRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
}

// NewPurchaseRequestService returns a new instance of PurchaseRequestService
func NewPurchaseRequestService(
	users repository.UserRepository,
	requests repository.PurchaseRequestRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
) PurchaseRequestService {
	return &purchaseRequestService{users: users, requests: requests, audits: audits, tx: tx}
}

// --- Implementation ---

func (s *purchaseRequestService) CreateRequest(ctx context.Context, dto CreatePurchaseRequestDTO, actingUserID string) (*PurchaseRequestResponse, error) {
	if actingUserID == "" {
		return nil, apperr.E(apperr.Unauthorized, "no acting principal")
	}
	requester, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, apperr.E(apperr.Unauthorized, "acting principal could not be resolved")
	}

	requestDate := time.Now()
	if dto.RequestDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", dto.RequestDate)
		if parseErr != nil {
			return nil, apperr.Errorf(apperr.InvalidArgument, "invalid request_date: %s", dto.RequestDate)
		}
		requestDate = parsed
	}

	items := make([]model.PurchaseRequestItem, 0, len(dto.Items))
	total := decimal.Zero
	for _, item := range dto.Items {
		cost := decimal.Zero
		if item.EstimatedCost != "" {
			parsed, parseErr := decimal.NewFromString(item.EstimatedCost)
			if parseErr != nil {
				return nil, apperr.Errorf(apperr.InvalidArgument, "invalid estimated_cost for item %d", item.ItemNo)
			}
			cost = parsed
		}
		lineTotal := cost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, model.PurchaseRequestItem{
			ItemNo:        item.ItemNo,
			Description:   item.Description,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			BidData:       "{}",
			EstimatedCost: cost,
		})
	}

	var request *model.PurchaseRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		prNo, txErr := s.requests.NextPRNo(txCtx)
		if txErr != nil {
			return txErr
		}

		request = &model.PurchaseRequest{
			PRNo:        prNo,
			Department:  dto.Department,
			Section:     dto.Section,
			RequestDate: requestDate,
			Status:      model.RequestStatusPending,
			Total:       total,
			Items:       items,
			RequestedBy: &requester.ID,
		}

		if txErr = s.requests.Create(txCtx, request); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, requester.ID, model.ActionCreateRequest, request.ID.String(), prNo, map[string]interface{}{
			"department": dto.Department,
			"items":      len(items),
			"total":      total.StringFixed(4),
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.requests.GetByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	resp := toPurchaseRequestResponse(full)
	return &resp, nil
}

func (s *purchaseRequestService) GetRequest(ctx context.Context, id string) (*PurchaseRequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", id)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "purchase request not found")
	}

	resp := toPurchaseRequestResponse(request)
	return &resp, nil
}

func (s *purchaseRequestService) ListRequests(ctx context.Context, status string, page, limit int) ([]PurchaseRequestResponse, int64, error) {
	requests, total, err := s.requests.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]PurchaseRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toPurchaseRequestResponse(&requests[i]))
	}
	return result, total, nil
}

// --- Helpers ---

func toSnapshotResponse(s model.ApproverSnapshot) ApproverSnapshotResponse {
	resp := ApproverSnapshotResponse{
		Approved:      s.Approved,
		Name:          s.Name,
		Role:          s.Role,
		Title:         s.Title,
		SignaturePath: s.SignaturePath,
		Designation:   s.Designation,
	}
	if s.ApprovedAt != nil {
		t := s.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &t
	}
	return resp
}

func toPurchaseRequestResponse(r *model.PurchaseRequest) PurchaseRequestResponse {
	items := make([]RequestItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, RequestItemResponse{
			ItemNo:        item.ItemNo,
			Description:   item.Description,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			BidData:       item.BidData,
			EstimatedCost: item.EstimatedCost.StringFixed(4),
		})
	}

	resp := PurchaseRequestResponse{
		ID:             r.ID.String(),
		PRNo:           r.PRNo,
		Department:     r.Department,
		Section:        r.Section,
		RequestDate:    r.RequestDate.Format("2006-01-02"),
		Status:         r.Status,
		Total:          r.Total.StringFixed(4),
		Items:          items,
		Officer:        toSnapshotResponse(r.Officer),
		Accountant:     toSnapshotResponse(r.Accountant),
		RejectedReason: r.RejectedReason,
		RejectedBy:     toSnapshotResponse(r.RejectedBy),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.Requester != nil {
		resp.RequesterName = r.Requester.FullName
	}
	return resp
}
