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

type QuotationItemResponse struct {
	ItemNo      int    `json:"item_no"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

type QuotationResponse struct {
	ID          string                  `json:"id"`
	PRNo        string                  `json:"pr_no"`
	Department  string                  `json:"department"`
	Section     string                  `json:"section"`
	Items       []QuotationItemResponse `json:"items"`
	CreatorName string                  `json:"creator_name,omitempty"`
	CreatedAt   string                  `json:"created_at"`
}

type SupplierQuotationItemDTO struct {
	ItemNo    int    `json:"item_no" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type CreateSupplierQuotationDTO struct {
	QuotationID string                     `json:"quotation_id"`
	Supplier    string                     `json:"supplier" binding:"required"`
	Items       []SupplierQuotationItemDTO `json:"items" binding:"required,min=1,dive"`
}

type SupplierQuotationItemResponse struct {
	ItemNo      int    `json:"item_no"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type SupplierQuotationResponse struct {
	ID          string                          `json:"id"`
	QuotationID string                          `json:"quotation_id"`
	Supplier    string                          `json:"supplier"`
	Items       []SupplierQuotationItemResponse `json:"items"`
	Total       string                          `json:"total"`
	CreatedAt   string                          `json:"created_at"`
}

// --- Interface ---

type QuotationService interface {
	CreateFromRequest(ctx context.Context, purchaseRequestID string, actingUserID string) (*QuotationResponse, error)
	GetQuotation(ctx context.Context, id string) (*QuotationResponse, error)
	ListQuotations(ctx context.Context, page, limit int) ([]QuotationResponse, int64, error)
	CreateSupplierQuotation(ctx context.Context, dto CreateSupplierQuotationDTO, actingUserID string) (*SupplierQuotationResponse, error)
	ListSupplierQuotations(ctx context.Context, quotationID string) ([]SupplierQuotationResponse, error)
}

type quotationService struct {
	users      repository.UserRepository
	requests   repository.PurchaseRequestRepository
	quotations repository.QuotationRepository
	audits     repository.AuditRepository
	tx         repository.TransactionManager
}

// NewQuotationService returns a new instance of QuotationService
func NewQuotationService(
	users repository.UserRepository,
	requests repository.PurchaseRequestRepository,
	quotations repository.QuotationRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
) QuotationService {
	return &quotationService{users: users, requests: requests, quotations: quotations, audits: audits, tx: tx}
}

// --- Implementation ---

// CreateFromRequest copies department/section/number and each line item's
// descriptive fields from an accountant-approved request. Cost data is left
// empty; it arrives later through supplier quotations.
func (s *quotationService) CreateFromRequest(ctx context.Context, purchaseRequestID string, actingUserID string) (*QuotationResponse, error) {
	requestID, err := uuid.Parse(purchaseRequestID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid purchase_request_id: %s", purchaseRequestID)
	}

	if actingUserID == "" {
		return nil, apperr.E(apperr.Unauthorized, "no acting principal")
	}
	officer, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, apperr.E(apperr.Unauthorized, "acting principal could not be resolved")
	}
	if officer.Role != model.RoleProcurementOfficer {
		return nil, apperr.E(apperr.Forbidden, "only a procurement officer may prepare a quotation")
	}

	var quotation *model.Quotation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, txErr := s.requests.GetByID(txCtx, requestID)
		if txErr != nil {
			return notFoundOr(txErr, "purchase request not found")
		}

		if req.Status == model.RequestStatusRejected {
			return apperr.E(apperr.Conflict, "purchase request is rejected")
		}
		if !req.Accountant.Approved {
			return apperr.E(apperr.PreconditionFailed, "purchase request is not approved by the accountant")
		}

		items := make([]model.QuotationItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, model.QuotationItem{
				ItemNo:      item.ItemNo,
				Description: item.Description,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
			})
		}

		quotation = &model.Quotation{
			PRNo:       req.PRNo,
			Department: req.Department,
			Section:    req.Section,
			Items:      items,
			CreatedBy:  &officer.ID,
		}
		if txErr = s.quotations.Create(txCtx, quotation); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, officer.ID, model.ActionCreateQuotation, quotation.ID.String(), req.PRNo, map[string]interface{}{
			"items": len(items),
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.quotations.GetByID(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}
	resp := toQuotationResponse(full)
	return &resp, nil
}

func (s *quotationService) GetQuotation(ctx context.Context, id string) (*QuotationResponse, error) {
	quotationID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", id)
	}

	quotation, err := s.quotations.GetByID(ctx, quotationID)
	if err != nil {
		return nil, notFoundOr(err, "quotation not found")
	}

	resp := toQuotationResponse(quotation)
	return &resp, nil
}

func (s *quotationService) ListQuotations(ctx context.Context, page, limit int) ([]QuotationResponse, int64, error) {
	quotations, total, err := s.quotations.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		result = append(result, toQuotationResponse(&quotations[i]))
	}
	return result, total, nil
}

// CreateSupplierQuotation records one supplier's prices against a quotation's
// items. Quantity, unit and description are copied from the quotation; only
// prices come from the caller.
func (s *quotationService) CreateSupplierQuotation(ctx context.Context, dto CreateSupplierQuotationDTO, actingUserID string) (*SupplierQuotationResponse, error) {
	quotationID, err := uuid.Parse(dto.QuotationID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid quotation_id: %s", dto.QuotationID)
	}

	if actingUserID == "" {
		return nil, apperr.E(apperr.Unauthorized, "no acting principal")
	}
	officer, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, apperr.E(apperr.Unauthorized, "acting principal could not be resolved")
	}
	if officer.Role != model.RoleProcurementOfficer {
		return nil, apperr.E(apperr.Forbidden, "only a procurement officer may record supplier quotations")
	}

	var sq *model.SupplierQuotation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quotation, txErr := s.quotations.GetByID(txCtx, quotationID)
		if txErr != nil {
			return notFoundOr(txErr, "quotation not found")
		}

		byItemNo := make(map[int]model.QuotationItem, len(quotation.Items))
		for _, item := range quotation.Items {
			byItemNo[item.ItemNo] = item
		}

		items := make([]model.SupplierQuotationItem, 0, len(dto.Items))
		total := decimal.Zero
		for _, priced := range dto.Items {
			source, ok := byItemNo[priced.ItemNo]
			if !ok {
				return apperr.Errorf(apperr.InvalidArgument, "quotation has no item %d", priced.ItemNo)
			}
			unitPrice, parseErr := decimal.NewFromString(priced.UnitPrice)
			if parseErr != nil {
				return apperr.Errorf(apperr.InvalidArgument, "invalid unit_price for item %d", priced.ItemNo)
			}
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(source.Quantity)))
			total = total.Add(lineTotal)

			items = append(items, model.SupplierQuotationItem{
				ItemNo:      source.ItemNo,
				Description: source.Description,
				Quantity:    source.Quantity,
				Unit:        source.Unit,
				UnitPrice:   unitPrice,
				TotalPrice:  lineTotal,
			})
		}

		sq = &model.SupplierQuotation{
			QuotationID: quotation.ID,
			Supplier:    dto.Supplier,
			Items:       items,
			Total:       total,
		}
		if txErr = s.quotations.CreateSupplierQuotation(txCtx, sq); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, officer.ID, model.ActionCreateSupplierQ, sq.ID.String(), quotation.PRNo, map[string]interface{}{
			"supplier": dto.Supplier,
			"total":    total.StringFixed(4),
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toSupplierQuotationResponse(sq)
	return &resp, nil
}

func (s *quotationService) ListSupplierQuotations(ctx context.Context, quotationID string) ([]SupplierQuotationResponse, error) {
	id, err := uuid.Parse(quotationID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid quotation_id: %s", quotationID)
	}

	sqs, err := s.quotations.ListSupplierQuotations(ctx, id)
	if err != nil {
		return nil, err
	}

	result := make([]SupplierQuotationResponse, 0, len(sqs))
	for i := range sqs {
		result = append(result, toSupplierQuotationResponse(&sqs[i]))
	}
	return result, nil
}

// --- Helpers ---

func toQuotationResponse(q *model.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, QuotationItemResponse{
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
		})
	}

	resp := QuotationResponse{
		ID:         q.ID.String(),
		PRNo:       q.PRNo,
		Department: q.Department,
		Section:    q.Section,
		Items:      items,
		CreatedAt:  q.CreatedAt.Format(time.RFC3339),
	}
	if q.Creator != nil {
		resp.CreatorName = q.Creator.FullName
	}
	return resp
}

func toSupplierQuotationResponse(sq *model.SupplierQuotation) SupplierQuotationResponse {
	items := make([]SupplierQuotationItemResponse, 0, len(sq.Items))
	for _, item := range sq.Items {
		items = append(items, SupplierQuotationItemResponse{
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice.StringFixed(4),
			TotalPrice:  item.TotalPrice.StringFixed(4),
		})
	}

	return SupplierQuotationResponse{
		ID:          sq.ID.String(),
		QuotationID: sq.QuotationID.String(),
		Supplier:    sq.Supplier,
		Items:       items,
		Total:       sq.Total.StringFixed(4),
		CreatedAt:   sq.CreatedAt.Format(time.RFC3339),
	}
}
