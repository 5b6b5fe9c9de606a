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

type AbstractBidDTO struct {
	Supplier  string `json:"supplier" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type AbstractItemDTO struct {
	ItemNo int              `json:"item_no" binding:"required"`
	Bids   []AbstractBidDTO `json:"bids" binding:"required,min=1,dive"`
}

type CreateAbstractDTO struct {
	PurchaseRequestID string            `json:"purchase_request_id" binding:"required"`
	Items             []AbstractItemDTO `json:"items" binding:"required,min=1,dive"`
	WinningSupplier   string            `json:"winning_supplier" binding:"required"`
}

type AbstractBidResponse struct {
	Supplier   string `json:"supplier"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type AbstractItemResponse struct {
	ItemNo      int                   `json:"item_no"`
	Description string                `json:"description"`
	Quantity    int                   `json:"quantity"`
	Unit        string                `json:"unit"`
	Bids        []AbstractBidResponse `json:"bids"`
}

type AbstractResponse struct {
	ID              string                 `json:"id"`
	PRNo            string                 `json:"pr_no"`
	Department      string                 `json:"department"`
	Section         string                 `json:"section"`
	Items           []AbstractItemResponse `json:"items"`
	WinningSupplier string                 `json:"winning_supplier"`
	WinningTotal    string                 `json:"winning_total"`
	CreatorName     string                 `json:"creator_name,omitempty"`
	CreatedAt       string                 `json:"created_at"`
}

// --- Interface ---

type AbstractService interface {
	CreateAbstract(ctx context.Context, dto CreateAbstractDTO, actingUserID string) (*AbstractResponse, error)
	GetAbstract(ctx context.Context, id string) (*AbstractResponse, error)
	ListAbstracts(ctx context.Context, page, limit int) ([]AbstractResponse, int64, error)
}

type abstractService struct {
	users     repository.UserRepository
	requests  repository.PurchaseRequestRepository
	abstracts repository.AbstractRepository
	audits    repository.AuditRepository
	tx        repository.TransactionManager
}

// NewAbstractService returns a new instance of AbstractService
func NewAbstractService(
	users repository.UserRepository,
	requests repository.PurchaseRequestRepository,
	abstracts repository.AbstractRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
) AbstractService {
	return &abstractService{users: users, requests: requests, abstracts: abstracts, audits: audits, tx: tx}
}

// --- Implementation ---

// CreateAbstract builds the abstract of bids for a request: line items are
// copied from the request, competing bids attached per item, and the declared
// winner's total computed from the winner's own bids.
func (s *abstractService) CreateAbstract(ctx context.Context, dto CreateAbstractDTO, actingUserID string) (*AbstractResponse, error) {
	requestID, err := uuid.Parse(dto.PurchaseRequestID)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid purchase_request_id: %s", dto.PurchaseRequestID)
	}

	if actingUserID == "" {
		return nil, apperr.E(apperr.Unauthorized, "no acting principal")
	}
	officer, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, apperr.E(apperr.Unauthorized, "acting principal could not be resolved")
	}
	if officer.Role != model.RoleProcurementOfficer {
		return nil, apperr.E(apperr.Forbidden, "only a procurement officer may prepare an abstract of bids")
	}

	var abstract *model.Abstract
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

		byItemNo := make(map[int]model.PurchaseRequestItem, len(req.Items))
		for _, item := range req.Items {
			byItemNo[item.ItemNo] = item
		}

		winningTotal := decimal.Zero
		items := make([]model.AbstractItem, 0, len(dto.Items))
		for _, entry := range dto.Items {
			source, ok := byItemNo[entry.ItemNo]
			if !ok {
				return apperr.Errorf(apperr.InvalidArgument, "purchase request has no item %d", entry.ItemNo)
			}

			bids := make([]model.AbstractBid, 0, len(entry.Bids))
			for _, bid := range entry.Bids {
				unitPrice, parseErr := decimal.NewFromString(bid.UnitPrice)
				if parseErr != nil {
					return apperr.Errorf(apperr.InvalidArgument, "invalid unit_price for item %d supplier %s", entry.ItemNo, bid.Supplier)
				}
				lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(source.Quantity)))
				if bid.Supplier == dto.WinningSupplier {
					winningTotal = winningTotal.Add(lineTotal)
				}
				bids = append(bids, model.AbstractBid{
					Supplier:   bid.Supplier,
					UnitPrice:  unitPrice,
					TotalPrice: lineTotal,
				})
			}

			items = append(items, model.AbstractItem{
				ItemNo:      source.ItemNo,
				Description: source.Description,
				Quantity:    source.Quantity,
				Unit:        source.Unit,
				Bids:        bids,
			})
		}

		abstract = &model.Abstract{
			PRNo:            req.PRNo,
			Department:      req.Department,
			Section:         req.Section,
			Items:           items,
			WinningSupplier: dto.WinningSupplier,
			WinningTotal:    winningTotal,
			CreatedBy:       &officer.ID,
		}
		if txErr = s.abstracts.Create(txCtx, abstract); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, officer.ID, model.ActionCreateAbstract, abstract.ID.String(), req.PRNo, map[string]interface{}{
			"winning_supplier": dto.WinningSupplier,
			"winning_total":    winningTotal.StringFixed(4),
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.abstracts.GetByID(ctx, abstract.ID)
	if err != nil {
		return nil, err
	}
	resp := toAbstractResponse(full)
	return &resp, nil
}

func (s *abstractService) GetAbstract(ctx context.Context, id string) (*AbstractResponse, error) {
	abstractID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", id)
	}

	abstract, err := s.abstracts.GetByID(ctx, abstractID)
	if err != nil {
		return nil, notFoundOr(err, "abstract not found")
	}

	resp := toAbstractResponse(abstract)
	return &resp, nil
}

func (s *abstractService) ListAbstracts(ctx context.Context, page, limit int) ([]AbstractResponse, int64, error) {
	abstracts, total, err := s.abstracts.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]AbstractResponse, 0, len(abstracts))
	for i := range abstracts {
		result = append(result, toAbstractResponse(&abstracts[i]))
	}
	return result, total, nil
}

// --- Helpers ---

func toAbstractResponse(a *model.Abstract) AbstractResponse {
	items := make([]AbstractItemResponse, 0, len(a.Items))
	for _, item := range a.Items {
		bids := make([]AbstractBidResponse, 0, len(item.Bids))
		for _, bid := range item.Bids {
			bids = append(bids, AbstractBidResponse{
				Supplier:   bid.Supplier,
				UnitPrice:  bid.UnitPrice.StringFixed(4),
				TotalPrice: bid.TotalPrice.StringFixed(4),
			})
		}
		items = append(items, AbstractItemResponse{
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Bids:        bids,
		})
	}

	resp := AbstractResponse{
		ID:              a.ID.String(),
		PRNo:            a.PRNo,
		Department:      a.Department,
		Section:         a.Section,
		Items:           items,
		WinningSupplier: a.WinningSupplier,
		WinningTotal:    a.WinningTotal.StringFixed(4),
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
	if a.Creator != nil {
		resp.CreatorName = a.Creator.FullName
	}
	return resp
}
