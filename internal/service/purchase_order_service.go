package service

import (
	"context"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"
	"procurement/internal/workflow"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateOrderItemDTO struct {
	ItemNo      int    `json:"item_no" binding:"required"`
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Unit        string `json:"unit" binding:"required"`
	UnitCost    string `json:"unit_cost" binding:"required"`
}

type CreatePurchaseOrderDTO struct {
	PurchaseRequestID string               `json:"purchase_request_id" binding:"required"`
	Supplier          string               `json:"supplier" binding:"required"`
	Items             []CreateOrderItemDTO `json:"items" binding:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ItemNo      int    `json:"item_no"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	UnitCost    string `json:"unit_cost"`
	TotalCost   string `json:"total_cost"`
}

type PurchaseOrderResponse struct {
	ID          string                   `json:"id"`
	PONo        string                   `json:"po_no"`
	PRNo        string                   `json:"pr_no"`
	Supplier    string                   `json:"supplier"`
	Section     string                   `json:"section"`
	OrderDate   string                   `json:"order_date"`
	Status      string                   `json:"status"`
	Total       string                   `json:"total"`
	Items       []OrderItemResponse      `json:"items"`
	CreatorName string                   `json:"creator_name,omitempty"`
	Accountant  ApproverSnapshotResponse `json:"accountant"`
	President   ApproverSnapshotResponse `json:"president"`
	CreatedAt   string                   `json:"created_at"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreateOrder(ctx context.Context, dto CreatePurchaseOrderDTO, actingUserID string) (*PurchaseOrderResponse, error)
	GetOrder(ctx context.Context, id string) (*PurchaseOrderResponse, error)
	ListOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error)
}

type purchaseOrderService struct {
	users    repository.UserRepository
	requests repository.PurchaseRequestRepository
	orders   repository.PurchaseOrderRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
	notifier Notifier // optional
}

// NewPurchaseOrderService returns a new instance of PurchaseOrderService
func NewPurchaseOrderService(
	users repository.UserRepository,
	requests repository.PurchaseRequestRepository,
	orders repository.PurchaseOrderRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	notifier Notifier,
) PurchaseOrderService {
	return &purchaseOrderService{
		users:    users,
		requests: requests,
		orders:   orders,
		audits:   audits,
		tx:       tx,
		notifier: notifier,
	}
}

// --- Implementation ---

// CreateOrder issues a purchase order for an accountant-approved request.
// Creation also marks the source request APPROVED; that is the only path a
// request takes to its approved terminal state. At most one order may exist
// per request number.
func (s *purchaseOrderService) CreateOrder(ctx context.Context, dto CreatePurchaseOrderDTO, actingUserID string) (*PurchaseOrderResponse, error) {
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
		return nil, apperr.E(apperr.Forbidden, "only a procurement officer may issue a purchase order")
	}

	items := make([]model.PurchaseOrderItem, 0, len(dto.Items))
	total := decimal.Zero
	for _, item := range dto.Items {
		unitCost, parseErr := decimal.NewFromString(item.UnitCost)
		if parseErr != nil {
			return nil, apperr.Errorf(apperr.InvalidArgument, "invalid unit_cost for item %d", item.ItemNo)
		}
		lineTotal := unitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, model.PurchaseOrderItem{
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitCost:    unitCost,
			TotalCost:   lineTotal,
		})
	}

	var order *model.PurchaseOrder
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, txErr := s.requests.GetByIDForUpdate(txCtx, requestID)
		if txErr != nil {
			return notFoundOr(txErr, "purchase request not found")
		}

		if req.Status == model.RequestStatusRejected {
			return apperr.E(apperr.Conflict, "purchase request is rejected")
		}
		if !req.Accountant.Approved {
			return apperr.E(apperr.PreconditionFailed, "purchase request is not approved by the accountant")
		}

		exists, txErr := s.orders.ExistsByPRNo(txCtx, req.PRNo)
		if txErr != nil {
			return txErr
		}
		if exists {
			return apperr.Errorf(apperr.Conflict, "a purchase order already exists for %s", req.PRNo)
		}

		poNo, txErr := s.orders.NextPONo(txCtx)
		if txErr != nil {
			return txErr
		}

		order = &model.PurchaseOrder{
			PONo:      poNo,
			PRNo:      req.PRNo,
			Supplier:  dto.Supplier,
			Section:   req.Section,
			OrderDate: time.Now(),
			Status:    model.OrderStatusPending,
			Total:     total,
			Items:     items,
			CreatedBy: &officer.ID,
		}
		if txErr = s.orders.Create(txCtx, order); txErr != nil {
			return txErr
		}

		// Issuing the order is what finally marks the request approved
		req.Status = model.RequestStatusApproved
		if txErr = s.requests.Update(txCtx, req); txErr != nil {
			return txErr
		}

		return auditRecord(txCtx, s.audits, officer.ID, model.ActionCreateOrder, order.ID.String(), poNo, map[string]interface{}{
			"pr_no":    req.PRNo,
			"supplier": dto.Supplier,
			"total":    total.StringFixed(4),
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		broadcastEvent(s.notifier, WorkflowEvent{
			Event:    "order_created",
			Kind:     string(workflow.KindPurchaseOrder),
			RecordID: full.ID.String(),
			DocNo:    full.PONo,
			Status:   full.Status,
			Actor:    officer.FullName,
		})
	}

	resp := toPurchaseOrderResponse(full)
	return &resp, nil
}

func (s *purchaseOrderService) GetOrder(ctx context.Context, id string) (*PurchaseOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Errorf(apperr.InvalidArgument, "invalid record id: %s", id)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "purchase order not found")
	}

	resp := toPurchaseOrderResponse(order)
	return &resp, nil
}

func (s *purchaseOrderService) ListOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := s.orders.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toPurchaseOrderResponse(&orders[i]))
	}
	return result, total, nil
}

// --- Helpers ---

func toPurchaseOrderResponse(o *model.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitCost:    item.UnitCost.StringFixed(4),
			TotalCost:   item.TotalCost.StringFixed(4),
		})
	}

	resp := PurchaseOrderResponse{
		ID:         o.ID.String(),
		PONo:       o.PONo,
		PRNo:       o.PRNo,
		Supplier:   o.Supplier,
		Section:    o.Section,
		OrderDate:  o.OrderDate.Format("2006-01-02"),
		Status:     o.Status,
		Total:      o.Total.StringFixed(4),
		Items:      items,
		Accountant: toSnapshotResponse(o.Accountant),
		President:  toSnapshotResponse(o.President),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
	if o.Creator != nil {
		resp.CreatorName = o.Creator.FullName
	}
	return resp
}
