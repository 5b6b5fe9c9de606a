package service

import (
	"context"
	"testing"

	"procurement/internal/model"
	"procurement/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderDTO(requestID string) CreatePurchaseOrderDTO {
	return CreatePurchaseOrderDTO{
		PurchaseRequestID: requestID,
		Supplier:          "Acme Supplies",
		Items: []CreateOrderItemDTO{
			{ItemNo: 1, Description: "Bond paper A4", Quantity: 10, Unit: "ream", UnitCost: "250.00"},
			{ItemNo: 2, Description: "Ballpoint pen", Quantity: 50, Unit: "piece", UnitCost: "12.50"},
		},
	}
}

func TestCreateOrderMarksRequestApproved(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := newPendingRequest()
	req.Officer = approvedSnapshot("Olive Officer")
	req.Accountant = approvedSnapshot("Alice Accountant")

	requests := newFakeRequestRepo(req)
	orders := newFakeOrderRepo()
	audits := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	svc := NewPurchaseOrderService(newFakeUserRepo(officer), requests, orders, audits, fakeTx{}, notifier)

	resp, err := svc.CreateOrder(context.Background(), orderDTO(req.ID.String()), officer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, req.PRNo, resp.PRNo)
	assert.Equal(t, model.OrderStatusPending, resp.Status)
	// 10*250.00 + 50*12.50
	assert.Equal(t, "3125.0000", resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "2500.0000", resp.Items[0].TotalCost)

	stored, err := requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, stored.Status)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionCreateOrder, audits.entries[0].Action)
	assert.Len(t, notifier.events, 1)
}

func TestCreateOrderRequiresAccountantApproval(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := newPendingRequest()
	req.Officer = approvedSnapshot("Olive Officer")

	requests := newFakeRequestRepo(req)
	orders := newFakeOrderRepo()
	svc := NewPurchaseOrderService(newFakeUserRepo(officer), requests, orders, &fakeAuditRepo{}, fakeTx{}, nil)

	_, err := svc.CreateOrder(context.Background(), orderDTO(req.ID.String()), officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.PreconditionFailed, apperr.KindOf(err))

	stored, err := requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, stored.Status)
}

func TestCreateOrderRejectedRequest(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := newPendingRequest()
	req.Status = model.RequestStatusRejected

	svc := NewPurchaseOrderService(newFakeUserRepo(officer), newFakeRequestRepo(req), newFakeOrderRepo(), &fakeAuditRepo{}, fakeTx{}, nil)

	_, err := svc.CreateOrder(context.Background(), orderDTO(req.ID.String()), officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestCreateOrderDuplicate(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := newPendingRequest()
	req.Officer = approvedSnapshot("Olive Officer")
	req.Accountant = approvedSnapshot("Alice Accountant")

	existing := newPendingOrder()
	existing.PRNo = req.PRNo

	svc := NewPurchaseOrderService(newFakeUserRepo(officer), newFakeRequestRepo(req), newFakeOrderRepo(existing), &fakeAuditRepo{}, fakeTx{}, nil)

	_, err := svc.CreateOrder(context.Background(), orderDTO(req.ID.String()), officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestCreateOrderRoleAndInputChecks(t *testing.T) {
	accountant := newTestUser(model.RoleAccountant, "Alice Accountant")
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := newPendingRequest()
	req.Officer = approvedSnapshot("Olive Officer")
	req.Accountant = approvedSnapshot("Alice Accountant")

	svc := NewPurchaseOrderService(newFakeUserRepo(accountant, officer), newFakeRequestRepo(req), newFakeOrderRepo(), &fakeAuditRepo{}, fakeTx{}, nil)

	_, err := svc.CreateOrder(context.Background(), orderDTO(req.ID.String()), accountant.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	dto := orderDTO(req.ID.String())
	dto.Items[0].UnitCost = "not-a-number"
	_, err = svc.CreateOrder(context.Background(), dto, officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.CreateOrder(context.Background(), orderDTO("not-a-uuid"), officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}
