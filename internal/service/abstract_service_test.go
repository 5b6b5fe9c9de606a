package service

import (
	"context"
	"testing"

	"procurement/internal/model"
	"procurement/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAbstractComputesWinningTotal(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := requestWithItems()

	abstracts := newFakeAbstractRepo()
	audits := &fakeAuditRepo{}
	svc := NewAbstractService(newFakeUserRepo(officer), newFakeRequestRepo(req), abstracts, audits, fakeTx{})

	resp, err := svc.CreateAbstract(context.Background(), CreateAbstractDTO{
		PurchaseRequestID: req.ID.String(),
		WinningSupplier:   "Acme Supplies",
		Items: []AbstractItemDTO{
			{ItemNo: 1, Bids: []AbstractBidDTO{
				{Supplier: "Acme Supplies", UnitPrice: "240.00"},
				{Supplier: "Best Goods", UnitPrice: "260.00"},
			}},
			{ItemNo: 2, Bids: []AbstractBidDTO{
				{Supplier: "Acme Supplies", UnitPrice: "11.00"},
				{Supplier: "Best Goods", UnitPrice: "10.00"},
			}},
		},
	}, officer.ID.String())
	require.NoError(t, err)

	assert.Equal(t, req.PRNo, resp.PRNo)
	assert.Equal(t, "Acme Supplies", resp.WinningSupplier)
	// 10*240.00 + 50*11.00, only the winner's bids count
	assert.Equal(t, "2950.0000", resp.WinningTotal)

	require.Len(t, resp.Items, 2)
	require.Len(t, resp.Items[0].Bids, 2)
	assert.Equal(t, "Best Goods", resp.Items[0].Bids[1].Supplier)
	assert.Equal(t, "2600.0000", resp.Items[0].Bids[1].TotalPrice)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionCreateAbstract, audits.entries[0].Action)
}

func TestCreateAbstractPreconditions(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	requester := newTestUser(model.RoleRequester, "Rita Requester")

	unapproved := newPendingRequest()

	svc := NewAbstractService(newFakeUserRepo(officer, requester), newFakeRequestRepo(unapproved), newFakeAbstractRepo(), &fakeAuditRepo{}, fakeTx{})

	dto := CreateAbstractDTO{
		PurchaseRequestID: unapproved.ID.String(),
		WinningSupplier:   "Acme Supplies",
		Items:             []AbstractItemDTO{{ItemNo: 1, Bids: []AbstractBidDTO{{Supplier: "Acme Supplies", UnitPrice: "240.00"}}}},
	}

	_, err := svc.CreateAbstract(context.Background(), dto, officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.PreconditionFailed, apperr.KindOf(err))

	_, err = svc.CreateAbstract(context.Background(), dto, requester.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestCreateAbstractUnknownItem(t *testing.T) {
	officer := newTestUser(model.RoleProcurementOfficer, "Olive Officer")
	req := requestWithItems()

	svc := NewAbstractService(newFakeUserRepo(officer), newFakeRequestRepo(req), newFakeAbstractRepo(), &fakeAuditRepo{}, fakeTx{})

	_, err := svc.CreateAbstract(context.Background(), CreateAbstractDTO{
		PurchaseRequestID: req.ID.String(),
		WinningSupplier:   "Acme Supplies",
		Items:             []AbstractItemDTO{{ItemNo: 42, Bids: []AbstractBidDTO{{Supplier: "Acme Supplies", UnitPrice: "240.00"}}}},
	}, officer.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
}
