package service

import (
	"context"
	"testing"

	"procurement/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	pending := newPendingRequest()
	rejected := newPendingRequest()
	rejected.PRNo = "PR-20250101-00002"
	rejected.Status = model.RequestStatusRejected
	order := newPendingOrder()

	audits := &fakeAuditRepo{}
	require.NoError(t, audits.Create(context.Background(), &model.AuditLog{Action: model.ActionCreateRequest, EntityID: pending.ID.String()}))

	svc := NewDashboardService(newFakeRequestRepo(pending, rejected), newFakeOrderRepo(order), audits)

	resp, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.RequestCounts[model.RequestStatusPending])
	assert.Equal(t, int64(1), resp.RequestCounts[model.RequestStatusRejected])
	assert.Equal(t, int64(1), resp.OrderCounts[model.OrderStatusPending])
	require.Len(t, resp.RecentActivity, 1)
	assert.Equal(t, model.ActionCreateRequest, resp.RecentActivity[0].Action)
}
