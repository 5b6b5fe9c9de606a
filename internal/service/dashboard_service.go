package service

import (
	"context"

	"procurement/internal/repository"
)

// DashboardResponse aggregates document counts per workflow status plus the
// latest audit activity for the landing page.
type DashboardResponse struct {
	RequestCounts  map[string]int64   `json:"request_counts"`
	OrderCounts    map[string]int64   `json:"order_counts"`
	RecentActivity []AuditLogResponse `json:"recent_activity"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}

type dashboardService struct {
	requests repository.PurchaseRequestRepository
	orders   repository.PurchaseOrderRepository
	audits   repository.AuditRepository
}

// NewDashboardService returns a new instance of DashboardService
func NewDashboardService(
	requests repository.PurchaseRequestRepository,
	orders repository.PurchaseOrderRepository,
	audits repository.AuditRepository,
) DashboardService {
	return &dashboardService{requests: requests, orders: orders, audits: audits}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	requestCounts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	orderCounts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.audits.List(ctx, "", 1, 10)
	if err != nil {
		return nil, err
	}

	activity := make([]AuditLogResponse, 0, len(recent))
	for _, entry := range recent {
		activity = append(activity, toAuditResponse(entry))
	}

	return &DashboardResponse{
		RequestCounts:  requestCounts,
		OrderCounts:    orderCounts,
		RecentActivity: activity,
	}, nil
}
