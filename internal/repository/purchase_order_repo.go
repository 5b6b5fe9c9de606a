package repository

import (
	"context"
	"fmt"
	"time"

	"procurement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseOrderRepository defines data access for purchase orders
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	ExistsByPRNo(ctx context.Context, prNo string) (bool, error)
	List(ctx context.Context, status string, page, limit int) ([]model.PurchaseOrder, int64, error)
	Update(ctx context.Context, order *model.PurchaseOrder) error
	NextPONo(ctx context.Context) (string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository returns a new instance of PurchaseOrderRepository
func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Creator").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate loads the order under a row lock for stage transitions
func (r *purchaseOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ExistsByPRNo reports whether an order was already issued for the request.
// The unique index on pr_no is the real guard; this check gives a readable
// Conflict before hitting the constraint.
func (r *purchaseOrderRepository) ExistsByPRNo(ctx context.Context, prNo string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("pr_no = ?", prNo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, status string, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Items").Preload("Creator")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) Update(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Save(order).Error
}

// NextPONo generates the next order number, PO-YYYYMMDD-NNNNN, under the
// same advisory-lock scheme as request numbers.
func (r *purchaseOrderRepository) NextPONo(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	prefix := "PO-" + time.Now().Format("20060102") + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.PurchaseOrder{}).
		Where("po_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (r *purchaseOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
