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

// PurchaseRequestRepository defines data access for purchase requests
type PurchaseRequestRepository interface {
	Create(ctx context.Context, req *model.PurchaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
	GetByPRNo(ctx context.Context, prNo string) (*model.PurchaseRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]model.PurchaseRequest, int64, error)
	Update(ctx context.Context, req *model.PurchaseRequest) error
	NextPRNo(ctx context.Context) (string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type purchaseRequestRepository struct {
	db *gorm.DB
}

// NewPurchaseRequestRepository returns a new instance of PurchaseRequestRepository
func NewPurchaseRequestRepository(db *gorm.DB) PurchaseRequestRepository {
	return &purchaseRequestRepository{db: db}
}

func (r *purchaseRequestRepository) Create(ctx context.Context, req *model.PurchaseRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *purchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Requester").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByIDForUpdate loads the request under a row lock so an approval's
// read-modify-write is serialized against concurrent transitions.
func (r *purchaseRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *purchaseRequestRepository) GetByPRNo(ctx context.Context, prNo string) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := GetDB(ctx, r.db).Preload("Items").First(&req, "pr_no = ?", prNo).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *purchaseRequestRepository) List(ctx context.Context, status string, page, limit int) ([]model.PurchaseRequest, int64, error) {
	var requests []model.PurchaseRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PurchaseRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Items").Preload("Requester")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *purchaseRequestRepository) Update(ctx context.Context, req *model.PurchaseRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

// NextPRNo generates the next request number, PR-YYYYMMDD-NNNNN. An advisory
// lock on the date prefix prevents concurrent duplicates.
func (r *purchaseRequestRepository) NextPRNo(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	prefix := "PR-" + time.Now().Format("20060102") + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.PurchaseRequest{}).
		Where("pr_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (r *purchaseRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.PurchaseRequest{}).
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
