package repository

import (
	"context"

	"procurement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuotationRepository defines data access for quotations and the supplier
// quotations canvassed against them
type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, page, limit int) ([]model.Quotation, int64, error)
	CreateSupplierQuotation(ctx context.Context, sq *model.SupplierQuotation) error
	ListSupplierQuotations(ctx context.Context, quotationID uuid.UUID) ([]model.SupplierQuotation, error)
}

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository returns a new instance of QuotationRepository
func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Create(quotation).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Creator").First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *quotationRepository) List(ctx context.Context, page, limit int) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Quotation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *quotationRepository) CreateSupplierQuotation(ctx context.Context, sq *model.SupplierQuotation) error {
	return GetDB(ctx, r.db).Create(sq).Error
}

func (r *quotationRepository) ListSupplierQuotations(ctx context.Context, quotationID uuid.UUID) ([]model.SupplierQuotation, error) {
	var sqs []model.SupplierQuotation
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("quotation_id = ?", quotationID).
		Order("created_at ASC").
		Find(&sqs).Error; err != nil {
		return nil, err
	}
	return sqs, nil
}
