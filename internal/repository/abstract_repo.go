package repository

import (
	"context"

	"procurement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AbstractRepository defines data access for abstracts of bids
type AbstractRepository interface {
	Create(ctx context.Context, abstract *model.Abstract) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Abstract, error)
	List(ctx context.Context, page, limit int) ([]model.Abstract, int64, error)
}

type abstractRepository struct {
	db *gorm.DB
}

// NewAbstractRepository returns a new instance of AbstractRepository
func NewAbstractRepository(db *gorm.DB) AbstractRepository {
	return &abstractRepository{db: db}
}

func (r *abstractRepository) Create(ctx context.Context, abstract *model.Abstract) error {
	return GetDB(ctx, r.db).Create(abstract).Error
}

func (r *abstractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Abstract, error) {
	var abstract model.Abstract
	if err := GetDB(ctx, r.db).Preload("Items.Bids").Preload("Creator").
		First(&abstract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &abstract, nil
}

func (r *abstractRepository) List(ctx context.Context, page, limit int) ([]model.Abstract, int64, error) {
	var abstracts []model.Abstract
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Abstract{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items.Bids").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&abstracts).Error; err != nil {
		return nil, 0, err
	}

	return abstracts, total, nil
}
