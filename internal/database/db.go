package database

import (
	"log"

	"procurement/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PurchaseRequest{},
		&model.PurchaseRequestItem{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Quotation{},
		&model.QuotationItem{},
		&model.SupplierQuotation{},
		&model.SupplierQuotationItem{},
		&model.Abstract{},
		&model.AbstractItem{},
		&model.AbstractBid{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
