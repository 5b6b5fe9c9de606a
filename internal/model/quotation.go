package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quotation is the canvass form prepared by a procurement officer from an
// approved request. Items are copied from the request without cost data;
// prices arrive later through supplier quotations.
type Quotation struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PRNo       string          `gorm:"column:pr_no;type:varchar(30);not null;index" json:"pr_no"`
	Department string          `gorm:"type:varchar(255)" json:"department"`
	Section    string          `gorm:"type:varchar(255)" json:"section"`
	Items      []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuotationItem mirrors a request line item minus any cost fields
type QuotationItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ItemNo      int       `gorm:"type:int;not null" json:"item_no"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Unit        string    `gorm:"type:varchar(50);not null" json:"unit"`
}

// SupplierQuotation is one supplier's priced response to a quotation
type SupplierQuotation struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID uuid.UUID               `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Quotation   *Quotation              `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`
	Supplier    string                  `gorm:"type:varchar(255);not null" json:"supplier"`
	Items       []SupplierQuotationItem `gorm:"foreignKey:SupplierQuotationID;constraint:OnDelete:CASCADE" json:"items"`
	Total       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// SupplierQuotationItem carries the supplier's price for one line item
type SupplierQuotationItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierQuotationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_quotation_id"`
	ItemNo              int             `gorm:"type:int;not null" json:"item_no"`
	Description         string          `gorm:"type:text;not null" json:"description"`
	Quantity            int             `gorm:"type:int;not null" json:"quantity"`
	Unit                string          `gorm:"type:varchar(50);not null" json:"unit"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
}
