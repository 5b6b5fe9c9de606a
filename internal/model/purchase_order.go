package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enum constants. Purchase orders have no rejected state; a bad
// order is abandoned and re-derived from a new request.
const (
	OrderStatusPending  = "PENDING"
	OrderStatusApproved = "APPROVED"
)

// PurchaseOrder is issued to the winning supplier once the source request
// clears the accountant stage. It carries its own two-stage approval
// (accountant then president); president approval makes it APPROVED.
type PurchaseOrder struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONo      string              `gorm:"column:po_no;type:varchar(30);uniqueIndex;not null" json:"po_no"`
	PRNo      string              `gorm:"column:pr_no;type:varchar(30);uniqueIndex;not null" json:"pr_no"` // One order per source request
	Supplier  string              `gorm:"type:varchar(255);not null" json:"supplier"`
	Section   string              `gorm:"type:varchar(255)" json:"section"`
	OrderDate time.Time           `gorm:"not null" json:"order_date"`
	Status    string              `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	Items     []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	Accountant ApproverSnapshot `gorm:"embedded;embeddedPrefix:accountant_" json:"accountant"`
	President  ApproverSnapshot `gorm:"embedded;embeddedPrefix:president_" json:"president"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseOrderItem is a priced line item on a purchase order
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ItemNo          int             `gorm:"type:int;not null" json:"item_no"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	Unit            string          `gorm:"type:varchar(50);not null" json:"unit"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_cost"`
}
