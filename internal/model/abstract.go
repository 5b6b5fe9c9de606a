package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Abstract is the abstract of bids: for each requested item, the competing
// supplier bids side by side, plus the declared winning supplier and total.
type Abstract struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PRNo            string          `gorm:"column:pr_no;type:varchar(30);not null;index" json:"pr_no"`
	Department      string          `gorm:"type:varchar(255)" json:"department"`
	Section         string          `gorm:"type:varchar(255)" json:"section"`
	Items           []AbstractItem  `gorm:"foreignKey:AbstractID;constraint:OnDelete:CASCADE" json:"items"`
	WinningSupplier string          `gorm:"type:varchar(255)" json:"winning_supplier"`
	WinningTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"winning_total"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AbstractItem is one requested line item with its set of competing bids
type AbstractItem struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AbstractID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"abstract_id"`
	ItemNo      int           `gorm:"type:int;not null" json:"item_no"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Quantity    int           `gorm:"type:int;not null" json:"quantity"`
	Unit        string        `gorm:"type:varchar(50);not null" json:"unit"`
	Bids        []AbstractBid `gorm:"foreignKey:AbstractItemID;constraint:OnDelete:CASCADE" json:"bids"`
}

// AbstractBid is one supplier's bid on one abstract line item
type AbstractBid struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AbstractItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"abstract_item_id"`
	Supplier       string          `gorm:"type:varchar(255);not null" json:"supplier"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
}
