package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus enum constants
const (
	RequestStatusPending   = "PENDING"
	RequestStatusReviewing = "REVIEWING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusRejected  = "REJECTED"
)

// ApproverSnapshot is a point-in-time copy of the approving user's identity,
// embedded per stage. Later edits to the user's profile must not change what
// was stamped on the document, so nothing here references users.id.
type ApproverSnapshot struct {
	Approved      bool       `json:"approved"`
	Name          string     `gorm:"type:varchar(255)" json:"name"`
	Role          string     `gorm:"type:varchar(50)" json:"role"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	SignaturePath string     `gorm:"type:text" json:"signature_path"`
	Designation   string     `gorm:"type:varchar(255)" json:"designation"`
	ApprovedAt    *time.Time `json:"approved_at"`
}

// PurchaseRequest is the root document of the procurement chain. It is
// mutated in place by each approval stage; APPROVED and REJECTED are terminal.
type PurchaseRequest struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PRNo        string                `gorm:"column:pr_no;type:varchar(30);uniqueIndex;not null" json:"pr_no"`
	Department  string                `gorm:"type:varchar(255);not null" json:"department"`
	Section     string                `gorm:"type:varchar(255)" json:"section"`
	RequestDate time.Time             `gorm:"not null" json:"request_date"`
	Status      string                `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	Items       []PurchaseRequestItem `gorm:"foreignKey:PurchaseRequestID;constraint:OnDelete:CASCADE" json:"items"`

	RequestedBy *uuid.UUID `gorm:"type:uuid;index" json:"requested_by"`
	Requester   *User      `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`

	// Per-stage approver snapshots. A snapshot is populated iff its
	// Approved flag is true.
	Officer    ApproverSnapshot `gorm:"embedded;embeddedPrefix:officer_" json:"officer"`
	Accountant ApproverSnapshot `gorm:"embedded;embeddedPrefix:accountant_" json:"accountant"`

	// Rejection branch. The rejecting accountant's identity is kept apart
	// from the accountant approval snapshot so the flag stays false.
	RejectedReason string           `gorm:"type:text" json:"rejected_reason,omitempty"`
	RejectedBy     ApproverSnapshot `gorm:"embedded;embeddedPrefix:rejected_" json:"rejected_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseRequestItem is a single requested line item. BidData holds the
// per-item bid blob filled in during canvassing; it is opaque to the workflow.
type PurchaseRequestItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_request_id"`
	ItemNo            int             `gorm:"type:int;not null" json:"item_no"`
	Description       string          `gorm:"type:text;not null" json:"description"`
	Quantity          int             `gorm:"type:int;not null" json:"quantity"`
	Unit              string          `gorm:"type:varchar(50);not null" json:"unit"`
	BidData           string          `gorm:"type:jsonb;default:'{}'" json:"bid_data"`
	EstimatedCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"estimated_cost"`
}
