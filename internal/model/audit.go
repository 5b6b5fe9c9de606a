package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequest   = "CREATE_PURCHASE_REQUEST"
	ActionApproveStage    = "APPROVE_STAGE"
	ActionRejectRequest   = "REJECT_PURCHASE_REQUEST"
	ActionCreateOrder     = "CREATE_PURCHASE_ORDER"
	ActionCreateQuotation = "CREATE_QUOTATION"
	ActionCreateSupplierQ = "CREATE_SUPPLIER_QUOTATION"
	ActionCreateAbstract  = "CREATE_ABSTRACT"
)

// AuditLog tracks Who, What, and When for every workflow mutation
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/document number)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name (PR-..., PO-...)
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
