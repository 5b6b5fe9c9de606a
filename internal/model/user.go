package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants — the fixed approval-chain roles plus admin
const (
	RoleRequester          = "REQUESTER"
	RoleProcurementOfficer = "PROCUREMENT_OFFICER"
	RoleAccountant         = "ACCOUNTANT"
	RolePresident          = "PRESIDENT"
	RoleAdmin              = "ADMIN"
)

// User is the central identity record. The name/title/designation/signature
// fields are what approval stages snapshot onto procurement documents.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role          string         `gorm:"type:varchar(50);not null;index" json:"role"`
	FullName      string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Title         string         `gorm:"type:varchar(255)" json:"title"`
	Designation   string         `gorm:"type:varchar(255)" json:"designation"`
	SignaturePath string         `gorm:"type:text" json:"signature_path"` // Path/URL of the stored signature image
	Department    string         `gorm:"type:varchar(255)" json:"department"`
	Section       string         `gorm:"type:varchar(255)" json:"section"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
