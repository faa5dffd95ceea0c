package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// Well-known agent intents; free-form values are allowed
const (
	IntentServiceRequest    = "ek_hizmet_talebi"
	IntentPackageChange     = "paket_degistirme"
	IntentCommitmentInquiry = "taahhut_sorgulama"
	IntentComplaint         = "complaint"
)

// AgentIntentLog is an append-only record of a classified customer
// interaction; rows are never updated after creation
// Table: agent_intent_logs
type AgentIntentLog struct {
	ID         uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint    `gorm:"index" json:"user_id,omitempty"`
	Intent     string   `gorm:"type:varchar(100);not null;index" json:"intent"`
	Message    string   `gorm:"type:text;not null" json:"message"`
	Confidence *float64 `gorm:"type:numeric(4,3)" json:"confidence,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (AgentIntentLog) TableName() string { return "agent_intent_logs" }

func (l *AgentIntentLog) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AgentIntentLogFilter represents filter criteria for intent log queries
type AgentIntentLogFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UserID        *uint      `json:"user_id,omitempty"`
	Intent        *string    `json:"intent,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
