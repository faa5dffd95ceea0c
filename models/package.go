package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// Package type constants
const (
	PackageTypeMobile   = "mobile"
	PackageTypeInternet = "internet"
	PackageTypeModem    = "modem"
)

// Commitment value meaning "no contractual commitment"
const CommitmentNone = "yok"

// PackageDetails is a free-form attribute map stored as JSONB
type PackageDetails map[string]string

// Value implements the driver.Valuer interface for PackageDetails
func (d PackageDetails) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for PackageDetails
func (d *PackageDetails) Scan(value any) error {
	if value == nil {
		*d = PackageDetails{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into PackageDetails", value)
	}
}

// Package represents a sellable tariff package
// Table: packages
// Commitment is the raw commitment string as sold ("12 ay", "24 ay", "yok");
// parsing into months happens in the subscription flow
type Package struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`
	Type       string         `gorm:"type:varchar(50);not null;index" json:"type"`
	Details    PackageDetails `gorm:"type:jsonb;not null;default:'{}'" json:"details"`
	Commitment string         `gorm:"type:varchar(50);not null;default:''" json:"commitment"`
	MonthlyFee float64        `gorm:"type:numeric(12,2);not null;default:0" json:"monthly_fee"`
	IsActive   *bool          `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Package) TableName() string { return "packages" }

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.Details == nil {
		p.Details = PackageDetails{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// PackageFilter represents filter criteria for package queries
type PackageFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// PackagePatch lists the mutable fields of a package
type PackagePatch struct {
	Name       *string        `json:"name,omitempty"`
	Type       *string        `json:"type,omitempty"`
	Details    PackageDetails `json:"details,omitempty"`
	Commitment *string        `json:"commitment,omitempty"`
	MonthlyFee *float64       `json:"monthly_fee,omitempty"`
	IsActive   *bool          `json:"is_active,omitempty"`
}

func (p PackagePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Type != nil {
		cols["type"] = *p.Type
	}
	if p.Details != nil {
		cols["details"] = p.Details
	}
	if p.Commitment != nil {
		cols["commitment"] = *p.Commitment
	}
	if p.MonthlyFee != nil {
		cols["monthly_fee"] = *p.MonthlyFee
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}
