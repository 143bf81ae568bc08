package db

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Setting type discriminators, matching the platform_settings schema.
const (
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeDecimal = "decimal"
	TypeString  = "string"
)

// Setting categories.
const (
	CategoryCallManagement = "call_management"
	CategoryReferralSystem = "referral_system"
	CategoryAutomation     = "automation"
)

// PlatformSetting is one typed platform configuration row. Exactly one value
// column is populated, selected by SettingType.
type PlatformSetting struct {
	ID           uuid.UUID
	Key          string
	DisplayName  string
	Description  string
	Category     string
	SettingType  string
	StringValue  *string
	IntegerValue *int64
	DecimalValue *string // numeric(10,2), scanned as text
	BooleanValue *bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Value returns the populated value column as a display string.
func (s *PlatformSetting) Value() string {
	switch s.SettingType {
	case TypeBoolean:
		if s.BooleanValue != nil && *s.BooleanValue {
			return "Yes"
		}
		return "No"
	case TypeInteger:
		if s.IntegerValue == nil {
			return ""
		}
		return strconv.FormatInt(*s.IntegerValue, 10)
	case TypeDecimal:
		if s.DecimalValue == nil {
			return ""
		}
		return *s.DecimalValue
	default:
		if s.StringValue == nil {
			return ""
		}
		return "'" + *s.StringValue + "'"
	}
}

// ReferralSetting is one flat referral configuration row.
type ReferralSetting struct {
	ID          uuid.UUID
	Key         string
	Value       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is the subset of the platform users table the admin seeding tool
// touches.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// BootstrapRun is one row of the bootstrap ledger.
type BootstrapRun struct {
	ID          uuid.UUID
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
}
