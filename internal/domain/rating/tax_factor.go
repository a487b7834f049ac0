package rating

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxFactor is a leaf value under a tax event: a coded high-precision factor
type TaxFactor struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TaxEventID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code        string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:varchar(255)"`
	Value       decimal.Decimal `gorm:"type:decimal(18,8);not null"`
}

// TableName returns the table name for GORM
func (TaxFactor) TableName() string {
	return "factores_tributarios"
}

// NewTaxFactor builds a factor with a generated ID
func NewTaxFactor(code, description string, value decimal.Decimal) TaxFactor {
	return TaxFactor{
		ID:          uuid.New(),
		Code:        code,
		Description: description,
		Value:       value,
	}
}
