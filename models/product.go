package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// The category is optional; when set, Category is the many-to-one side of
// Category.Products.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;uniqueIndex;not null"`
	Description string          `gorm:"size:100"`
	Price       decimal.Decimal `gorm:"type:decimal(7,2)"`
	CategoryID  *uint           `gorm:"index"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
}

func (p *Product) TableName() string {
	return "products"
}
