package models

// Category represents a product category.
// Name is unique; deleting a category leaves its products uncategorized.
type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:100;uniqueIndex;not null"`
	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

func (c *Category) TableName() string {
	return "categories"
}
