package models

// Address is referenced by at most one User. User is the inverse side and is
// only populated by eager loads.
type Address struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null"`
	Zipcode string `gorm:"size:20"`
	State   string `gorm:"size:100"`
	User    *User  `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL"`
}

func (a *Address) TableName() string {
	return "addresses"
}

// AllModels lists every entity in dependency order, for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Address{},
		&User{},
		&UserDetails{},
	}
}
